package records

// GroupSize 为每组记录数。
const GroupSize = 3

// Group 是固定长度的一组记录，不足时以空记录补齐。
type Group []Record

// Duplicate 将记录按 size 分组，最后一组不足时在尾部补空记录，
// 然后每组连续追加两次（每张卡片打印两份）。两份之间互不共享底层数组。
func Duplicate(recs []Record, size int) []Group {
	if size <= 0 {
		size = GroupSize
	}
	groups := make([]Group, 0, 2*((len(recs)+size-1)/size))
	for start := 0; start < len(recs); start += size {
		end := min(start+size, len(recs))
		chunk := make(Group, size)
		copy(chunk, recs[start:end])

		dup := make(Group, size)
		copy(dup, chunk)
		groups = append(groups, chunk, dup)
	}
	return groups
}

// Flatten 按顺序展开分组，得到排版使用的卡片序列。
func Flatten(groups []Group) []Record {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	cards := make([]Record, 0, n)
	for _, g := range groups {
		cards = append(cards, g...)
	}
	return cards
}
