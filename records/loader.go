package records

import (
	"errors"
	"fmt"
	"strings"
)

// 默认列名与分隔符，与导出的报名表保持一致。
const (
	DefaultDelimiter     = ';'
	DefaultNameColumn    = "name"
	DefaultTicketsColumn = "tickets"
)

// ErrEmptyInput 表示输入中连表头都没有。
var ErrEmptyInput = errors.New("输入为空，缺少表头")

// Record 是一行输入里需要的字段。票数保持文本形式，只用于展示。
type Record struct {
	Name        string `json:"name"`
	TicketCount string `json:"tickets"`
}

// IsEmpty 报告该记录是否为分组补齐用的空记录。
func (r Record) IsEmpty() bool { return r.Name == "" && r.TicketCount == "" }

// Fields 返回供模板插值使用的字段表。
func (r Record) Fields() map[string]string {
	return map[string]string{
		DefaultNameColumn:    r.Name,
		DefaultTicketsColumn: r.TicketCount,
	}
}

// ParseOptions 控制表头查找与分隔符。
type ParseOptions struct {
	Delimiter     rune
	NameColumn    string
	TicketsColumn string
}

func (o ParseOptions) withDefaults() ParseOptions {
	if o.Delimiter == 0 {
		o.Delimiter = DefaultDelimiter
	}
	if o.NameColumn == "" {
		o.NameColumn = DefaultNameColumn
	}
	if o.TicketsColumn == "" {
		o.TicketsColumn = DefaultTicketsColumn
	}
	return o
}

// ColumnNotFoundError 表示表头中缺少必需的列。
type ColumnNotFoundError struct {
	Column string
	Header []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("表头中找不到列 %q（现有列：%s）", e.Column, strings.Join(e.Header, ", "))
}

// MalformedRowError 表示某一数据行的字段数少于表头。
// Line 为源文件中的行号（从 1 开始，表头为第 1 行）。
type MalformedRowError struct {
	Line int
	Got  int
	Want int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("第 %d 行字段数不足：得到 %d 个，需要 %d 个", e.Line, e.Got, e.Want)
}

// Parse 将分隔文本解析为记录序列。第一行为表头，按列名定位 name/tickets 两列，
// 之后每行按分隔符拆分并只取这两列，顺序与输入一致。
func Parse(lines []string, opts ParseOptions) ([]Record, error) {
	opts = opts.withDefaults()
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}
	sep := string(opts.Delimiter)
	header := strings.Split(lines[0], sep)

	nameIdx, err := columnIndex(header, opts.NameColumn)
	if err != nil {
		return nil, err
	}
	ticketsIdx, err := columnIndex(header, opts.TicketsColumn)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(lines)-1)
	for i, line := range lines[1:] {
		fields := strings.Split(line, sep)
		if len(fields) < len(header) {
			return nil, &MalformedRowError{Line: i + 2, Got: len(fields), Want: len(header)}
		}
		out = append(out, Record{
			Name:        fields[nameIdx],
			TicketCount: fields[ticketsIdx],
		})
	}
	return out, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if col == name {
			return i, nil
		}
	}
	return -1, &ColumnNotFoundError{Column: name, Header: header}
}
