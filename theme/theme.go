package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTheme 表示按名称找不到主题。
var ErrUnknownTheme = errors.New("未知主题")

// Default 为未指定主题时使用的名称。
const Default = "red"

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Theme 描述一套卡片底图：底图来源以及它对排版的偏移影响。
type Theme struct {
	Name string `json:"name"`
	// Image 为整页底图（png/jpeg/gif）；为空时按 Fill/Accent 绘制矢量卡片框。
	Image  string `json:"image,omitempty"`
	Fill   Color  `json:"fill"`
	Accent Color  `json:"accent"`
	// SubtitleOffset 为副标题框的纵向偏移（pt），不同底图的票数栏位置略有差异。
	SubtitleOffset float64 `json:"subtitleOffset"`
}

// Store 按名称保存模板类资源。
type Store[T any] struct {
	items map[string]T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{items: make(map[string]T)}
}

func (s *Store[T]) Put(key string, item T) {
	s.items[normalize(key)] = item
}

func (s *Store[T]) Get(key string) (T, bool) {
	item, ok := s.items[normalize(key)]
	return item, ok
}

// Names 返回已登记的名称（排序后）。
func (s *Store[T]) Names() []string {
	names := make([]string, 0, len(s.items))
	for k := range s.items {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone 复制一份，便于在默认主题上叠加配置而不修改原表。
func (s *Store[T]) Clone() *Store[T] {
	out := NewStore[T]()
	for k, v := range s.items {
		out.items[k] = v
	}
	return out
}

// Builtins 返回内置的红、黄两套主题。
func Builtins() *Store[Theme] {
	s := NewStore[Theme]()
	s.Put("red", Theme{
		Name:   "red",
		Fill:   Color{R: 253, G: 236, B: 234},
		Accent: Color{R: 200, G: 30, B: 45},
	})
	s.Put("yellow", Theme{
		Name:           "yellow",
		Fill:           Color{R: 255, G: 246, B: 200},
		Accent:         Color{R: 224, G: 176, B: 0},
		SubtitleOffset: 4,
	})
	return s
}

// Lookup 按名称查找主题，名称为空时取 Default。
func Lookup(s *Store[Theme], name string) (Theme, error) {
	if strings.TrimSpace(name) == "" {
		name = Default
	}
	th, ok := s.Get(name)
	if !ok {
		return Theme{}, fmt.Errorf("%w %q（可选：%s）", ErrUnknownTheme, name, strings.Join(s.Names(), ", "))
	}
	return th, nil
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
