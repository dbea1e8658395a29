package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/ticketcards/dsl"
	"github.com/ByLCY/ticketcards/records"
	"github.com/ByLCY/ticketcards/theme"
)

// Config 汇总一次生成所需的版式参数。长度单位均为 pt。
type Config struct {
	Page        PageSize
	Grid        Grid
	Title       BoxTemplate
	Subtitle    BoxTemplate
	Font        FontSpec
	TextColor   Color
	LineSpacing float64
	Source      records.ParseOptions
	Meta        DocumentMeta
	Themes      *theme.Store[theme.Theme]
}

var pagePresets = map[string]PageSize{
	"A4":     {Name: "A4", Width: 595.28, Height: 841.89},
	"A5":     {Name: "A5", Width: 419.53, Height: 595.28},
	"LETTER": {Name: "Letter", Width: 612, Height: 792},
}

// DefaultConfig 返回 A4 纵向、7 行 3 列的默认抽奖券版式。
func DefaultConfig() Config {
	return Config{
		Page: pagePresets["A4"],
		Grid: Grid{Rows: 7, Columns: 3, XSpacing: 181, YSpacing: 108},
		Title: BoxTemplate{
			XPadding: 10, YPadding: 20, Width: 160, Height: 35,
			Text: "${" + records.DefaultNameColumn + "}",
		},
		Subtitle: BoxTemplate{
			XPadding: 20, YPadding: 71, Width: 140, Height: 31,
			Text: "${" + records.DefaultTicketsColumn + "}",
		},
		Font:        FontSpec{Src: "builtin:go-bold", Style: "bold", Size: 12},
		LineSpacing: DefaultLineSpacing,
		Source: records.ParseOptions{
			Delimiter:     records.DefaultDelimiter,
			NameColumn:    records.DefaultNameColumn,
			TicketsColumn: records.DefaultTicketsColumn,
		},
		Meta:   DocumentMeta{Creator: "ticketcards"},
		Themes: theme.Builtins(),
	}
}

// Validate 检查配置是否可用于排版。
func (c Config) Validate() error {
	var errs []error
	if c.Grid.Rows <= 0 || c.Grid.Columns <= 0 {
		errs = append(errs, fmt.Errorf("%w: rows=%d columns=%d", ErrInvalidGrid, c.Grid.Rows, c.Grid.Columns))
	}
	if c.Font.Size <= 0 {
		errs = append(errs, fmt.Errorf("字号必须大于 0，实际 %g", c.Font.Size))
	}
	if c.LineSpacing <= 0 {
		errs = append(errs, fmt.Errorf("行距倍数必须大于 0，实际 %g", c.LineSpacing))
	}
	if c.Page.Width <= 0 || c.Page.Height <= 0 {
		errs = append(errs, fmt.Errorf("纸张尺寸无效：%gx%g", c.Page.Width, c.Page.Height))
	}
	if c.Themes == nil {
		errs = append(errs, errors.New("缺少主题表"))
	}
	return errors.Join(errs...)
}

// LoadConfig 读取布局文件；path 为空时返回默认版式。
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	doc, err := dsl.ParseFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("解析布局文件失败: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument 以默认版式为基础，依次应用布局文件中的语句。
func FromDocument(doc *dsl.Document) (Config, error) {
	cfg := DefaultConfig()
	if doc == nil || doc.Block == nil {
		return cfg, errors.New("布局文档为空")
	}
	cfg.Meta.Title = doc.Name
	cfg.Themes = cfg.Themes.Clone()

	for _, st := range doc.Block.Statements {
		if st.Assignment != nil {
			return cfg, fmt.Errorf("%s: 顶层不支持赋值语句 %s", st.Assignment.Pos, st.Assignment.Key)
		}
		cmd := st.Command
		var err error
		switch cmd.Name {
		case "meta":
			err = applyMeta(&cfg.Meta, cmd)
		case "page":
			err = applyPage(&cfg.Page, cmd)
		case "grid":
			err = applyGrid(&cfg.Grid, cmd)
		case "font":
			err = applyFont(&cfg.Font, cmd)
		case "color":
			cfg.TextColor, err = theme.ParseColor(firstArg(cmd))
		case "line-spacing":
			cfg.LineSpacing, err = strconv.ParseFloat(firstArg(cmd), 64)
		case "columns":
			err = applyColumns(&cfg.Source, cmd)
		case "delimiter":
			err = applyDelimiter(&cfg.Source, cmd)
		case "title":
			err = applyBox(&cfg.Title, cmd)
		case "subtitle":
			err = applyBox(&cfg.Subtitle, cmd)
		case "theme":
			err = applyTheme(cfg.Themes, cmd)
		default:
			err = errors.New("未知指令")
		}
		if err != nil {
			return cfg, fmt.Errorf("%s: %s: %w", cmd.Pos, cmd.Name, err)
		}
	}
	return cfg, cfg.Validate()
}

func applyMeta(meta *DocumentMeta, cmd *dsl.Command) error {
	if cmd.Block == nil {
		return errors.New("缺少 { } 内容")
	}
	for _, st := range cmd.Block.Statements {
		a := st.Assignment
		if a == nil {
			return fmt.Errorf("meta 中只允许 key: value")
		}
		switch a.Key {
		case "title":
			meta.Title = a.Value.Text()
		case "author":
			meta.Author = a.Value.Text()
		case "subject":
			meta.Subject = a.Value.Text()
		case "creator":
			meta.Creator = a.Value.Text()
		case "keywords":
			meta.Keywords = valueStrings(a.Value)
		default:
			return fmt.Errorf("未知的 meta 字段 %s", a.Key)
		}
	}
	return nil
}

func applyPage(page *PageSize, cmd *dsl.Command) error {
	args := argValues(cmd)
	if len(args) == 0 {
		return errors.New("缺少纸张尺寸")
	}
	if preset, ok := pagePresets[strings.ToUpper(args[0])]; ok {
		*page = preset
		args = args[1:]
	} else {
		if len(args) < 2 {
			return fmt.Errorf("暂不支持的纸张尺寸：%s", args[0])
		}
		w, err := lengthPT(args[0])
		if err != nil {
			return err
		}
		h, err := lengthPT(args[1])
		if err != nil {
			return err
		}
		*page = PageSize{Name: "custom", Width: w, Height: h}
		args = args[2:]
	}
	for _, a := range args {
		switch a {
		case "landscape":
			if page.Width < page.Height {
				page.Width, page.Height = page.Height, page.Width
			}
		case "portrait":
			if page.Width > page.Height {
				page.Width, page.Height = page.Height, page.Width
			}
		default:
			return fmt.Errorf("未知的纸张参数 %s", a)
		}
	}
	return nil
}

func applyGrid(grid *Grid, cmd *dsl.Command) error {
	args := argValues(cmd)
	for i := 0; i < len(args); i++ {
		key := args[i]
		switch key {
		case "rows", "columns":
			if i+1 >= len(args) {
				return fmt.Errorf("%s 缺少数值", key)
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return fmt.Errorf("%s 需要整数: %w", key, err)
			}
			if key == "rows" {
				grid.Rows = n
			} else {
				grid.Columns = n
			}
			i++
		case "spacing":
			if i+2 >= len(args) {
				return errors.New("spacing 需要横向与纵向两个长度")
			}
			x, err := lengthPT(args[i+1])
			if err != nil {
				return err
			}
			y, err := lengthPT(args[i+2])
			if err != nil {
				return err
			}
			grid.XSpacing, grid.YSpacing = x, y
			i += 2
		default:
			return fmt.Errorf("未知的网格参数 %s", key)
		}
	}
	return nil
}

func applyFont(font *FontSpec, cmd *dsl.Command) error {
	args := argValues(cmd)
	if len(args) == 0 {
		return errors.New("缺少字体来源")
	}
	font.Src = args[0]
	if len(args)%2 == 0 {
		return fmt.Errorf("参数需成对出现：%s", strings.Join(args[1:], " "))
	}
	for i := 1; i+1 < len(args); i += 2 {
		switch args[i] {
		case "size":
			size, err := lengthPT(args[i+1])
			if err != nil {
				return err
			}
			font.Size = size
		case "style":
			font.Style = args[i+1]
		default:
			return fmt.Errorf("未知的字体参数 %s", args[i])
		}
	}
	return nil
}

func applyColumns(src *records.ParseOptions, cmd *dsl.Command) error {
	attrs, err := pairs(cmd)
	if err != nil {
		return err
	}
	for k, v := range attrs {
		switch k {
		case "name":
			src.NameColumn = v
		case "tickets":
			src.TicketsColumn = v
		default:
			return fmt.Errorf("未知的列 %s", k)
		}
	}
	return nil
}

func applyDelimiter(src *records.ParseOptions, cmd *dsl.Command) error {
	v := firstArg(cmd)
	if utf8.RuneCountInString(v) != 1 {
		return fmt.Errorf("分隔符必须是单个字符，实际 %q", v)
	}
	r, _ := utf8.DecodeRuneInString(v)
	src.Delimiter = r
	return nil
}

func applyBox(box *BoxTemplate, cmd *dsl.Command) error {
	attrs, err := pairs(cmd)
	if err != nil {
		return err
	}
	for k, v := range attrs {
		n, err := lengthPT(v)
		if err != nil {
			return err
		}
		switch k {
		case "x":
			box.XPadding = n
		case "y":
			box.YPadding = n
		case "width":
			box.Width = n
		case "height":
			box.Height = n
		default:
			return fmt.Errorf("未知的文本框参数 %s", k)
		}
	}
	if cmd.Block == nil {
		return nil
	}
	for _, st := range cmd.Block.Statements {
		if st.Assignment == nil || st.Assignment.Key != "text" {
			return errors.New("文本框内只支持 text: \"...\"")
		}
		box.Text = st.Assignment.Value.Text()
	}
	return nil
}

func applyTheme(store *theme.Store[theme.Theme], cmd *dsl.Command) error {
	name := firstArg(cmd)
	if name == "" {
		return errors.New("缺少主题名称")
	}
	th, ok := store.Get(name)
	if !ok {
		th = theme.Theme{Name: strings.ToLower(name)}
	}
	if cmd.Block != nil {
		for _, st := range cmd.Block.Statements {
			a := st.Assignment
			if a == nil {
				return errors.New("主题中只允许 key: value")
			}
			var err error
			switch a.Key {
			case "image":
				th.Image = a.Value.Text()
			case "fill":
				th.Fill, err = theme.ParseColor(a.Value.Text())
			case "accent":
				th.Accent, err = theme.ParseColor(a.Value.Text())
			case "subtitle-offset":
				th.SubtitleOffset, err = lengthPT(a.Value.Text())
			default:
				err = fmt.Errorf("未知的主题字段 %s", a.Key)
			}
			if err != nil {
				return err
			}
		}
	}
	store.Put(th.Name, th)
	return nil
}

// pairs 将 "key value key value" 形式的参数转为 map。
func pairs(cmd *dsl.Command) (map[string]string, error) {
	args := argValues(cmd)
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("参数需成对出现：%s", strings.Join(args, " "))
	}
	out := make(map[string]string, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		out[args[i]] = args[i+1]
	}
	return out, nil
}

func argValues(cmd *dsl.Command) []string {
	out := make([]string, 0, len(cmd.Args))
	for _, a := range cmd.Args {
		out = append(out, a.Value)
	}
	return out
}

func firstArg(cmd *dsl.Command) string {
	if len(cmd.Args) == 0 {
		return ""
	}
	return cmd.Args[0].Value
}

func valueStrings(v *dsl.Value) []string {
	if v == nil {
		return nil
	}
	if v.Array == nil {
		return []string{v.Text()}
	}
	out := make([]string, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		out = append(out, item.Text())
	}
	return out
}

func lengthPT(value string) (float64, error) {
	l, ok := ParseLength(value)
	if !ok {
		return 0, fmt.Errorf("无法解析长度 %q", value)
	}
	return l.ToPT(), nil
}
