package cards

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/ticketcards/binding"
	"github.com/ByLCY/ticketcards/layout"
	"github.com/ByLCY/ticketcards/records"
	"github.com/ByLCY/ticketcards/renderer"
	"github.com/ByLCY/ticketcards/theme"
)

var (
	// ErrInputMissing 表示生成前没有选择数据源。
	ErrInputMissing = errors.New("未选择数据文件")
	// ErrNoCards 表示数据源中没有任何可生成的卡片。
	ErrNoCards = errors.New("没有可生成的卡片")
)

// OutputWriteError 表示 PDF 无法写到目标路径；失败时不会留下残缺文件。
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("写入 PDF 失败: %v", e.Err)
	}
	return fmt.Sprintf("写入 PDF %s 失败: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }

// Session 保存一次载入的结果，在载入与生成之间显式传递。
type Session struct {
	Source  string
	Records []records.Record
	Groups  []records.Group
	Cards   []records.Record
}

// LoadOptions 控制数据文件的编码与列映射。
type LoadOptions struct {
	Encoding string
	Source   records.ParseOptions
}

// Load 读取数据文件，按每 records.GroupSize 条记录分组（最后一组以空记录补齐），
// 每组连续放入两次，得到排版用的卡片序列。
func Load(path string, opts LoadOptions) (*Session, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrInputMissing
	}
	recs, err := records.Load(path, opts.Encoding, opts.Source)
	if err != nil {
		return nil, err
	}
	groups := records.Duplicate(recs, records.GroupSize)
	return &Session{
		Source:  path,
		Records: recs,
		Groups:  groups,
		Cards:   records.Flatten(groups),
	}, nil
}

// GenerateOptions 汇总生成参数。Theme 为空时使用默认主题。
type GenerateOptions struct {
	Config   layout.Config
	Theme    string
	Renderer renderer.Renderer
}

// Plan 校验会话与配置并计算分页结果，不做任何绘制。
func Plan(s *Session, opts GenerateOptions) (*layout.Plan, theme.Theme, error) {
	if s == nil || s.Source == "" {
		return nil, theme.Theme{}, ErrInputMissing
	}
	if len(s.Cards) == 0 {
		return nil, theme.Theme{}, ErrNoCards
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, theme.Theme{}, fmt.Errorf("版式配置无效: %w", err)
	}
	if err := checkTemplates(cfg); err != nil {
		return nil, theme.Theme{}, err
	}
	th, err := theme.Lookup(cfg.Themes, opts.Theme)
	if err != nil {
		return nil, theme.Theme{}, err
	}
	plan, err := layout.Paginate(s.Cards, cfg, th)
	if err != nil {
		return nil, theme.Theme{}, fmt.Errorf("分页失败: %w", err)
	}
	return plan, th, nil
}

// Render 将会话中的卡片逐页绘制到 w。每页先关闭再开下一页；文档无论成败都只关闭一次。
func Render(s *Session, w io.Writer, opts GenerateOptions) (plan *layout.Plan, err error) {
	if opts.Renderer == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	plan, th, err := Plan(s, opts)
	if err != nil {
		return nil, err
	}
	cfg := opts.Config

	doc, err := opts.Renderer.Open(w, cfg, th)
	if err != nil {
		return nil, fmt.Errorf("打开文档失败: %w", err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil && err == nil {
			err = &OutputWriteError{Err: cerr}
		}
		if err != nil {
			plan = nil
		}
	}()

	for _, page := range plan.Pages {
		if err := drawPage(doc, page, cfg); err != nil {
			return nil, fmt.Errorf("第 %d 页: %w", page.Number, err)
		}
	}
	return plan, nil
}

func drawPage(doc renderer.Document, page layout.Page, cfg layout.Config) error {
	surface, err := doc.NewPage()
	if err != nil {
		return err
	}
	for _, slot := range page.Slots {
		fields := slot.Card.Fields()
		drawBox(surface, cardText(cfg.Title.Text, fields), slot.Title, cfg)
		drawBox(surface, cardText(cfg.Subtitle.Text, fields), slot.Subtitle, cfg)
	}
	return surface.Close()
}

func drawBox(surface renderer.Surface, text string, box layout.Rect, cfg layout.Config) {
	for _, line := range layout.Wrap(text, surface, cfg.Font, box, cfg.LineSpacing) {
		if line.Text == "" {
			continue
		}
		surface.DrawText(line.Text, cfg.Font, cfg.TextColor, line.X, line.Baseline)
	}
}

// cardText 去掉字段值中的双引号后填充模板，并做 NFC 规范化。模板自身的引号保留。
func cardText(template string, fields map[string]string) string {
	clean := make(map[string]string, len(fields))
	for k, v := range fields {
		clean[k] = strings.ReplaceAll(v, `"`, "")
	}
	return norm.NFC.String(binding.Interpolate(template, clean))
}

// checkTemplates 确认文本模板只引用记录中存在的字段，避免把占位符原样印到卡片上。
func checkTemplates(cfg layout.Config) error {
	known := records.Record{}.Fields()
	for _, box := range []struct {
		name string
		text string
	}{{"title", cfg.Title.Text}, {"subtitle", cfg.Subtitle.Text}} {
		for _, key := range binding.Placeholders(box.text) {
			if _, ok := known[strings.ToLower(key)]; !ok {
				return fmt.Errorf("%s 模板引用了未知字段 %q", box.name, key)
			}
		}
	}
	return nil
}

// Generate 渲染到目标目录下的临时文件，成功后再改名为 outPath。
func Generate(s *Session, outPath string, opts GenerateOptions) (*layout.Plan, error) {
	if s == nil || s.Source == "" {
		return nil, ErrInputMissing
	}
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &OutputWriteError{Path: outPath, Err: err}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outPath)+".*.tmp")
	if err != nil {
		return nil, &OutputWriteError{Path: outPath, Err: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	plan, err := Render(s, tmp, opts)
	if err != nil {
		var werr *OutputWriteError
		if errors.As(err, &werr) && werr.Path == "" {
			werr.Path = outPath
		}
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, &OutputWriteError{Path: outPath, Err: err}
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return nil, &OutputWriteError{Path: outPath, Err: err}
	}
	committed = true
	return plan, nil
}
