package canvasrenderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/ticketcards/fonts"
	"github.com/ByLCY/ticketcards/layout"
	"github.com/ByLCY/ticketcards/renderer"
	"github.com/ByLCY/ticketcards/theme"
)

const (
	frameStrokeWidth = 0.5 // mm
	frameInset       = 2.0 // pt
)

var (
	errSurfaceOpen    = errors.New("上一页尚未关闭，不能创建新页")
	errDocumentClosed = errors.New("文档已关闭")
)

// Renderer draws card pages via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving fonts and background images.
func NewRenderer(baseDir string) *Renderer {
	return &Renderer{
		baseDir:      baseDir,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// MeasureText 返回文本宽度（pt）。canvas 的度量单位为 mm，这里在边界换算。
func (r *Renderer) MeasureText(text string, font layout.FontSpec) float64 {
	face, err := r.fontFace(font, layout.Color{})
	if err != nil {
		// 连内置字体都不可用时按半个字号估算
		return float64(utf8.RuneCountInString(text)) * font.Size / 2
	}
	return toPt(face.TextWidth(text))
}

// LineHeight 返回字体的自然行距（pt）。
func (r *Renderer) LineHeight(font layout.FontSpec) float64 {
	face, err := r.fontFace(font, layout.Color{})
	if err != nil {
		return font.Size
	}
	if lh := face.Metrics().LineHeight; lh > 0 {
		return toPt(lh)
	}
	return font.Size
}

// Open 创建 PDF 写出器并按主题构建一次模板页。
func (r *Renderer) Open(w io.Writer, cfg layout.Config, th theme.Theme) (renderer.Document, error) {
	if w == nil {
		return nil, fmt.Errorf("输出目标为空")
	}
	if cfg.Page.Width <= 0 || cfg.Page.Height <= 0 {
		return nil, fmt.Errorf("纸张尺寸无效：%gx%g", cfg.Page.Width, cfg.Page.Height)
	}
	width, height := toMm(cfg.Page.Width), toMm(cfg.Page.Height)

	tpl, err := r.templatePage(cfg, th, width, height)
	if err != nil {
		return nil, err
	}

	writer := pdf.New(w, width, height, nil)
	applyMeta(writer, cfg.Meta)
	return &document{
		r:        r,
		writer:   writer,
		template: tpl,
		width:    width,
		height:   height,
	}, nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// templatePage 绘制主题底图：有图片时铺满整页，否则按网格画矢量卡片框。
func (r *Renderer) templatePage(cfg layout.Config, th theme.Theme, width, height float64) (*canvas.Canvas, error) {
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	if th.Image != "" {
		img, err := r.loadImage(th.Image)
		if err != nil {
			return nil, fmt.Errorf("主题 %s 底图: %w", th.Name, err)
		}
		dpmm := float64(img.Bounds().Dx()) / width
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(0, 0, img, canvas.DPMM(dpmm))
		return c, nil
	}

	drawCells(ctx, cfg, th)
	return c, nil
}

// drawCells 为每个网格单元画一张卡片：填充底色、强调色边框，以及标题与票数之间的分隔线。
func drawCells(ctx *canvas.Context, cfg layout.Config, th theme.Theme) {
	grid := cfg.Grid
	cellW := grid.XSpacing - 2*frameInset
	cellH := grid.YSpacing - 2*frameInset
	if cellW <= 0 || cellH <= 0 {
		return
	}
	titleBottom := cfg.Title.YPadding + cfg.Title.Height
	subtitleTop := cfg.Subtitle.YPadding + th.SubtitleOffset
	ruleY := (titleBottom + subtitleTop) / 2

	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Columns; col++ {
			x := float64(col) * grid.XSpacing
			y := float64(row) * grid.YSpacing

			ctx.SetFillColor(colorFromLayout(th.Fill))
			ctx.SetStrokeColor(colorFromLayout(th.Accent))
			ctx.SetStrokeWidth(frameStrokeWidth)
			ctx.DrawPath(toMm(x+frameInset), toMm(y+frameInset), canvas.Rectangle(toMm(cellW), toMm(cellH)))

			if ruleY > 0 && ruleY < grid.YSpacing {
				ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
				p := &canvas.Path{}
				p.MoveTo(0, 0)
				p.LineTo(toMm(cfg.Title.Width), 0)
				ctx.DrawPath(toMm(x+cfg.Title.XPadding), toMm(y+ruleY), p)
			}
		}
	}
}

func (r *Renderer) loadImage(src string) (image.Image, error) {
	path := src
	if !filepath.IsAbs(path) {
		if r.baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许使用相对路径：%s", src)
		}
		path = filepath.Join(r.baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", src, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", src, err)
	}
	return img, nil
}

type document struct {
	r        *Renderer
	writer   *pdf.PDF
	template *canvas.Canvas
	width    float64
	height   float64

	pages  int
	open   *surface
	closed bool
}

// NewPage 复制模板页得到新的绘制面。
func (d *document) NewPage() (renderer.Surface, error) {
	if d.closed {
		return nil, errDocumentClosed
	}
	if d.open != nil {
		return nil, errSurfaceOpen
	}
	c := canvas.New(d.width, d.height)
	d.template.RenderTo(c)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	s := &surface{doc: d, canvas: c, ctx: ctx}
	d.open = s
	return s, nil
}

// Close 关闭未关闭的页并写出 PDF，只生效一次。
func (d *document) Close() error {
	if d.closed {
		return nil
	}
	var errs []error
	if d.open != nil {
		errs = append(errs, d.open.Close())
	}
	d.closed = true
	if err := d.writer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("写入 PDF 失败: %w", err))
	}
	return errors.Join(errs...)
}

type surface struct {
	doc    *document
	canvas *canvas.Canvas
	ctx    *canvas.Context
	err    error
	closed bool
}

func (s *surface) MeasureText(text string, font layout.FontSpec) float64 {
	return s.doc.r.MeasureText(text, font)
}

func (s *surface) LineHeight(font layout.FontSpec) float64 {
	return s.doc.r.LineHeight(font)
}

// DrawText 在 (x, y) 处以左对齐绘制一行文本，y 为基线，单位 pt。
// 字体错误会被记下，在 Close 时返回。
func (s *surface) DrawText(text string, font layout.FontSpec, col layout.Color, x, y float64) {
	if s.closed || s.err != nil {
		return
	}
	face, err := s.doc.r.fontFace(font, col)
	if err != nil {
		s.err = err
		return
	}
	s.ctx.DrawText(toMm(x), toMm(y), canvas.NewTextLine(face, text, canvas.Left))
}

// Close 将本页写入文档；首页之外的页先在 PDF 中追加新页。
func (s *surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	d := s.doc
	d.open = nil
	if s.err != nil {
		return s.err
	}
	if d.pages > 0 {
		d.writer.NewPage(d.width, d.height)
	}
	s.canvas.RenderTo(d.writer)
	d.pages++
	return nil
}

func (r *Renderer) fontFace(font layout.FontSpec, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	size := font.Size
	if size <= 0 {
		size = 12
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontSpec) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	family := canvas.NewFontFamily(key)
	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontSpec, style canvas.FontStyle) error {
	data, err := fonts.Load(font.Src, r.baseDir)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

// fallback 必须在持有 fontMu 时调用。
func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(fonts.Fallback, "")
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("ticketcards-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	var result canvas.FontStyle
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	default:
		result = canvas.FontRegular
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontSpec) string {
	return fmt.Sprintf("%s|%s", font.Src, strings.ToLower(font.Style))
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return layout.Length{Value: pt, Unit: layout.UnitPT}.ToMM() }
