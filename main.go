package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/ByLCY/ticketcards/cards"
	"github.com/ByLCY/ticketcards/layout"
	"github.com/ByLCY/ticketcards/records"
	"github.com/ByLCY/ticketcards/renderer"
	canvasrenderer "github.com/ByLCY/ticketcards/renderer/canvas"
)

type options struct {
	input    string
	output   string
	theme    string
	layout   string
	delim    string
	encoding string
	debug    string
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "", "参与者数据文件（首行为表头，默认以 ; 分隔）")
	flag.StringVar(&opts.output, "out", "output/cards.pdf", "PDF 输出路径")
	flag.StringVar(&opts.theme, "theme", "", "卡片主题（red、yellow 或布局文件中定义的主题）")
	flag.StringVar(&opts.layout, "layout", "", "布局文件路径，为空时使用默认版式")
	flag.StringVar(&opts.delim, "delim", "", "覆盖数据文件的分隔符")
	flag.StringVar(&opts.encoding, "encoding", records.DefaultEncoding, "数据文件编码，如 utf-8、windows-1252、gbk")
	flag.StringVar(&opts.debug, "debug", "", "排版调试 JSON 输出路径")
	flag.Parse()

	baseDir := "."
	if opts.layout != "" {
		baseDir = filepath.Dir(opts.layout)
	}
	var r renderer.Renderer = canvasrenderer.NewRenderer(baseDir)
	plan, err := run(opts, r)
	if err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s（%d 张卡片，%d 页）\n", opts.output, plan.CardCount(), len(plan.Pages))
}

// run 串联载入、分页与渲染。
func run(opts options, r renderer.Renderer) (*layout.Plan, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	cfg, err := layout.LoadConfig(opts.layout)
	if err != nil {
		return nil, err
	}
	if opts.delim != "" {
		d, size := utf8.DecodeRuneInString(opts.delim)
		if size != len(opts.delim) {
			return nil, fmt.Errorf("分隔符必须是单个字符：%q", opts.delim)
		}
		cfg.Source.Delimiter = d
	}

	session, err := cards.Load(opts.input, cards.LoadOptions{Encoding: opts.encoding, Source: cfg.Source})
	if err != nil {
		return nil, fmt.Errorf("载入数据失败: %w", err)
	}

	gen := cards.GenerateOptions{Config: cfg, Theme: opts.theme, Renderer: r}
	if opts.debug != "" {
		plan, _, err := cards.Plan(session, gen)
		if err != nil {
			return nil, err
		}
		if err := writeDebug(plan, opts.debug); err != nil {
			return nil, err
		}
	}
	return cards.Generate(session, opts.output, gen)
}

func writeDebug(plan *layout.Plan, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(plan, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
