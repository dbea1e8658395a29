package records

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding 为未指定编码时使用的字符集。
const DefaultEncoding = "utf-8"

// ReadLines 读取文件的全部行。encoding 为 WHATWG 编码名（如 utf-8、windows-1252、gbk），
// 文件开头若带 BOM 则以 BOM 为准并去掉它。
func ReadLines(path, encoding string) ([]string, error) {
	if strings.TrimSpace(encoding) == "" {
		encoding = DefaultEncoding
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("不支持的编码 %s: %w", encoding, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开数据文件 %s: %w", path, err)
	}
	defer file.Close()

	decoder := unicode.BOMOverride(enc.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(file, decoder))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取数据文件 %s 失败: %w", path, err)
	}
	return lines, nil
}

// Load 读取并解析数据文件。
func Load(path, encoding string, opts ParseOptions) ([]Record, error) {
	lines, err := ReadLines(path, encoding)
	if err != nil {
		return nil, err
	}
	recs, err := Parse(lines, opts)
	if err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	return recs, nil
}
