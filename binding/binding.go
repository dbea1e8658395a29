package binding

import (
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将模板中的 ${field} 替换为 fields 中对应的值。
// 字段名不区分大小写；找不到的字段保留原占位符，便于在输出中发现拼写错误。
func Interpolate(template string, fields map[string]string) string {
	if !strings.Contains(template, "${") {
		return template
	}
	return exprPattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		key := strings.TrimSpace(groups[1])
		if key == "" {
			return match
		}
		if val, ok := lookup(fields, key); ok {
			return val
		}
		return match
	})
}

// Placeholders 返回模板中引用的字段名（按出现顺序，去重）。
func Placeholders(template string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range exprPattern.FindAllStringSubmatch(template, -1) {
		key := strings.TrimSpace(m[1])
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

func lookup(fields map[string]string, key string) (string, bool) {
	if val, ok := fields[key]; ok {
		return val, true
	}
	for k, v := range fields {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}
