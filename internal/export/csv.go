// Package export 把屏幕视图模型序列化成可下载的 CSV / XLSX 文件。
// PNG/PDF 截图导出不在本服务内实现（见 DESIGN.md：交给外部截图服务）。
package export

import (
	"bytes"
	"strings"
	"time"
)

// utf8BOM Excel 打开 CSV 时按 UTF-8 识别的前缀
const utf8BOM = "﻿"

// Column CSV/XLSX 的一列：表头 + 行取值函数。
// 用显式列序而不是 map 键序，保证导出列顺序稳定。
type Column struct {
	Header string
	Value  func(row int) string
}

// CSV 生成 CSV 字节流：BOM + 表头行 + 数据行。
// 含逗号/引号/换行的字段加引号，内嵌引号按 RFC4180 翻倍。
func CSV(columns []Column, rowCount int) []byte {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	for i, col := range columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(escapeCSV(col.Header))
	}
	buf.WriteByte('\n')

	for row := 0; row < rowCount; row++ {
		for i, col := range columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(escapeCSV(col.Value(row)))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func escapeCSV(value string) string {
	if !strings.ContainsAny(value, ",\"\n\r") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// Filename 导出文件名模板：<base>-<YYYY-MM-DD>.<ext>
func Filename(base, ext string, now time.Time) string {
	return base + "-" + now.Format("2006-01-02") + "." + ext
}
