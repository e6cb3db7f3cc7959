// Package textutil 文本截断等小工具
package textutil

import "unicode/utf8"

// Truncate 截断到不超过 n 字节，不切开多字节字符
func Truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
