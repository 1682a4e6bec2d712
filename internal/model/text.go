package model

import "unicode/utf8"

// MaxMessageLen 返回给前端的错误/诊断文本上限，避免撑爆聊天框或 toast
const MaxMessageLen = 400

// Truncate 按字节上限截断字符串，不切断 UTF-8 字符
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
