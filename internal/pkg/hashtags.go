package pkg

import (
	"strings"
	"unicode"
)

const maxHashtagLength = 64

// ExtractHashtags 从正文提取 # 标签（小写去重，保持首次出现顺序）。
// 标签允许字母/数字/下划线/连字符，按 unicode 类别判断，不限拉丁字母。
func ExtractHashtags(text string) []string {
	var tags []string
	seen := make(map[string]struct{})

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '#' {
			continue
		}
		// # 前必须是边界字符
		if i > 0 && isTagRune(runes[i-1]) {
			continue
		}
		j := i + 1
		for j < len(runes) && isTagRune(runes[j]) {
			j++
		}
		if j == i+1 {
			continue
		}
		tagRunes := runes[i+1 : j]
		// 超长按字符截断，字节截断会切坏多字节字符
		if len(tagRunes) > maxHashtagLength {
			tagRunes = tagRunes[:maxHashtagLength]
		}
		tag := strings.ToLower(string(tagRunes))
		// 纯数字不算标签
		if !hasLetter(tag) {
			i = j - 1
			continue
		}
		if _, ok := seen[tag]; !ok {
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
		i = j - 1
	}
	return tags
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
