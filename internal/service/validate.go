package service

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// 正文长度按扩展字素簇计，emoji 组合序列算一个字符
const MaxBodyGraphemes = 1500

func validateBody(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", fmt.Errorf("%w: body must not be empty", ErrValidation)
	}
	if n := uniseg.GraphemeClusterCount(trimmed); n > MaxBodyGraphemes {
		return "", fmt.Errorf("%w: body is %d characters, max is %d", ErrValidation, n, MaxBodyGraphemes)
	}
	return trimmed, nil
}
