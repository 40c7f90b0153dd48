package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBody(t *testing.T) {
	t.Run("空正文拒绝", func(t *testing.T) {
		_, err := validateBody("   \n\t ")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("首尾空白剔除", func(t *testing.T) {
		got, err := validateBody("  hello world \n")
		require.NoError(t, err)
		assert.Equal(t, "hello world", got)
	})

	t.Run("按字素簇计数而不是字节", func(t *testing.T) {
		// 彩虹旗是多码点组合序列，按一个字符计
		flag := "\U0001F3F3️‍\U0001F308"
		body := strings.Repeat(flag, MaxBodyGraphemes)
		_, err := validateBody(body)
		assert.NoError(t, err)

		_, err = validateBody(body + flag)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("纯文本边界", func(t *testing.T) {
		_, err := validateBody(strings.Repeat("a", MaxBodyGraphemes))
		assert.NoError(t, err)
		_, err = validateBody(strings.Repeat("a", MaxBodyGraphemes+1))
		assert.ErrorIs(t, err, ErrValidation)
	})
}
