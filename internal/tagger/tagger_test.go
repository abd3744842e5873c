package tagger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_Tokenize(t *testing.T) {
	tg := &Static{
		Names: []string{"张三"},
		Words: []string{"高兴", "笑得", "开心"},
	}

	t.Run("longest match wins", func(t *testing.T) {
		tokens, err := tg.Tokenize("张三很高兴。")
		require.NoError(t, err)
		assert.Equal(t, []string{"张三", "很", "高兴", "。"}, tokens)
	})

	t.Run("punctuation becomes its own token", func(t *testing.T) {
		tokens, err := tg.Tokenize("他，走了。")
		require.NoError(t, err)
		assert.Equal(t, []string{"他", "，", "走", "了", "。"}, tokens)
	})

	t.Run("empty text", func(t *testing.T) {
		tokens, err := tg.Tokenize("")
		require.NoError(t, err)
		assert.Empty(t, tokens)
	})
}

func TestStatic_Tag(t *testing.T) {
	tg := &Static{
		Names: []string{"张三", "李四"},
		Words: []string{"房间"},
	}

	tokens, err := tg.Tag("张三走进房间，李四在等他。")
	require.NoError(t, err)

	var people []string
	for _, token := range tokens {
		if token.Pos == PersonTag {
			people = append(people, token.Text)
		}
	}
	assert.Equal(t, []string{"张三", "李四"}, people)
}

func TestStatic_Deterministic(t *testing.T) {
	tg := &Static{Names: []string{"张三"}, Words: []string{"高兴"}}

	first, err := tg.Tokenize("张三很高兴")
	require.NoError(t, err)
	second, err := tg.Tokenize("张三很高兴")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUnavailable(t *testing.T) {
	var tg Tagger = Unavailable{}

	_, err := tg.Tokenize("文本")
	assert.True(t, errors.Is(err, ErrUnavailable))

	_, err = tg.Tag("文本")
	assert.True(t, errors.Is(err, ErrUnavailable))
}
