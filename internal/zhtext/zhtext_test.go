package zhtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	t.Run("splits on clause terminators", func(t *testing.T) {
		text := "他走进房间。她抬起头！谁在那里？屋里很安静；没有人回答"
		sentences := SplitSentences(text, ClauseTerminators)
		require.Len(t, sentences, 5)
		assert.Equal(t, "他走进房间", sentences[0])
		assert.Equal(t, "她抬起头", sentences[1])
		assert.Equal(t, "谁在那里", sentences[2])
		assert.Equal(t, "屋里很安静", sentences[3])
		assert.Equal(t, "没有人回答", sentences[4])
	})

	t.Run("sentence terminators keep semicolon clauses together", func(t *testing.T) {
		text := "天色渐暗；风停了。"
		sentences := SplitSentences(text, SentenceTerminators)
		require.Len(t, sentences, 1)
		assert.Equal(t, "天色渐暗；风停了", sentences[0])
	})

	t.Run("drops empty and whitespace pieces", func(t *testing.T) {
		text := "。。前面是空的。 。\n后面也是。"
		sentences := SplitSentences(text, SentenceTerminators)
		require.Len(t, sentences, 2)
		assert.Equal(t, "前面是空的", sentences[0])
		assert.Equal(t, "后面也是", sentences[1])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, SplitSentences("", ClauseTerminators))
		assert.Empty(t, SplitSentences("   \n  ", ClauseTerminators))
	})

	t.Run("no terminators returns whole text", func(t *testing.T) {
		sentences := SplitSentences("一句没有结尾的话", ClauseTerminators)
		require.Len(t, sentences, 1)
		assert.Equal(t, "一句没有结尾的话", sentences[0])
	})
}

func TestLastRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{"shorter than window", "你好", 20, "你好"},
		{"exact window", "一二三", 3, "一二三"},
		{"truncates to suffix", "一二三四五", 3, "三四五"},
		{"zero window", "你好", 0, ""},
		{"empty string", "", 5, ""},
		{"mixed ascii and han", "abc张三说", 4, "c张三说"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LastRunes(tt.input, tt.n))
		})
	}
}

func TestIsHan(t *testing.T) {
	assert.True(t, IsHan('张'))
	assert.True(t, IsHan('说'))
	assert.False(t, IsHan('a'))
	assert.False(t, IsHan('。'))
	assert.False(t, IsHan(' '))
}

func TestAllHan(t *testing.T) {
	assert.True(t, AllHan("张三"))
	assert.True(t, AllHan("李四丰"))
	assert.False(t, AllHan(""))
	assert.False(t, AllHan("张三a"))
	assert.False(t, AllHan("张 三"))
}
