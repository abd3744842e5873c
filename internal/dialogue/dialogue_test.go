package dialogue

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liushiyun/shuoshu/internal/lexicon"
)

func newExtractor(t *testing.T, opts Options) *Extractor {
	t.Helper()
	return New(lexicon.Default(), opts)
}

func TestExtractor_Extract(t *testing.T) {
	t.Run("quote without recoverable speaker", func(t *testing.T) {
		e := newExtractor(t, Options{})
		dialogues := e.Extract("他说：“你好！”")
		require.Len(t, dialogues, 1)
		assert.Equal(t, "你好！", dialogues[0].Text)
		assert.False(t, dialogues[0].Attributed)
		assert.Empty(t, dialogues[0].Speaker)
	})

	t.Run("two character name before speech verb", func(t *testing.T) {
		e := newExtractor(t, Options{})
		dialogues := e.Extract("张三说：“你好！”")
		require.Len(t, dialogues, 1)
		assert.Equal(t, "张三", dialogues[0].Speaker)
		assert.True(t, dialogues[0].Attributed)
		assert.Equal(t, "你好！", dialogues[0].Text)
	})

	t.Run("multiple quotes keep document order", func(t *testing.T) {
		e := newExtractor(t, Options{})
		dialogues := e.Extract("张三说：“你好！”李四答：“你也好！”")
		require.Len(t, dialogues, 2)
		assert.Equal(t, "张三", dialogues[0].Speaker)
		assert.Equal(t, "你好！", dialogues[0].Text)
		assert.Equal(t, "李四", dialogues[1].Speaker)
		assert.Equal(t, "你也好！", dialogues[1].Text)
	})

	t.Run("mixed quote styles sorted by position", func(t *testing.T) {
		e := newExtractor(t, Options{})
		dialogues := e.Extract(`张三说：“早。”李四答：'好。'王五问："走吗？"`)
		require.Len(t, dialogues, 3)
		assert.Equal(t, "早。", dialogues[0].Text)
		assert.Equal(t, "好。", dialogues[1].Text)
		assert.Equal(t, "走吗？", dialogues[2].Text)
		assert.Equal(t, "王五", dialogues[2].Speaker)
	})

	t.Run("ascii double quotes", func(t *testing.T) {
		e := newExtractor(t, Options{})
		dialogues := e.Extract(`李四道："慢着。"`)
		require.Len(t, dialogues, 1)
		assert.Equal(t, "李四", dialogues[0].Speaker)
		assert.Equal(t, "慢着。", dialogues[0].Text)
	})

	t.Run("curly single quotes", func(t *testing.T) {
		e := newExtractor(t, Options{})
		dialogues := e.Extract("赵六喝道：‘放下！’")
		require.Len(t, dialogues, 1)
		assert.Equal(t, "赵六", dialogues[0].Speaker)
		assert.Equal(t, "放下！", dialogues[0].Text)
	})

	t.Run("corner bracket quotes are not extracted", func(t *testing.T) {
		e := newExtractor(t, Options{})
		assert.Empty(t, e.Extract("他说：「你好！」"))
	})

	t.Run("empty and plain text", func(t *testing.T) {
		e := newExtractor(t, Options{})
		assert.Empty(t, e.Extract(""))
		assert.Empty(t, e.Extract("没有对话的叙述文字。"))
	})

	t.Run("attribution outside window is dropped", func(t *testing.T) {
		e := newExtractor(t, Options{})
		text := "张三说：" + strings.Repeat(" ", 25) + "“你好！”"
		dialogues := e.Extract(text)
		require.Len(t, dialogues, 1)
		assert.False(t, dialogues[0].Attributed)
	})

	t.Run("nested quote styles emit both records by default", func(t *testing.T) {
		e := newExtractor(t, Options{})
		dialogues := e.Extract("他说：“她喊'站住'就走了”")
		require.Len(t, dialogues, 2)
		assert.Equal(t, "她喊'站住'就走了", dialogues[0].Text)
		assert.Equal(t, "站住", dialogues[1].Text)
	})

	t.Run("dedupe drops overlapping spans", func(t *testing.T) {
		e := newExtractor(t, Options{DedupeSpans: true})
		dialogues := e.Extract("他说：“她喊'站住'就走了”")
		require.Len(t, dialogues, 1)
		assert.Equal(t, "她喊'站住'就走了", dialogues[0].Text)
	})
}

func TestDialogue_MarshalJSON(t *testing.T) {
	t.Run("attributed speaker", func(t *testing.T) {
		data, err := json.Marshal(Dialogue{Speaker: "张三", Attributed: true, Text: "你好"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"speaker":"张三","text":"你好"}`, string(data))
	})

	t.Run("missing speaker is null", func(t *testing.T) {
		data, err := json.Marshal(Dialogue{Text: "你好"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"speaker":null,"text":"你好"}`, string(data))
	})
}
