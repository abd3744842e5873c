package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liushiyun/shuoshu/internal/lexicon"
)

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	return New(lexicon.Default())
}

func TestExtractor_Actions(t *testing.T) {
	t.Run("keeps sentences with action verbs", func(t *testing.T) {
		e := newExtractor(t)
		actions := e.Actions("他走进房间。天空是蓝色的。她笑了！")
		require.Len(t, actions, 2)
		assert.Equal(t, "他走进房间", actions[0])
		assert.Equal(t, "她笑了", actions[1])
	})

	t.Run("splits on semicolons", func(t *testing.T) {
		e := newExtractor(t)
		actions := e.Actions("他坐下；她站起。")
		assert.Equal(t, []string{"他坐下", "她站起"}, actions)
	})

	t.Run("repeated sentences are kept", func(t *testing.T) {
		e := newExtractor(t)
		actions := e.Actions("他走了。他走了。")
		assert.Equal(t, []string{"他走了", "他走了"}, actions)
	})

	t.Run("sentence with several verbs appears once", func(t *testing.T) {
		e := newExtractor(t)
		actions := e.Actions("他拿起杯子喝了一口。")
		assert.Equal(t, []string{"他拿起杯子喝了一口"}, actions)
	})

	t.Run("no actions", func(t *testing.T) {
		e := newExtractor(t)
		assert.Empty(t, e.Actions("天空是蓝色的。"))
		assert.Empty(t, e.Actions(""))
	})
}

func TestExtractor_Description(t *testing.T) {
	t.Run("drops dialogue and action sentences", func(t *testing.T) {
		e := newExtractor(t)
		text := "房间很明亮。张三说：“走吧。”他站了起来。"
		assert.Equal(t, "房间很明亮。", e.Description(text))
	})

	t.Run("joins kept sentences with full stops", func(t *testing.T) {
		e := newExtractor(t)
		assert.Equal(t, "山谷很宁静。雾气弥漫。", e.Description("山谷很宁静。雾气弥漫。"))
	})

	t.Run("all action sentences yield empty description", func(t *testing.T) {
		e := newExtractor(t)
		assert.Equal(t, "", e.Description("他走了。她跑了。"))
	})

	t.Run("empty input", func(t *testing.T) {
		e := newExtractor(t)
		assert.Equal(t, "", e.Description(""))
		assert.Equal(t, "", e.Description("   "))
	})

	t.Run("dialogue only", func(t *testing.T) {
		e := newExtractor(t)
		assert.Equal(t, "", e.Description("“你好！”“再见。”"))
	})
}
