package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lists holds the raw word lists a Set is compiled from. Custom packs
// loaded from YAML extend the defaults rather than replacing them, so a
// pack only needs to declare the words it adds.
type Lists struct {
	SceneMarkers []string `yaml:"scene_markers"`
	ActionVerbs  []string `yaml:"action_verbs"`
	Positive     []string `yaml:"positive"`
	Negative     []string `yaml:"negative"`
	Descriptive  []string `yaml:"descriptive"`
	SpeechVerbs  []string `yaml:"speech_verbs"`
}

// DefaultLists returns the built-in word lists.
func DefaultLists() Lists {
	return Lists{
		SceneMarkers: []string{
			"此时", "这时", "那时", "与此同时", "同时", "另一边", "另一方面",
			"第二天", "次日", "翌日", "过了", "之后", "后来", "不久",
			"突然", "忽然", "猛然", "转眼", "一晃", "片刻",
		},
		ActionVerbs: []string{
			"走", "跑", "跳", "站", "坐", "躺", "转", "看", "望", "瞧",
			"听", "说", "笑", "哭", "叫", "喊", "拿", "抓", "扔", "打",
			"推", "拉", "举", "放", "开", "关", "穿", "脱", "吃", "喝",
			"睡", "醒", "起", "飞", "游", "爬", "摔", "倒", "倾", "握",
			"指", "挥", "摇", "点", "摸", "碰", "踢", "撞", "靠", "倚",
		},
		Positive: []string{
			"高兴", "快乐", "开心", "幸福", "喜悦", "愉快", "兴奋", "激动",
			"欢乐", "美好", "温暖", "甜蜜", "满足", "欣慰", "舒适", "轻松",
			"愉悦", "欢喜", "喜爱", "欢笑", "笑容", "微笑", "灿烂", "明亮",
		},
		Negative: []string{
			"悲伤", "难过", "痛苦", "伤心", "哀愁", "忧伤", "悲痛", "凄凉",
			"沮丧", "失望", "绝望", "无助", "孤独", "寂寞", "冷清", "凄惨",
			"恐惧", "害怕", "担心", "焦虑", "紧张", "不安", "愤怒", "生气",
			"愤恨", "仇恨", "厌恶", "憎恨", "烦躁", "烦恼", "苦恼", "忧虑",
		},
		Descriptive: []string{
			"高", "低", "大", "小", "长", "短", "宽", "窄", "明亮", "昏暗",
			"华丽", "简朴", "古老", "现代", "宁静", "喧嚣", "美丽", "丑陋",
			"东", "西", "南", "北", "左", "右", "上", "下", "前", "后",
			"远", "近", "深", "浅", "明", "暗", "红", "黄", "蓝", "绿",
		},
		SpeechVerbs: []string{
			"说", "道", "问", "答", "笑道", "冷笑", "怒道", "喝道",
		},
	}
}

// LoadPack reads a YAML word-list pack from path.
func LoadPack(path string) (Lists, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lists{}, fmt.Errorf("read lexicon pack: %w", err)
	}

	var lists Lists
	if err := yaml.Unmarshal(data, &lists); err != nil {
		return Lists{}, fmt.Errorf("parse lexicon pack %s: %w", path, err)
	}
	return lists, nil
}

// Merge returns a copy of l extended with the words of extra, preserving
// order and skipping duplicates.
func (l Lists) Merge(extra Lists) Lists {
	return Lists{
		SceneMarkers: mergeWords(l.SceneMarkers, extra.SceneMarkers),
		ActionVerbs:  mergeWords(l.ActionVerbs, extra.ActionVerbs),
		Positive:     mergeWords(l.Positive, extra.Positive),
		Negative:     mergeWords(l.Negative, extra.Negative),
		Descriptive:  mergeWords(l.Descriptive, extra.Descriptive),
		SpeechVerbs:  mergeWords(l.SpeechVerbs, extra.SpeechVerbs),
	}
}

func mergeWords(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))
	for _, lists := range [][]string{base, extra} {
		for _, word := range lists {
			if word == "" || seen[word] {
				continue
			}
			seen[word] = true
			merged = append(merged, word)
		}
	}
	return merged
}
