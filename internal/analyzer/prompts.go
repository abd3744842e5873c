package analyzer

// SystemPrompt is the system prompt for novel analysis.
const SystemPrompt = `你是一个专业的小说分析助手，擅长从小说文本中提取结构化信息。你的分析要忠实于原文，不要编造原文中没有的内容。`

// AnalysisPrompt is the user prompt template for per-chunk analysis.
// The first argument is the novel title, the second the chunk text.
const AnalysisPrompt = `请分析以下小说文本，提取结构化信息。

小说：%s

文本：
---
%s
---

请以 JSON 格式返回以下信息：
{
  "theme": "这段文本的主题",
  "summary": "内容概要（2-3 句话）",
  "characters": [
    {
      "name": "角色名",
      "role": "角色定位（如主角/配角/反派）",
      "appearance": "外貌描述",
      "personality": "性格特征"
    }
  ],
  "scenes": [
    {
      "description": "场景描述",
      "location": "地点",
      "time": "时间",
      "mood": "氛围（如紧张/平静/欢快/悲伤）",
      "characters": ["角色1", "角色2"]
    }
  ],
  "emotional_arc": "情感走向（如低落转高昂）"
}

注意：
1. 提取所有明确出现的场景信息
2. 识别出现的角色及其外貌和性格，原文没有描写的字段留空字符串
3. 角色名使用原文中的称呼
4. 只返回 JSON，不要其他解释`
