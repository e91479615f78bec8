package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMarkdownPrompt(t *testing.T) {
	prompt, err := BuildMarkdownPrompt(Request{
		JobTitle:       "AI工程师",
		JobDescription: "熟悉 Python <3.12>",
		Profile:        map[string]any{"技能": "Python & Go"},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "针对【AI工程师】岗位")
	assert.Contains(t, prompt, "熟悉 Python <3.12>")
	assert.Contains(t, prompt, "{\n  \"技能\": \"Python & Go\"\n}")
	assert.NotContains(t, prompt, "请采用风格")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildMarkdownPrompt_Style(t *testing.T) {
	prompt, err := BuildMarkdownPrompt(Request{JobTitle: "x", JobDescription: "y", Style: "  modern "})
	require.NoError(t, err)
	assert.Contains(t, prompt, "\n请采用风格: modern。标题、层级、要点风格需体现该主题，但仍保持简洁专业。")
}

func TestBuildMarkdownPrompt_NilProfile(t *testing.T) {
	prompt, err := BuildMarkdownPrompt(Request{JobTitle: "x", JobDescription: "y"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "<USER_PROFILE>\n{}\n</USER_PROFILE>")
}

func TestBuildStructuredPrompt(t *testing.T) {
	prompt, err := BuildStructuredPrompt(Request{JobTitle: "数据分析师", JobDescription: "SQL", Profile: []string{"a"}})
	require.NoError(t, err)

	assert.Contains(t, prompt, "【数据分析师】")
	assert.Contains(t, prompt, "Return ONLY valid JSON")
	assert.Contains(t, prompt, "\"a\"")
	assert.NotContains(t, prompt, "{{.")
}
