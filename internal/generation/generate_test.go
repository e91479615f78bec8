package generation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/validation"
)

type mockClient struct {
	mu       sync.Mutex
	response string
	err      error
	delay    time.Duration
	systems  []string
	prompts  []string
	jsonMode []bool

	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

func (m *mockClient) record(system, prompt string, jsonMode bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.systems = append(m.systems, system)
	m.prompts = append(m.prompts, prompt)
	m.jsonMode = append(m.jsonMode, jsonMode)
}

func (m *mockClient) generate(ctx context.Context, system, prompt string, jsonMode bool) (string, error) {
	m.record(system, prompt, jsonMode)
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.response, m.err
}

func (m *mockClient) GenerateContent(ctx context.Context, system, prompt string, _ llm.ModelTier) (string, error) {
	return m.generate(ctx, system, prompt, false)
}

func (m *mockClient) GenerateJSON(ctx context.Context, system, prompt string, _ llm.ModelTier) (string, error) {
	return m.generate(ctx, system, prompt, true)
}

func (m *mockClient) GetModel(llm.ModelTier) string { return "mock-model" }

func (m *mockClient) Close() error { return nil }

const jobDescription = "Python 机器学习"

const goodMarkdown = "## 个人信息\n张三\n## 个人摘要\n擅长 Python 与 机器学习\n## 工作经历\n- 模型准确率提升30%\n" +
	"## 教育背景\n本科\n## 技能\nPython"

func TestGenerateMarkdown(t *testing.T) {
	client := &mockClient{response: "```markdown\n" + goodMarkdown + "\n```"}
	svc := NewService(client, nil, "", 0)

	result, err := svc.GenerateMarkdown(t.Context(), Request{
		JobTitle:       "AI工程师",
		JobDescription: jobDescription,
		Profile:        map[string]any{"姓名": "张三"},
	})
	require.NoError(t, err)

	assert.Equal(t, goodMarkdown, result.Markdown)
	assert.Empty(t, result.Findings)
	assert.Equal(t, DefaultStyle, result.Style)

	require.Len(t, client.prompts, 1)
	assert.Equal(t, "你是资深HR与职业顾问，严谨、客观、结果导向，输出中文Markdown。", client.systems[0])
	assert.Contains(t, client.prompts[0], "【AI工程师】")
	assert.Contains(t, client.prompts[0], `"姓名": "张三"`)
	assert.False(t, client.jsonMode[0])
}

func TestGenerateMarkdown_StyleAndFindings(t *testing.T) {
	client := &mockClient{response: "## 工作经历\n- 负责开发"}
	svc := NewService(client, nil, llm.TierAdvanced, 1)

	result, err := svc.GenerateMarkdown(t.Context(), Request{
		JobTitle:       "AI工程师",
		JobDescription: jobDescription,
		Style:          "极简",
	})
	require.NoError(t, err)

	assert.Equal(t, "极简", result.Style)
	assert.Contains(t, client.prompts[0], "请采用风格: 极简。")
	assert.Equal(t, []string{
		"Missing required section: 个人信息",
		"Missing required section: 个人摘要",
		"Missing required section: 教育背景",
		"Missing required section: 技能",
		"Insufficient quantified results: add concrete numbers or percentages to bullet points",
		"Consider adding job description keywords: Python, 机器学习",
	}, result.Findings)
}

func TestGenerateMarkdown_UsesEngineOptions(t *testing.T) {
	engine := validation.NewEngine(&validation.Options{MarkdownMaxWords: 5})
	svc := NewService(&mockClient{response: goodMarkdown}, engine, "", 0)

	result, err := svc.GenerateMarkdown(t.Context(), Request{JobTitle: "x", JobDescription: jobDescription})
	require.NoError(t, err)
	assert.Equal(t, []string{"Resume too long; should fit one page"}, result.Findings)
	assert.Same(t, engine, svc.Engine())
}

func TestGenerateMarkdown_Errors(t *testing.T) {
	t.Run("client failure", func(t *testing.T) {
		cause := errors.New("quota exceeded")
		svc := NewService(&mockClient{err: cause}, nil, "", 0)

		_, err := svc.GenerateMarkdown(t.Context(), Request{JobTitle: "x", JobDescription: "y"})
		var genErr *Error
		require.ErrorAs(t, err, &genErr)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("empty response", func(t *testing.T) {
		svc := NewService(&mockClient{response: "```\n```"}, nil, "", 0)

		_, err := svc.GenerateMarkdown(t.Context(), Request{JobTitle: "x", JobDescription: "y"})
		var genErr *Error
		require.ErrorAs(t, err, &genErr)
		assert.Contains(t, err.Error(), "empty resume")
	})

	t.Run("unencodable profile", func(t *testing.T) {
		svc := NewService(&mockClient{}, nil, "", 0)

		_, err := svc.GenerateMarkdown(t.Context(), Request{Profile: map[string]any{"x": make(chan int)}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to build prompt")
	})
}

func TestGenerateStructured(t *testing.T) {
	client := &mockClient{response: "Here you go:\n```json\n" + `{
		"contact": {"name": "张三"},
		"summary": "三年 Python 开发经验",
		"experience": [{"title": "工程师", "description": "模型准确率提升30%"}],
		"education": [{"school": "某大学"}],
		"skills": ["Python"]
	}` + "\n```"}
	svc := NewService(client, nil, "", 0)

	result, err := svc.GenerateStructured(t.Context(), Request{JobTitle: "AI工程师", JobDescription: jobDescription})
	require.NoError(t, err)

	assert.Equal(t, "三年 Python 开发经验", result.Resume["summary"])
	assert.Equal(t, []string{"Consider adding job description keywords: 机器学习"}, result.Findings)
	assert.True(t, client.jsonMode[0])
	assert.Contains(t, client.prompts[0], `"experience": [{"title": "string"`)
}

func TestGenerateStructured_ParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "抱歉，我无法完成"},
		{name: "array", response: `[1, 2]`},
		{name: "experience not a list", response: `{"experience": "五年"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&mockClient{response: tt.response}, nil, "", 0)

			_, err := svc.GenerateStructured(t.Context(), Request{JobTitle: "x", JobDescription: "y"})
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.response, parseErr.Raw)
		})
	}

	svc := NewService(&mockClient{response: `{"projects": {"name": "x"}}`}, nil, "", 0)
	_, err := svc.GenerateStructured(t.Context(), Request{})
	var schemaErr *schemas.ValidationError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestGenerateStructured_EmptySectionsAreFindings(t *testing.T) {
	client := &mockClient{response: `{
		"contact": {"name": "张三"},
		"summary": "三年 Python 开发经验",
		"experience": "",
		"education": [{"school": "某大学"}],
		"skills": ["Python"],
		"projects": {}
	}`}
	svc := NewService(client, nil, "", 0)

	result, err := svc.GenerateStructured(t.Context(), Request{JobTitle: "AI工程师", JobDescription: "Python"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Missing required section: experience"}, result.Findings)
}

func TestService_BoundsConcurrency(t *testing.T) {
	client := &mockClient{response: goodMarkdown, delay: 20 * time.Millisecond}
	svc := NewService(client, nil, "", 2)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GenerateMarkdown(context.Background(), Request{JobTitle: "x", JobDescription: jobDescription})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, client.maxInFlight.Load(), int64(2))
	assert.Len(t, client.prompts, 6)
}

func TestService_CanceledWhileWaiting(t *testing.T) {
	client := &mockClient{response: goodMarkdown, delay: time.Second}
	svc := NewService(client, nil, "", 1)

	started := make(chan struct{})
	go func() {
		close(started)
		_, _ = svc.GenerateMarkdown(context.Background(), Request{JobTitle: "x"})
	}()
	<-started
	require.Eventually(t, func() bool { return client.inFlight.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := svc.GenerateMarkdown(ctx, Request{JobTitle: "x"})
	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
