package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// runCLI executes the root command in-process and returns stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decodeFindings(t *testing.T, stdout string) []string {
	t.Helper()
	var resp types.ValidateResumeResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), stdout)
	return resp.Errors
}

const draftMarkdown = "## 个人信息\n张三\n## 工作经历\n- 负责后端开发\n"

func TestValidate_Markdown(t *testing.T) {
	path := writeFile(t, "resume.md", draftMarkdown)

	stdout, _, err := runCLI(t, "", "validate", "--resume", path, "--jd-text", "Go 后端开发")
	require.NoError(t, err)

	findings := decodeFindings(t, stdout)
	assert.Equal(t, []string{
		"Missing required section: 个人摘要",
		"Missing required section: 教育背景",
		"Missing required section: 技能",
		"Insufficient quantified results: add concrete numbers or percentages to bullet points",
		"Consider adding job description keywords: Go, 后端开发",
	}, findings)
}

func TestValidate_Stdin(t *testing.T) {
	stdout, _, err := runCLI(t, draftMarkdown, "validate", "-r", "-")
	require.NoError(t, err)
	assert.Contains(t, decodeFindings(t, stdout), "Missing required section: 技能")
}

func TestValidate_Structured(t *testing.T) {
	resume := `{
		"contact": {"name": "张三"},
		"summary": "五年后端经验",
		"experience": [{"title": "后端工程师", "description": "接口延迟降低40%"}],
		"education": [{"school": "清华大学"}],
		"skills": ["Go"]
	}`
	path := writeFile(t, "resume.json", resume)
	jd := writeFile(t, "jd.txt", "Go Kubernetes")

	stdout, _, err := runCLI(t, "", "validate", "--resume", path, "--jd", jd)
	require.NoError(t, err)
	assert.Equal(t, []string{"Consider adding job description keywords: Kubernetes"}, decodeFindings(t, stdout))
}

func TestValidate_CleanResumePrintsEmptyList(t *testing.T) {
	resume := `{"contact": "a", "summary": "b", "experience": [{"title": "x", "description": "提升20%"}], "education": "c", "skills": ["Go"]}`
	path := writeFile(t, "resume.json", resume)

	stdout, _, err := runCLI(t, "", "validate", "--resume", path, "--strict")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"errors": []`)
}

func TestValidate_StrictFailsOnFindings(t *testing.T) {
	path := writeFile(t, "resume.md", draftMarkdown)

	stdout, _, err := runCLI(t, "", "validate", "--resume", path, "--strict")
	require.ErrorIs(t, err, errFindings)
	assert.NotEmpty(t, decodeFindings(t, stdout))
}

func TestValidate_InputErrors(t *testing.T) {
	md := writeFile(t, "resume.md", draftMarkdown)
	badJSON := writeFile(t, "resume.json", `{"experience": "not a list"}`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing resume flag",
			args:    []string{"validate"},
			wantErr: `required flag(s) "resume" not set`,
		},
		{
			name:    "two job sources",
			args:    []string{"validate", "-r", md, "--jd-text", "Go", "--jd-url", "https://example.com/job"},
			wantErr: "use only one of --jd, --jd-url and --jd-text",
		},
		{
			name:    "missing file",
			args:    []string{"validate", "-r", filepath.Join(t.TempDir(), "nope.md")},
			wantErr: "failed to read resume",
		},
		{
			name:    "malformed structured resume",
			args:    []string{"validate", "-r", badJSON},
			wantErr: "experience",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_VerbosePrintsFindings(t *testing.T) {
	path := writeFile(t, "resume.md", draftMarkdown)

	_, stderr, err := runCLI(t, "", "-v", "validate", "--resume", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Missing required section: 技能")
}

func TestRender_HTMLToFile(t *testing.T) {
	in := writeFile(t, "resume.md", "## 技能\n- Go\n")
	out := filepath.Join(t.TempDir(), "resume.html")

	stdout, _, err := runCLI(t, "", "render", "--in", in, "--out", out, "--theme", "modern")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme-modern")
	assert.Contains(t, string(data), "<h2")
}

func TestRender_StdinToStdout(t *testing.T) {
	stdout, _, err := runCLI(t, "## 教育背景\n本科\n", "render", "--in", "-", "--theme", "unknown")
	require.NoError(t, err)
	assert.Contains(t, stdout, "theme-classic")
	assert.Contains(t, stdout, "教育背景")
}

func TestRender_PDFNeedsOut(t *testing.T) {
	in := writeFile(t, "resume.md", "## 技能\n")

	_, _, err := runCLI(t, "", "render", "--in", in, "--pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--out is required with --pdf")
}

func TestGenerate_RequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	profile := writeFile(t, "profile.json", `{"姓名": "张三"}`)

	_, _, err := runCLI(t, "", "generate", "--profile", profile, "--title", "后端工程师", "--jd-text", "Go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY is required")
}

func TestGenerate_RequiresFlags(t *testing.T) {
	_, _, err := runCLI(t, "", "generate", "--jd-text", "Go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile")
	assert.Contains(t, err.Error(), "title")
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, _, err := runCLI(t, "", "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestRoot_BadConfigFile(t *testing.T) {
	path := writeFile(t, "config.json", "{not json")

	_, _, err := runCLI(t, "", "--config", path, "validate", "-r", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestReadProfile(t *testing.T) {
	profile, err := readProfile(writeFile(t, "p.json", `{"姓名": "张三", "年龄": 25}`))
	require.NoError(t, err)
	assert.Equal(t, "张三", profile["姓名"])

	_, err = readProfile(writeFile(t, "null.json", "null"))
	assert.ErrorContains(t, err, "must be a JSON object")

	_, err = readProfile(writeFile(t, "list.json", "[1]"))
	assert.ErrorContains(t, err, "failed to parse profile")
}
