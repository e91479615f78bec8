package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkExperienceRequest_Validate(t *testing.T) {
	valid := CreateWorkExperienceRequest{Company: "北京科技有限公司", Position: "软件工程师", StartDate: "2022-01-01"}
	assert.NoError(t, valid.Validate())

	noStart := valid
	noStart.StartDate = ""
	assert.EqualError(t, noStart.Validate(), "missing required field: start_date")

	badDate := valid
	badDate.EndDate = "2023/12/31"
	assert.EqualError(t, badDate.Validate(), "invalid date for end_date: expected YYYY-MM-DD")

	noCompany := valid
	noCompany.Company = ""
	assert.EqualError(t, noCompany.Validate(), "missing required field: company")
}

func TestUpdateWorkExperienceRequest_PartialFields(t *testing.T) {
	var req UpdateWorkExperienceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"achievements": "用户增长50%", "end_date": "2024-06-30"}`), &req))
	require.NoError(t, req.Validate())

	assert.Nil(t, req.Company)
	require.NotNil(t, req.Achievements)
	assert.Equal(t, "用户增长50%", *req.Achievements)

	bad := "June"
	req.StartDate = &bad
	assert.Error(t, req.Validate())
}

func TestCreateEducationRequest_Validate(t *testing.T) {
	gpa := 3.8
	req := CreateEducationRequest{School: "北京邮电大学", Major: "计算机", Degree: "本科", StartDate: "2018-09-01", GPA: &gpa}
	assert.NoError(t, req.Validate())

	tooHigh := 7.0
	req.GPA = &tooHigh
	assert.EqualError(t, req.Validate(), "invalid value for gpa: must satisfy lte=5")
}

func TestCreateSkillRequest_Validate(t *testing.T) {
	assert.NoError(t, (&CreateSkillRequest{Name: "Go", Category: "编程语言", ProficiencyLevel: "高级"}).Validate())
	assert.EqualError(t, (&CreateSkillRequest{Name: "Go", Category: "编程语言"}).Validate(), "missing required field: proficiency_level")
}

func TestCreateProjectRequest_Validate(t *testing.T) {
	assert.NoError(t, (&CreateProjectRequest{Name: "Optimizer", TechStack: []string{"Go"}}).Validate())
	assert.Error(t, (&CreateProjectRequest{Name: "Optimizer", TechStack: []string{""}}).Validate())
	assert.EqualError(t, (&CreateProjectRequest{}).Validate(), "missing required field: name")
}

func TestCreateResumeRequest_Document(t *testing.T) {
	var req CreateResumeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title": "A", "content": "## 技能\nGo"}`), &req))
	require.NoError(t, req.Validate())
	doc, err := req.Document()
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, doc.Format)
	assert.Equal(t, "## 技能\nGo", doc.Markdown)

	require.NoError(t, json.Unmarshal([]byte(`{"title": "B", "format": "structured", "content": {"skills": ["Go"]}}`), &req))
	doc, err = req.Document()
	require.NoError(t, err)
	assert.Equal(t, FormatStructured, doc.Format)
	assert.Equal(t, []any{"Go"}, doc.Structured["skills"])

	req = CreateResumeRequest{Title: "C", Format: "markdown", Content: json.RawMessage(`{"a": 1}`)}
	_, err = req.Document()
	assert.Error(t, err)

	req = CreateResumeRequest{Title: "D", Format: "latex", Content: json.RawMessage(`"x"`)}
	assert.Error(t, req.Validate())

	assert.EqualError(t, (&CreateResumeRequest{Title: "E"}).Validate(), "missing required field: content")
}
