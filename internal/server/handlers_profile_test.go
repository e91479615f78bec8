package server

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_GetAndUpdate(t *testing.T) {
	env := newTestServer(t)
	token, userID := env.register(t, "zhangsan")

	w := env.do(t, http.MethodGet, "/api/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decodeData[db.Profile](t, w)
	require.NotNil(t, profile.User)
	assert.Equal(t, userID, profile.User.ID.String())
	assert.Empty(t, profile.WorkExperiences)
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(t, http.MethodPut, "/api/profile", map[string]string{
		"full_name": "张三丰",
		"phone":     "13800000000",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	user := decodeData[db.User](t, w)
	assert.Equal(t, "张三丰", user.FullName)
	assert.Equal(t, "13800000000", user.Phone)
	assert.Equal(t, "zhangsan@example.com", user.Email)
}

func TestProfile_UpdateEmailConflict(t *testing.T) {
	env := newTestServer(t)
	env.register(t, "lisi")
	token, _ := env.register(t, "zhangsan")

	w := env.do(t, http.MethodPut, "/api/profile", map[string]string{"email": "lisi@example.com"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWorkExperience_CRUD(t *testing.T) {
	env := newTestServer(t)
	token, _ := env.register(t, "zhangsan")

	w := env.do(t, http.MethodPost, "/api/work-experiences", map[string]any{
		"company":      "某科技公司",
		"position":     "后端工程师",
		"start_date":   "2021-07-01",
		"is_current":   true,
		"achievements": "接口延迟降低40%",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeData[db.WorkExperience](t, w)
	assert.Equal(t, "2021-07-01", created.StartDate.Format(db.DateLayout))
	assert.Nil(t, created.EndDate)

	w = env.do(t, http.MethodPut, "/api/work-experiences/"+created.ID.String(), map[string]any{
		"end_date":   "2023-06-30",
		"is_current": false,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeData[db.WorkExperience](t, w)
	require.NotNil(t, updated.EndDate)
	assert.Equal(t, "2023-06-30", updated.EndDate.Format(db.DateLayout))
	assert.False(t, updated.IsCurrent)
	assert.Equal(t, "某科技公司", updated.Company)

	w = env.do(t, http.MethodGet, "/api/work-experiences", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[[]db.WorkExperience](t, w), 1)

	w = env.do(t, http.MethodDelete, "/api/work-experiences/"+created.ID.String(), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/work-experiences/"+created.ID.String(), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkExperience_Validation(t *testing.T) {
	env := newTestServer(t)
	token, _ := env.register(t, "zhangsan")

	w := env.do(t, http.MethodPost, "/api/work-experiences", map[string]any{
		"company":    "某科技公司",
		"position":   "后端工程师",
		"start_date": "2021/07/01",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Error, "start_date")

	w = env.do(t, http.MethodPut, "/api/work-experiences/not-a-uuid", map[string]any{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid id", decodeEnvelope(t, w).Error)

	w = env.do(t, http.MethodPut, "/api/work-experiences/"+uuid.NewString(), map[string]any{"company": "x"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfile_EntriesAreScopedToOwner(t *testing.T) {
	env := newTestServer(t)
	owner, _ := env.register(t, "zhangsan")
	other, _ := env.register(t, "lisi")

	w := env.do(t, http.MethodPost, "/api/education", map[string]any{
		"school":     "北京大学",
		"major":      "计算机科学",
		"degree":     "本科",
		"start_date": "2015-09-01",
		"end_date":   "2019-07-01",
		"gpa":        3.6,
	}, owner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	edu := decodeData[db.Education](t, w)

	w = env.do(t, http.MethodPut, "/api/education/"+edu.ID.String(), map[string]any{"major": "数学"}, other)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodDelete, "/api/education/"+edu.ID.String(), nil, other)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/education", nil, other)
	assert.Empty(t, decodeData[[]db.Education](t, w))

	w = env.do(t, http.MethodPut, "/api/education/"+edu.ID.String(), map[string]any{"major": "数学"}, owner)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeData[db.Education](t, w)
	assert.Equal(t, "数学", updated.Major)
	require.NotNil(t, updated.GPA)
	assert.InDelta(t, 3.6, *updated.GPA, 0.001)
}

func TestSkillsAndProjects(t *testing.T) {
	env := newTestServer(t)
	token, _ := env.register(t, "zhangsan")

	w := env.do(t, http.MethodPost, "/api/skills", map[string]string{
		"name":              "Go",
		"category":          "编程语言",
		"proficiency_level": "精通",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	skill := decodeData[db.Skill](t, w)

	w = env.do(t, http.MethodPost, "/api/projects", map[string]any{
		"name":       "推荐系统",
		"role":       "负责人",
		"tech_stack": []string{"Go", " Redis "},
		"results":    "点击率提升15%",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := decodeData[db.Project](t, w)
	assert.Equal(t, db.StringArray{"Go", "Redis"}, project.TechStack)
	assert.Nil(t, project.StartDate)

	w = env.do(t, http.MethodGet, "/api/profile", nil, token)
	profile := decodeData[db.Profile](t, w)
	assert.Len(t, profile.Skills, 1)
	assert.Len(t, profile.Projects, 1)

	w = env.do(t, http.MethodDelete, "/api/skills/"+skill.ID.String(), nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodDelete, "/api/projects/"+project.ID.String(), nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/skills", nil, token)
	assert.Empty(t, decodeData[[]db.Skill](t, w))
}

func TestSkill_MissingField(t *testing.T) {
	env := newTestServer(t)
	token, _ := env.register(t, "zhangsan")

	w := env.do(t, http.MethodPost, "/api/skills", map[string]string{"name": "Go"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing required field: category", decodeEnvelope(t, w).Error)
}
