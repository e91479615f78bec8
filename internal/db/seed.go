package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SeedPassword is the password of the demo accounts created by Seed.
const SeedPassword = "123456"

// SeedResult summarizes what Seed inserted.
type SeedResult struct {
	Skipped         bool
	Users           []string
	WorkExperiences int
	Education       int
	Skills          int
	Resumes         int
}

func day(year int, month time.Month, d int) Date {
	return Date{Time: time.Date(year, month, d, 0, 0, 0, 0, time.UTC)}
}

func ptr[T any](v T) *T { return &v }

// Seed inserts two demo users with sample profiles. It does nothing when any user exists.
// hash turns SeedPassword into a stored password hash.
func (db *DB) Seed(ctx context.Context, hash func(string) (string, error)) (*SeedResult, error) {
	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return &SeedResult{Skipped: true}, nil
	}

	passwordHash, err := hash(SeedPassword)
	if err != nil {
		return nil, err
	}

	result := &SeedResult{}
	demo, err := db.CreateUser(ctx, &User{
		Username: "demo_user", Email: "demo@example.com", FullName: "张三",
		Phone: "138-0000-0000", PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, err
	}
	test, err := db.CreateUser(ctx, &User{
		Username: "test_user", Email: "test@example.com", FullName: "李四",
		Phone: "139-0000-0000", PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, err
	}
	result.Users = []string{demo.Username, test.Username}

	experiences := []WorkExperience{
		{
			UserID: demo.ID, Company: "北京科技有限公司", Position: "软件工程师",
			StartDate: day(2022, 1, 1), EndDate: ptr(day(2023, 12, 31)),
			Description:  "负责Web应用开发和维护，使用Python Flask框架",
			Achievements: "成功开发了3个Web应用，提升了系统性能30%",
		},
		{
			UserID: demo.ID, Company: "上海互联网公司", Position: "高级软件工程师",
			StartDate: day(2024, 1, 1), IsCurrent: true,
			Description:  "负责AI相关项目开发，使用机器学习技术",
			Achievements: "主导开发了智能推荐系统，用户满意度提升25%",
		},
		{
			UserID: test.ID, Company: "深圳科技公司", Position: "产品经理",
			StartDate: day(2021, 6, 1), IsCurrent: true,
			Description:  "负责产品规划和需求分析，协调开发团队",
			Achievements: "成功推出了2款产品，用户增长50%",
		},
	}
	for i := range experiences {
		if _, err := db.CreateWorkExperience(ctx, &experiences[i]); err != nil {
			return nil, err
		}
		result.WorkExperiences++
	}

	education := []Education{
		{
			UserID: demo.ID, School: "北京邮电大学", Major: "计算机科学与技术", Degree: "本科",
			StartDate: day(2018, 9, 1), EndDate: ptr(day(2022, 6, 30)), GPA: ptr(3.8),
			Description: "主修计算机科学，辅修人工智能",
		},
		{
			UserID: test.ID, School: "清华大学", Major: "工商管理", Degree: "硕士",
			StartDate: day(2019, 9, 1), EndDate: ptr(day(2021, 6, 30)), GPA: ptr(3.9),
		},
	}
	for i := range education {
		if _, err := db.CreateEducation(ctx, &education[i]); err != nil {
			return nil, err
		}
		result.Education++
	}

	skills := []struct{ name, category, level string }{
		{"Python", "编程语言", "高级"},
		{"JavaScript", "编程语言", "中级"},
		{"Flask", "框架", "高级"},
		{"Django", "框架", "中级"},
		{"MySQL", "数据库", "中级"},
		{"Redis", "数据库", "初级"},
		{"Git", "工具", "高级"},
		{"Docker", "工具", "中级"},
		{"机器学习", "技术", "中级"},
		{"深度学习", "技术", "初级"},
	}
	for _, s := range skills {
		_, err := db.CreateSkill(ctx, &Skill{
			UserID: demo.ID, Name: s.name, Category: s.category, ProficiencyLevel: s.level,
			Description: fmt.Sprintf("熟练掌握%s，%s水平", s.name, s.level),
		})
		if err != nil {
			return nil, err
		}
		result.Skills++
	}

	content, err := json.Marshal(map[string]any{
		"contact": map[string]any{"name": "张三", "phone": "138-0000-0000", "email": "demo@example.com"},
		"summary": "热爱编程，具备扎实的技术功底和持续学习能力。在AI与Web开发方向有深入实践。",
		"experience": []map[string]any{
			{"title": "高级软件工程师", "company": "上海互联网公司", "description": "主导开发了智能推荐系统，用户满意度提升25%"},
			{"title": "软件工程师", "company": "北京科技有限公司", "description": "负责Web应用开发和维护，系统性能提升30%"},
		},
		"education": []map[string]any{
			{"school": "北京邮电大学", "major": "计算机科学与技术", "degree": "本科"},
		},
		"skills": []string{"Python", "JavaScript", "Flask", "Django", "MySQL", "Redis", "Git", "Docker"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode seed resume: %w", err)
	}
	if _, err := db.CreateResume(ctx, &Resume{
		UserID: demo.ID, Title: "张三-软件工程师简历",
		Format: ResumeFormatStructured, Content: content, IsDefault: true,
	}); err != nil {
		return nil, err
	}
	result.Resumes++

	return result, nil
}
