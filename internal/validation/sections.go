package validation

import "strings"

// Section is a required Markdown résumé section and the heading titles accepted for it.
type Section struct {
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms"`
}

// DefaultMarkdownSections are the sections a Markdown résumé must contain.
func DefaultMarkdownSections() []Section {
	return []Section{
		{Name: "个人信息", Synonyms: []string{"个人信息"}},
		{Name: "个人摘要", Synonyms: []string{"个人摘要"}},
		{Name: "工作经历", Synonyms: []string{"工作经历"}},
		{Name: "教育背景", Synonyms: []string{"教育背景", "教育"}},
		{Name: "技能", Synonyms: []string{"技能"}},
	}
}

// DefaultRequiredKeys are the keys a structured résumé must populate.
func DefaultRequiredKeys() []string {
	return []string{"contact", "summary", "experience", "education", "skills"}
}

// headingTitles collects the titles of level-2 and level-3 ATX headings.
func headingTitles(markdown string) map[string]struct{} {
	titles := make(map[string]struct{})
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		level := 0
		for level < len(line) && line[level] == '#' {
			level++
		}
		if level != 2 && level != 3 {
			continue
		}
		rest := line[level:]
		if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		titles[strings.TrimSpace(rest)] = struct{}{}
	}
	return titles
}

// present reports whether any of the section's synonyms is a heading title.
func (s Section) present(titles map[string]struct{}) bool {
	for _, syn := range s.Synonyms {
		if _, ok := titles[syn]; ok {
			return true
		}
	}
	return false
}
