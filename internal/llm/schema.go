package llm

import (
	"fmt"
	"strings"
)

// OutputSchema describes the JSON document a prompt asks the model to return.
type OutputSchema struct {
	Name   string        // Schema name (e.g., "StructuredResume")
	Fields []SchemaField // Expected output fields
}

// SchemaField defines a single field in the output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint, e.g. "string", ["string"]
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// Instructions renders the schema as output instructions to append to a prompt.
func (s OutputSchema) Instructions() string {
	var sb strings.Builder

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range s.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(s.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Use only facts present in the user profile; write \"用户未提供\" for anything missing.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n")

	return sb.String()
}

// StructuredResumeSchema is the shape of a structured résumé.
func StructuredResumeSchema() OutputSchema {
	return OutputSchema{
		Name: "StructuredResume",
		Fields: []SchemaField{
			{
				Name:        "contact",
				Type:        `{"name": "string", "phone": "string", "email": "string", "location": "string"}`,
				Description: "Contact details",
				Required:    true,
			},
			{
				Name:        "summary",
				Type:        `"string"`,
				Description: "2-3 sentences matching the candidate to the role",
				Required:    true,
			},
			{
				Name:        "experience",
				Type:        `[{"title": "string", "company": "string", "period": "string", "description": "string", "achievements": "string"}]`,
				Description: "Reverse chronological; every entry states a quantified result",
				Required:    true,
			},
			{
				Name:        "education",
				Type:        `[{"school": "string", "major": "string", "degree": "string", "period": "string"}]`,
				Description: "Education history",
				Required:    true,
			},
			{
				Name:        "skills",
				Type:        `["string"]`,
				Description: "Individual skills, one per item, using the job description's wording",
				Required:    true,
			},
			{
				Name:        "projects",
				Type:        `[{"name": "string", "role": "string", "description": "string", "results": "string"}]`,
				Description: "Relevant projects, if any",
				Required:    false,
			},
		},
	}
}
