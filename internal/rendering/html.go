// Package rendering turns Markdown résumés into themed HTML pages and PDFs.
package rendering

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// DefaultTitle is the page title of a rendered résumé.
const DefaultTitle = "简历"

//go:embed templates/resume_base.html
var baseTemplate string

// pageData is the data passed to the page template
type pageData struct {
	Title      string
	ThemeClass string
	Content    template.HTML
}

// Renderer converts Markdown to a complete HTML page.
type Renderer struct {
	md   goldmark.Markdown
	page *template.Template
}

// NewRenderer creates a Renderer using the embedded page template.
func NewRenderer() *Renderer {
	page, err := parseTemplate("resume_base.html", baseTemplate)
	if err != nil {
		panic(err)
	}
	return newRenderer(page)
}

// NewRendererFromFile creates a Renderer whose page template is read from templatePath.
// The template receives .Title, .ThemeClass and .Content.
func NewRendererFromFile(templatePath string) (*Renderer, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}

	page, err := parseTemplate(templatePath, string(content))
	if err != nil {
		return nil, err
	}
	return newRenderer(page), nil
}

func newRenderer(page *template.Template) *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
				extension.Footnote,
				extension.DefinitionList,
			),
		),
		page: page,
	}
}

func parseTemplate(name, content string) (*template.Template, error) {
	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return tmpl, nil
}

// Fragment converts Markdown to an HTML fragment. Raw HTML in the input is omitted.
func (r *Renderer) Fragment(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", &RenderError{Message: "failed to convert markdown", Cause: err}
	}
	return buf.String(), nil
}

// HTML renders Markdown as a standalone page styled with theme and returns the page and
// the theme actually applied.
func (r *Renderer) HTML(markdown, theme string) (string, Theme, error) {
	applied, _ := ParseTheme(theme)

	fragment, err := r.Fragment(markdown)
	if err != nil {
		return "", applied, err
	}

	var page bytes.Buffer
	err = r.page.Execute(&page, pageData{
		Title:      DefaultTitle,
		ThemeClass: applied.Class(),
		Content:    template.HTML(fragment), // goldmark drops raw HTML by default
	})
	if err != nil {
		return "", applied, &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return page.String(), applied, nil
}

var defaultRenderer = NewRenderer()

// RenderHTML renders Markdown with the embedded page template.
func RenderHTML(markdown, theme string) (string, Theme, error) {
	return defaultRenderer.HTML(markdown, theme)
}
