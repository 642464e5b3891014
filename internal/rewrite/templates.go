package rewrite

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

const (
	sedesGridTemplateNameConstant       = "sedes_grid.html.tmpl"
	cursosHeroTemplateNameConstant      = "cursos_hero.html.tmpl"
	designHeroTemplateNameConstant      = "design_hero.html.tmpl"
	designCTATemplateNameConstant       = "design_cta.html.tmpl"
	templateRenderErrorTemplateConstant = "unable to render %s: %w"
)

//go:embed templates/*.html.tmpl
var templateFiles embed.FS

var markupTemplates = template.Must(template.ParseFS(templateFiles, "templates/*.html.tmpl"))

func renderMarkup(templateName string, data any) (string, error) {
	var buffer bytes.Buffer
	if executeError := markupTemplates.ExecuteTemplate(&buffer, templateName, data); executeError != nil {
		return "", fmt.Errorf(templateRenderErrorTemplateConstant, templateName, executeError)
	}
	return buffer.String(), nil
}

// mustRenderSection renders a built-in section template with static data and trims surrounding whitespace.
func mustRenderSection(templateName string, data any) string {
	markup, renderError := renderMarkup(templateName, data)
	if renderError != nil {
		panic(renderError)
	}
	return strings.TrimSpace(markup)
}
