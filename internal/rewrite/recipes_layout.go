package rewrite

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	layoutSourcePageConstant           = "index.html"
	layoutBlockMissingTemplateConstant = "unable to extract the %s block from %s"
	layoutHeaderBlockNameConstant      = "header"
	layoutFooterBlockNameConstant      = "footer"
	nestedPageParentPrefixConstant     = "../"
	layoutSourceUnavailableConstant    = "layout sync requires a site reader"
)

var (
	headerNavigationBlockPattern = regexp.MustCompile(`(?s)<!-- Header Navigation -->.*?</header>`)
	legacyNavigationBlockPattern = regexp.MustCompile(`(?s)<!-- Navigation -->.*?</nav>`)
	footerBlockPattern           = regexp.MustCompile(`(?s)<!-- Footer -->.*?</footer>`)
	rootRelativeLinkPattern      = regexp.MustCompile(`\b(href|src)="/([^/])`)
)

// relativizeRootLinks rewrites root-relative href and src attributes for pages nested one directory deep.
// Protocol-relative URLs starting with // are left alone.
func relativizeRootLinks(markup string) string {
	return rootRelativeLinkPattern.ReplaceAllString(markup, `${1}="`+nestedPageParentPrefixConstant+`${2}`)
}

func layoutSyncRules(page PageContext) ([]Rule, error) {
	if page.Site == nil {
		return nil, errors.New(layoutSourceUnavailableConstant)
	}
	sourceContent, readError := page.Site.ReadPage(layoutSourcePageConstant)
	if readError != nil {
		return nil, readError
	}

	header := headerNavigationBlockPattern.FindString(sourceContent)
	if len(header) == 0 {
		return nil, fmt.Errorf(layoutBlockMissingTemplateConstant, layoutHeaderBlockNameConstant, layoutSourcePageConstant)
	}
	footer := footerBlockPattern.FindString(sourceContent)
	if len(footer) == 0 {
		return nil, fmt.Errorf(layoutBlockMissingTemplateConstant, layoutFooterBlockNameConstant, layoutSourcePageConstant)
	}

	if strings.Contains(page.Path, "/") {
		header = relativizeRootLinks(header)
		footer = relativizeRootLinks(footer)
	}

	return []Rule{
		FirstMatchRule{
			Label: "shared header",
			Alternatives: []Rule{
				LiteralRegexRule("legacy navigation", legacyNavigationBlockPattern, header),
				LiteralRegexRule("header navigation", headerNavigationBlockPattern, header),
			},
		},
		LiteralRegexRule("shared footer", footerBlockPattern, footer),
	}, nil
}

func layoutSyncRecipe() Recipe {
	return Recipe{
		Name:        "layout-sync",
		Description: "Copy the header and footer of index.html into the other pages",
		Files: []string{
			"blog.html",
			"ciclos.html",
			"sedes.html",
			"cursos.html",
			"contacto.html",
			"faq.html",
			"sobre-nosotros.html",
			"acceso-alumnos.html",
			"aviso-legal.html",
			"politica-cookies.html",
			"politica-privacidad.html",
			"cursos/desempleados.html",
			"cursos/ocupados.html",
			"cursos/privados.html",
			"cursos/teleformacion.html",
		},
		PageRules: layoutSyncRules,
	}
}
