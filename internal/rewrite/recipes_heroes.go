package rewrite

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

const (
	gradientHeroStyleConstant         = `style="background: linear-gradient(to right, #F2014B, #d01040)"`
	pageHeroMarkerConstant            = "<!-- Page Hero -->"
	breadcrumbMarkerConstant          = "<!-- Breadcrumb -->"
	unknownCursosPageTemplateConstant = "no hero defined for %s"
)

func pexelsPhoto(identifier string, width string) string {
	return fmt.Sprintf("https://images.pexels.com/photos/%s/pexels-photo-%s.jpeg?auto=compress&cs=tinysrgb&w=%s", identifier, identifier, width)
}

func imageHeroStyle(photoIdentifier string) string {
	return `style="background: linear-gradient(rgba(242, 1, 75, 0.85), rgba(208, 16, 64, 0.85)), url('` +
		pexelsPhoto(photoIdentifier, "1920") + `') center/cover no-repeat"`
}

func heroImageRule(photoIdentifier string) []Rule {
	return []Rule{
		LiteralRule{
			Label: "gradient hero → image hero",
			Old:   gradientHeroStyleConstant,
			New:   imageHeroStyle(photoIdentifier),
		},
	}
}

func heroImagesRecipe() Recipe {
	return Recipe{
		Name:        "hero-images",
		Description: "Add Pexels background photos behind the gradient page heroes",
		Files:       []string{"sedes.html", "sobre-nosotros.html", "cursos.html"},
		FileRules: map[string][]Rule{
			"sedes.html":          heroImageRule("1595385"),
			"sobre-nosotros.html": heroImageRule("3184291"),
			"cursos.html":         heroImageRule("3184360"),
		},
	}
}

func heroOverlayRecipe() Recipe {
	return Recipe{
		Name:        "hero-overlay",
		Description: "Lower the brand overlay opacity on hero images from 0.85 to 0.5",
		Files:       []string{"sedes.html", "blog.html", "ciclos.html", "cursos.html", "sobre-nosotros.html"},
		Rules: []Rule{
			LiteralRule{Label: "pink overlay", Old: "rgba(242, 1, 75, 0.85)", New: "rgba(242, 1, 75, 0.5)"},
			LiteralRule{Label: "dark pink overlay", Old: "rgba(208, 16, 64, 0.85)", New: "rgba(208, 16, 64, 0.5)"},
		},
	}
}

type cursosHero struct {
	Title    string
	Subtitle string
	Image    string
}

var cursosHeroes = map[string]cursosHero{
	"desempleados": {
		Title:    "CURSOS PARA DESEMPLEADOS",
		Subtitle: "Formación gratuita financiada para impulsar tu reinserción laboral",
		Image:    pexelsPhoto("5212320", "1920"),
	},
	"ocupados": {
		Title:    "CURSOS PARA TRABAJADORES",
		Subtitle: "Formación continua para profesionales en activo. Mejora tus competencias",
		Image:    pexelsPhoto("3184465", "1920"),
	},
	"privados": {
		Title:    "CURSOS PRIVADOS",
		Subtitle: "Formación personalizada y certificada para alcanzar tus objetivos profesionales",
		Image:    pexelsPhoto("3184292", "1920"),
	},
	"teleformacion": {
		Title:    "TELEFORMACIÓN",
		Subtitle: "Aprende desde cualquier lugar con nuestra plataforma online de formación",
		Image:    pexelsPhoto("4144923", "1920"),
	},
}

var headerCloseLinePattern = regexp.MustCompile(`(</header>\s*\n)`)

func cursosHeroRules(page PageContext) ([]Rule, error) {
	pageKey := strings.TrimSuffix(path.Base(page.Path), path.Ext(page.Path))
	hero, known := cursosHeroes[pageKey]
	if !known {
		return nil, fmt.Errorf(unknownCursosPageTemplateConstant, page.Path)
	}

	heroMarkup, renderError := renderMarkup(cursosHeroTemplateNameConstant, hero)
	if renderError != nil {
		return nil, renderError
	}

	return []Rule{
		FirstMatchRule{
			Label: "page hero",
			Guard: Guard{SkipIfContains: []string{pageHeroMarkerConstant}},
			Alternatives: []Rule{
				LiteralRule{
					Label: "before breadcrumb",
					Old:   breadcrumbMarkerConstant,
					New:   heroMarkup + "    " + breadcrumbMarkerConstant,
				},
				RegexFuncRule{
					Label:   "after header",
					Pattern: headerCloseLinePattern,
					Count:   1,
					Replace: func(groups []string) string {
						return groups[1] + heroMarkup
					},
				},
			},
		},
	}, nil
}

func cursosHeroesRecipe() Recipe {
	return Recipe{
		Name:        "cursos-heroes",
		Description: "Insert a photo hero section into the cursos/ subpages",
		Files: []string{
			"cursos/desempleados.html",
			"cursos/ocupados.html",
			"cursos/privados.html",
			"cursos/teleformacion.html",
		},
		PageRules: cursosHeroRules,
	}
}

func duplicateStylesRecipe() Recipe {
	return Recipe{
		Name:        "duplicate-styles",
		Description: "Keep only the second of two adjacent style attributes on hero sections",
		Files:       []string{"blog.html", "ciclos.html"},
		Rules: []Rule{
			RegexRule{
				Label:       "duplicate hero style",
				Pattern:     regexp.MustCompile(`style="background-image: linear-gradient\([^)]+\), url\([^)]+\)"\s+style="(background: [^"]+)"`),
				Replacement: `style="${1}"`,
			},
		},
	}
}
