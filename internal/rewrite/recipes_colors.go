package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	brandPinkConstant     = "#F2014B"
	brandPinkDarkConstant = "#d01040"

	tailwindPinkConstant     = "#ec008c"
	tailwindPinkDarkConstant = "#c7006f"
	tailwindGreenConstant    = "#00a651"
	tailwindBlueConstant     = "#0056b3"
	tailwindOrangeConstant   = "#ff6b35"
)

var (
	mainPagesWithCursos = []string{
		"index.html",
		"sedes.html",
		"blog.html",
		"ciclos.html",
		"contacto.html",
		"cursos.html",
		"faq.html",
		"sobre-nosotros.html",
		"acceso-alumnos.html",
		"cursos/desempleados.html",
		"cursos/ocupados.html",
		"cursos/privados.html",
		"cursos/teleformacion.html",
	}

	allSitePages = []string{
		"index.html",
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
	}

	topLevelPagesGlobs = []string{"*.html", "cursos/*.html"}
)

func classToInlineStyleRule(label string, classExpression string, style string) RegexRule {
	return RegexRule{
		Label:       label,
		Pattern:     regexp.MustCompile(`class="([^"]*?)` + classExpression + `([^"]*?)"`),
		Replacement: `class="${1}${2}" style="` + style + `"`,
	}
}

func tailwindColorsRecipe() Recipe {
	gradient := func(direction string, from string, to string) string {
		return fmt.Sprintf("background: linear-gradient(%s, %s, %s)", direction, from, to)
	}
	background := func(color string) string {
		return "background-color: " + color
	}

	return Recipe{
		Name:        "tailwind-colors",
		Description: "Replace custom bg-cep-* and gradient classes with inline corporate colors",
		Files:       mainPagesWithCursos,
		Rules: []Rule{
			classToInlineStyleRule("gradient pink to-r", `bg-gradient-to-r from-cep-pink to-cep-pink-dark`, gradient("to right", tailwindPinkConstant, tailwindPinkDarkConstant)),
			classToInlineStyleRule("gradient pink", `from-cep-pink to-cep-pink-dark`, gradient("to bottom right", tailwindPinkConstant, tailwindPinkDarkConstant)),
			classToInlineStyleRule("gradient green", `from-cep-green to-green-700`, gradient("to bottom right", tailwindGreenConstant, "#15803d")),
			classToInlineStyleRule("gradient orange", `from-cep-orange to-orange-700`, gradient("to bottom right", tailwindOrangeConstant, "#c2410c")),
			classToInlineStyleRule("gradient blue", `from-cep-blue to-blue-700`, gradient("to bottom right", tailwindBlueConstant, "#1d4ed8")),
			classToInlineStyleRule("bg-cep-pink-dark", `bg-cep-pink-dark`, background(tailwindPinkDarkConstant)),
			classToInlineStyleRule("bg-cep-pink", `bg-cep-pink`, background(tailwindPinkConstant)),
			classToInlineStyleRule("bg-cep-green", `bg-cep-green`, background(tailwindGreenConstant)),
			classToInlineStyleRule("bg-cep-orange", `bg-cep-orange`, background(tailwindOrangeConstant)),
		},
	}
}

// ContrastPatterns lists the white-on-light class combinations, keyed by a human label,
// in the order they are inspected and fixed.
var ContrastPatterns = []struct {
	Label   string
	Pattern *regexp.Regexp
}{
	{Label: "bg-white + text-white", Pattern: regexp.MustCompile(`class="[^"]*bg-white[^"]*text-white[^"]*"`)},
	{Label: "text-white + bg-white", Pattern: regexp.MustCompile(`class="[^"]*text-white[^"]*bg-white[^"]*"`)},
	{Label: "bg-gray-light + text-white", Pattern: regexp.MustCompile(`class="[^"]*bg-gray-(50|100)[^"]*text-white[^"]*"`)},
}

// ContrastPages lists the page globs covered by the contrast recipe and inspection.
func ContrastPages() []string {
	return append([]string{}, topLevelPagesGlobs...)
}

func contrastRecipe() Recipe {
	return Recipe{
		Name:        "contrast",
		Description: "Replace white text on white or light gray backgrounds with text-gray-900",
		Files:       ContrastPages(),
		Rules: []Rule{
			RegexRule{
				Label:       "bg-white + text-white → text-gray-900",
				Pattern:     regexp.MustCompile(`class="([^"]*bg-white[^"]*)text-white([^"]*)"`),
				Replacement: `class="${1}text-gray-900${2}"`,
			},
			RegexRule{
				Label:       "text-white + bg-white → text-gray-900",
				Pattern:     regexp.MustCompile(`class="([^"]*)text-white([^"]*)bg-white([^"]*)"`),
				Replacement: `class="${1}text-gray-900${2}bg-white${3}"`,
			},
			RegexRule{
				Label:       "bg-gray-light + text-white → text-gray-900",
				Pattern:     regexp.MustCompile(`class="([^"]*bg-gray-(?:50|100)[^"]*)text-white([^"]*)"`),
				Replacement: `class="${1}text-gray-900${2}"`,
			},
		},
	}
}

func heroFooterColorsRecipe() Recipe {
	return Recipe{
		Name:        "hero-footer-colors",
		Description: "Remove duplicated button styles, malformed hover classes, and the cep-pink footer class",
		Files:       allSitePages,
		Rules: []Rule{
			RegexRule{
				Label:       "duplicate button style",
				Pattern:     regexp.MustCompile(`style="background-color: #d01040"\s+style="background-color: #F2014B"`),
				Replacement: `style="background-color: ` + brandPinkConstant + `"`,
			},
			RegexRule{
				Label:       "malformed hover class",
				Pattern:     regexp.MustCompile(`class="\s*hover:\s+`),
				Replacement: `class="`,
			},
			RegexRule{
				Label:       "footer background",
				Pattern:     regexp.MustCompile(`<footer\s+class="cep-pink\s+text-white\s+py-12">`),
				Replacement: `<footer class="text-white py-12" style="background-color: ` + brandPinkConstant + `">`,
			},
		},
	}
}

func accesoAlumnosRecipe() Recipe {
	outlineButton := `<a href="/acceso-alumnos" class="border-2 text-sm uppercase tracking-wide px-4 py-2 rounded-lg font-semibold hover:bg-opacity-10 transition-colors" style="border-color: ` +
		brandPinkConstant + `; color: ` + brandPinkConstant + `; background-color: white">Acceso Alumnos</a>`

	return Recipe{
		Name:        "acceso-alumnos",
		Description: "Turn the filled Acceso Alumnos button into an outline button",
		Files: []string{
			"index.html", "blog.html", "ciclos.html", "sedes.html",
			"cursos.html", "contacto.html", "faq.html", "sobre-nosotros.html",
		},
		Rules: []Rule{
			LiteralRegexRule(
				"acceso alumnos outline",
				regexp.MustCompile(`<a[^>]*href="/acceso-alumnos"[^>]*class="[^"]*border-2 border-cep-pink text-white[^"]*"[^>]*style="background-color: #F2014B"[^>]*>\s*Acceso Alumnos\s*</a>`),
				outlineButton,
			),
		},
	}
}

func dropdownBackgroundRecipe() Recipe {
	return Recipe{
		Name:        "dropdown-background",
		Description: "Force a white inline background on the menu dropdown containers",
		Files: []string{
			"index.html", "blog.html", "ciclos.html", "sedes.html",
			"cursos.html", "contacto.html", "faq.html", "sobre-nosotros.html",
			"acceso-alumnos.html", "aviso-legal.html",
			"politica-cookies.html", "politica-privacidad.html",
		},
		Rules: []Rule{
			RegexRule{
				Label:       "dropdown background",
				Pattern:     regexp.MustCompile(`(<div\s+class="absolute top-full left-0 mt-2 bg-white[^"]*")(\s*>)`),
				Replacement: `${1} style="background-color: white"${2}`,
			},
		},
	}
}

var (
	blueBackgroundClassPattern = regexp.MustCompile(`class="([^"]*?\bbg-blue-\d+\b[^"]*?)"`)
	blueBackgroundTokenPattern = regexp.MustCompile(`\bbg-blue-\d+\b`)
	blueTextClassPattern       = regexp.MustCompile(`class="([^"]*?\btext-blue-\d+\b[^"]*?)"`)
	blueTextTokenPattern       = regexp.MustCompile(`\btext-blue-\d+\b`)
	repeatedWhitespacePattern  = regexp.MustCompile(`\s+`)
)

func stripClassToken(classes string, token *regexp.Regexp) string {
	stripped := strings.TrimSpace(token.ReplaceAllString(classes, ""))
	return repeatedWhitespacePattern.ReplaceAllString(stripped, " ")
}

func brandColorsRecipe() Recipe {
	return Recipe{
		Name:        "brand-colors",
		Description: "Convert blue utility classes to the brand pink",
		Files: []string{
			"blog.html",
			"ciclos.html",
			"cursos/desempleados.html",
			"cursos/ocupados.html",
			"cursos/privados.html",
			"cursos/teleformacion.html",
			"acceso-alumnos.html",
			"aviso-legal.html",
			"politica-cookies.html",
			"politica-privacidad.html",
		},
		Rules: []Rule{
			RegexRule{
				Label:       "blue gradient",
				Pattern:     regexp.MustCompile(`bg-gradient-to-r from-blue-\d+ to-blue-\d+`),
				Replacement: "bg-white",
			},
			RegexFuncRule{
				Label:   "bg-blue classes",
				Pattern: blueBackgroundClassPattern,
				Replace: func(groups []string) string {
					return fmt.Sprintf(`class="%s" style="background-color: %s"`, stripClassToken(groups[1], blueBackgroundTokenPattern), brandPinkConstant)
				},
			},
			RegexFuncRule{
				Label:   "text-blue classes",
				Pattern: blueTextClassPattern,
				Replace: func(groups []string) string {
					return fmt.Sprintf(`class="%s" style="color: %s"`, stripClassToken(groups[1], blueTextTokenPattern), brandPinkConstant)
				},
			},
			RegexRule{Label: "hover:bg-blue", Pattern: regexp.MustCompile(`hover:bg-blue-\d+`), Replacement: "hover:opacity-90"},
			RegexRule{Label: "hover:text-blue", Pattern: regexp.MustCompile(`hover:text-blue-\d+`), Replacement: "hover:opacity-90"},
			RegexRule{Label: "border-blue", Pattern: regexp.MustCompile(`border-blue-\d+`), Replacement: ""},
			RegexRule{Label: ".cep-blue selector", Pattern: regexp.MustCompile(`\.cep-blue\b`), Replacement: ".text-cep-pink"},
			RegexRule{Label: "cep-dark-blue", Pattern: regexp.MustCompile(`cep-dark-blue`), Replacement: "text-gray-800"},
			RegexRule{
				Label:       "active filter button",
				Pattern:     regexp.MustCompile(`(class="[^"]*?filter-btn[^"]*?)bg-blue-600 text-white`),
				Replacement: `${1}text-white" style="background-color: ` + brandPinkConstant,
			},
			RegexRule{
				Label:       "primary badge",
				Pattern:     regexp.MustCompile(`bg-blue-100 text-blue-800`),
				Replacement: `text-white" style="background-color: ` + brandPinkConstant,
			},
		},
	}
}

// LiteralRegexRule builds a RegexFuncRule that inserts replacement verbatim, so "$" in the
// replacement is never treated as a group reference.
func LiteralRegexRule(label string, pattern *regexp.Regexp, replacement string) RegexFuncRule {
	return RegexFuncRule{
		Label:   label,
		Pattern: pattern,
		Replace: func([]string) string { return replacement },
	}
}
