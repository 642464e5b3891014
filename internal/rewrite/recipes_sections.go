package rewrite

import "regexp"

var (
	designHeroSectionPattern = regexp.MustCompile(`(?s)<!-- (?:Blog )?Hero Section -->.*?</section>`)
	designCTASectionPattern  = regexp.MustCompile(`(?s)<!-- (?:CTA Section|Newsletter Section) -->.*?</section>`)
)

type designHero struct {
	Title             string
	Subtitle          string
	Image             string
	SearchPlaceholder string
}

type designCTA struct {
	Heading    string
	Text       string
	Newsletter bool
}

// replaceLastMatch swaps the last pattern match for replacement.
func replaceLastMatch(pattern *regexp.Regexp, content string, replacement string) (string, int) {
	matches := pattern.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return content, 0
	}
	last := matches[len(matches)-1]
	return content[:last[0]] + replacement + content[last[1]:], 1
}

func designSectionRules(hero designHero, cta designCTA) []Rule {
	heroMarkup := mustRenderSection(designHeroTemplateNameConstant, hero)
	ctaMarkup := mustRenderSection(designCTATemplateNameConstant, cta)

	heroRule := LiteralRegexRule("hero section", designHeroSectionPattern, heroMarkup)
	heroRule.Count = 1
	heroRule.Guard = Guard{SkipIfContains: []string{heroMarkup}}

	return []Rule{
		heroRule,
		FuncRule{
			Label: "closing call-to-action section",
			Guard: Guard{SkipIfContains: []string{ctaMarkup}},
			Transform: func(content string) (string, int) {
				return replaceLastMatch(designCTASectionPattern, content, ctaMarkup)
			},
		},
	}
}

func designSectionsRecipe() Recipe {
	return Recipe{
		Name:        "design-system-sections",
		Description: "Replace the hero and the closing call-to-action of blog and ciclos with the design system sections",
		Files:       []string{"blog.html", "ciclos.html"},
		FileRules: map[string][]Rule{
			"blog.html": designSectionRules(
				designHero{
					Title:             "Blog de CEP Formación",
					Subtitle:          "Noticias, consejos y tendencias del mundo educativo",
					Image:             "/slideshow-1.jpg.webp",
					SearchPlaceholder: "Buscar artículos...",
				},
				designCTA{
					Heading:    "Suscríbete a nuestro newsletter",
					Text:       "Recibe las últimas noticias y consejos educativos directamente en tu correo",
					Newsletter: true,
				},
			),
			"ciclos.html": designSectionRules(
				designHero{
					Title:    "Ciclos Formativos",
					Subtitle: "Formación profesional de calidad para tu futuro",
					Image:    "/slideshow-2.jpg.webp",
				},
				designCTA{
					Heading: "¿Necesitas más información?",
					Text:    "Nuestro equipo de orientación está a tu disposición para resolver todas tus dudas",
				},
			),
		},
	}
}
