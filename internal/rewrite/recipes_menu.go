package rewrite

import (
	"regexp"
)

const (
	employmentAgencyURLConstant = "https://cursostenerife.agenciascolocacion.com/candidatos/registro"

	footerEmploymentLinkConstant = `
              <li>
                <a
                  href="https://cursostenerife.agenciascolocacion.com/candidatos/registro"
                  target="_blank"
                  class="text-white opacity-90 hover:opacity-100 hover:underline"
                >
                  Empleo
                </a>
              </li>`

	topMenuEmploymentLinkConstant = `
            <a
              href="https://cursostenerife.agenciascolocacion.com/candidatos/registro"
              target="_blank"
              class="text-gray-700 hover:text-cep-pink font-semibold text-sm uppercase tracking-wide"
            >
              EMPLEO
            </a>`

	headerLogoImageConstant = `<a href="/" class="flex items-center">
            <img src="/cep-logo.png" alt="CEP Formación" class="h-12 w-auto" />
          </a>`

	footerLogoCircleConstant = `<div>
            <div class="bg-white rounded-full p-3 w-20 h-20 flex items-center justify-center mb-4">
              <img src="/cep-logo.png" alt="CEP Formación" class="w-full h-full object-contain" />
            </div>
            <p class="text-white opacity-90">`

	ctaHeadingConstant = `<h2 class="text-3xl md:text-4xl font-bold mb-6" style="color: #F2014B">¿Listo para dar el siguiente paso?</h2>`

	ctaOpeningConstant = `<section class="py-16 md:py-20 bg-white">
      <div class="container mx-auto px-4 text-center">
        ` + ctaHeadingConstant + `
`

	ctaButtonConstant = `        <a
          href="/contacto"
          class="px-8 py-4 text-lg font-bold inline-block rounded-lg hover:scale-105 transition-transform text-white"
          style="background-color: #F2014B"
        >
          Solicitar Información
        </a>`

	ctaPreciseReplacementConstant = ctaOpeningConstant + `        <p class="text-xl mb-8 opacity-90 max-w-2xl mx-auto" style="color: #333">
          Contacta con nosotros y te ayudaremos a encontrar el curso perfecto para impulsar tu
          carrera profesional
        </p>
` + ctaButtonConstant

	ctaSectionReplacementConstant = ctaOpeningConstant + `        <p class="text-xl mb-8 max-w-2xl mx-auto" style="color: #333">
          Contacta con nosotros y te ayudaremos a encontrar el curso perfecto para impulsar tu
          carrera profesional
        </p>
` + ctaButtonConstant + `
      </div>
    </section>`
)

func topMenuLinkPattern(text string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)\s*<a\s+href="` + regexp.QuoteMeta(employmentAgencyURLConstant) +
		`"\s+target="_blank"\s+class="text-gray-700 hover:text-cep-pink font-semibold text-sm uppercase tracking-wide"\s*>\s*` + text + `\s*</a>\s*`)
}

var (
	agencyTopMenuLinkPattern     = topMenuLinkPattern("Agencia de Empleo")
	employmentTopMenuLinkPattern = topMenuLinkPattern("EMPLEO")
	footerEmploymentPresent      = regexp.MustCompile(`(?i)<li>\s*<a[^>]*>\s*Empleo\s*</a>\s*</li>`)
	nosotrosTopMenuLinkPattern   = regexp.MustCompile(`(<a\s+href="/sobre-nosotros"[^>]*>\s*Nosotros\s*</a>)`)
)

func menuEmpleoRecipe() Recipe {
	return Recipe{
		Name:        "menu-empleo",
		Description: "Drop Agencia de Empleo from the top menu and add Empleo to the footer",
		Files:       allSitePages,
		Rules: []Rule{
			RegexRule{Label: "remove Agencia de Empleo", Pattern: agencyTopMenuLinkPattern, Replacement: ""},
			FirstMatchRule{
				Label: "footer Empleo link",
				Guard: Guard{SkipIfMatches: footerEmploymentPresent},
				Alternatives: []Rule{
					RegexRule{
						Label:       "after FAQ",
						Pattern:     regexp.MustCompile(`(<li><a href="/faq"[^>]*>FAQ</a></li>)`),
						Replacement: "${1}" + footerEmploymentLinkConstant,
						Count:       1,
					},
					RegexRule{
						Label:       "after Blog",
						Pattern:     regexp.MustCompile(`(<li><a href="/blog"[^>]*>Blog</a></li>)`),
						Replacement: "${1}" + footerEmploymentLinkConstant,
						Count:       1,
					},
				},
			},
		},
	}
}

// deduplicateEmploymentLinks keeps a single EMPLEO top-menu link, placed after "Nosotros".
func deduplicateEmploymentLinks(content string) (string, int) {
	occurrences := len(employmentTopMenuLinkPattern.FindAllStringIndex(content, -1))
	if occurrences <= 1 {
		return content, 0
	}
	stripped := employmentTopMenuLinkPattern.ReplaceAllLiteralString(content, "")
	reinserted, _ := replaceMatches(nosotrosTopMenuLinkPattern, stripped, 1, func(submatches []int) string {
		return stripped[submatches[2]:submatches[3]] + topMenuEmploymentLinkConstant
	})
	return reinserted, occurrences
}

func menuCleanupRules(includeMenuDeduplication bool) []Rule {
	rules := make([]Rule, 0, 4)
	if includeMenuDeduplication {
		rules = append(rules,
			FuncRule{Label: "deduplicate EMPLEO links", Transform: deduplicateEmploymentLinks},
			LiteralRegexRule(
				"header logo",
				regexp.MustCompile(`<a href="/" class="text-2xl font-bold text-cep-pink">\s*CEP Formación\s*</a>`),
				headerLogoImageConstant,
			),
		)
	}
	return append(rules,
		LiteralRegexRule(
			"footer logo circle",
			regexp.MustCompile(`(<div>\s*<h4 class="text-lg font-semibold mb-4">CEP Formación</h4>\s*<p class="text-white opacity-90">)`),
			footerLogoCircleConstant,
		),
		RegexRule{
			Label:       "remove agencia de colocación",
			Pattern:     regexp.MustCompile(`(?i)\s*<li>\s*<a[^>]*>\s*agencia de colocación\s*</a>\s*</li>\s*`),
			Replacement: "",
		},
	)
}

func menuCleanupRecipe() Recipe {
	return Recipe{
		Name:        "menu-cleanup",
		Description: "Deduplicate EMPLEO links, use the logo image in header and footer, drop agencia de colocación",
		Files: []string{
			"sedes.html",
			"blog.html",
			"ciclos.html",
			"contacto.html",
			"cursos.html",
			"faq.html",
			"sobre-nosotros.html",
			"acceso-alumnos.html",
			"aviso-legal.html",
			"politica-privacidad.html",
			"politica-cookies.html",
			"cursos/desempleados.html",
			"cursos/ocupados.html",
			"cursos/privados.html",
			"cursos/teleformacion.html",
			"index.html",
		},
		Rules: menuCleanupRules(true),
		FileRules: map[string][]Rule{
			"index.html": menuCleanupRules(false),
		},
	}
}

func ctaSectionRecipe() Recipe {
	return Recipe{
		Name:        "cta-section",
		Description: "White background, brand title, and inverted button for the closing call-to-action section",
		Files:       []string{"index.html", "sobre-nosotros.html"},
		Rules: []Rule{
			FirstMatchRule{
				Label: "call-to-action section",
				Guard: Guard{SkipIfContains: []string{ctaHeadingConstant}},
				Alternatives: []Rule{
					LiteralRegexRule(
						"precise markup",
						regexp.MustCompile(`(?s)(<section class="py-16 md:py-20[^"]*"[^>]*style="background-color: #F2014B"[^>]*>)\s*(<div class="container mx-auto px-4 text-center">)\s*(<h2[^>]*>¿Listo para dar el siguiente paso\?</h2>)\s*(<p[^>]*>.*?carrera profesional\s*</p>)\s*(<a[^>]*class="[^"]*bg-white text-cep-pink[^"]*"[^>]*>.*?Solicitar Información.*?</a>)`),
						ctaPreciseReplacementConstant,
					),
					RegexFuncRule{
						Label:   "whole section",
						Pattern: regexp.MustCompile(`(?s)<section class="py-16 md:py-20[^>]*>.*?¿Listo para dar el siguiente paso\?.*?</section>`),
						Count:   1,
						Replace: func([]string) string {
							return ctaSectionReplacementConstant
						},
					},
				},
			},
		},
	}
}
