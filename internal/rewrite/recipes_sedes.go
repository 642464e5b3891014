package rewrite

import (
	"regexp"
	"strings"
)

const (
	sedesPageConstant = "sedes.html"

	locationIconOuterPathConstant = "M17.657 16.657L13.414 20.9a1.998 1.998 0 01-2.827 0l-4.244-4.243a8 8 0 1111.314 0z"
	locationIconInnerPathConstant = "M15 11a3 3 0 11-6 0 3 3 0 016 0z"
	phoneIconPathConstant         = "M3 5a2 2 0 012-2h3.28a1 1 0 01.948.684l1.498 4.493a1 1 0 01-.502 1.21l-2.257 1.13a11.042 11.042 0 005.516 5.516l1.13-2.257a1 1 0 011.21-.502l4.493 1.498a1 1 0 01.684.949V19a2 2 0 01-2 2h-1C9.716 21 3 14.284 3 6V5z"
	emailIconPathConstant         = "M3 8l7.89 5.26a2 2 0 002.22 0L21 8M5 19h14a2 2 0 002-2V7a2 2 0 00-2-2H5a2 2 0 00-2 2v10a2 2 0 002 2z"
	informationIconPathConstant   = "M13 16h-1v-4h-1m1-4h.01M21 12a9 9 0 11-18 0 9 9 0 0118 0z"
)

type campusDetail struct {
	IconPaths []string
	Title     string
	Body      string
}

type campus struct {
	Comment  string
	Name     string
	Location string
	Image    string
	Upcoming bool
	Details  []campusDetail
}

type sedesGrid struct {
	Accent   string
	Campuses []campus
}

func addressDetail(body string) campusDetail {
	return campusDetail{IconPaths: []string{locationIconOuterPathConstant, locationIconInnerPathConstant}, Title: "Dirección", Body: body}
}

func phoneDetail(body string) campusDetail {
	return campusDetail{IconPaths: []string{phoneIconPathConstant}, Title: "Teléfono", Body: body}
}

func emailDetail(body string) campusDetail {
	return campusDetail{IconPaths: []string{emailIconPathConstant}, Title: "Email", Body: body}
}

var sedesCampuses = sedesGrid{
	Accent: brandPinkConstant,
	Campuses: []campus{
		{
			Comment:  "CEP NORTE",
			Name:     "CEP NORTE",
			Location: "La Orotava, Tenerife",
			Image:    pexelsPhoto("2166559", "800"),
			Details: []campusDetail{
				addressDetail("Calle La Villa, 25<br/>38300 La Orotava, Tenerife"),
				phoneDetail("922 330 123"),
				emailDetail("norte@cepformacion.com"),
			},
		},
		{
			Comment:  "CEP SUR",
			Name:     "CEP SUR",
			Location: "Arona, Tenerife",
			Image:    pexelsPhoto("1647962", "800"),
			Details: []campusDetail{
				addressDetail("Avenida Los Cristianos, 45<br/>38640 Arona, Tenerife"),
				phoneDetail("922 755 456"),
				emailDetail("sur@cepformacion.com"),
			},
		},
		{
			Comment:  "CEP SANTA CRUZ",
			Name:     "CEP SANTA CRUZ",
			Location: "Santa Cruz de Tenerife",
			Image:    "https://images.pexels.com/photos/161764/tenerife-palm-road-tourist-161764.jpeg?auto=compress&cs=tinysrgb&w=800",
			Details: []campusDetail{
				addressDetail("Calle Ramón y Cajal, 78<br/>38001 Santa Cruz de Tenerife"),
				phoneDetail("922 240 789"),
				emailDetail("santacruz@cepformacion.com"),
			},
		},
		{
			Comment:  "CEP CÁDIZ (Próximamente)",
			Name:     "CEP CÁDIZ",
			Location: "Cádiz, Andalucía",
			Image:    pexelsPhoto("1388030", "800"),
			Upcoming: true,
			Details: []campusDetail{
				addressDetail("Próximamente<br/>Cádiz, Andalucía"),
				{IconPaths: []string{informationIconPathConstant}, Title: "Información", Body: "Nueva sede en preparación"},
			},
		},
	},
}

type campusPhotoSwap struct {
	campus            string
	currentIdentifier string
	replacement       string
}

var campusPhotoSwaps = []campusPhotoSwap{
	{campus: "CEP NORTE", currentIdentifier: "2166559", replacement: pexelsPhoto("17930048", "800")},
	{campus: "CEP SUR", currentIdentifier: "1647962", replacement: pexelsPhoto("6031667", "800")},
	{campus: "CEP SANTA CRUZ", currentIdentifier: "161764", replacement: pexelsPhoto("19004386", "800")},
	{campus: "CEP CÁDIZ", currentIdentifier: "1388030", replacement: pexelsPhoto("28967850", "800")},
}

func sedesPhotosRecipe() Recipe {
	rules := make([]Rule, 0, len(campusPhotoSwaps))
	for _, swap := range campusPhotoSwaps {
		rules = append(rules, LiteralRegexRule(
			swap.campus+" photo",
			regexp.MustCompile(`background-image: url\(['"]https://images\.pexels\.com/photos/`+swap.currentIdentifier+`/[^"']+['"]\)`),
			"background-image: url('"+swap.replacement+"')",
		))
	}
	return Recipe{
		Name:        "sedes-photos",
		Description: "Swap the campus photos on sedes.html for real city images",
		Files:       []string{sedesPageConstant},
		Rules:       rules,
	}
}

var (
	sedesSectionPattern         = regexp.MustCompile(`(?s)<!-- Sedes (?:Grid|Section) -->.*?</section>`)
	sedesBeforeFooterPattern    = regexp.MustCompile(`(?s)<section class="py-20[^>]*>.*?</section>(\s*<!-- Footer -->)`)
	sedesLocationSectionPattern = regexp.MustCompile(`(?s)<section class="py-16 md:py-20">.*?</section>`)
)

func sedesSectionRules(PageContext) ([]Rule, error) {
	renderedGrid, renderError := renderMarkup(sedesGridTemplateNameConstant, sedesCampuses)
	if renderError != nil {
		return nil, renderError
	}
	grid := strings.TrimSpace(renderedGrid)

	return []Rule{
		FirstMatchRule{
			Label: "four-campus grid",
			Alternatives: []Rule{
				LiteralRegexRule("sedes grid section", sedesSectionPattern, grid),
				RegexFuncRule{
					Label:   "section before footer",
					Pattern: sedesBeforeFooterPattern,
					Count:   1,
					Replace: func(groups []string) string {
						return grid + groups[1]
					},
				},
				RegexFuncRule{
					Label:   "locations section",
					Pattern: sedesLocationSectionPattern,
					Count:   1,
					Replace: func([]string) string {
						return grid
					},
				},
			},
		},
		LiteralRule{Label: "NUETRAS typo", Old: "NUETRAS SEDES", New: "NUESTRAS SEDES"},
		LiteralRule{Label: "Nuetras typo", Old: "Nuetras sedes", New: "Nuestras sedes"},
	}, nil
}

func sedesSectionRecipe() Recipe {
	return Recipe{
		Name:        "sedes-section",
		Description: "Replace the sedes.html locations section with the four-campus grid",
		Files:       []string{sedesPageConstant},
		PageRules:   sedesSectionRules,
	}
}
