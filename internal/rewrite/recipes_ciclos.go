package rewrite

import (
	"fmt"
	"regexp"
)

const (
	ciclosPageConstant = "ciclos.html"

	gradeSuperiorConstant = "Superior"
	gradeMedioConstant    = "Medio"

	paletteSuperiorConstant = "#7C3AED"
	paletteMedioConstant    = "#06B6D4"

	ciclosCardHeaderTemplateConstant = `<div class="bg-white rounded-xl shadow-lg overflow-hidden hover:shadow-xl transition-all flex flex-col">
            <div class="p-6 text-white" style="background-color: %s">
              <i class="fas %s text-4xl mb-4"></i>
              <h3 class="text-2xl font-bold min-h-[4rem] flex items-center">%s</h3>
              <p class="text-white opacity-90">Grado %s</p>
            </div>            `
)

type trainingCycle struct {
	name  string
	grade string
	icon  string
}

var trainingCycles = []trainingCycle{
	{name: "Desarrollo de Aplicaciones Web", grade: gradeSuperiorConstant, icon: "fa-laptop-code"},
	{name: "Administración y Finanzas", grade: gradeSuperiorConstant, icon: "fa-chart-line"},
	{name: "Cuidados Auxiliares de Enfermería", grade: gradeMedioConstant, icon: "fa-heartbeat"},
	{name: "Instalaciones Eléctricas y Automáticas", grade: gradeMedioConstant, icon: "fa-bolt"},
	{name: "Marketing y Publicidad", grade: gradeSuperiorConstant, icon: "fa-bullhorn"},
	{name: "Sistemas Microinformáticos y Redes", grade: gradeMedioConstant, icon: "fa-network-wired"},
}

func (cycle trainingCycle) headerColor() string {
	if cycle.grade == gradeSuperiorConstant {
		return brandPinkConstant
	}
	return brandPinkDarkConstant
}

func (cycle trainingCycle) cardRule() Rule {
	pattern := regexp.MustCompile(`(?s)(<div class="bg-white rounded-xl shadow-lg overflow-hidden hover:shadow-xl transition-all">)\s*<div class="[^"]*">.*?<h3[^>]*>` +
		regexp.QuoteMeta(cycle.name) + `</h3>.*?<p[^>]*>Grado ` + cycle.grade + `</p>\s*</div>\s*(<div class="p-6">)`)
	header := fmt.Sprintf(ciclosCardHeaderTemplateConstant, cycle.headerColor(), cycle.icon, cycle.name, cycle.grade)

	return RegexFuncRule{
		Label:   "card " + cycle.name,
		Pattern: pattern,
		Count:   1,
		Replace: func(groups []string) string {
			return header + groups[2]
		},
	}
}

func ciclosCardsRecipe() Recipe {
	rules := make([]Rule, 0, len(trainingCycles)+3)
	for _, cycle := range trainingCycles {
		rules = append(rules, cycle.cardRule())
	}

	rules = append(rules,
		RegexRule{
			Label:       "category badges",
			Pattern:     regexp.MustCompile(`<span\s+class="[^"]*(?:bg-blue-100 text-blue-800|bg-green-100 text-green-800|bg-red-100 text-red-800|bg-yellow-100 text-yellow-800|bg-purple-100 text-purple-800|bg-indigo-100 text-indigo-800)[^"]*"[^>]*>`),
			Replacement: `<span class="text-xs font-semibold px-3 py-1 rounded-full text-white" style="background-color: rgba(242, 1, 75, 0.2); color: ` + brandPinkConstant + `">`,
		},
		RegexRule{
			Label:       "card body icons",
			Pattern:     regexp.MustCompile(`<i class="fas fa-(clock|users|certificate) (?:text-blue-600|text-green-600|text-red-600|text-yellow-600|text-purple-600|text-indigo-600) mr-2"></i>`),
			Replacement: `<i class="fas fa-${1} mr-2" style="color: ` + brandPinkConstant + `"></i>`,
		},
		RegexRule{
			Label:       "card buttons",
			Pattern:     regexp.MustCompile(`<button\s+class="w-full (?:bg-blue-600|bg-green-600|bg-red-600|bg-yellow-600|bg-purple-600|bg-indigo-600) text-white py-3 rounded-lg hover:[^ ]+ transition-all font-semibold"`),
			Replacement: `<button class="w-full text-white py-3 rounded-lg hover:opacity-90 transition-all font-semibold" style="background-color: ` + brandPinkConstant + `"`,
		},
	)

	return Recipe{
		Name:        "ciclos-cards",
		Description: "Standardize cycle cards: two-line titles, grade colors, brand badges, icons, and buttons",
		Files:       []string{ciclosPageConstant},
		Rules:       rules,
	}
}

func ciclosPaletteRecipe() Recipe {
	return Recipe{
		Name:        "ciclos-palette",
		Description: "White admission step numbers; violet Grado Superior and cyan Grado Medio card headers",
		Files:       []string{ciclosPageConstant},
		Rules: []Rule{
			LiteralRule{
				Label: "admission step numbers",
				Old:   `<span class="text-2xl font-bold" style="color: #F2014B">`,
				New:   `<span class="text-2xl font-bold text-white">`,
			},
			RegexRule{
				Label:       "grado superior header",
				Pattern:     regexp.MustCompile(`(<div class="p-6 text-white" style="background-color: )#F2014B(">)`),
				Replacement: "${1}" + paletteSuperiorConstant + "${2}",
			},
			RegexRule{
				Label:       "grado medio header",
				Pattern:     regexp.MustCompile(`(<div class="p-6 text-white" style="background-color: )#d01040(">)`),
				Replacement: "${1}" + paletteMedioConstant + "${2}",
			},
		},
	}
}
