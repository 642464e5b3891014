package rewrite_test

import (
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cepformacion/cepfix/internal/rewrite"
)

const (
	testCiclosCardMarkup = `<div class="bg-white rounded-xl shadow-lg overflow-hidden hover:shadow-xl transition-all">
            <div class="bg-blue-600 p-6 text-white">
              <i class="fas fa-laptop-code text-4xl mb-4"></i>
              <h3 class="text-2xl font-bold">Desarrollo de Aplicaciones Web</h3>
              <p class="opacity-90">Grado Superior</p>
            </div>
            <div class="p-6">
              <span class="text-xs bg-blue-100 text-blue-800 px-2 py-1 rounded">Informática</span>
              <i class="fas fa-clock text-blue-600 mr-2"></i>
              <button class="w-full bg-blue-600 text-white py-3 rounded-lg hover:bg-blue-700 transition-all font-semibold">Más información</button>
            </div>
          </div>`

	testMedioCardMarkup = `<div class="bg-white rounded-xl shadow-lg overflow-hidden hover:shadow-xl transition-all">
            <div class="bg-red-600 p-6 text-white">
              <h3 class="text-2xl font-bold">Cuidados Auxiliares de Enfermería</h3>
              <p class="opacity-90">Grado Medio</p>
            </div>
            <div class="p-6">`

	testAgencyTopMenuMarkup = `<nav>
            <a href="/sobre-nosotros" class="nav">Nosotros</a>
            <a
              href="https://cursostenerife.agenciascolocacion.com/candidatos/registro"
              target="_blank"
              class="text-gray-700 hover:text-cep-pink font-semibold text-sm uppercase tracking-wide"
            >
              Agencia de Empleo
            </a>
</nav>
<footer><ul><li><a href="/faq" class="f">FAQ</a></li></ul></footer>`

	testEmploymentLinkMarkup = `
            <a
              href="https://cursostenerife.agenciascolocacion.com/candidatos/registro"
              target="_blank"
              class="text-gray-700 hover:text-cep-pink font-semibold text-sm uppercase tracking-wide"
            >
              EMPLEO
            </a>`

	testCTAMarkup = `<section class="py-16 md:py-20 text-white" style="background-color: #F2014B">
      <div class="container mx-auto px-4 text-center">
        <h2 class="text-3xl md:text-4xl font-bold mb-6">¿Listo para dar el siguiente paso?</h2>
        <p class="text-xl mb-8 opacity-90 max-w-2xl mx-auto">
          Contacta con nosotros y te ayudaremos a encontrar el curso perfecto para impulsar tu
          carrera profesional
        </p>
        <a href="/contacto" class="bg-white text-cep-pink px-8 py-4 rounded-lg">
          Solicitar Información
        </a>
      </div>
    </section>`

	testIndexHeaderBlock = `<!-- Header Navigation -->
    <header class="bg-white"><a href="/">Inicio</a><img src="/cep-logo.png" /></header>`
	testIndexFooterBlock = `<!-- Footer -->
    <footer><a href="/faq">FAQ</a></footer>`
)

type stubSiteReader struct {
	pages map[string]string
}

func (reader stubSiteReader) ReadPage(relativePath string) (string, error) {
	content, found := reader.pages[relativePath]
	if !found {
		return "", fs.ErrNotExist
	}
	return content, nil
}

func applyBuiltinRecipe(testInstance *testing.T, recipeName string, pagePath string, content string, site rewrite.SiteReader) string {
	testInstance.Helper()

	recipe, resolveError := rewrite.NewBuiltinCatalog().Resolve(recipeName)
	require.NoError(testInstance, resolveError)

	rules, rulesError := recipe.RulesFor(rewrite.PageContext{Path: pagePath, Site: site})
	require.NoError(testInstance, rulesError)

	updated, _ := rewrite.Apply(content, rules)
	return updated
}

func TestBuiltinRecipesTransformPages(testInstance *testing.T) {
	testInstance.Parallel()

	testCases := []struct {
		name             string
		recipe           string
		page             string
		content          string
		expectedContent  string
		expectedContains []string
		expectedAbsent   []string
	}{
		{
			name:            "tailwind_background",
			recipe:          "tailwind-colors",
			page:            "index.html",
			content:         `<div class="p-4 bg-cep-pink text-white">`,
			expectedContent: `<div class="p-4  text-white" style="background-color: #ec008c">`,
		},
		{
			name:            "tailwind_dark_before_base",
			recipe:          "tailwind-colors",
			page:            "index.html",
			content:         `<a class="bg-cep-pink-dark">`,
			expectedContent: `<a class="" style="background-color: #c7006f">`,
		},
		{
			name:            "tailwind_gradient",
			recipe:          "tailwind-colors",
			page:            "index.html",
			content:         `<section class="bg-gradient-to-r from-cep-pink to-cep-pink-dark py-8">`,
			expectedContent: `<section class=" py-8" style="background: linear-gradient(to right, #ec008c, #c7006f)">`,
		},
		{
			name:            "contrast_bg_before_text",
			recipe:          "contrast",
			page:            "index.html",
			content:         `<div class="bg-white text-white p-4">`,
			expectedContent: `<div class="bg-white text-gray-900 p-4">`,
		},
		{
			name:            "contrast_text_before_bg",
			recipe:          "contrast",
			page:            "index.html",
			content:         `<p class="text-white bg-white">`,
			expectedContent: `<p class="text-gray-900 bg-white">`,
		},
		{
			name:            "contrast_light_gray",
			recipe:          "contrast",
			page:            "index.html",
			content:         `<span class="bg-gray-100 text-white">`,
			expectedContent: `<span class="bg-gray-100 text-gray-900">`,
		},
		{
			name:    "ciclos_cards_superior",
			recipe:  "ciclos-cards",
			page:    "ciclos.html",
			content: testCiclosCardMarkup,
			expectedContains: []string{
				`transition-all flex flex-col">`,
				`<div class="p-6 text-white" style="background-color: #F2014B">`,
				`min-h-[4rem] flex items-center">Desarrollo de Aplicaciones Web</h3>`,
				`<p class="text-white opacity-90">Grado Superior</p>`,
				`style="background-color: rgba(242, 1, 75, 0.2); color: #F2014B">Informática</span>`,
				`<i class="fas fa-clock mr-2" style="color: #F2014B"></i>`,
				`hover:opacity-90 transition-all font-semibold" style="background-color: #F2014B">`,
			},
			expectedAbsent: []string{"bg-blue-600", "text-blue-800"},
		},
		{
			name:             "ciclos_cards_medio",
			recipe:           "ciclos-cards",
			page:             "ciclos.html",
			content:          testMedioCardMarkup,
			expectedContains: []string{`style="background-color: #d01040"`, "fa-heartbeat", "Grado Medio"},
			expectedAbsent:   []string{"bg-red-600"},
		},
		{
			name:   "ciclos_palette",
			recipe: "ciclos-palette",
			page:   "ciclos.html",
			content: `<span class="text-2xl font-bold" style="color: #F2014B">1</span>
<div class="p-6 text-white" style="background-color: #F2014B">
<div class="p-6 text-white" style="background-color: #d01040">`,
			expectedContent: `<span class="text-2xl font-bold text-white">1</span>
<div class="p-6 text-white" style="background-color: #7C3AED">
<div class="p-6 text-white" style="background-color: #06B6D4">`,
		},
		{
			name:             "hero_images_per_page",
			recipe:           "hero-images",
			page:             "cursos.html",
			content:          `<section style="background: linear-gradient(to right, #F2014B, #d01040)">`,
			expectedContains: []string{"photos/3184360/pexels-photo-3184360.jpeg", "rgba(242, 1, 75, 0.85)", "center/cover no-repeat"},
			expectedAbsent:   []string{"to right"},
		},
		{
			name:             "hero_images_sobre_nosotros",
			recipe:           "hero-images",
			page:             "sobre-nosotros.html",
			content:          `<section style="background: linear-gradient(to right, #F2014B, #d01040)">`,
			expectedContains: []string{"photos/3184291/"},
		},
		{
			name:            "hero_overlay",
			recipe:          "hero-overlay",
			page:            "blog.html",
			content:         `linear-gradient(rgba(242, 1, 75, 0.85), rgba(208, 16, 64, 0.85))`,
			expectedContent: `linear-gradient(rgba(242, 1, 75, 0.5), rgba(208, 16, 64, 0.5))`,
		},
		{
			name:             "cursos_hero_before_breadcrumb",
			recipe:           "cursos-heroes",
			page:             "cursos/ocupados.html",
			content:          "<header></header>\n    <!-- Breadcrumb -->\n<main></main>",
			expectedContains: []string{"<!-- Page Hero -->", "CURSOS PARA TRABAJADORES", "photos/3184465/", "</section>\n\n    <!-- Breadcrumb -->"},
		},
		{
			name:             "cursos_hero_after_header",
			recipe:           "cursos-heroes",
			page:             "cursos/teleformacion.html",
			content:          "<header></header>\n<main></main>",
			expectedContains: []string{"</header>\n\n    <!-- Page Hero -->", "TELEFORMACIÓN", "</section>\n\n<main></main>"},
		},
		{
			name:             "sedes_photos",
			recipe:           "sedes-photos",
			page:             "sedes.html",
			content:          `style="background-image: url('https://images.pexels.com/photos/2166559/pexels-photo-2166559.jpeg?auto=compress&cs=tinysrgb&w=800')"`,
			expectedContent:  `style="background-image: url('https://images.pexels.com/photos/17930048/pexels-photo-17930048.jpeg?auto=compress&cs=tinysrgb&w=800')"`,
			expectedContains: nil,
		},
		{
			name:   "sedes_section_grid",
			recipe: "sedes-section",
			page:   "sedes.html",
			content: "<h1>NUETRAS SEDES</h1>\n    <!-- Sedes Grid -->\n    <section class=\"py-16\">old campus list</section>\n" +
				"<!-- Footer -->",
			expectedContains: []string{
				"<h1>NUESTRAS SEDES</h1>",
				"<!-- Sedes Section -->",
				"CEP NORTE", "CEP SUR", "CEP SANTA CRUZ", "CEP CÁDIZ",
				"922 330 123", "Avenida Los Cristianos, 45", "Calle Ramón y Cajal, 78",
				"Próximamente",
				"</section>\n<!-- Footer -->",
			},
			expectedAbsent: []string{"old campus list", "NUETRAS"},
		},
		{
			name:             "sedes_section_before_footer",
			recipe:           "sedes-section",
			page:             "sedes.html",
			content:          "<section class=\"py-20 bg-gray-50\">old</section>\n    <!-- Footer -->",
			expectedContains: []string{"<!-- Sedes Section -->", "</section>\n    <!-- Footer -->"},
			expectedAbsent:   []string{">old<"},
		},
		{
			name:   "hero_footer_colors",
			recipe: "hero-footer-colors",
			page:   "index.html",
			content: `<button style="background-color: #d01040" style="background-color: #F2014B">
<a class=" hover: text-white">
<footer class="cep-pink text-white py-12">`,
			expectedContent: `<button style="background-color: #F2014B">
<a class="text-white">
<footer class="text-white py-12" style="background-color: #F2014B">`,
		},
		{
			name:             "menu_empleo",
			recipe:           "menu-empleo",
			page:             "index.html",
			content:          testAgencyTopMenuMarkup,
			expectedContains: []string{`Nosotros</a></nav>`, "FAQ</a></li>\n              <li>", "Empleo\n                </a>\n              </li></ul>"},
			expectedAbsent:   []string{"Agencia de Empleo"},
		},
		{
			name:             "menu_empleo_after_blog",
			recipe:           "menu-empleo",
			page:             "blog.html",
			content:          `<ul><li><a href="/blog" class="f">Blog</a></li></ul>`,
			expectedContains: []string{"Blog</a></li>\n              <li>", "Empleo"},
		},
		{
			name:             "menu_cleanup_footer_logo",
			recipe:           "menu-cleanup",
			page:             "blog.html",
			content:          "<div>\n  <h4 class=\"text-lg font-semibold mb-4\">CEP Formación</h4>\n  <p class=\"text-white opacity-90\">Texto</p></div>",
			expectedContains: []string{`<img src="/cep-logo.png"`, `rounded-full p-3 w-20 h-20`, `<p class="text-white opacity-90">Texto</p>`},
			expectedAbsent:   []string{"<h4"},
		},
		{
			name:             "menu_cleanup_header_logo",
			recipe:           "menu-cleanup",
			page:             "faq.html",
			content:          "<a href=\"/\" class=\"text-2xl font-bold text-cep-pink\">\n  CEP Formación\n</a>",
			expectedContains: []string{`<img src="/cep-logo.png" alt="CEP Formación" class="h-12 w-auto" />`},
		},
		{
			name:            "menu_cleanup_agencia_colocacion",
			recipe:          "menu-cleanup",
			page:            "index.html",
			content:         "<ul>\n<li><a href=\"/agencia\">Agencia de Colocación</a></li>\n<li>FAQ</li></ul>",
			expectedContent: "<ul><li>FAQ</li></ul>",
		},
		{
			name:             "cta_precise",
			recipe:           "cta-section",
			page:             "index.html",
			content:          testCTAMarkup,
			expectedContains: []string{`<section class="py-16 md:py-20 bg-white">`, `style="color: #F2014B">¿Listo para dar el siguiente paso?</h2>`, `style="color: #333"`, "</a>\n      </div>\n    </section>"},
			expectedAbsent:   []string{"text-cep-pink", "opacity-90 max-w-2xl mx-auto\">\n          Contacta"},
		},
		{
			name:             "cta_whole_section",
			recipe:           "cta-section",
			page:             "sobre-nosotros.html",
			content:          `<section class="py-16 md:py-20 cta"><h2>¿Listo para dar el siguiente paso?</h2></section><footer></footer>`,
			expectedContains: []string{`<section class="py-16 md:py-20 bg-white">`, `style="color: #333"`, "</section><footer></footer>"},
			expectedAbsent:   []string{`cta"`},
		},
		{
			name:            "dropdown_background",
			recipe:          "dropdown-background",
			page:            "faq.html",
			content:         `<div class="absolute top-full left-0 mt-2 bg-white shadow-lg">`,
			expectedContent: `<div class="absolute top-full left-0 mt-2 bg-white shadow-lg" style="background-color: white">`,
		},
		{
			name:            "duplicate_styles",
			recipe:          "duplicate-styles",
			page:            "blog.html",
			content:         `<section style="background-image: linear-gradient(red, blue), url(/a.jpg)" style="background: url(x) center">`,
			expectedContent: `<section style="background: url(x) center">`,
		},
		{
			name:   "design_sections_blog",
			recipe: "design-system-sections",
			page:   "blog.html",
			content: `<!-- Blog Hero Section -->
    <section class="hero"><h1>Blog</h1></section>
    <!-- CTA Section -->
    <section class="promo">Promo</section>
    <!-- Newsletter Section -->
    <section class="newsletter bg-blue-600">Old newsletter</section>
    <!-- Footer -->`,
			expectedContains: []string{
				"<!-- Hero Section -->\n    <section class=\"py-16 md:py-20 bg-cover bg-center relative\"",
				"url('/slideshow-1.jpg.webp')",
				`placeholder="Buscar artículos..."`,
				"<!-- CTA Section -->\n    <section class=\"promo\">Promo</section>",
				"Suscríbete a nuestro newsletter",
				"Suscribirse\n            </button>",
				"</section>\n    <!-- Footer -->",
			},
			expectedAbsent: []string{"Blog Hero Section", "Old newsletter", "Newsletter Section"},
		},
		{
			name:   "design_sections_ciclos",
			recipe: "design-system-sections",
			page:   "ciclos.html",
			content: `<!-- Hero Section --><section>old hero</section>
<!-- Hero Section --><section>second hero</section>
<!-- CTA Section --><section>old cta</section>`,
			expectedContains: []string{
				`<h1 class="text-4xl md:text-5xl font-bold mb-4">Ciclos Formativos</h1>`,
				"<!-- Hero Section --><section>second hero</section>",
				"¿Necesitas más información?",
				`href="/contacto"`,
			},
			expectedAbsent: []string{"old hero", "old cta", "Buscar artículos", "Suscribirse"},
		},
		{
			name:             "acceso_alumnos",
			recipe:           "acceso-alumnos",
			page:             "index.html",
			content:          "<a href=\"/acceso-alumnos\" class=\"border-2 border-cep-pink text-white px-4\" style=\"background-color: #F2014B\">\n  Acceso Alumnos\n</a>",
			expectedContains: []string{`style="border-color: #F2014B; color: #F2014B; background-color: white">Acceso Alumnos</a>`},
			expectedAbsent:   []string{"border-cep-pink"},
		},
		{
			name:   "brand_colors",
			recipe: "brand-colors",
			page:   "blog.html",
			content: `<div class="p-4 bg-blue-600 rounded">
<p class="text-blue-700 font-bold">
<section class="bg-gradient-to-r from-blue-500 to-blue-700 py-8">`,
			expectedContent: `<div class="p-4 rounded" style="background-color: #F2014B">
<p class="font-bold" style="color: #F2014B">
<section class="bg-white py-8">`,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			subtest.Parallel()

			updated := applyBuiltinRecipe(subtest, testCase.recipe, testCase.page, testCase.content, nil)
			if len(testCase.expectedContent) > 0 {
				require.Equal(subtest, testCase.expectedContent, updated)
			}
			for _, expected := range testCase.expectedContains {
				require.Contains(subtest, updated, expected)
			}
			for _, absent := range testCase.expectedAbsent {
				require.NotContains(subtest, updated, absent)
			}

			reapplied := applyBuiltinRecipe(subtest, testCase.recipe, testCase.page, updated, nil)
			require.Equal(subtest, updated, reapplied)
		})
	}
}

func TestMenuCleanupDeduplicatesEmploymentLinks(testInstance *testing.T) {
	testInstance.Parallel()

	content := `<a href="/sobre-nosotros" class="nav">Nosotros</a>` + testEmploymentLinkMarkup +
		"\n            <a href=\"/sedes\">Sedes</a>" + testEmploymentLinkMarkup + "\n"

	updated := applyBuiltinRecipe(testInstance, "menu-cleanup", "blog.html", content, nil)
	require.Equal(testInstance, 1, strings.Count(updated, "EMPLEO"))
	require.Less(testInstance, strings.Index(updated, "Nosotros"), strings.Index(updated, "EMPLEO"))
	require.Less(testInstance, strings.Index(updated, "EMPLEO"), strings.Index(updated, "Sedes"))

	indexUpdated := applyBuiltinRecipe(testInstance, "menu-cleanup", "index.html", content, nil)
	require.Equal(testInstance, 2, strings.Count(indexUpdated, "EMPLEO"))
}

func TestCursosHeroesRejectUnknownPage(testInstance *testing.T) {
	testInstance.Parallel()

	recipe, resolveError := rewrite.NewBuiltinCatalog().Resolve("cursos-heroes")
	require.NoError(testInstance, resolveError)

	_, rulesError := recipe.RulesFor(rewrite.PageContext{Path: "cursos/otros.html"})
	require.ErrorContains(testInstance, rulesError, "cursos/otros.html")
}

func TestLayoutSyncCopiesSharedBlocks(testInstance *testing.T) {
	testInstance.Parallel()

	site := stubSiteReader{pages: map[string]string{
		"index.html": testIndexHeaderBlock + "\n<main>home</main>\n" + testIndexFooterBlock,
	}}

	testCases := []struct {
		name            string
		page            string
		content         string
		expectedContent string
	}{
		{
			name:            "legacy_navigation",
			page:            "blog.html",
			content:         "<!-- Navigation --><nav>old</nav><main>blog</main><!-- Footer --><footer>old</footer>",
			expectedContent: testIndexHeaderBlock + "<main>blog</main>" + testIndexFooterBlock,
		},
		{
			name:            "header_navigation",
			page:            "faq.html",
			content:         "<!-- Header Navigation --><header>old</header><main>faq</main><!-- Footer --><footer>old</footer>",
			expectedContent: testIndexHeaderBlock + "<main>faq</main>" + testIndexFooterBlock,
		},
		{
			name:    "nested_page_links",
			page:    "cursos/privados.html",
			content: "<!-- Header Navigation --><header>old</header><!-- Footer --><footer>old</footer>",
			expectedContent: strings.NewReplacer(`href="/`, `href="../`, `src="/`, `src="../`).
				Replace(testIndexHeaderBlock + testIndexFooterBlock),
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			subtest.Parallel()

			updated := applyBuiltinRecipe(subtest, "layout-sync", testCase.page, testCase.content, site)
			require.Equal(subtest, testCase.expectedContent, updated)

			reapplied := applyBuiltinRecipe(subtest, "layout-sync", testCase.page, updated, site)
			require.Equal(subtest, updated, reapplied)
		})
	}
}

func TestLayoutSyncKeepsProtocolRelativeLinks(testInstance *testing.T) {
	testInstance.Parallel()

	header := `<!-- Header Navigation -->
    <header><link href="//cdn.jsdelivr.net/npm/swiper.css" rel="stylesheet" /><script src="//cdn.tailwindcss.com"></script><a href="/">Inicio</a><a href="/cursos/ocupados">Ocupados</a></header>`
	site := stubSiteReader{pages: map[string]string{"index.html": header + "\n" + testIndexFooterBlock}}

	updated := applyBuiltinRecipe(testInstance, "layout-sync", "cursos/ocupados.html",
		"<!-- Header Navigation --><header>old</header><!-- Footer --><footer>old</footer>", site)

	for _, expected := range []string{
		`href="//cdn.jsdelivr.net/npm/swiper.css"`,
		`src="//cdn.tailwindcss.com"`,
		`<a href="../">Inicio</a>`,
		`<a href="../cursos/ocupados">Ocupados</a>`,
		`<a href="../faq">FAQ</a>`,
	} {
		require.Contains(testInstance, updated, expected)
	}
	require.NotContains(testInstance, updated, `..//`)
}

func TestLayoutSyncFailures(testInstance *testing.T) {
	testInstance.Parallel()

	recipe, resolveError := rewrite.NewBuiltinCatalog().Resolve("layout-sync")
	require.NoError(testInstance, resolveError)

	testCases := []struct {
		name          string
		site          rewrite.SiteReader
		expectedError string
	}{
		{name: "no_site", site: nil, expectedError: "site reader"},
		{name: "missing_index", site: stubSiteReader{pages: map[string]string{}}, expectedError: "file does not exist"},
		{name: "missing_footer", site: stubSiteReader{pages: map[string]string{"index.html": testIndexHeaderBlock}}, expectedError: "footer"},
		{name: "missing_header", site: stubSiteReader{pages: map[string]string{"index.html": testIndexFooterBlock}}, expectedError: "header"},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			subtest.Parallel()

			_, rulesError := recipe.RulesFor(rewrite.PageContext{Path: "blog.html", Site: testCase.site})
			require.ErrorContains(subtest, rulesError, testCase.expectedError)
		})
	}
}

func TestBuiltinCatalog(testInstance *testing.T) {
	testInstance.Parallel()

	catalog := rewrite.NewBuiltinCatalog()
	names := catalog.Names()
	require.Len(testInstance, names, len(rewrite.BuiltinRecipes()))
	require.IsIncreasing(testInstance, names)
	for _, expectedName := range []string{"tailwind-colors", "contrast", "cursos-heroes", "sedes-section", "menu-empleo", "design-system-sections", "layout-sync"} {
		require.Contains(testInstance, names, expectedName)
	}

	for _, recipe := range catalog.Recipes() {
		require.NotEmpty(testInstance, recipe.Description, recipe.Name)
		require.NotEmpty(testInstance, recipe.Files, recipe.Name)
	}

	_, resolveError := catalog.Resolve("does-not-exist")
	require.ErrorContains(testInstance, resolveError, "unknown recipe \"does-not-exist\"")
	require.ErrorContains(testInstance, resolveError, "tailwind-colors")
}
