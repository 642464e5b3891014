package rewrite

import (
	"fmt"
	"sort"
	"strings"
)

const (
	unknownRecipeTemplateConstant = "unknown recipe %q (available: %s)"
)

// Catalog indexes recipes by name.
type Catalog struct {
	recipes map[string]Recipe
}

// NewCatalog constructs a catalog from the provided recipes; later entries replace earlier ones with the same name.
func NewCatalog(recipes ...Recipe) *Catalog {
	catalog := &Catalog{recipes: make(map[string]Recipe, len(recipes))}
	for _, recipe := range recipes {
		catalog.Register(recipe)
	}
	return catalog
}

// BuiltinRecipes returns the recipes shipped with the tool.
func BuiltinRecipes() []Recipe {
	return []Recipe{
		tailwindColorsRecipe(),
		ciclosCardsRecipe(),
		ciclosPaletteRecipe(),
		contrastRecipe(),
		heroImagesRecipe(),
		heroOverlayRecipe(),
		cursosHeroesRecipe(),
		sedesPhotosRecipe(),
		sedesSectionRecipe(),
		heroFooterColorsRecipe(),
		menuEmpleoRecipe(),
		menuCleanupRecipe(),
		ctaSectionRecipe(),
		dropdownBackgroundRecipe(),
		duplicateStylesRecipe(),
		designSectionsRecipe(),
		accesoAlumnosRecipe(),
		brandColorsRecipe(),
		layoutSyncRecipe(),
	}
}

// NewBuiltinCatalog constructs a catalog holding the built-in recipes.
func NewBuiltinCatalog() *Catalog {
	return NewCatalog(BuiltinRecipes()...)
}

// Register adds or replaces a recipe.
func (catalog *Catalog) Register(recipe Recipe) {
	catalog.recipes[recipe.Name] = recipe
}

// Lookup returns the recipe registered under name.
func (catalog *Catalog) Lookup(name string) (Recipe, bool) {
	recipe, found := catalog.recipes[strings.TrimSpace(name)]
	return recipe, found
}

// Resolve returns the named recipe or an error listing the available names.
func (catalog *Catalog) Resolve(name string) (Recipe, error) {
	recipe, found := catalog.Lookup(name)
	if !found {
		return Recipe{}, fmt.Errorf(unknownRecipeTemplateConstant, name, strings.Join(catalog.Names(), ", "))
	}
	return recipe, nil
}

// Names returns the sorted recipe names.
func (catalog *Catalog) Names() []string {
	names := make([]string, 0, len(catalog.recipes))
	for name := range catalog.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Recipes returns the recipes sorted by name.
func (catalog *Catalog) Recipes() []Recipe {
	names := catalog.Names()
	recipes := make([]Recipe, 0, len(names))
	for _, name := range names {
		recipes = append(recipes, catalog.recipes[name])
	}
	return recipes
}
