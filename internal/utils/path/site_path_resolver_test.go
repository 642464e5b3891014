package pathutils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/cepformacion/cepfix/internal/utils/path"
)

const (
	testHomeDirectoryConstant    = "/home/cep"
	testSiteRootConstant         = "/srv/site"
	sitePathSubtestNameTemplate  = "%d_%s"
	escapingPageCaseNameConstant = "escaping_page_rejected"
)

func TestSitePathResolverResolvePage(testInstance *testing.T) {
	resolver := pathutils.NewSitePathResolver(pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	}))

	testCases := []struct {
		name         string
		siteRoot     string
		pagePath     string
		expectedPath string
		expectError  bool
	}{
		{name: "top_level_page", siteRoot: testSiteRootConstant, pagePath: "index.html", expectedPath: filepath.Join(testSiteRootConstant, "index.html")},
		{name: "nested_page", siteRoot: testSiteRootConstant, pagePath: "cursos/ocupados.html", expectedPath: filepath.Join(testSiteRootConstant, "cursos", "ocupados.html")},
		{name: "home_root", siteRoot: "~/web", pagePath: "faq.html", expectedPath: filepath.Join(testHomeDirectoryConstant, "web", "faq.html")},
		{name: escapingPageCaseNameConstant, siteRoot: testSiteRootConstant, pagePath: "../etc/passwd", expectError: true},
		{name: "sibling_prefix_rejected", siteRoot: testSiteRootConstant, pagePath: "/srv/site-backup/index.html", expectError: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(sitePathSubtestNameTemplate, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			resolvedPath, resolveError := resolver.ResolvePage(testCase.siteRoot, testCase.pagePath)
			if testCase.expectError {
				require.Error(testInstance, resolveError)
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedPath, resolvedPath)
		})
	}
}

func TestSitePathResolverResolvesSymbolicLinks(testInstance *testing.T) {
	workspace := testInstance.TempDir()
	siteRoot := filepath.Join(workspace, "site")
	outsideDirectory := filepath.Join(workspace, "outside")
	require.NoError(testInstance, os.MkdirAll(siteRoot, 0o755))
	require.NoError(testInstance, os.MkdirAll(outsideDirectory, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(outsideDirectory, "secret.html"), []byte("secret"), 0o644))

	escapingLink := filepath.Join(siteRoot, "escape")
	if symlinkError := os.Symlink(outsideDirectory, escapingLink); symlinkError != nil {
		testInstance.Skipf("symbolic links unavailable: %v", symlinkError)
	}
	rootLink := filepath.Join(workspace, "site-link")
	require.NoError(testInstance, os.Symlink(siteRoot, rootLink))

	resolver := pathutils.NewSitePathResolver(nil)

	testCases := []struct {
		name         string
		siteRoot     string
		pagePath     string
		expectedPath string
		expectError  bool
	}{
		{name: "link_leaving_root_rejected", siteRoot: siteRoot, pagePath: "escape/secret.html", expectError: true},
		{name: "link_directory_rejected", siteRoot: siteRoot, pagePath: "escape", expectError: true},
		{name: "missing_page_below_link_rejected", siteRoot: siteRoot, pagePath: "escape/new.html", expectError: true},
		{name: "linked_root_accepted", siteRoot: rootLink, pagePath: "index.html", expectedPath: filepath.Join(rootLink, "index.html")},
		{name: "real_path_under_linked_root", siteRoot: rootLink, pagePath: filepath.Join(siteRoot, "faq.html"), expectedPath: filepath.Join(siteRoot, "faq.html")},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(sitePathSubtestNameTemplate, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			resolvedPath, resolveError := resolver.ResolvePage(testCase.siteRoot, testCase.pagePath)
			if testCase.expectError {
				require.Error(testInstance, resolveError)
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedPath, resolvedPath)
		})
	}

	require.False(testInstance, pathutils.IsNestedPath(siteRoot, escapingLink))
	require.True(testInstance, pathutils.IsNestedPath(rootLink, filepath.Join(siteRoot, "index.html")))
}

func TestSitePathResolverRelativePage(testInstance *testing.T) {
	resolver := pathutils.NewSitePathResolver(nil)
	relativePath := resolver.RelativePage(testSiteRootConstant, filepath.Join(testSiteRootConstant, "cursos", "privados.html"))
	require.Equal(testInstance, "cursos/privados.html", relativePath)
}

func TestHomeExpanderExpand(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	require.Equal(testInstance, testHomeDirectoryConstant, expander.Expand("~"))
	require.Equal(testInstance, filepath.Join(testHomeDirectoryConstant, "shots"), expander.Expand("~/shots"))
	require.Equal(testInstance, "~other/shots", expander.Expand("~other/shots"))
	require.Equal(testInstance, "relative/path", expander.Expand("relative/path"))
}
