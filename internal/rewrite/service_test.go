package rewrite_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cepformacion/cepfix/internal/rewrite"
	"github.com/cepformacion/cepfix/internal/sitefs"
	"github.com/cepformacion/cepfix/internal/utils"
)

const (
	testRecipeName        = "demo"
	testRecipeDescription = "Swap old markers"
)

type recordingFileSystem struct {
	sitefs.OSFileSystem
	writes     []string
	writeError error
}

func (fileSystem *recordingFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	fileSystem.writes = append(fileSystem.writes, filepath.Base(path))
	if fileSystem.writeError != nil {
		return fileSystem.writeError
	}
	return fileSystem.OSFileSystem.WriteFile(path, data, permissions)
}

func demoRecipe(files ...string) rewrite.Recipe {
	return rewrite.Recipe{
		Name:        testRecipeName,
		Description: testRecipeDescription,
		Files:       files,
		Rules: []rewrite.Rule{
			rewrite.LiteralRule{Label: "swap", Old: "old", New: "newer"},
		},
	}
}

func writeSitePage(testInstance *testing.T, siteRoot string, relativePath string, content string) string {
	testInstance.Helper()
	pagePath := filepath.Join(siteRoot, filepath.FromSlash(relativePath))
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(pagePath), 0o755))
	require.NoError(testInstance, os.WriteFile(pagePath, []byte(content), 0o644))
	return pagePath
}

func readSitePage(testInstance *testing.T, pagePath string) string {
	testInstance.Helper()
	data, readError := os.ReadFile(pagePath)
	require.NoError(testInstance, readError)
	return string(data)
}

func TestServiceRunRewritesChangedPages(testInstance *testing.T) {
	siteRoot := testInstance.TempDir()
	changedPage := writeSitePage(testInstance, siteRoot, "a.html", "old old")
	unchangedPage := writeSitePage(testInstance, siteRoot, "b.html", "nothing here")

	fileSystem := &recordingFileSystem{}
	output := &bytes.Buffer{}
	service := rewrite.NewService(fileSystem, nil, nil, utils.NewWriterReporter(output), nil)

	summary, runError := service.Run(context.Background(), demoRecipe("a.html", "missing.html", "b.html"), rewrite.Options{SiteRoot: siteRoot})
	require.NoError(testInstance, runError)

	require.Equal(testInstance, 2, summary.Succeeded)
	require.Equal(testInstance, 1, summary.Failed)
	require.Equal(testInstance, []string{"a.html"}, fileSystem.writes)
	require.Equal(testInstance, "newer newer", readSitePage(testInstance, changedPage))
	require.Equal(testInstance, "nothing here", readSitePage(testInstance, unchangedPage))

	expectedLines := []string{
		"Recipe demo: Swap old markers",
		"  ✓ a.html (Δ +4 bytes)",
		"      • swap: 2 replacement(s)",
		"  ⚠ file not found: missing.html",
		"  - b.html unchanged",
		"      • swap: pattern not found",
		"SUMMARY: 2 succeeded, 1 failed",
	}
	actualLines := strings.Split(strings.TrimSpace(output.String()), "\n")
	require.Empty(testInstance, cmp.Diff(expectedLines, actualLines))

	statuses := make([]rewrite.FileStatus, 0, len(summary.Outcomes))
	for _, outcome := range summary.Outcomes {
		statuses = append(statuses, outcome.Status)
	}
	require.Equal(testInstance, []rewrite.FileStatus{rewrite.FileStatusUpdated, rewrite.FileStatusMissing, rewrite.FileStatusUnchanged}, statuses)
}

func TestServiceRunScenarios(testInstance *testing.T) {
	testCases := []struct {
		name              string
		pages             map[string]string
		files             []string
		options           rewrite.Options
		writeError        error
		expectedSucceeded int
		expectedFailed    int
		expectedWrites    []string
		expectedOutput    []string
		expectedContents  map[string]string
	}{
		{
			name:              "dry_run_reports_without_writing",
			pages:             map[string]string{"a.html": "old"},
			files:             []string{"a.html"},
			options:           rewrite.Options{DryRun: true},
			expectedSucceeded: 1,
			expectedWrites:    nil,
			expectedOutput:    []string{"Recipe demo: Swap old markers (dry run)", "  ✓ a.html would change (Δ +2 bytes)"},
			expectedContents:  map[string]string{"a.html": "old"},
		},
		{
			name:              "escape_is_rejected",
			pages:             map[string]string{"a.html": "old"},
			files:             []string{"../outside.html"},
			expectedFailed:    1,
			expectedOutput:    []string{"outside the site root"},
			expectedContents:  map[string]string{"a.html": "old"},
			expectedSucceeded: 0,
		},
		{
			name:             "globs_expand_and_deduplicate",
			pages:            map[string]string{"cursos/a.html": "old", "cursos/b.html": "old", "index.html": "old"},
			files:            []string{"cursos/*.html", "cursos/a.html"},
			options:          rewrite.Options{},
			expectedWrites:   []string{"a.html", "b.html"},
			expectedOutput:   []string{"  ✓ cursos/a.html (Δ +2 bytes)", "  ✓ cursos/b.html (Δ +2 bytes)", "SUMMARY: 2 succeeded, 0 failed"},
			expectedContents: map[string]string{"cursos/a.html": "newer", "cursos/b.html": "newer", "index.html": "old"},

			expectedSucceeded: 2,
		},
		{
			name:              "option_files_override_recipe",
			pages:             map[string]string{"a.html": "old", "b.html": "old"},
			files:             []string{"a.html"},
			options:           rewrite.Options{Files: []string{"b.html"}},
			expectedSucceeded: 1,
			expectedWrites:    []string{"b.html"},
			expectedContents:  map[string]string{"a.html": "old", "b.html": "newer"},
		},
		{
			name:              "write_failure_is_counted",
			pages:             map[string]string{"a.html": "old"},
			files:             []string{"a.html"},
			writeError:        errors.New("disk full"),
			expectedFailed:    1,
			expectedWrites:    []string{"a.html"},
			expectedOutput:    []string{"  ✗ a.html: unable to write a.html: disk full", "SUMMARY: 0 succeeded, 1 failed"},
			expectedContents:  map[string]string{"a.html": "old"},
			expectedSucceeded: 0,
		},
		{
			name:              "directory_is_a_failure",
			pages:             map[string]string{"nested/page.html": "old"},
			files:             []string{"nested"},
			expectedFailed:    1,
			expectedOutput:    []string{"  ✗ nested: nested is a directory"},
			expectedSucceeded: 0,
		},
		{
			name:           "no_pages",
			pages:          map[string]string{"a.html": "old"},
			files:          []string{"*.htm"},
			expectedOutput: []string{"No pages matched recipe demo", "SUMMARY: 0 succeeded, 0 failed"},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtest *testing.T) {
			siteRoot := subtest.TempDir()
			for relativePath, content := range testCase.pages {
				writeSitePage(subtest, siteRoot, relativePath, content)
			}

			fileSystem := &recordingFileSystem{writeError: testCase.writeError}
			output := &bytes.Buffer{}
			service := rewrite.NewService(fileSystem, sitefs.NewFilesystemPageDiscoverer(nil), nil, utils.NewWriterReporter(output), nil)

			options := testCase.options
			options.SiteRoot = siteRoot
			summary, runError := service.Run(context.Background(), demoRecipe(testCase.files...), options)
			require.NoError(subtest, runError)

			require.Equal(subtest, testCase.expectedSucceeded, summary.Succeeded)
			require.Equal(subtest, testCase.expectedFailed, summary.Failed)
			require.Equal(subtest, testCase.expectedWrites, fileSystem.writes)
			for _, expectedLine := range testCase.expectedOutput {
				require.Contains(subtest, output.String(), expectedLine)
			}
			for relativePath, expectedContent := range testCase.expectedContents {
				require.Equal(subtest, expectedContent, readSitePage(subtest, filepath.Join(siteRoot, filepath.FromSlash(relativePath))))
			}
		})
	}
}

func TestServiceRunPreservesPermissions(testInstance *testing.T) {
	siteRoot := testInstance.TempDir()
	pagePath := writeSitePage(testInstance, siteRoot, "a.html", "old")
	require.NoError(testInstance, os.Chmod(pagePath, 0o600))

	service := rewrite.NewService(nil, nil, nil, nil, nil)
	_, runError := service.Run(context.Background(), demoRecipe("a.html"), rewrite.Options{SiteRoot: siteRoot})
	require.NoError(testInstance, runError)

	pageInfo, statError := os.Stat(pagePath)
	require.NoError(testInstance, statError)
	require.Equal(testInstance, fs.FileMode(0o600), pageInfo.Mode().Perm())
	require.Equal(testInstance, "newer", readSitePage(testInstance, pagePath))
}

func TestServiceRunStopsWhenCancelled(testInstance *testing.T) {
	siteRoot := testInstance.TempDir()
	pagePath := writeSitePage(testInstance, siteRoot, "a.html", "old")

	executionContext, cancel := context.WithCancel(context.Background())
	cancel()

	service := rewrite.NewService(nil, nil, nil, nil, nil)
	_, runError := service.Run(executionContext, demoRecipe("a.html"), rewrite.Options{SiteRoot: siteRoot})
	require.ErrorIs(testInstance, runError, context.Canceled)
	require.Equal(testInstance, "old", readSitePage(testInstance, pagePath))
}

func TestServiceRunLayoutSyncReadsIndex(testInstance *testing.T) {
	siteRoot := testInstance.TempDir()
	writeSitePage(testInstance, siteRoot, "index.html", testIndexHeaderBlock+"\n"+testIndexFooterBlock)
	nestedPage := writeSitePage(testInstance, siteRoot, "cursos/privados.html", "<!-- Navigation --><nav>old</nav><!-- Footer --><footer>old</footer>")

	recipe, resolveError := rewrite.NewBuiltinCatalog().Resolve("layout-sync")
	require.NoError(testInstance, resolveError)

	output := &bytes.Buffer{}
	service := rewrite.NewService(nil, nil, nil, utils.NewWriterReporter(output), nil)
	summary, runError := service.Run(context.Background(), recipe, rewrite.Options{SiteRoot: siteRoot, Files: []string{"cursos/privados.html"}})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 1, summary.Succeeded)

	updated := readSitePage(testInstance, nestedPage)
	require.Contains(testInstance, updated, `<a href="../">Inicio</a>`)
	require.Contains(testInstance, updated, `<a href="../faq">FAQ</a>`)
	require.NotContains(testInstance, updated, "<nav>old</nav>")
}
