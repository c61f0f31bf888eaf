package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editgrep/internal/config"
	"editgrep/internal/domain"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func newIndex(root string) *FS {
	return New(root, config.DefaultConfig().Index, nil)
}

func paths(results []domain.GlobalSearchResult) []string {
	var out []string
	for _, r := range results {
		out = append(out, fmt.Sprintf("%s:%d", r.Path, r.Line))
	}
	return out
}

func TestSearchFindsLinesInAllowedFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"configuration.yaml":        "homeassistant:\n  name: Home\n",
		"automations.yaml":          "- alias: Kitchen light\n  trigger: []\n    light.turn_on\n",
		"scripts/lights.yaml":       "script:\n  light_up: {}\n",
		"www/logo.png":              "light",
		"notes.bin":                 "light",
		".hidden/light.yaml":        "light",
		"node_modules/x/light.yaml": "light",
	})

	results, err := newIndex(root).Search(context.Background(), domain.SearchRequest{Query: "light"})
	require.NoError(t, err)

	assert.Equal(t, []string{"automations.yaml:1", "automations.yaml:3", "scripts/lights.yaml:2"}, paths(results))
	assert.Equal(t, "light.turn_on", results[1].Content)
	assert.Equal(t, []domain.LineMatch{{Start: 0, End: 5}}, results[1].Matches)
	assert.Equal(t, "- alias: Kitchen light", results[0].Content)
	assert.Equal(t, []domain.LineMatch{{Start: 17, End: 22}}, results[0].Matches)
}

func TestSearchHonoursFlags(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.yaml": "Light\nlight\nlights\n",
	})
	ix := newIndex(root)

	res, err := ix.Search(context.Background(), domain.SearchRequest{Query: "light", CaseSensitive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml:2", "a.yaml:3"}, paths(res))

	res, err = ix.Search(context.Background(), domain.SearchRequest{Query: "light", WholeWord: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml:1", "a.yaml:2"}, paths(res))

	res, err = ix.Search(context.Background(), domain.SearchRequest{Query: `^l\w+s$`, UsePattern: true, CaseSensitive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml:3"}, paths(res))
}

func TestSearchIncludeExclude(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.yaml":         "x1",
		"b.json":         "x1",
		"packages/c.yml": "x1",
		"packages/d.txt": "x1",
	})
	ix := newIndex(root)
	ctx := context.Background()

	res, err := ix.Search(ctx, domain.SearchRequest{Query: "x1", Include: "*.yaml, *.yml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml:1", "packages/c.yml:1"}, paths(res))

	res, err = ix.Search(ctx, domain.SearchRequest{Query: "x1", Exclude: "packages/**"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml:1", "b.json:1"}, paths(res))

	res, err = ix.Search(ctx, domain.SearchRequest{Query: "x1", Include: "packages/*", Exclude: "*.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"packages/c.yml:1"}, paths(res))
}

func TestSearchCaps(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt": strings.Repeat("hit\n", 150),
		"b.txt": strings.Repeat("hit\n", 150),
		"c.txt": strings.Repeat("hit\n", 150),
	})
	settings := config.DefaultConfig().Index
	settings.MaxResults = 250
	ix := New(root, settings, nil)

	res, err := ix.Search(context.Background(), domain.SearchRequest{Query: "hit"})
	require.NoError(t, err)
	require.Len(t, res, 250)
	assert.Equal(t, "a.txt", res[0].Path)
	assert.Equal(t, "a.txt", res[99].Path)
	assert.Equal(t, "b.txt", res[100].Path)
	assert.Equal(t, "c.txt", res[249].Path)
}

func TestSearchErrors(t *testing.T) {
	ix := newIndex(filepath.Join(t.TempDir(), "missing"))
	_, err := ix.Search(context.Background(), domain.SearchRequest{Query: "abc"})
	assert.ErrorIs(t, err, ErrRootNotFound)

	ix = newIndex(t.TempDir())
	_, err = ix.Search(context.Background(), domain.SearchRequest{Query: "(", UsePattern: true})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	res, err := ix.Search(context.Background(), domain.SearchRequest{})
	assert.NoError(t, err)
	assert.Empty(t, res)
}

func TestSearchHonoursCancellation(t *testing.T) {
	root := writeTree(t, map[string]string{"a.yaml": "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newIndex(root).Search(ctx, domain.SearchRequest{Query: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReplaceRewritesFilesAndSkipsProtected(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.yaml":       "light: on\nlight: off\n",
		"b/c.yaml":     "the light\n",
		"d.yaml":       "nothing\n",
		"secrets.yaml": "light_token: x\n",
	})
	ix := newIndex(root)

	resp, err := ix.Replace(context.Background(), domain.ReplaceRequest{
		SearchRequest: domain.SearchRequest{Query: "light"},
		Replacement:   "lamp",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReplaceResponse{Success: true, FilesUpdated: 2, Occurrences: 3}, resp)

	assert.Equal(t, "lamp: on\nlamp: off\n", readFile(t, root, "a.yaml"))
	assert.Equal(t, "the lamp\n", readFile(t, root, "b/c.yaml"))
	assert.Equal(t, "light_token: x\n", readFile(t, root, "secrets.yaml"))
}

func TestReplaceExpandsGroups(t *testing.T) {
	root := writeTree(t, map[string]string{"a.yaml": "entity_id: light.kitchen\n"})
	resp, err := newIndex(root).Replace(context.Background(), domain.ReplaceRequest{
		SearchRequest: domain.SearchRequest{Query: `light\.(\w+)`, UsePattern: true},
		Replacement:   `switch.\1`,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "entity_id: switch.kitchen\n", readFile(t, root, "a.yaml"))
}

func TestReplaceReportsInvalidQuery(t *testing.T) {
	resp, err := newIndex(t.TempDir()).Replace(context.Background(), domain.ReplaceRequest{
		SearchRequest: domain.SearchRequest{Query: "[", UsePattern: true},
	})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "invalid query")
}

func TestRefreshCachesFileList(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b.yaml":     "",
		"a/c.yaml":   "",
		".gitignore": "",
		"x.png":      "",
	})
	ix := newIndex(root)
	assert.Empty(t, ix.Files())

	require.NoError(t, ix.Refresh(context.Background()))
	assert.Equal(t, []string{".gitignore", "a/c.yaml", "b.yaml"}, ix.Files())
}

func TestProtected(t *testing.T) {
	ix := newIndex(t.TempDir())
	assert.True(t, ix.Protected("secrets.yaml"))
	assert.True(t, ix.Protected("/.storage/core.config"))
	assert.False(t, ix.Protected("packages/secrets.yaml"))
}
