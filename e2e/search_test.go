//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWith(t *testing.T, files map[string]string, args ...string) *TUITestFramework {
	t.Helper()
	tf := NewTUITest(t)
	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")
	require.NoError(t, tf.WriteFiles(files))

	require.NoError(t, tf.StartApp(append([]string{"-d", workspace}, args...)...), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")
	return tf
}

func TestFindInOpenFile(t *testing.T) {
	t.Parallel()
	tf := startWith(t, map[string]string{
		"automations.yaml": "- alias: Kitchen light\n  action: light.turn_on\n",
	}, "automations.yaml")
	defer tf.Cleanup()

	require.True(t, tf.SeePlain("automations.yaml"), "Should show the open file")
	require.NoError(t, tf.Find("light"))
	assert.True(t, tf.SeePlain("2 found"), "Should count matches")

	require.NoError(t, tf.Enter())
	assert.True(t, tf.SeePlain("1 of 2"), "Should select the first match")
	require.NoError(t, tf.Enter())
	assert.True(t, tf.SeePlain("2 of 2"), "Should select the second match")
	require.NoError(t, tf.Enter())
	assert.True(t, tf.SeePlain("Search wrapped"), "Should wrap to the first match")
}

func TestReplaceAllAndSave(t *testing.T) {
	t.Parallel()
	tf := startWith(t, map[string]string{"a.yaml": "light: on\nlight: off\n"}, "a.yaml")
	defer tf.Cleanup()

	require.NoError(t, tf.Find("light"))
	require.True(t, tf.SeePlain("2 found"))
	require.NoError(t, tf.SendKeys(KeyTab+"lamp"+KeyCtrlA))
	require.True(t, tf.SeePlain("Replaced 2"), "Should report the replacements")

	require.NoError(t, tf.SendKeys(KeyEsc+KeyCtrlS))
	require.True(t, tf.SeePlain("Saved a.yaml"), "Should save the file")

	content, err := tf.ReadFile("a.yaml")
	require.NoError(t, err)
	assert.Equal(t, "lamp: on\nlamp: off\n", content)
}

func TestGlobalSearchOpensResult(t *testing.T) {
	t.Parallel()
	tf := startWith(t, map[string]string{
		"a.yaml":          "light: on\n",
		"scripts/b.yaml":  "  - light.kitchen\n",
		"secrets.yaml":    "nothing here\n",
		"www/picture.png": "light",
	})
	defer tf.Cleanup()

	require.True(t, tf.SeePlain("No file open"), "Should start without a file")
	require.NoError(t, tf.GlobalSearch("light"))
	require.True(t, tf.SeePlain("2 results in 2 files"), "Should group results by file")

	// focus the results, move to the first line and open it
	require.NoError(t, tf.SendKeys("\x1b[B"))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, tf.SendKeys(KeyDown+KeyEnter))
	assert.True(t, tf.SeePlain("1 light: on"), "Should open the file at the line")
}

func TestGlobalReplaceConfirmed(t *testing.T) {
	t.Parallel()
	tf := startWith(t, map[string]string{
		"a.yaml":   "light: on\nlight: off\n",
		"b/c.yaml": "the light\n",
	})
	defer tf.Cleanup()

	require.NoError(t, tf.GlobalSearch("light"))
	require.True(t, tf.SeePlain("3 results in 2 files"))
	require.NoError(t, tf.SendKeys(KeyTab+"lamp"+KeyEnter))
	require.True(t, tf.SeePlain("3 occurrences"), "Should count occurrences in the prompt")

	require.NoError(t, tf.SendKeys("y"))
	require.True(t, tf.SeePlain("Updated 2 files"), "Should report updated files")

	content, err := tf.ReadFile("b/c.yaml")
	require.NoError(t, err)
	assert.Equal(t, "the lamp\n", content)
}

func TestHelpPager(t *testing.T) {
	t.Parallel()
	tf := startWith(t, map[string]string{"a.yaml": "x\n"})
	defer tf.Cleanup()

	require.NoError(t, tf.SendKeys(KeyHelp))
	assert.True(t, tf.SeePlain("Search Files"), "Should page the help")
	require.NoError(t, tf.SendKeys(KeyQuit))
	assert.True(t, tf.SeePlain("Press ? for help"), "Should return to the editor")
}
