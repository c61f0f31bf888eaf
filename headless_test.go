package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editgrep/internal/domain"
	"editgrep/internal/ui/services/global"
)

func TestConsoleHostRendersResults(t *testing.T) {
	var out bytes.Buffer
	h := newConsoleHost("light", &out, strings.NewReader(""))

	h.RenderResults(global.View{
		Groups: []global.FileGroup{
			{Path: "a.yaml", Entries: []global.Entry{{Line: 3, Content: "light: on"}}},
		},
		Entities: []domain.Entity{{ID: "light.kitchen", Name: "Kitchen"}},
		Total:    1,
	})
	assert.Equal(t, "a.yaml:3: light: on\nentity light.kitchen (Kitchen)\n1 results in 1 files\n", out.String())

	out.Reset()
	h.quiet = true
	h.RenderResults(global.View{Total: 4})
	h.RenderEmpty()
	assert.Empty(t, out.String())
}

func TestConsoleHostErrors(t *testing.T) {
	var out bytes.Buffer
	h := newConsoleHost("x", &out, strings.NewReader(""))
	require.NoError(t, h.Err())

	h.Notify("Updated 2 files", domain.NoticeSuccess, 0)
	assert.Equal(t, "Updated 2 files\n", out.String())
	assert.NoError(t, h.Err())

	h.Notify("boom", domain.NoticeError, 0)
	assert.EqualError(t, h.Err(), "boom")

	h.RenderError("Search failed: gone")
	assert.EqualError(t, h.Err(), "Search failed: gone")
}

func TestConsoleHostConfirm(t *testing.T) {
	dialog := global.ConfirmDialogFor("light", "lamp", []domain.GlobalSearchResult{{Path: "a.yaml"}})
	ctx := context.Background()

	var out bytes.Buffer
	ok, err := newConsoleHost("light", &out, strings.NewReader("y\n")).Confirm(ctx, dialog)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Replace 1 occurrences")

	ok, err = newConsoleHost("light", &out, strings.NewReader("\n")).Confirm(ctx, dialog)
	require.NoError(t, err)
	assert.False(t, ok)

	h := newConsoleHost("light", &out, strings.NewReader(""))
	h.assumeYes = true
	ok, err = h.Confirm(ctx, dialog)
	require.NoError(t, err)
	assert.True(t, ok)
}
