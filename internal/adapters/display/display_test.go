package display

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

func sampleSelection() app.Selection {
	return app.Selection{
		Quote:    domain.Quote{Text: "Simplicity is the soul of efficiency.", Author: "Austin Freeman"},
		Category: domain.CategoryProductivity,
		Source:   domain.SourceFallback,
		Attempts: 5,
	}
}

func TestSearchURL(t *testing.T) {
	assert.Equal(t,
		"https://www.google.com/search?q=%22Less+is+more%26more%22",
		SearchURL("Less is more&more"))
}

func TestPrinter_Text(t *testing.T) {
	var buf bytes.Buffer

	err := NewPrinter(&buf, FormatText).Print(NewView(sampleSelection(), domain.DefaultSettings(), true))

	require.NoError(t, err)
	assert.Equal(t, `"Simplicity is the soul of efficiency."
  - Austin Freeman

[productivity | light | bottomRight | medium | 15s]
search: https://www.google.com/search?q=%22Simplicity+is+the+soul+of+efficiency.%22
`, buf.String())
}

func TestPrinter_TextWithoutSearch(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewPrinter(&buf, "").Print(NewView(sampleSelection(), domain.DefaultSettings(), false)))

	assert.NotContains(t, buf.String(), "search:")
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewPrinter(&buf, FormatJSON).Print(NewView(sampleSelection(), domain.DefaultSettings(), false)))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "fallback", got["source"])
	assert.Equal(t, "productivity", got["category"])
	assert.Equal(t, float64(5), got["attempts"])
	assert.Equal(t, map[string]any{
		"text":   "Simplicity is the soul of efficiency.",
		"author": "Austin Freeman",
	}, got["quote"])
	assert.NotContains(t, got, "searchUrl")
	assert.Contains(t, got, "settings")
}

func TestNewExecLauncher_DefaultsToSelf(t *testing.T) {
	l, err := NewExecLauncher(LauncherConfig{GlobalArgs: []string{"--profile", "dev"}})
	require.NoError(t, err)

	self, err := os.Executable()
	require.NoError(t, err)
	assert.Equal(t, []string{self, "--profile", "dev", ShowCommand}, l.Args())
}

func TestNewExecLauncher_ConfiguredCommand(t *testing.T) {
	l, err := NewExecLauncher(LauncherConfig{Command: "  notify-send  quote ", GlobalArgs: []string{"ignored"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"notify-send", "quote"}, l.Args())
}

func TestExecLauncher_Launch(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX utilities")
	}

	var out bytes.Buffer
	l, err := NewExecLauncher(LauncherConfig{Command: "echo hello", Stdout: &out})
	require.NoError(t, err)

	require.NoError(t, l.Launch(context.Background()))
	assert.Equal(t, "hello\n", out.String())
}

func TestExecLauncher_NonZeroExitIsNotAnError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX utilities")
	}

	l, err := NewExecLauncher(LauncherConfig{Command: "false"})
	require.NoError(t, err)

	assert.NoError(t, l.Launch(context.Background()))
}

func TestExecLauncher_StartFailure(t *testing.T) {
	l, err := NewExecLauncher(LauncherConfig{Command: "/nonexistent/quotebox-display"})
	require.NoError(t, err)

	err = l.Launch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "running /nonexistent/quotebox-display")
}
