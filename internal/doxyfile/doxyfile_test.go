package doxyfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxybuild/internal/config"
)

func renderDefaults(t *testing.T) string {
	t.Helper()
	cfg := config.Defaults()
	cfg.Project.Name = "clox"
	l, err := cfg.Layout(t.TempDir())
	require.NoError(t, err)
	out, err := Render(ParamsFor(cfg, l))
	require.NoError(t, err)
	return out
}

func TestRender_DefaultDocument(t *testing.T) {
	out := renderDefaults(t)

	for _, line := range []string{
		`PROJECT_NAME           = "clox"`,
		`PROJECT_NUMBER         = 0.0.1`,
		`INPUT                  = include src docs`,
		`RECURSIVE              = YES`,
		`FILE_PATTERNS          = *.c *.h *.md`,
		`INPUT_ENCODING         = UTF-8`,
		`EXTRACT_ALL            = YES`,
		`JAVADOC_AUTOBRIEF      = YES`,
		`MARKDOWN_SUPPORT       = YES`,
		`OUTPUT_DIRECTORY       = ./docs/doxygen`,
		`GENERATE_HTML          = YES`,
		`GENERATE_LATEX         = NO`,
		`HTML_OUTPUT            = html`,
		`USE_MDFILE_AS_MAINPAGE = ./docs/README.md`,
		`HTML_EXTRA_FILES       = ./docs/asset/*`,
		`PROJECT_LOGO           = ./docs/asset/logo.png`,
		`GENERATE_TREEVIEW      = YES`,
		`HAVE_DOT               = YES`,
		`CLASS_DIAGRAMS         = YES`,
		`CALL_GRAPH             = YES`,
		`CALLER_GRAPH           = YES`,
		`DOT_IMAGE_FORMAT       = svg`,
		`DOT_TRANSPARENT        = YES`,
		`DOT_FONTNAME           = Helvetica`,
	} {
		require.Contains(t, out, line+"\n")
	}

	require.Contains(t, out, "HTML_EXTRA_STYLESHEET  = ./docs/doxygen/style/doxygen-awesome.css \\\n"+
		continuationIndent+"./docs/doxygen/style/doxygen-awesome-sidebar-only.css\n")
	require.Equal(t, 1, strings.Count(out, "GENERATE_HTML "), "GENERATE_HTML must appear once")
}

func TestRender_ProjectNameCannotBreakDocument(t *testing.T) {
	cfg := config.Defaults()
	cfg.Project.Name = "my \"fancy\"\nGENERATE_LATEX = YES"
	cfg.Project.Number = "1.0\nHAVE_DOT = NO"
	l, err := cfg.Layout(t.TempDir())
	require.NoError(t, err)

	out, err := Render(ParamsFor(cfg, l))
	require.NoError(t, err)
	require.Contains(t, out, `PROJECT_NAME           = "my \"fancy\" GENERATE_LATEX = YES"`+"\n")
	require.Contains(t, out, "PROJECT_NUMBER         = 1.0 HAVE_DOT = NO\n")
	require.Equal(t, 1, strings.Count(out, "\nGENERATE_LATEX "))
	require.Equal(t, 1, strings.Count(out, "\nHAVE_DOT "))
}

func TestRender_OptionalFieldsAndToggles(t *testing.T) {
	cfg := config.Defaults()
	cfg.Project.Logo = ""
	cfg.Project.MainPage = ""
	cfg.Project.ExtraFiles = nil
	cfg.Graphs.Enabled = false
	cfg.Input.Recursive = false
	l, err := cfg.Layout(filepath.Join(t.TempDir(), "lox"))
	require.NoError(t, err)

	out, err := Render(ParamsFor(cfg, l))
	require.NoError(t, err)
	require.NotContains(t, out, "PROJECT_LOGO")
	require.NotContains(t, out, "USE_MDFILE_AS_MAINPAGE")
	require.NotContains(t, out, "HTML_EXTRA_FILES")
	require.Contains(t, out, `PROJECT_NAME           = "lox"`)
	require.Contains(t, out, "HAVE_DOT               = NO\n")
	require.Contains(t, out, "CALL_GRAPH             = NO\n")
	require.Contains(t, out, "RECURSIVE              = NO\n")
}

func TestWrite_OverwritesWholeDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Doxygen")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), 0o600))

	require.NoError(t, Write(path, "PROJECT_NAME = \"x\"\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "PROJECT_NAME = \"x\"\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestWrite_UnwritableDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "Doxygen")
	require.Error(t, Write(path, "x"))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
