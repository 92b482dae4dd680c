// Package doxyfile renders and writes the transient generator configuration document.
package doxyfile

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/doxybuild/internal/config"
)

//go:embed doxyfile.tmpl
var doxyfileTemplate string

// continuationIndent aligns continuation lines under the first value column.
const continuationIndent = "                         "

// Values are written on one line; the project name sits inside double quotes.
var (
	singleLine  = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
	quotedValue = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", `"`, `\"`)
)

// Params are the values interpolated into the template. Paths are relative to the root.
type Params struct {
	ProjectName    string
	ProjectNumber  string
	Inputs         []string
	FilePatterns   []string
	Recursive      bool
	Encoding       string
	OutputDir      string
	HTMLOutput     string
	MainPage       string
	ExtraFiles     []string
	Logo           string
	Stylesheets    []string
	Graphs         bool
	DotImageFormat string
	DotFontName    string
}

// ParamsFor derives template parameters from the configuration and resolved layout.
func ParamsFor(cfg *config.Config, l config.Layout) Params {
	sheets := make([]string, 0, len(cfg.Style.Stylesheets))
	for _, s := range cfg.Style.Stylesheets {
		sheets = append(sheets, l.Rel(filepath.Join(l.StyleDir, s)))
	}
	return Params{
		ProjectName:    quotedValue.Replace(cfg.ProjectName(l)),
		ProjectNumber:  singleLine.Replace(cfg.Project.Number),
		Inputs:         cfg.Input.Directories,
		FilePatterns:   cfg.Input.FilePatterns,
		Recursive:      cfg.Input.Recursive,
		Encoding:       cfg.Input.Encoding,
		OutputDir:      l.Rel(l.OutputDir),
		HTMLOutput:     cfg.Output.HTMLOutput,
		MainPage:       relOrEmpty(l, cfg.Project.MainPage),
		ExtraFiles:     relAll(l, cfg.Project.ExtraFiles),
		Logo:           relOrEmpty(l, cfg.Project.Logo),
		Stylesheets:    sheets,
		Graphs:         cfg.Graphs.Enabled,
		DotImageFormat: cfg.Graphs.ImageFormat,
		DotFontName:    cfg.Graphs.FontName,
	}
}

var tpl = template.Must(template.New("doxyfile").
	Funcs(template.FuncMap{
		"join": strings.Join,
		"yesno": func(b bool) string {
			if b {
				return "YES"
			}
			return "NO"
		},
		"continued": func(values []string) string {
			return strings.Join(values, " \\\n"+continuationIndent)
		},
	}).
	Option("missingkey=error").
	Parse(doxyfileTemplate))

// Render produces the configuration document for p.
func Render(p Params) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("render generator config: %w", err)
	}
	return buf.String(), nil
}

// Write replaces path with content. The document is written to a sibling temporary file
// and renamed into place, so readers see either the previous or the new version.
func Write(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temporary config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temporary config: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temporary config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

func relOrEmpty(l config.Layout, p string) string {
	if p == "" {
		return ""
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(l.Root, p)
	}
	return l.Rel(p)
}

func relAll(l config.Layout, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, relOrEmpty(l, p))
	}
	return out
}
