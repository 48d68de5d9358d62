// Package render turns job-script templates into submittable scripts.
//
// Templates are standard library text/template files; a reference to a
// context key the caller did not supply is an error rather than a silent
// blank, since a half-rendered batch script is worse than no script.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/google/uuid"
)

func newTemplate(text string) (*template.Template, error) {
	return template.New("job_script").Option("missingkey=error").Parse(text)
}

// File renders the template at path with the given context and returns the
// rendered text.
func File(path string, tmplContext map[string]any) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return String(string(raw), tmplContext)
}

// String renders template text with the given context.
func String(text string, tmplContext map[string]any) (string, error) {
	tmpl, err := newTemplate(text)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, tmplContext); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// WriteScript renders the template and writes the result into dir under a
// uniquely suffixed copy of the template's filename, returning the new path.
// The directory is created if needed.
func WriteScript(templatePath, dir string, tmplContext map[string]any) (string, error) {
	rendered, err := File(templatePath, tmplContext)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create script dir: %w", err)
	}

	out := filepath.Join(dir, scriptName(templatePath))
	if err := os.WriteFile(out, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write rendered script: %w", err)
	}
	return out, nil
}

// DefaultScriptDir is the conventional scratch location for rendered job
// scripts: <home>/.hpcpy/job_scripts. Falls back to the system temp dir when
// the home directory cannot be determined.
func DefaultScriptDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".hpcpy", "job_scripts")
	}
	return filepath.Join(home, ".hpcpy", "job_scripts")
}

// ListScripts returns the paths of all rendered scripts in dir. Cleanup of
// expired scripts is left to external housekeeping; this is its inventory.
func ListScripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

// scriptName builds "<name>_<suffix><ext>" from the template filename, with a
// random suffix so concurrent submissions from the same template never
// collide.
func scriptName(templatePath string) string {
	base := filepath.Base(templatePath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s%s", name, suffix, ext)
}
