// Package render implements the Template Renderer (spec.md §4.3): rendering
// a named template file against an explicit variable map, atomically writing
// the result. Built on text/template with the sprig function library wired
// in (grounded on helm-helm's go.mod, which pulls in Masterminds/sprig for
// exactly this kind of richer chart-templating surface).
package render

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/fastbi/platform-deployer/internal/apperrors"
)

// Renderer renders named template files against a variable map.
type Renderer struct{}

// New builds a Renderer.
func New() *Renderer { return &Renderer{} }

// Render reads templatePath, renders it against vars, and atomically writes
// the result to outputPath (write to a temp file, then rename).
//
// vars is a flat map of identifier to its already-formatted scalar value —
// the Value Document is, per spec.md §3, "a mapping from identifier to
// scalar/secret/URL"; callers pre-format lists (e.g. CIDR allowlists) into a
// single string block before calling Render, keeping the contract monomorphic
// and the "undefined renders as empty string" rule (below) unambiguous.
//
// strict, when true, makes any undefined variable reference a render error
// (missingkey=error); when false (the default used across this platform —
// see DESIGN.md's decided Open Question), undefined variables render as
// empty strings, matching the non-strict Jinja2 Undefined behavior observed
// in the original templates.
func (r *Renderer) Render(templatePath, outputPath string, vars map[string]string, strict bool) error {
	if _, err := os.Stat(templatePath); err != nil {
		return apperrors.Wrapf(apperrors.KindTemplateRender, err, "template not found: %s", templatePath)
	}

	name := filepath.Base(templatePath)
	tmpl := template.New(name).Funcs(sprig.TxtFuncMap())
	if strict {
		tmpl = tmpl.Option("missingkey=error")
	} else {
		tmpl = tmpl.Option("missingkey=zero")
	}

	parsed, err := tmpl.ParseFiles(templatePath)
	if err != nil {
		return apperrors.Wrapf(apperrors.KindTemplateRender, err, "parsing template %s", templatePath)
	}

	var buf bytes.Buffer
	if err := parsed.ExecuteTemplate(&buf, name, vars); err != nil {
		return apperrors.Wrapf(apperrors.KindTemplateRender, err, "rendering template %s", templatePath)
	}

	return atomicWrite(outputPath, buf.Bytes())
}

func atomicWrite(outputPath string, content []byte) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.Wrapf(apperrors.KindTemplateRender, err, "creating directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".render-*.tmp")
	if err != nil {
		return apperrors.Wrapf(apperrors.KindTemplateRender, err, "creating temp file in %s", dir)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return apperrors.Wrapf(apperrors.KindTemplateRender, err, "writing rendered output")
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrapf(apperrors.KindTemplateRender, err, "closing rendered output")
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return apperrors.Wrapf(apperrors.KindTemplateRender, err, "renaming rendered output to %s", outputPath)
	}
	return nil
}
