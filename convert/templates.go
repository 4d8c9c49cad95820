package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"hmlt/common"
	"hmlt/config"
	"hmlt/resource"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context string
	// Name is resource path when sidecar knows it, resource id otherwise.
	Name string
	// Hash is runtime resource id.
	Hash       string
	Type       string
	Game       string
	SourceFile string
}

func newValues(name config.TemplateFieldName, meta *resource.Meta, rt common.ResourceType, game common.Version, src string) *Values {
	base := filepath.Base(src)
	hash := meta.HashValue
	if !resource.IsValidHash(hash) {
		hash = resource.ResourceID(meta.Name())
	}
	return &Values{
		Context:    string(name),
		Name:       meta.Name(),
		Hash:       hash,
		Type:       rt.String(),
		Game:       game.String(),
		SourceFile: strings.TrimSuffix(base, filepath.Ext(base)),
	}
}

func expandTemplate(values *Values, name config.TemplateFieldName, field string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
