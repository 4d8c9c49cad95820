// Package schemas keeps JSON schemas of editable documents and validates
// documents against them before rebuild.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/multierr"

	"hmlt/common"
	"hmlt/resource"
)

// context name gojsonschema gives to document itself
const rootContext = "(root)"

//go:embed *.schema.json
var files embed.FS

var compiled = map[common.ResourceType]func() (*gojsonschema.Schema, error){
	common.ResourceTypeDLGE: compile(common.ResourceTypeDLGE),
	common.ResourceTypeLOCR: compile(common.ResourceTypeLOCR),
	common.ResourceTypeDITL: compile(common.ResourceTypeDITL),
	common.ResourceTypeCLNG: compile(common.ResourceTypeCLNG),
}

func compile(rt common.ResourceType) func() (*gojsonschema.Schema, error) {
	return sync.OnceValues(func() (*gojsonschema.Schema, error) {
		data, err := Bytes(rt)
		if err != nil {
			return nil, err
		}
		return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	})
}

// Bytes returns schema source for resource type.
func Bytes(rt common.ResourceType) ([]byte, error) {
	return files.ReadFile(strings.ToLower(rt.String()) + ".schema.json")
}

// Validate checks document against schema of resource type. Every violation
// is reported as a separate document error.
func Validate(rt common.ResourceType, doc []byte) error {
	load, ok := compiled[rt]
	if !ok {
		return fmt.Errorf("no schema for resource type %s", rt)
	}
	schema, err := load()
	if err != nil {
		return fmt.Errorf("unable to compile %s schema: %w", rt, err)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return resource.Document("", "%w", err)
	}
	if res.Valid() {
		return nil
	}
	var errs error
	for _, e := range res.Errors() {
		path := e.Field()
		if path == rootContext {
			path = ""
		}
		errs = multierr.Append(errs, resource.Document(path, "%s", e.Description()))
	}
	return errs
}
