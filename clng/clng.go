// Package clng converts language availability flags: a single byte per
// locale of the language table.
package clng

import (
	"bytes"
	"encoding/json"

	"hmlt/common"
	"hmlt/lang"
	"hmlt/resource"
)

// SchemaURL identifies editable language flags documents.
const SchemaURL = "https://tonytools.win/schemas/clng.schema.json"

// Document maps locale to its availability in file order.
type Document struct {
	Hash      string
	Languages *resource.OrderedMap[bool]
}

// Options select language table.
type Options struct {
	Version common.Version
	LangMap string
}

type documentJSON struct {
	Schema    string                     `json:"$schema"`
	Hash      string                     `json:"hash"`
	Languages *resource.OrderedMap[bool] `json:"languages"`
}

func (d *Document) MarshalJSON() ([]byte, error) {
	langs := d.Languages
	if langs == nil {
		langs = resource.NewOrderedMap[bool]()
	}
	return resource.MarshalJSON(documentJSON{Schema: SchemaURL, Hash: d.Hash, Languages: langs})
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var src documentJSON
	if err := json.Unmarshal(data, &src); err != nil {
		return resource.Document("", "%w", err)
	}
	if len(src.Hash) == 0 {
		return resource.Document("hash", "required property is missing or empty")
	}
	if src.Languages == nil {
		return resource.Document("languages", "required property is missing")
	}
	*d = Document{Hash: src.Hash, Languages: src.Languages}
	return nil
}

// Convert decodes flags, any non zero byte is true.
func Convert(data []byte, meta *resource.Meta, opts *Options) (*Document, error) {
	table := lang.ResolveStrings(opts.Version, opts.LangMap)
	if len(data) > len(table) {
		return nil, resource.Structural(len(table), "file has %d languages, language table %q has %d", len(data), table, len(table))
	}
	doc := &Document{Hash: meta.Name(), Languages: resource.NewOrderedMap[bool]()}
	for i, b := range data {
		doc.Languages.Set(table[i], b != 0)
	}
	return doc, nil
}

// Rebuild writes one byte per locale in document order.
func Rebuild(doc *Document) (*resource.Rebuilt, error) {
	if doc.Languages == nil {
		return nil, resource.Document("languages", "required property is missing")
	}
	w := resource.NewWriter()
	for _, on := range doc.Languages.All() {
		if on {
			w.U8(1)
		} else {
			w.U8(0)
		}
	}
	return &resource.Rebuilt{
		File: bytes.Clone(w.Bytes()),
		Meta: resource.GenerateMeta(doc.Hash, w.Len(), common.ResourceTypeCLNG.String(), nil),
	}, nil
}
