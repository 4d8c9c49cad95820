// Package ditl converts dialogue sound tag index: the list of sound tags
// with resources providing them.
package ditl

import (
	"bytes"
	"encoding/json"

	"hmlt/common"
	"hmlt/registry"
	"hmlt/resource"
)

// SchemaURL identifies editable sound tag index documents.
const SchemaURL = "https://tonytools.win/schemas/ditl.schema.json"

// Document maps sound tag name to resource id in file order.
type Document struct {
	Hash      string
	SoundTags *resource.OrderedMap[string]
}

// Options carry name tables, nil means built-in names.
type Options struct {
	Names *registry.Registry
}

func (o *Options) names() *registry.Registry {
	if o == nil || o.Names == nil {
		return registry.Default()
	}
	return o.Names
}

type documentJSON struct {
	Schema    string                       `json:"$schema"`
	Hash      string                       `json:"hash"`
	SoundTags *resource.OrderedMap[string] `json:"soundtags"`
}

func (d *Document) MarshalJSON() ([]byte, error) {
	tags := d.SoundTags
	if tags == nil {
		tags = resource.NewOrderedMap[string]()
	}
	return resource.MarshalJSON(documentJSON{Schema: SchemaURL, Hash: d.Hash, SoundTags: tags})
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var src documentJSON
	if err := json.Unmarshal(data, &src); err != nil {
		return resource.Document("", "%w", err)
	}
	if len(src.Hash) == 0 {
		return resource.Document("hash", "required property is missing or empty")
	}
	if src.SoundTags == nil {
		return resource.Document("soundtags", "required property is missing")
	}
	for name, id := range src.SoundTags.All() {
		if len(id) == 0 {
			return resource.Document("soundtags."+name, "empty resource id")
		}
	}
	*d = Document{Hash: src.Hash, SoundTags: src.SoundTags}
	return nil
}

// Convert decodes index, resource ids are resolved through sidecar.
func Convert(data []byte, meta *resource.Meta, opts *Options) (*Document, error) {
	names := opts.names()
	r := resource.NewReader(data)
	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	if int64(count)*8 != int64(r.Remaining()) {
		return nil, resource.Structural(0, "index claims %d entries, %d bytes follow", count, r.Remaining())
	}
	doc := &Document{Hash: meta.Name(), SoundTags: resource.NewOrderedMap[string]()}
	for range count {
		offset := r.Pos()
		idx, err := r.U32()
		if err != nil {
			return nil, err
		}
		tag, err := r.U32()
		if err != nil {
			return nil, err
		}
		id, err := meta.Reference(idx)
		if err != nil {
			return nil, resource.Structural(offset, "%w", err)
		}
		name := names.Tags.Format(tag, "%08X")
		if doc.SoundTags.Has(name) {
			return nil, resource.Structural(offset, "duplicate sound tag %s", name)
		}
		doc.SoundTags.Set(name, id)
	}
	return doc, nil
}

// Rebuild encodes index in document order. Every resource id becomes a static
// dependency.
func Rebuild(doc *Document, opts *Options) (*resource.Rebuilt, error) {
	if doc.SoundTags == nil {
		return nil, resource.Document("soundtags", "required property is missing")
	}
	names := opts.names()
	deps := resource.NewDependencyTable()
	w := resource.NewWriter()
	w.U32(uint32(doc.SoundTags.Len()))
	for name, id := range doc.SoundTags.All() {
		w.U32(deps.Add(id, resource.FlagStatic))
		w.U32(names.Tags.Resolve(name))
	}
	return &resource.Rebuilt{
		File: bytes.Clone(w.Bytes()),
		Meta: resource.GenerateMeta(doc.Hash, w.Len(), common.ResourceTypeDITL.String(), deps),
	}, nil
}
