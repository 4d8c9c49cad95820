// Package locr converts localized string tables. Every language holds its
// own list of key hash and encrypted text pairs.
package locr

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.uber.org/multierr"

	"hmlt/cipher"
	"hmlt/common"
	"hmlt/lang"
	"hmlt/resource"
)

// SchemaURL identifies editable string table documents.
const SchemaURL = "https://tonytools.win/schemas/locr.schema.json"

const noOffset = 0xFFFFFFFF

// Strings maps key to text in file order.
type Strings = resource.OrderedMap[string]

// Document is editable representation of string table.
type Document struct {
	Hash      string
	Symmetric bool
	Languages *resource.OrderedMap[*Strings]
}

// Options select format revision, language table and cipher.
type Options struct {
	Version   common.Version
	LangMap   string
	Symmetric bool
}

type documentJSON struct {
	Schema    string                         `json:"$schema"`
	Hash      string                         `json:"hash"`
	Symmetric bool                           `json:"symmetric,omitempty"`
	Languages *resource.OrderedMap[*Strings] `json:"languages"`
}

func (d *Document) MarshalJSON() ([]byte, error) {
	langs := d.Languages
	if langs == nil {
		langs = resource.NewOrderedMap[*Strings]()
	}
	return resource.MarshalJSON(documentJSON{Schema: SchemaURL, Hash: d.Hash, Symmetric: d.Symmetric, Languages: langs})
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
	for code, strs := range src.Languages.All() {
		if strs == nil {
			return resource.Document("languages."+code, "expected object with strings")
		}
	}
	*d = Document{Hash: src.Hash, Symmetric: src.Symmetric, Languages: src.Languages}
	return nil
}

// prefix is the leading zero byte of later revisions.
func prefix(v common.Version) int {
	if v.Earliest() {
		return 0
	}
	return 1
}

// Convert decodes string table. Number of languages is implied by the
// smallest offset in the offset table.
func Convert(data []byte, meta *resource.Meta, opts *Options) (*Document, error) {
	r := resource.NewReader(data)
	start := prefix(opts.Version)
	if start > 0 {
		if _, err := r.U8(); err != nil {
			return nil, err
		}
	}

	// offset table ends where the first string list starts
	var offsets []uint32
	end := len(data)
	for r.Pos() < end {
		off, err := r.U32()
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, off)
		if off != noOffset && int64(off) < int64(end) {
			if int(off) < r.Pos() {
				return nil, resource.Structural(r.Pos()-4, "string list offset 0x%X points into offset table", off)
			}
			end = int(off)
		}
	}
	if r.Pos() != end {
		return nil, resource.Structural(r.Pos(), "offset table is not aligned with first string list at 0x%X", end)
	}

	table := lang.ResolveStrings(opts.Version, opts.LangMap)
	if len(offsets) > len(table) {
		return nil, resource.Structural(start, "file has %d languages, language table %q has %d", len(offsets), table, len(table))
	}

	scheme := cipher.Select(opts.Version, opts.Symmetric)
	doc := &Document{
		Hash:      meta.Name(),
		Symmetric: scheme == cipher.Symmetric,
		Languages: resource.NewOrderedMap[*Strings](),
	}
	consumed := r.Pos()
	for i, off := range offsets {
		strs := resource.NewOrderedMap[string]()
		doc.Languages.Set(table[i], strs)
		if off == noOffset {
			continue
		}
		if err := r.Seek(int(off)); err != nil {
			return nil, err
		}
		if err := readStrings(r, scheme, strs); err != nil {
			return nil, err
		}
		consumed = max(consumed, r.Pos())
	}
	if consumed != len(data) {
		return nil, resource.Structural(consumed, "%d trailing bytes", len(data)-consumed)
	}
	return doc, nil
}

func readStrings(r *resource.Reader, scheme cipher.Scheme, strs *Strings) error {
	offset := r.Pos()
	count, err := r.U32()
	if err != nil {
		return err
	}
	// key, length and terminator
	if int64(count)*9 > int64(r.Remaining()) {
		return resource.Structural(offset, "string list claims %d entries, only %d bytes left", count, r.Remaining())
	}
	for range count {
		key, err := r.U32()
		if err != nil {
			return err
		}
		text, err := r.Block()
		if err != nil {
			return err
		}
		if _, err := r.U8(); err != nil {
			return err
		}
		name := fmt.Sprintf("%X", key)
		if strs.Has(name) {
			return resource.Structural(offset, "duplicate string key %s", name)
		}
		strs.Set(name, scheme.Decrypt(text))
	}
	return nil
}

// Rebuild encodes document, languages are written in document order.
func Rebuild(doc *Document, opts *Options) (*resource.Rebuilt, error) {
	if doc.Languages == nil {
		return nil, resource.Document("languages", "required property is missing")
	}
	scheme := cipher.Select(opts.Version, opts.Symmetric || doc.Symmetric)

	w := resource.NewWriter()
	if prefix(opts.Version) > 0 {
		w.U8(0)
	}
	table := w.Len()
	for range doc.Languages.Len() {
		w.U32(noOffset)
	}

	var warnings error
	i := 0
	for code, strs := range doc.Languages.All() {
		if strs.Len() > 0 {
			w.PutU32At(table+4*i, uint32(w.Len()))
			w.U32(uint32(strs.Len()))
			for key, text := range strs.All() {
				if !scheme.Lossless(text) {
					warnings = multierr.Append(warnings, resource.Truncation("languages."+code+"."+key, text))
				}
				w.U32(resource.ParseHash32(key))
				w.Block(scheme.Encrypt(text))
				w.U8(0)
			}
		}
		i++
	}
	return &resource.Rebuilt{
		File:     bytes.Clone(w.Bytes()),
		Meta:     resource.GenerateMeta(doc.Hash, w.Len(), common.ResourceTypeLOCR.String(), nil),
		Warnings: warnings,
	}, nil
}
