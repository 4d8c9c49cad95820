package dlge

import (
	"bytes"

	"hmlt/common"
	"hmlt/lang"
	"hmlt/resource"
)

// Convert decodes resource body into editable document. References are
// resolved through resource sidecar.
func Convert(data []byte, meta *resource.Meta, opts *Options) (*Document, error) {
	table := lang.Resolve(opts.Version, opts.LangMap)
	d := &decoder{
		table:         table,
		defaultLocale: opts.defaultLocale(),
		hexPrecision:  opts.HexPrecision,
		scheme:        opts.scheme(false),
		names:         opts.names(),
		meta:          meta,
	}
	ditl, clng, marker, err := Scan(data, opts.Version, len(table), d.visit)
	if err != nil {
		return nil, err
	}
	root, err := d.root(len(data)-2, marker)
	if err != nil {
		return nil, err
	}

	doc := &Document{Root: root, Hash: meta.Name()}
	if doc.DITL, err = d.reference(0, ditl); err != nil {
		return nil, err
	}
	if doc.CLNG, err = d.reference(4, clng); err != nil {
		return nil, err
	}
	if len(lang.Parse(opts.LangMap)) > 0 {
		doc.LangMap = opts.LangMap
	}
	doc.Symmetric = opts.Symmetric && opts.Version.Earliest()
	return doc, nil
}

// Rebuild encodes document. Language map and cipher selection stored in the
// document take precedence over options.
func Rebuild(doc *Document, opts *Options) (*resource.Rebuilt, error) {
	if len(doc.DITL) == 0 {
		return nil, resource.Document("DITL", "required property is missing or empty")
	}
	if len(doc.CLNG) == 0 {
		return nil, resource.Document("CLNG", "required property is missing or empty")
	}
	langMap := opts.LangMap
	if len(lang.Parse(doc.LangMap)) > 0 {
		langMap = doc.LangMap
	}
	table := lang.Resolve(opts.Version, langMap)

	deps := resource.NewDependencyTable()
	w := resource.NewWriter()
	w.U32(deps.Add(doc.DITL, resource.FlagStatic))
	w.U32(deps.Add(doc.CLNG, resource.FlagStatic))

	enc := NewEncoder(w, table, opts, doc.Symmetric, deps)
	if _, err := enc.Encode(doc.Root); err != nil {
		return nil, err
	}
	return &resource.Rebuilt{
		File:     bytes.Clone(w.Bytes()),
		Meta:     resource.GenerateMeta(doc.Hash, w.Len(), common.ResourceTypeDLGE.String(), deps),
		Warnings: enc.Warnings(),
	}, nil
}
