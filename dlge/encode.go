package dlge

import (
	"fmt"

	"go.uber.org/multierr"

	"hmlt/cipher"
	"hmlt/common"
	"hmlt/lang"
	"hmlt/registry"
	"hmlt/resource"
)

// Indices are running counts of records emitted so far. Joint counts Random,
// Switch and Sequence together.
type Indices struct {
	WavFile  int
	Random   int
	Switch   int
	Sequence int
	Joint    int
}

// Encoder writes container tree depth first, children before parents.
type Encoder struct {
	w             *resource.Writer
	version       common.Version
	table         lang.Table
	defaultLocale string
	scheme        cipher.Scheme
	names         *registry.Registry
	deps          *resource.DependencyTable

	idx      Indices
	warnings error
}

// NewEncoder prepares encoder for single tree. Language specific references
// are added to deps.
func NewEncoder(w *resource.Writer, table lang.Table, opts *Options, symmetric bool, deps *resource.DependencyTable) *Encoder {
	return &Encoder{
		w:             w,
		version:       opts.Version,
		table:         table,
		defaultLocale: opts.defaultLocale(),
		scheme:        opts.scheme(symmetric),
		names:         opts.names(),
		deps:          deps,
	}
}

// Warnings returns non fatal problems found during encoding.
func (e *Encoder) Warnings() error {
	return e.warnings
}

// Encode checks the tree and emits it followed by root marker. Nothing is
// written when tree is invalid.
func (e *Encoder) Encode(root Container) (Indices, error) {
	if err := Validate(root, e.table, e.defaultLocale); err != nil {
		return e.idx, err
	}
	local, joint, err := e.encode(root, "rootContainer")
	if err != nil {
		return e.idx, err
	}
	at := joint
	if root.Kind() == KindWavFile {
		at = local
	}
	e.w.U16(uint16(PackRef(root.Kind(), at)))
	return e.idx, nil
}

// encode returns type local and joint index assigned to container, joint is
// -1 for WavFile.
func (e *Encoder) encode(c Container, path string) (int, int, error) {
	switch c := c.(type) {
	case *WavFile:
		return e.wavFile(c, path), -1, nil
	case *Random:
		return e.random(c, path)
	case *Switch:
		return e.switchContainer(c, path)
	case *Sequence:
		return e.sequence(c, path)
	}
	return 0, 0, resource.Document(path, "unsupported container %T", c)
}

func (e *Encoder) subtitle(text, path string) []byte {
	if len(text) == 0 {
		return nil
	}
	if !e.scheme.Lossless(text) {
		e.warnings = multierr.Append(e.warnings, resource.Truncation(path, text))
	}
	return e.scheme.Encrypt(text)
}

func (e *Encoder) wavFile(c *WavFile, path string) int {
	rec := WavRecord{
		SoundTag: e.names.Tags.Resolve(c.SoundTag),
		WavName:  resource.ParseHash32(c.WavName),
		Locales:  make([]LocaleRecord, len(e.table)),
	}
	for i, code := range e.table {
		l := LocaleRecord{Wav: noReference, Ffx: noReference}
		flag := lang.Flag(i)
		loc, ok := c.Languages.Get(code)
		switch {
		case code == e.defaultLocale:
			if c.HasDefault() {
				l.Wav = e.deps.Add(c.DefaultWav, flag)
				l.Ffx = e.deps.Add(c.DefaultFfx, flag)
			}
		case ok && loc.HasRefs():
			l.Wav = e.deps.Add(loc.Wav, flag)
			l.Ffx = e.deps.Add(loc.Ffx, flag)
		}
		if ok {
			l.Subtitle = e.subtitle(loc.Subtitle, path+".languages."+code)
		}
		rec.Locales[i] = l
	}
	for code := range c.Languages.All() {
		if e.table.Index(code) < 0 {
			e.warnings = multierr.Append(e.warnings,
				resource.Document(path+".languages."+code, "locale is not in language table %q and is ignored", e.table))
		}
	}
	rec.write(e.w, e.version)

	idx := e.idx.WavFile
	e.idx.WavFile++
	return idx
}

func (e *Encoder) random(c *Random, path string) (int, int, error) {
	rec := ContainerRecord{Kind: KindRandom, Entries: make([]Entry, 0, len(c.Entries))}
	for i, entry := range c.Entries {
		raw, err := entry.Weight.Raw()
		if err != nil {
			return 0, 0, resource.Document(fmt.Sprintf("%s.containers[%d].weight", path, i), "%w", err)
		}
		idx := e.wavFile(entry.Wav, fmt.Sprintf("%s.containers[%d]", path, i))
		rec.Entries = append(rec.Entries, Entry{Ref: PackRef(KindWavFile, idx), Hashes: []uint32{raw}})
	}
	rec.write(e.w)
	return e.next(&e.idx.Random)
}

func (e *Encoder) switchContainer(c *Switch, path string) (int, int, error) {
	if e.idx.Switch > 0 {
		return 0, 0, resource.Document(path, "only one Switch container is allowed")
	}
	rec := ContainerRecord{
		Kind:        KindSwitch,
		SwitchGroup: e.names.Switches.Resolve(c.SwitchKey),
		Default:     e.names.Switches.Resolve(c.Default),
		Entries:     make([]Entry, 0, len(c.Cases)),
	}
	for i, sc := range c.Cases {
		local, _, err := e.encode(sc.Child, fmt.Sprintf("%s.containers[%d]", path, i))
		if err != nil {
			return 0, 0, err
		}
		hashes := make([]uint32, len(sc.Cases))
		for j, name := range sc.Cases {
			hashes[j] = e.names.Switches.Resolve(name)
		}
		rec.Entries = append(rec.Entries, Entry{Ref: PackRef(sc.Child.Kind(), local), Hashes: hashes})
	}
	rec.write(e.w)
	return e.next(&e.idx.Switch)
}

func (e *Encoder) sequence(c *Sequence, path string) (int, int, error) {
	if e.idx.Sequence > 0 {
		return 0, 0, resource.Document(path, "only one Sequence container is allowed")
	}
	rec := ContainerRecord{Kind: KindSequence, Entries: make([]Entry, 0, len(c.Children))}
	for i, child := range c.Children {
		local, joint, err := e.encode(child, fmt.Sprintf("%s.containers[%d]", path, i))
		if err != nil {
			return 0, 0, err
		}
		at := joint
		if child.Kind() == KindWavFile {
			at = local
		}
		rec.Entries = append(rec.Entries, Entry{Ref: PackRef(child.Kind(), at), Hashes: []uint32{}})
	}
	rec.write(e.w)
	return e.next(&e.idx.Sequence)
}

func (e *Encoder) next(local *int) (int, int, error) {
	l, j := *local, e.idx.Joint
	*local++
	e.idx.Joint++
	return l, j, nil
}
