package dlge

import (
	"fmt"
	"strings"

	"hmlt/cipher"
	"hmlt/lang"
	"hmlt/registry"
	"hmlt/resource"
)

// pool keeps decoded containers of one kind by their running index until
// parent record claims them.
type pool[T Container] struct {
	items []T
	used  []bool
}

func (p *pool[T]) add(c T) int {
	p.items = append(p.items, c)
	p.used = append(p.used, false)
	return len(p.items) - 1
}

func (p *pool[T]) take(idx int) (T, error) {
	var zero T
	if idx < 0 || idx >= len(p.items) {
		return zero, fmt.Errorf("%d is not a known index, have %d", idx, len(p.items))
	}
	if p.used[idx] {
		return zero, fmt.Errorf("%d is already used by another container", idx)
	}
	p.used[idx] = true
	return p.items[idx], nil
}

func (p *pool[T]) leftovers() []int {
	var out []int
	for i, used := range p.used {
		if !used {
			out = append(out, i)
		}
	}
	return out
}

type jointRef struct {
	kind  Kind
	local int
}

// decoder materializes records as they come. All state is local to a single
// Convert call.
type decoder struct {
	table         lang.Table
	defaultLocale string
	hexPrecision  bool
	scheme        cipher.Scheme
	names         *registry.Registry
	meta          *resource.Meta

	wavs      pool[*WavFile]
	randoms   pool[*Random]
	switches  pool[*Switch]
	sequences pool[*Sequence]
	// non WavFile containers numbered jointly in stream order
	joint []jointRef
}

func (d *decoder) visit(offset int, rec any) error {
	switch rec := rec.(type) {
	case *WavRecord:
		wav, err := d.wavFile(offset, rec)
		if err != nil {
			return err
		}
		d.wavs.add(wav)
	case *ContainerRecord:
		switch rec.Kind {
		case KindRandom:
			c, err := d.random(offset, rec)
			if err != nil {
				return err
			}
			d.joint = append(d.joint, jointRef{KindRandom, d.randoms.add(c)})
		case KindSwitch:
			c, err := d.switchContainer(offset, rec)
			if err != nil {
				return err
			}
			d.joint = append(d.joint, jointRef{KindSwitch, d.switches.add(c)})
		case KindSequence:
			c, err := d.sequence(offset, rec)
			if err != nil {
				return err
			}
			d.joint = append(d.joint, jointRef{KindSequence, d.sequences.add(c)})
		}
	}
	return nil
}

func (d *decoder) reference(offset int, idx uint32) (string, error) {
	hash, err := d.meta.Reference(idx)
	if err != nil {
		return "", resource.Structural(offset, "%w", err)
	}
	return hash, nil
}

func (d *decoder) wavFile(offset int, rec *WavRecord) (*WavFile, error) {
	wav := NewWavFile(d.names.Tags.Format(rec.SoundTag, "%X"), fmt.Sprintf("%08X", rec.WavName))
	for i, l := range rec.Locales {
		code := d.table[i]

		var (
			loc     Locale
			present bool
		)
		if l.HasRefs() {
			wavRef, err := d.reference(offset, l.Wav)
			if err != nil {
				return nil, err
			}
			ffxRef, err := d.reference(offset, l.Ffx)
			if err != nil {
				return nil, err
			}
			if code == d.defaultLocale {
				wav.DefaultWav, wav.DefaultFfx = wavRef, ffxRef
				wav.WavName = wavName(wavRef, ffxRef, wav.WavName)
			} else {
				loc.Wav, loc.Ffx = wavRef, ffxRef
				present = true
			}
		}
		if l.Subtitle != nil {
			loc.Subtitle = d.scheme.Decrypt(l.Subtitle)
			present = true
		}
		if present {
			wav.Languages.Set(code, loc)
		}
	}
	return wav, nil
}

// wavName recovers original name from default audio path when its crc32
// matches stored hash.
func wavName(wavPath, ffxPath, hash string) string {
	if resource.IsValidHash(wavPath) {
		return hash
	}
	name, ok := stem(wavPath, ".wav")
	if !ok {
		if name, ok = stem(ffxPath, ".animset"); !ok {
			return hash
		}
	}
	if fmt.Sprintf("%08X", resource.CRC32(name)) == hash {
		return name
	}
	return hash
}

// stem returns path element preceding ext.
func stem(path, ext string) (string, bool) {
	i := strings.Index(path, ext)
	if i < 0 {
		return "", false
	}
	seg := path[strings.LastIndexByte(path[:i], '/')+1:]
	if j := strings.IndexByte(seg, '/'); j >= 0 {
		seg = seg[:j]
	}
	return seg[:strings.LastIndex(seg, ext)], true
}

func (d *decoder) random(offset int, rec *ContainerRecord) (*Random, error) {
	c := &Random{Entries: make([]RandomEntry, 0, len(rec.Entries))}
	for i, e := range rec.Entries {
		if e.Ref.Kind() != KindWavFile {
			return nil, resource.Structural(offset, "random entry %d references %s, only WavFile is allowed", i, e.Ref.Kind())
		}
		if len(e.Hashes) != 1 {
			return nil, resource.Structural(offset, "random entry %d has %d weights, expected 1", i, len(e.Hashes))
		}
		wav, err := d.wavs.take(e.Ref.Index())
		if err != nil {
			return nil, resource.Structural(offset, "random entry %d: WavFile %w", i, err)
		}
		c.Entries = append(c.Entries, RandomEntry{Wav: wav, Weight: WeightFromRaw(e.Hashes[0], d.hexPrecision)})
	}
	return c, nil
}

func (d *decoder) switchContainer(offset int, rec *ContainerRecord) (*Switch, error) {
	if len(d.switches.items) > 0 {
		return nil, resource.Structural(offset, "second Switch container")
	}
	c := &Switch{
		SwitchKey: d.names.Switches.Format(rec.SwitchGroup, "%08X"),
		Default:   d.names.Switches.Format(rec.Default, "%08X"),
		Cases:     make([]SwitchCase, 0, len(rec.Entries)),
	}
	for i, e := range rec.Entries {
		var (
			child SwitchChild
			err   error
		)
		switch e.Ref.Kind() {
		case KindWavFile:
			child, err = d.wavs.take(e.Ref.Index())
		case KindRandom:
			child, err = d.randoms.take(e.Ref.Index())
		default:
			return nil, resource.Structural(offset, "switch entry %d references %s, only WavFile and Random are allowed", i, e.Ref.Kind())
		}
		if err != nil {
			return nil, resource.Structural(offset, "switch entry %d: %s %w", i, e.Ref.Kind(), err)
		}
		cases := make([]string, len(e.Hashes))
		for j, h := range e.Hashes {
			cases[j] = d.names.Switches.Format(h, "%08X")
		}
		c.Cases = append(c.Cases, SwitchCase{Child: child, Cases: cases})
	}
	return c, nil
}

func (d *decoder) sequence(offset int, rec *ContainerRecord) (*Sequence, error) {
	if len(d.sequences.items) > 0 {
		return nil, resource.Structural(offset, "second Sequence container")
	}
	c := &Sequence{Children: make([]SequenceChild, 0, len(rec.Entries))}
	for i, e := range rec.Entries {
		var (
			child SequenceChild
			err   error
		)
		switch k := e.Ref.Kind(); k {
		case KindWavFile:
			child, err = d.wavs.take(e.Ref.Index())
		case KindRandom, KindSwitch:
			// sequence addresses non WavFile containers by joint index
			j := e.Ref.Index()
			if j >= len(d.joint) || d.joint[j].kind != k {
				return nil, resource.Structural(offset, "sequence entry %d: no %s with joint index %d", i, k, j)
			}
			if k == KindRandom {
				child, err = d.randoms.take(d.joint[j].local)
			} else {
				child, err = d.switches.take(d.joint[j].local)
			}
		default:
			return nil, resource.Structural(offset, "sequence entry %d references %s", i, k)
		}
		if err != nil {
			return nil, resource.Structural(offset, "sequence entry %d: %s %w", i, e.Ref.Kind(), err)
		}
		c.Children = append(c.Children, child)
	}
	return c, nil
}

// root lifts the only unclaimed container and checks it against root marker.
func (d *decoder) root(offset int, marker Ref) (Container, error) {
	var (
		found []Container
		refs  []Ref
	)
	for _, i := range d.wavs.leftovers() {
		found = append(found, d.wavs.items[i])
		refs = append(refs, PackRef(KindWavFile, i))
	}
	for j, jr := range d.joint {
		var used bool
		switch jr.kind {
		case KindRandom:
			used = d.randoms.used[jr.local]
		case KindSwitch:
			used = d.switches.used[jr.local]
		case KindSequence:
			used = d.sequences.used[jr.local]
		}
		if !used {
			refs = append(refs, PackRef(jr.kind, j))
			switch jr.kind {
			case KindRandom:
				found = append(found, d.randoms.items[jr.local])
			case KindSwitch:
				found = append(found, d.switches.items[jr.local])
			case KindSequence:
				found = append(found, d.sequences.items[jr.local])
			}
		}
	}
	switch len(found) {
	case 0:
		return nil, resource.Structural(offset, "no root container")
	case 1:
	default:
		return nil, resource.Structural(offset, "%d containers are not referenced, expected single root", len(found))
	}
	if refs[0] != marker {
		return nil, resource.Structural(offset, "root marker %s:%d does not match root %s:%d",
			marker.Kind(), marker.Index(), refs[0].Kind(), refs[0].Index())
	}
	return found[0], nil
}
