package dlge

import (
	"hmlt/common"
	"hmlt/resource"
)

const (
	noReference = 0xFFFFFFFF
	maxIndex    = 0xFFF
)

// Ref is packed type and index used to point to previously stored record.
type Ref uint16

func PackRef(k Kind, idx int) Ref {
	return Ref(uint16(k)<<12 | uint16(idx&maxIndex))
}

func (r Ref) Kind() Kind { return Kind(r >> 12) }
func (r Ref) Index() int { return int(r & maxIndex) }

// LocaleRecord is per-language slot of WavFile record. Subtitle is kept
// encrypted.
type LocaleRecord struct {
	Wav      uint32
	Ffx      uint32
	Subtitle []byte
}

// HasRefs reports if both reference indexes are present.
func (l *LocaleRecord) HasRefs() bool {
	return l.Wav != noReference && l.Ffx != noReference
}

// WavRecord is on-disk WavFile.
type WavRecord struct {
	SoundTag uint32
	WavName  uint32
	Locales  []LocaleRecord
}

// Entry is a reference to child record with its weight or switch cases.
type Entry struct {
	Ref    Ref
	Hashes []uint32
}

// ContainerRecord is on-disk Random, Switch or Sequence.
type ContainerRecord struct {
	Kind        Kind
	SwitchGroup uint32
	Default     uint32
	Entries     []Entry
}

func readWavRecord(r *resource.Reader, v common.Version, locales int) (*WavRecord, error) {
	if _, err := r.U8(); err != nil {
		return nil, err
	}
	var (
		rec WavRecord
		err error
	)
	if rec.SoundTag, err = r.U32(); err != nil {
		return nil, err
	}
	if rec.WavName, err = r.U32(); err != nil {
		return nil, err
	}
	if !v.Earliest() {
		if _, err = r.U32(); err != nil {
			return nil, err
		}
	}
	rec.Locales = make([]LocaleRecord, locales)
	for i := range rec.Locales {
		l := &rec.Locales[i]
		if v.Earliest() {
			if _, err = r.U32(); err != nil {
				return nil, err
			}
		}
		if l.Wav, err = r.U32(); err != nil {
			return nil, err
		}
		if l.Ffx, err = r.U32(); err != nil {
			return nil, err
		}
		if l.Subtitle, err = r.Block(); err != nil {
			return nil, err
		}
		if len(l.Subtitle) == 0 {
			l.Subtitle = nil
		}
	}
	return &rec, nil
}

func (rec *WavRecord) write(w *resource.Writer, v common.Version) {
	w.U8(byte(KindWavFile))
	w.U32(rec.SoundTag)
	w.U32(rec.WavName)
	if !v.Earliest() {
		w.U32(0)
	}
	for _, l := range rec.Locales {
		if v.Earliest() {
			w.U32(0)
		}
		w.U32(l.Wav)
		w.U32(l.Ffx)
		w.Block(l.Subtitle)
	}
}

func readContainerRecord(r *resource.Reader) (*ContainerRecord, error) {
	var (
		rec ContainerRecord
		err error
	)
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	rec.Kind = Kind(tag)
	if rec.SwitchGroup, err = r.U32(); err != nil {
		return nil, err
	}
	if rec.Default, err = r.U32(); err != nil {
		return nil, err
	}
	count, err := r.U32()
	if err != nil {
		return nil, err
	}
	// every entry takes at least 6 bytes
	if int64(count)*6 > int64(r.Remaining()) {
		return nil, resource.Structural(r.Pos(), "%s record claims %d entries, only %d bytes left", rec.Kind, count, r.Remaining())
	}
	rec.Entries = make([]Entry, count)
	for i := range rec.Entries {
		ref, err := r.U16()
		if err != nil {
			return nil, err
		}
		rec.Entries[i].Ref = Ref(ref)
		if rec.Entries[i].Hashes, err = r.U32s(); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

func (rec *ContainerRecord) write(w *resource.Writer) {
	w.U8(byte(rec.Kind))
	w.U32(rec.SwitchGroup)
	w.U32(rec.Default)
	w.U32(uint32(len(rec.Entries)))
	for _, e := range rec.Entries {
		w.U16(uint16(e.Ref))
		w.U32s(e.Hashes)
	}
}

// Visitor receives records in stream order, rec is either *WavRecord or
// *ContainerRecord.
type Visitor func(offset int, rec any) error

// Scan walks raw records of a resource body without building the tree and
// returns side reference indexes and root marker.
func Scan(data []byte, v common.Version, locales int, visit Visitor) (ditl, clng uint32, root Ref, err error) {
	r := resource.NewReader(data)
	if ditl, err = r.U32(); err != nil {
		return
	}
	if clng, err = r.U32(); err != nil {
		return
	}
	for r.Remaining() > 2 {
		offset := r.Pos()
		var (
			tag byte
			rec any
		)
		if tag, err = r.PeekU8(); err != nil {
			return
		}
		switch Kind(tag) {
		case KindWavFile:
			rec, err = readWavRecord(r, v, locales)
		case KindRandom, KindSwitch, KindSequence:
			rec, err = readContainerRecord(r)
		case KindInvalid:
			err = resource.Structural(offset, "invalid record")
		default:
			err = resource.Structural(offset, "unknown record tag 0x%02X", tag)
		}
		if err != nil {
			return
		}
		if visit != nil {
			if err = visit(offset, rec); err != nil {
				return
			}
		}
	}
	if r.Remaining() != 2 {
		err = resource.Structural(r.Pos(), "last record overlaps root marker, %d bytes left", r.Remaining())
		return
	}
	var marker uint16
	if marker, err = r.U16(); err != nil {
		return
	}
	root = Ref(marker)
	return
}
