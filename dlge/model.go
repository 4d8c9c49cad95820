// Package dlge converts dialogue event resources to editable documents and
// back.
package dlge

import (
	"fmt"
	"math"
	"strconv"

	"hmlt/resource"
)

// Kind is container record tag.
type Kind uint8

const (
	KindWavFile  Kind = 0x01
	KindRandom   Kind = 0x02
	KindSwitch   Kind = 0x03
	KindSequence Kind = 0x04
	KindInvalid  Kind = 0x15
)

var kindNames = map[Kind]string{
	KindWavFile:  "WavFile",
	KindRandom:   "Random",
	KindSwitch:   "Switch",
	KindSequence: "Sequence",
	KindInvalid:  "Invalid",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(0x%02X)", uint8(k))
}

// ParseKind converts document type name. Invalid is never accepted.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s && k != KindInvalid {
			return k, true
		}
	}
	return 0, false
}

// Container is one of *WavFile, *Random, *Switch, *Sequence.
type Container interface {
	Kind() Kind
	container()
}

// SwitchChild is a container which could be selected by switch case.
type SwitchChild interface {
	Container
	switchChild()
}

// SequenceChild is a container which could be played as part of sequence.
type SequenceChild interface {
	Container
	sequenceChild()
}

// Locale is per-language part of WavFile. References are either both set or
// both empty.
type Locale struct {
	Subtitle string
	Wav      string
	Ffx      string
}

// HasRefs reports if locale carries its own audio references.
func (l Locale) HasRefs() bool {
	return len(l.Wav) > 0 || len(l.Ffx) > 0
}

// WavFile is a single voice line.
type WavFile struct {
	SoundTag string
	WavName  string
	// audio and animation for default locale, both set or both empty
	DefaultWav string
	DefaultFfx string
	Languages  *resource.OrderedMap[Locale]
}

// NewWavFile returns WavFile with empty locale map.
func NewWavFile(soundTag, wavName string) *WavFile {
	return &WavFile{SoundTag: soundTag, WavName: wavName, Languages: resource.NewOrderedMap[Locale]()}
}

func (*WavFile) Kind() Kind         { return KindWavFile }
func (*WavFile) container()         {}
func (*WavFile) switchChild()       {}
func (*WavFile) sequenceChild()     {}
func (w *WavFile) HasDefault() bool { return len(w.DefaultWav) > 0 || len(w.DefaultFfx) > 0 }

const weightScale = 0xFFFFFF

// Weight is probability of random pool entry. When Hex is set it holds exact
// 24 bits numerator and Value is ignored.
type Weight struct {
	Value float64
	Hex   string
}

// WeightFromRaw makes weight from stored numerator.
func WeightFromRaw(raw uint32, hexPrecision bool) Weight {
	if hexPrecision {
		return Weight{Hex: fmt.Sprintf("%06X", raw)}
	}
	return Weight{Value: float64(raw) / weightScale}
}

// Raw returns numerator to be stored.
func (w Weight) Raw() (uint32, error) {
	if len(w.Hex) > 0 {
		if !resource.IsHex(w.Hex) {
			return 0, fmt.Errorf("weight %q is not a valid hex number", w.Hex)
		}
		v, err := strconv.ParseUint(w.Hex, 16, 32)
		if err != nil || v > weightScale {
			return 0, fmt.Errorf("weight %q does not fit 24 bits", w.Hex)
		}
		return uint32(v), nil
	}
	if math.IsNaN(w.Value) || w.Value < 0 || w.Value > 1 {
		return 0, fmt.Errorf("weight %v is outside of [0, 1]", w.Value)
	}
	return uint32(math.Round(w.Value * weightScale)), nil
}

// Fraction returns weight as a number in [0, 1] range.
func (w Weight) Fraction() float64 {
	if len(w.Hex) > 0 {
		raw, err := w.Raw()
		if err != nil {
			return math.NaN()
		}
		return float64(raw) / weightScale
	}
	return w.Value
}

func (w Weight) String() string {
	if len(w.Hex) > 0 {
		return w.Hex
	}
	return strconv.FormatFloat(w.Value, 'g', -1, 64)
}

// RandomEntry is WavFile with its selection weight.
type RandomEntry struct {
	Wav    *WavFile
	Weight Weight
}

// Random picks one of its entries at random.
type Random struct {
	Entries []RandomEntry
}

func (*Random) Kind() Kind     { return KindRandom }
func (*Random) container()     {}
func (*Random) switchChild()   {}
func (*Random) sequenceChild() {}

// SwitchCase binds child to the list of switch values selecting it.
type SwitchCase struct {
	Child SwitchChild
	Cases []string
}

// Switch selects child by game switch value.
type Switch struct {
	SwitchKey string
	Default   string
	Cases     []SwitchCase
}

func (*Switch) Kind() Kind     { return KindSwitch }
func (*Switch) container()     {}
func (*Switch) sequenceChild() {}

// Sequence plays its children in order.
type Sequence struct {
	Children []SequenceChild
}

func (*Sequence) Kind() Kind { return KindSequence }
func (*Sequence) container() {}
