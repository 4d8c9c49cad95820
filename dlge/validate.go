package dlge

import (
	"fmt"

	"hmlt/lang"
	"hmlt/resource"
)

// Validate checks tree invariants which cannot be expressed by types: single
// Switch and Sequence, complete reference pairs, valid weights and index
// limits of the binary format.
func Validate(root Container, table lang.Table, defaultLocale string) error {
	if isNil(root) {
		return resource.Document("rootContainer", "missing root container")
	}
	v := validator{table: table, defaultLocale: defaultLocale}
	if err := v.walk(root, "rootContainer"); err != nil {
		return err
	}
	if v.count.WavFile > maxIndex+1 {
		return resource.Document("rootContainer", "%d WavFile containers, at most %d could be addressed", v.count.WavFile, maxIndex+1)
	}
	if v.count.Joint > maxIndex+1 {
		return resource.Document("rootContainer", "%d containers, at most %d could be addressed", v.count.Joint, maxIndex+1)
	}
	return nil
}

type validator struct {
	table         lang.Table
	defaultLocale string
	count         Indices
}

func isNil(c Container) bool {
	switch c := c.(type) {
	case nil:
		return true
	case *WavFile:
		return c == nil
	case *Random:
		return c == nil
	case *Switch:
		return c == nil
	case *Sequence:
		return c == nil
	}
	return false
}

func (v *validator) walk(c Container, path string) error {
	if isNil(c) {
		return resource.Document(path, "missing container")
	}
	switch c := c.(type) {
	case *WavFile:
		return v.wavFile(c, path)
	case *Random:
		for i, e := range c.Entries {
			p := fmt.Sprintf("%s.containers[%d]", path, i)
			if e.Wav == nil {
				return resource.Document(p, "missing container")
			}
			if _, err := e.Weight.Raw(); err != nil {
				return resource.Document(p+".weight", "%w", err)
			}
			if err := v.wavFile(e.Wav, p); err != nil {
				return err
			}
		}
		v.count.Random++
	case *Switch:
		if v.count.Switch > 0 {
			return resource.Document(path, "only one Switch container is allowed")
		}
		for i, sc := range c.Cases {
			if err := v.walk(sc.Child, fmt.Sprintf("%s.containers[%d]", path, i)); err != nil {
				return err
			}
		}
		v.count.Switch++
	case *Sequence:
		if v.count.Sequence > 0 {
			return resource.Document(path, "only one Sequence container is allowed")
		}
		for i, child := range c.Children {
			if err := v.walk(child, fmt.Sprintf("%s.containers[%d]", path, i)); err != nil {
				return err
			}
		}
		v.count.Sequence++
	default:
		return resource.Document(path, "unsupported container %T", c)
	}
	v.count.Joint++
	return nil
}

func (v *validator) wavFile(c *WavFile, path string) error {
	if (len(c.DefaultWav) > 0) != (len(c.DefaultFfx) > 0) {
		return resource.Document(path, "defaultWav and defaultFfx must be set together")
	}
	if c.HasDefault() && v.table.Index(v.defaultLocale) < 0 {
		return resource.Document(path, "default locale %q is not in language table %q", v.defaultLocale, v.table)
	}
	for code, loc := range c.Languages.All() {
		p := path + ".languages." + code
		if !loc.HasRefs() {
			continue
		}
		if code == v.defaultLocale {
			return resource.Document(p, "default locale references belong to defaultWav and defaultFfx")
		}
		if len(loc.Wav) == 0 || len(loc.Ffx) == 0 {
			return resource.Document(p, "wav and ffx must be set together")
		}
	}
	v.count.WavFile++
	return nil
}
