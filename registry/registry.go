// Package registry provides read-only lookup between 32 bits name hashes and
// their human readable names for sound tags and switch groups/cases.
package registry

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"strconv"
	"sync"

	yaml "gopkg.in/yaml.v3"

	"hmlt/resource"
)

//go:embed tags.yaml switches.yaml
var builtin embed.FS

// Bimap is bidirectional hash to name map. It is never modified after load
// so could be shared freely.
type Bimap struct {
	byHash map[uint32]string
	byName map[string]uint32
}

func newBimap() *Bimap {
	return &Bimap{byHash: make(map[uint32]string), byName: make(map[string]uint32)}
}

func (b *Bimap) add(hash uint32, name string) {
	if old, ok := b.byHash[hash]; ok {
		delete(b.byName, old)
	}
	if old, ok := b.byName[name]; ok {
		delete(b.byHash, old)
	}
	b.byHash[hash] = name
	b.byName[name] = hash
}

func (b *Bimap) Len() int {
	return len(b.byHash)
}

// Name returns name for hash.
func (b *Bimap) Name(hash uint32) (string, bool) {
	name, ok := b.byHash[hash]
	return name, ok
}

// Hash returns hash for name.
func (b *Bimap) Hash(name string) (uint32, bool) {
	hash, ok := b.byName[name]
	return hash, ok
}

// Format returns known name or hash formatted with provided verb.
func (b *Bimap) Format(hash uint32, verb string) string {
	if name, ok := b.byHash[hash]; ok {
		return name
	}
	return fmt.Sprintf(verb, hash)
}

// Resolve is reverse of Format: known names are looked up, everything else
// is parsed as hex or hashed.
func (b *Bimap) Resolve(s string) uint32 {
	if hash, ok := b.byName[s]; ok {
		return hash
	}
	return resource.ParseHash32(s)
}

// Registry holds all known name tables.
type Registry struct {
	Tags     *Bimap
	Switches *Bimap
}

type source struct {
	Tags     map[string]string `yaml:"tags"`
	Switches map[string]string `yaml:"switches"`
}

func (r *Registry) merge(data []byte) error {
	var src source
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&src); err != nil {
		return fmt.Errorf("unable to decode name table: %w", err)
	}
	for _, t := range []struct {
		entries map[string]string
		to      *Bimap
	}{
		{src.Tags, r.Tags},
		{src.Switches, r.Switches},
	} {
		for k, name := range t.entries {
			hash, err := strconv.ParseUint(k, 16, 32)
			if err != nil {
				return fmt.Errorf("bad hash %q for name %q: %w", k, name, err)
			}
			t.to.add(uint32(hash), name)
		}
	}
	return nil
}

func loadBuiltin() (*Registry, error) {
	r := &Registry{Tags: newBimap(), Switches: newBimap()}
	for _, name := range []string{"tags.yaml", "switches.yaml"} {
		data, err := builtin.ReadFile(name)
		if err != nil {
			return nil, err
		}
		if err := r.merge(data); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return r, nil
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns built-in registry, it is loaded once.
func Default() *Registry {
	defaultOnce.Do(func() {
		var err error
		if defaultRegistry, err = loadBuiltin(); err != nil {
			// embedded data is broken, nothing could be done at runtime
			panic(fmt.Sprintf("unable to load built-in name registry: %v", err))
		}
	})
	return defaultRegistry
}

// Load returns built-in registry extended with names from YAML file. Entries
// from file take precedence.
func Load(path string) (*Registry, error) {
	if len(path) == 0 {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read name table: %w", err)
	}
	r, err := loadBuiltin()
	if err != nil {
		return nil, err
	}
	if err := r.merge(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}
