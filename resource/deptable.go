package resource

import "fmt"

// FlagStatic marks references which are not language specific.
const FlagStatic = "1F"

// Reference is a single entry of resource reference table.
type Reference struct {
	Hash string `json:"hash"`
	Flag string `json:"flag"`
}

// DependencyTable is a deduplicated list of external references in order of
// first use. Index of a reference never changes once assigned.
type DependencyTable struct {
	order []Reference
	index map[string]uint32
}

func NewDependencyTable() *DependencyTable {
	return &DependencyTable{index: make(map[string]uint32)}
}

// Add returns index of the reference, appending it when seen for the first
// time. Flag of already present reference is not updated.
func (t *DependencyTable) Add(hash, flag string) uint32 {
	if idx, ok := t.index[hash]; ok {
		return idx
	}
	idx := uint32(len(t.order))
	t.order = append(t.order, Reference{Hash: hash, Flag: flag})
	t.index[hash] = idx
	return idx
}

// Lookup returns index of already present reference.
func (t *DependencyTable) Lookup(hash string) (uint32, bool) {
	idx, ok := t.index[hash]
	return idx, ok
}

func (t *DependencyTable) Len() int {
	return len(t.order)
}

// References returns copy of the table in index order.
func (t *DependencyTable) References() []Reference {
	out := make([]Reference, len(t.order))
	copy(out, t.order)
	return out
}

func (t *DependencyTable) String() string {
	return fmt.Sprintf("%d references", len(t.order))
}
