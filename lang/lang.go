// Package lang resolves ordered locale lists used by per-language records.
package lang

import (
	"fmt"
	"slices"
	"strings"

	"hmlt/common"
)

// Table is ordered list of locale codes, position of locale in the table is
// its language index.
type Table []string

var (
	h2 = Table{"xx", "en", "fr", "it", "de", "es", "ru", "mx", "br", "pl", "cn", "jp", "tc"}
	h3 = Table{"xx", "en", "fr", "it", "de", "es", "ru", "cn", "tc", "jp"}
)

// Default returns built-in table for game version. Late h2016 releases use
// h2 table without the last entry.
func Default(v common.Version) Table {
	switch v {
	case common.VersionH2016:
		return slices.Clone(h2[:len(h2)-1])
	case common.VersionH3:
		return slices.Clone(h3)
	default:
		return slices.Clone(h2)
	}
}

// Parse splits comma separated override. Empty entries are ignored.
func Parse(s string) Table {
	var t Table
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); len(part) > 0 {
			t = append(t, part)
		}
	}
	return t
}

// Resolve returns override when present, built-in table otherwise.
func Resolve(v common.Version, override string) Table {
	if t := Parse(override); len(t) > 0 {
		return t
	}
	return Default(v)
}

// ResolveStrings is Resolve for string table resources which never dropped
// last h2 locale in h2016.
func ResolveStrings(v common.Version, override string) Table {
	if v == common.VersionH2016 {
		v = common.VersionH2
	}
	return Resolve(v, override)
}

// Index returns position of locale or -1.
func (t Table) Index(locale string) int {
	return slices.Index(t, locale)
}

// Flag returns dependency flag for references belonging to language at
// given position.
func Flag(idx int) string {
	return fmt.Sprintf("%02X", 0x80+idx)
}

func (t Table) String() string {
	return strings.Join(t, ",")
}
