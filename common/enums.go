// The only reason this package exists is to share enums between config,
// codecs and command line processing without creating import cycles.
package common

import (
	"fmt"
	"strings"
)

// Game (and therefore format) revision the resource belongs to.
// ENUM(h2016, h2, h3)
type Version int

// Earliest reports the oldest format revision which lays out WavFile
// records differently.
func (v Version) Earliest() bool {
	return v == VersionH2016
}

// Type of language resource.
// ENUM(DLGE, LOCR, DITL, CLNG)
type ResourceType int

// Ext returns file extension used for the raw resource.
func (t ResourceType) Ext() string {
	return "." + t.String()
}

// ResourceTypeFromExt recognizes resource type by file extension, case is ignored.
func ResourceTypeFromExt(ext string) (ResourceType, error) {
	ext = strings.TrimPrefix(ext, ".")
	if len(ext) == 0 {
		return ResourceType(0), fmt.Errorf("empty extension is %w", ErrInvalidResourceType)
	}
	return ParseResourceType(strings.ToUpper(ext))
}
