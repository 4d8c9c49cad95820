package resource

import (
	"encoding/json"
	"fmt"
)

const (
	metaHashOffset = 0x10000000
	metaSizeFlag   = 0x80000000
	metaNoSize     = 0xFFFFFFFF
)

// MetaSuffix is appended to resource file name to get its sidecar name.
const MetaSuffix = ".meta.json"

// Meta is resource sidecar (.meta.json) used by the asset pipeline to place
// resource into game package.
type Meta struct {
	HashValue               string      `json:"hash_value"`
	HashPath                string      `json:"hash_path,omitempty"`
	HashOffset              uint32      `json:"hash_offset"`
	HashSize                uint32      `json:"hash_size"`
	HashResourceType        string      `json:"hash_resource_type"`
	HashReferenceTableSize  uint32      `json:"hash_reference_table_size"`
	HashReferenceTableDummy uint32      `json:"hash_reference_table_dummy"`
	HashSizeFinal           uint32      `json:"hash_size_final"`
	HashSizeInMemory        uint32      `json:"hash_size_in_memory"`
	HashSizeInVideoMemory   uint32      `json:"hash_size_in_video_memory"`
	HashReferenceData       []Reference `json:"hash_reference_data"`
}

// ParseMeta decodes sidecar document.
func ParseMeta(data []byte) (*Meta, error) {
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &Error{Kind: KindDocument, Path: "meta", Err: err}
	}
	if len(m.HashValue) == 0 && len(m.HashPath) == 0 {
		return nil, Document("meta", "neither hash_value nor hash_path is present")
	}
	return &m, nil
}

// Name returns resource name to be used in editable documents.
func (m *Meta) Name() string {
	if len(m.HashPath) > 0 {
		return m.HashPath
	}
	return m.HashValue
}

// Reference resolves reference table index read from resource body.
func (m *Meta) Reference(idx uint32) (string, error) {
	if int64(idx) >= int64(len(m.HashReferenceData)) {
		return "", fmt.Errorf("reference index %d is out of range, table has %d entries", idx, len(m.HashReferenceData))
	}
	return m.HashReferenceData[idx].Hash, nil
}

// Marshal produces sidecar document bytes.
func (m *Meta) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// GenerateMeta builds sidecar for freshly rebuilt resource. Name may be either
// resource id or resource path, path is kept so it could be restored later.
func GenerateMeta(name string, size int, rt string, deps *DependencyTable) *Meta {
	m := &Meta{
		HashValue:             ResourceID(name),
		HashOffset:            metaHashOffset,
		HashSize:              metaSizeFlag + uint32(size),
		HashResourceType:      rt,
		HashSizeFinal:         uint32(size),
		HashSizeInMemory:      metaNoSize,
		HashSizeInVideoMemory: metaNoSize,
		HashReferenceData:     []Reference{},
	}
	if !IsValidHash(name) {
		m.HashPath = name
	}
	if deps != nil {
		m.HashReferenceData = deps.References()
	}
	m.HashReferenceTableSize = uint32(9*len(m.HashReferenceData) + 4)
	return m
}

// Rebuilt is an outcome of successful rebuild: resource body and its sidecar.
// Warnings combines non fatal problems found while rebuilding.
type Rebuilt struct {
	File     []byte
	Meta     *Meta
	Warnings error
}
