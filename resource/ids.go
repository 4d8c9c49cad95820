package resource

import (
	"crypto/md5"
	"encoding/hex"
	"hash/crc32"
	"strconv"
	"strings"
)

// IsValidHash checks if identifier is a runtime resource id: 16 hex digits.
func IsValidHash(id string) bool {
	return len(id) == 16 && isHex(id)
}

// ComputeHash derives runtime resource id from resource path.
func ComputeHash(path string) string {
	sum := md5.Sum([]byte(path))
	return "00" + strings.ToUpper(hex.EncodeToString(sum[:]))[2:16]
}

// ResourceID returns id as is when valid, otherwise computes it from path.
func ResourceID(id string) string {
	if IsValidHash(id) {
		return id
	}
	return ComputeHash(id)
}

// CRC32 is the name hash used by the game for short identifiers.
func CRC32(name string) uint32 {
	return crc32.ChecksumIEEE([]byte(name))
}

// ParseHash32 converts textual 32 bits identifier into its value: hex
// strings are taken literally, anything else is hashed.
func ParseHash32(s string) uint32 {
	if len(s) <= 8 && isHex(s) {
		if len(s) == 0 {
			return 0
		}
		v, err := strconv.ParseUint(s, 16, 32)
		if err == nil {
			return uint32(v)
		}
	}
	return CRC32(s)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// IsHex reports if s is not empty and consists of hex digits only.
func IsHex(s string) bool {
	return len(s) > 0 && isHex(s)
}
