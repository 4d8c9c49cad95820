// Package cipher implements text obfuscation used for subtitles and
// localized strings.
package cipher

import (
	"bytes"
	"encoding/binary"
	"strings"
	"sync"

	"golang.org/x/crypto/xtea"

	"hmlt/common"
)

// Scheme selects text transformation.
type Scheme int

const (
	// XTEA is block cipher used by all games.
	XTEA Scheme = iota
	// Symmetric is byte permutation used by early h2016 releases.
	Symmetric
)

func (s Scheme) String() string {
	if s == Symmetric {
		return "symmetric"
	}
	return "xtea"
}

// Select returns scheme for game version, symmetric is only honored for the
// earliest version.
func Select(v common.Version, symmetric bool) Scheme {
	if symmetric && v.Earliest() {
		return Symmetric
	}
	return XTEA
}

// Encrypt transforms text, resulting length is a multiple of xtea block size
// for XTEA scheme.
func (s Scheme) Encrypt(text string) []byte {
	if s == Symmetric {
		return symmetricEncrypt([]byte(text))
	}
	return xteaEncrypt([]byte(text))
}

// Decrypt restores text. For XTEA text ends at the first zero byte.
func (s Scheme) Decrypt(data []byte) string {
	if s == Symmetric {
		return string(symmetricDecrypt(bytes.Clone(data)))
	}
	return xteaDecrypt(bytes.Clone(data))
}

// Lossless reports if text survives Encrypt/Decrypt unchanged.
func (s Scheme) Lossless(text string) bool {
	return s == Symmetric || !strings.ContainsRune(text, 0)
}

var (
	key = [16]byte{
		0x53, 0x52, 0x77, 0x37,
		0x75, 0x06, 0x49, 0x9E,
		0xBD, 0x39, 0xAE, 0xE3,
		0xA5, 0x9E, 0x72, 0x68,
	}
	block     *xtea.Cipher
	blockOnce sync.Once
)

func xteaCipher() *xtea.Cipher {
	blockOnce.Do(func() {
		var err error
		if block, err = xtea.NewCipher(key[:]); err != nil {
			// key is constant of proper size
			panic(err)
		}
	})
	return block
}

// Game stores block halves little endian while xtea package expects big
// endian words.
func swapWords(b []byte) {
	binary.BigEndian.PutUint32(b[0:], binary.LittleEndian.Uint32(b[0:]))
	binary.BigEndian.PutUint32(b[4:], binary.LittleEndian.Uint32(b[4:]))
}

func xteaEncrypt(data []byte) []byte {
	c := xteaCipher()
	if rem := len(data) % xtea.BlockSize; rem != 0 {
		data = append(data, make([]byte, xtea.BlockSize-rem)...)
	}
	for i := 0; i < len(data); i += xtea.BlockSize {
		b := data[i : i+xtea.BlockSize]
		swapWords(b)
		c.Encrypt(b, b)
		swapWords(b)
	}
	return data
}

func xteaDecrypt(data []byte) string {
	c := xteaCipher()
	// incomplete trailing block is left as is
	for i := 0; i+xtea.BlockSize <= len(data); i += xtea.BlockSize {
		b := data[i : i+xtea.BlockSize]
		swapWords(b)
		c.Decrypt(b, b)
		swapWords(b)
	}
	if n := bytes.IndexByte(data, 0); n >= 0 {
		data = data[:n]
	}
	return string(data)
}

const symmetricMask = 226

func symmetricEncrypt(data []byte) []byte {
	for i, v := range data {
		v ^= symmetricMask
		data[i] = v&0x81 | (v&0x02)<<1 | (v&0x04)<<2 | (v&0x08)<<3 |
			(v&0x10)>>3 | (v&0x20)>>2 | (v&0x40)>>1
	}
	return data
}

func symmetricDecrypt(data []byte) []byte {
	for i, v := range data {
		v = v&0x01 | (v&0x02)<<3 | (v&0x04)>>1 | (v&0x08)<<2 |
			(v&0x10)>>2 | (v&0x20)<<1 | (v&0x40)>>3 | v&0x80
		data[i] = v ^ symmetricMask
	}
	return data
}
