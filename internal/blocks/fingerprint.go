// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package blocks

import (
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// Algorithm names a fingerprint hash function.
type Algorithm string

// Supported fingerprint algorithms. Both yield 64-bit fingerprints.
const (
	XXHash Algorithm = "xxhash"
	Blake3 Algorithm = "blake3"
)

// ParseAlgorithm validates an algorithm name. The empty string selects XXHash.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case "", XXHash:
		return XXHash, nil
	case Blake3:
		return Blake3, nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q (must be xxhash or blake3)", s)
	}
}

// tokenSep keeps ["ab"] and ["a","b"] from colliding. Line breaks are not
// hashed, so a window's fingerprint depends only on its token sequence.
const tokenSep = 0x1f

// Fingerprint hashes the canonical tokens of lines. Identical canonical token
// sequences always produce identical fingerprints, however they are split
// across lines.
func (a Algorithm) Fingerprint(lines []Line) uint64 {
	var h hash.Hash
	switch a {
	case Blake3:
		h = blake3.New()
	default:
		h = xxhash.New()
	}
	buf := make([]byte, 0, 256)
	first := true
	for _, l := range lines {
		buf = buf[:0]
		for _, tok := range l.Tokens {
			if !first {
				buf = append(buf, tokenSep)
			}
			first = false
			buf = append(buf, tok.Text...)
		}
		_, _ = h.Write(buf)
	}
	if d, ok := h.(*xxhash.Digest); ok {
		return d.Sum64()
	}
	return binary.LittleEndian.Uint64(h.Sum(nil)[:8])
}
