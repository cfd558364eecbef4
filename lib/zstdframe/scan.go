// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package zstdframe

import (
	"bytes"
	"sort"
)

// MagicKind distinguishes the two frame types the scanner recognizes.
type MagicKind int

const (
	// Standard marks a frame beginning with the Zstandard frame magic
	// 28 B5 2F FD. Only standard frames are candidates for the layout
	// identifier.
	Standard MagicKind = iota

	// Skippable marks a frame beginning with 50..5F 2A 4D 18. Skippable
	// frames are recognized for diagnostics and as the padding format
	// the writer emits to absorb slack.
	Skippable
)

func (k MagicKind) String() string {
	switch k {
	case Standard:
		return "standard"
	case Skippable:
		return "skippable"
	default:
		return "unknown"
	}
}

// standardMagic is the four-byte Zstandard frame magic number.
var standardMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// skippableMagicTail is the fixed three trailing bytes of every
// skippable frame magic. The leading byte varies in 0x50..0x5F (the
// low nibble of the magic number).
var skippableMagicTail = []byte{0x2A, 0x4D, 0x18}

// Candidate is a located frame start. Offset is the byte position of
// the first magic byte within the scanned buffer.
type Candidate struct {
	Offset int
	Kind   MagicKind
}

// Scan returns every candidate frame start in data, ordered by
// ascending offset. Overlapping matches are permitted — the scanner
// makes no attempt to validate frame structure beyond the magic bytes,
// since the standard and skippable magics cannot themselves overlap
// (they differ in their first byte) but a standard match and a
// skippable match four bytes apart are both reported; it is the
// caller's job to decide which offsets are real frames.
//
// An empty slice is a valid result: the caller (lib/patcher) raises
// the no-candidates error, not Scan.
func Scan(data []byte) []Candidate {
	var candidates []Candidate

	for offset := 0; offset+4 <= len(data); {
		next := bytes.Index(data[offset:], standardMagic)
		if next < 0 {
			break
		}
		candidates = append(candidates, Candidate{Offset: offset + next, Kind: Standard})
		offset += next + 1
	}

	for offset := 0; offset+3 <= len(data); {
		next := bytes.Index(data[offset:], skippableMagicTail)
		if next < 0 {
			break
		}
		tailStart := offset + next
		leadOffset := tailStart - 1
		if leadOffset >= 0 {
			lead := data[leadOffset]
			if lead >= 0x50 && lead <= 0x5F {
				candidates = append(candidates, Candidate{Offset: leadOffset, Kind: Skippable})
			}
		}
		offset = tailStart + 1
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Offset < candidates[j].Offset })
	return candidates
}
