// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binpatch

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/Sterny99/remarkable-2-language-mod/lib/zstdframe"
)

// levels is the compression-level fallback ladder: try maximum
// compression first, stepping down only when the result doesn't fit
// capacity, per spec.md's recommended progression.
var levels = []int{22, 19, 15, 11, 7, 3}

// ErrCapacityExceeded is returned when raw cannot be compressed to fit
// capacity even at the lowest fallback level.
type ErrCapacityExceeded struct {
	Capacity int
	Smallest int
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("binpatch: smallest compressed size %d exceeds capacity %d", e.Smallest, e.Capacity)
}

// ErrPaddingTooSmall is returned when compressed output leaves 1-7
// bytes of slack: not enough room for an 8-byte skippable-frame
// header, and not zero either.
type ErrPaddingTooSmall struct {
	Slack int
}

func (e *ErrPaddingTooSmall) Error() string {
	return fmt.Sprintf("binpatch: slack of %d bytes is too small to pad (need 0 or >= 8)", e.Slack)
}

// CompressToCapacity compresses raw, trying compression levels 22
// through 3 in descending order, and returns the first frame that fits
// within capacity once padded to exactly capacity bytes. level reports
// which compression level succeeded. A pure function: no I/O, no
// global state beyond the zstd encoder's internal tables.
func CompressToCapacity(raw []byte, capacity int) (frame []byte, level int, err error) {
	smallest := -1

	for _, lvl := range levels {
		compressed, err := encodeAtLevel(raw, lvl)
		if err != nil {
			return nil, 0, fmt.Errorf("binpatch: zstd encode at level %d: %w", lvl, err)
		}
		if smallest == -1 || len(compressed) < smallest {
			smallest = len(compressed)
		}
		if len(compressed) > capacity {
			continue
		}

		slack := capacity - len(compressed)
		switch {
		case slack == 0:
			return compressed, lvl, nil
		case slack < 8:
			return nil, 0, &ErrPaddingTooSmall{Slack: slack}
		default:
			padding, err := zstdframe.EncodeSkippableFrame(slack)
			if err != nil {
				return nil, 0, fmt.Errorf("binpatch: build padding frame: %w", err)
			}
			out := make([]byte, 0, capacity)
			out = append(out, compressed...)
			out = append(out, padding...)
			return out, lvl, nil
		}
	}

	return nil, 0, &ErrCapacityExceeded{Capacity: capacity, Smallest: smallest}
}

func encodeAtLevel(raw []byte, level int) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, err
	}
	defer encoder.Close()
	return encoder.EncodeAll(raw, nil), nil
}
