// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package zstdframe

import (
	"encoding/binary"
	"fmt"
)

// ErrTruncated indicates the buffer ends before a complete frame could
// be parsed.
var ErrTruncated = fmt.Errorf("zstdframe: truncated frame")

// FrameSize returns the number of bytes, starting at offset, occupied
// by a single Zstandard frame (standard or skippable). It is computed
// entirely from the frame's own header and block-size fields — no
// decompression is performed, and no length is ever guessed. This is
// the same computation the reference zstd library performs to answer
// "how long is this frame," exposed there as
// ZSTD_findFrameCompressedSize.
func FrameSize(data []byte, offset int) (int, error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, ErrTruncated
	}

	if isSkippableMagic(data[offset : offset+4]) {
		return skippableFrameSize(data, offset)
	}
	if !bytesEqual(data[offset:offset+4], standardMagic) {
		return 0, fmt.Errorf("zstdframe: no frame magic at offset %d", offset)
	}
	return standardFrameSize(data, offset)
}

func isSkippableMagic(b []byte) bool {
	return b[0] >= 0x50 && b[0] <= 0x5F && b[1] == 0x2A && b[2] == 0x4D && b[3] == 0x18
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func skippableFrameSize(data []byte, offset int) (int, error) {
	if offset+8 > len(data) {
		return 0, ErrTruncated
	}
	payloadLen := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
	total := 8 + int(payloadLen)
	if offset+total > len(data) {
		return 0, ErrTruncated
	}
	return total, nil
}

// standardFrameSize parses a standard Zstandard frame: the
// Frame_Header, followed by one or more Data_Blocks, followed by an
// optional 4-byte content checksum.
func standardFrameSize(data []byte, offset int) (int, error) {
	cursor := offset + 4 // past the magic number

	if cursor >= len(data) {
		return 0, ErrTruncated
	}
	descriptor := data[cursor]
	cursor++

	fcsFieldSize := descriptor >> 6
	singleSegment := descriptor&(1<<5) != 0
	checksumFlag := descriptor&(1<<2) != 0
	dictIDFlag := descriptor & 0x03

	if !singleSegment {
		// Window_Descriptor: one byte, not needed for size accounting.
		if cursor >= len(data) {
			return 0, ErrTruncated
		}
		cursor++
	}

	var dictIDSize int
	switch dictIDFlag {
	case 0:
		dictIDSize = 0
	case 1:
		dictIDSize = 1
	case 2:
		dictIDSize = 2
	case 3:
		dictIDSize = 4
	}
	if cursor+dictIDSize > len(data) {
		return 0, ErrTruncated
	}
	cursor += dictIDSize

	var fcsSize int
	switch fcsFieldSize {
	case 0:
		if singleSegment {
			fcsSize = 1
		} else {
			fcsSize = 0
		}
	case 1:
		fcsSize = 2
	case 2:
		fcsSize = 4
	case 3:
		fcsSize = 8
	}
	if cursor+fcsSize > len(data) {
		return 0, ErrTruncated
	}
	cursor += fcsSize

	// Data_Blocks: each begins with a 3-byte Block_Header.
	for {
		if cursor+3 > len(data) {
			return 0, ErrTruncated
		}
		header := uint32(data[cursor]) | uint32(data[cursor+1])<<8 | uint32(data[cursor+2])<<16
		lastBlock := header&0x1 != 0
		blockType := (header >> 1) & 0x3
		blockSize := header >> 3
		cursor += 3

		switch blockType {
		case 0, 2: // Raw_Block, Compressed_Block: blockSize content bytes follow.
			if cursor+int(blockSize) > len(data) {
				return 0, ErrTruncated
			}
			cursor += int(blockSize)
		case 1: // RLE_Block: exactly one content byte regardless of blockSize.
			if cursor+1 > len(data) {
				return 0, ErrTruncated
			}
			cursor++
		default:
			return 0, fmt.Errorf("zstdframe: reserved block type at offset %d", cursor)
		}

		if lastBlock {
			break
		}
	}

	if checksumFlag {
		if cursor+4 > len(data) {
			return 0, ErrTruncated
		}
		cursor += 4
	}

	return cursor - offset, nil
}
