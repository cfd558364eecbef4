// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package zstdframe

import (
	"fmt"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"
)

// Reason tags a Decode failure. The caller (the Frame Decoder's
// driver, in lib/patcher) drops every failed candidate whatever its
// Reason and only logs the error at Debug level.
type Reason string

const (
	ReasonNotZstd     Reason = "not-zstd"
	ReasonTruncated   Reason = "truncated"
	ReasonDecodeError Reason = "decode-error"
	ReasonNotUTF8     Reason = "not-utf8"
	ReasonNotJSON     Reason = "not-json"
	ReasonTooLarge    Reason = "too-large"
)

// DecodeError reports why a candidate offset did not yield a usable
// JSON object.
type DecodeError struct {
	Reason Reason
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("zstdframe: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("zstdframe: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decoded is the result of successfully decoding a standard frame.
type Decoded struct {
	// JSON holds the decompressed bytes. By the time Decode returns
	// this value, JSON has been confirmed to be valid UTF-8 and to
	// start (after whitespace) with '{'; it has not been parsed, so
	// callers must still parse it to know it is a well-formed object.
	JSON []byte

	// CompressedLen is the number of source bytes the frame occupies,
	// as determined by FrameSize — the capacity the writer's
	// eventual replacement must respect.
	CompressedLen int
}

// sharedDecoder is reused across Decode calls. zstd.Decoder is safe
// for concurrent use, matching lib/artifactstore/compress.go's
// package-level singleton pattern.
var sharedDecoder *zstd.Decoder

func init() {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		panic("zstdframe: decoder initialization failed: " + err.Error())
	}
	sharedDecoder = decoder
}

// Decode attempts to decompress and validate the standard frame
// starting at offset. maxDecodedSize bounds the output size (checked
// before the JSON-object parse, per spec's safety cap) to protect
// against a maliciously or accidentally huge decompressed payload.
func Decode(data []byte, offset int, maxDecodedSize int) (*Decoded, error) {
	if offset < 0 || offset+4 > len(data) || !bytesEqual(data[offset:offset+4], standardMagic) {
		return nil, &DecodeError{Reason: ReasonNotZstd}
	}

	compressedLen, err := FrameSize(data, offset)
	if err != nil {
		return nil, &DecodeError{Reason: ReasonTruncated, Err: err}
	}

	frame := data[offset : offset+compressedLen]

	decoded, err := sharedDecoder.DecodeAll(frame, nil)
	if err != nil {
		return nil, &DecodeError{Reason: ReasonDecodeError, Err: err}
	}

	if len(decoded) > maxDecodedSize {
		return nil, &DecodeError{Reason: ReasonTooLarge,
			Err: fmt.Errorf("decoded %d bytes exceeds cap %d", len(decoded), maxDecodedSize)}
	}

	if !utf8.Valid(decoded) {
		return nil, &DecodeError{Reason: ReasonNotUTF8}
	}

	if !looksLikeJSONObject(decoded) {
		return nil, &DecodeError{Reason: ReasonNotJSON}
	}

	return &Decoded{JSON: decoded, CompressedLen: compressedLen}, nil
}

// looksLikeJSONObject reports whether the first non-whitespace byte of
// decoded is '{'. Full structural validation (does it actually parse)
// is left to lib/oskjson.Parse, which every caller of Decode invokes
// next; this check exists only to reject non-JSON payloads cheaply
// before handing them to the tree parser.
func looksLikeJSONObject(decoded []byte) bool {
	for _, b := range decoded {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

// EncodeSkippableFrame returns a Zstandard skippable frame (variant
// nibble 0) whose total on-wire length is exactly totalLen:
// 4-byte magic + 4-byte little-endian payload length + payload-length
// zero bytes. totalLen must be at least 8 (the fixed header size).
func EncodeSkippableFrame(totalLen int) ([]byte, error) {
	if totalLen < 8 {
		return nil, fmt.Errorf("zstdframe: skippable frame needs >= 8 bytes, got %d", totalLen)
	}
	payloadLen := totalLen - 8

	out := make([]byte, totalLen)
	out[0], out[1], out[2], out[3] = 0x50, 0x2A, 0x4D, 0x18
	out[4] = byte(payloadLen)
	out[5] = byte(payloadLen >> 8)
	out[6] = byte(payloadLen >> 16)
	out[7] = byte(payloadLen >> 24)
	// out[8:] is already zero.
	return out, nil
}
