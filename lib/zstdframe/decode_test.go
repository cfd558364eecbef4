// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package zstdframe

import (
	"bytes"
	"testing"
)

func TestDecodeSuccess(t *testing.T) {
	payload := []byte(`{"alphabetic":[["q"]]}`)
	frame := encodeForTest(t, payload)

	data := append([]byte("prefix"), frame...)

	decoded, err := Decode(data, 6, 1<<20)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded.JSON, payload) {
		t.Errorf("JSON = %q, want %q", decoded.JSON, payload)
	}
	if decoded.CompressedLen != len(frame) {
		t.Errorf("CompressedLen = %d, want %d", decoded.CompressedLen, len(frame))
	}
}

func TestDecodeRejectsNonZstdMagic(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	_, err := Decode(data, 0, 1<<20)
	var decodeErr *DecodeError
	if err == nil {
		t.Fatal("expected an error")
	}
	if !asDecodeError(err, &decodeErr) || decodeErr.Reason != ReasonNotZstd {
		t.Errorf("got %v, want ReasonNotZstd", err)
	}
}

func TestDecodeRejectsOversizedPayload(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 4096)
	frame := encodeForTest(t, payload)

	_, err := Decode(frame, 0, 100)
	var decodeErr *DecodeError
	if !asDecodeError(err, &decodeErr) || decodeErr.Reason != ReasonTooLarge {
		t.Errorf("got %v, want ReasonTooLarge", err)
	}
}

func TestDecodeRejectsNonJSON(t *testing.T) {
	frame := encodeForTest(t, []byte("not json at all"))

	_, err := Decode(frame, 0, 1<<20)
	var decodeErr *DecodeError
	if !asDecodeError(err, &decodeErr) || decodeErr.Reason != ReasonNotJSON {
		t.Errorf("got %v, want ReasonNotJSON", err)
	}
}

func TestDecodeTwoFramesOnlyOneIsJSON(t *testing.T) {
	jsonFrame := encodeForTest(t, []byte(`{"ok":true}`))
	binaryFrame := encodeForTest(t, []byte{0xDE, 0xAD, 0xBE, 0xEF})

	data := append(append([]byte{}, binaryFrame...), jsonFrame...)

	if _, err := Decode(data, 0, 1<<20); err == nil {
		t.Fatal("expected the binary frame to be rejected")
	}

	decoded, err := Decode(data, len(binaryFrame), 1<<20)
	if err != nil {
		t.Fatalf("Decode(jsonFrame): %v", err)
	}
	if string(decoded.JSON) != `{"ok":true}` {
		t.Errorf("JSON = %q", decoded.JSON)
	}
}

func TestEncodeSkippableFrameExactLength(t *testing.T) {
	frame, err := EncodeSkippableFrame(16)
	if err != nil {
		t.Fatalf("EncodeSkippableFrame: %v", err)
	}
	if len(frame) != 16 {
		t.Fatalf("len(frame) = %d, want 16", len(frame))
	}

	size, err := FrameSize(frame, 0)
	if err != nil {
		t.Fatalf("FrameSize: %v", err)
	}
	if size != 16 {
		t.Errorf("FrameSize = %d, want 16", size)
	}
}

func TestEncodeSkippableFrameRejectsTooSmall(t *testing.T) {
	if _, err := EncodeSkippableFrame(7); err == nil {
		t.Error("expected an error for totalLen < 8")
	}
}

func asDecodeError(err error, target **DecodeError) bool {
	de, ok := err.(*DecodeError)
	if !ok {
		return false
	}
	*target = de
	return true
}
