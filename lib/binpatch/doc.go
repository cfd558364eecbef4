// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binpatch recompresses a JSON payload to fit exactly within a
// fixed byte capacity and rewrites it into a target file at a known
// offset without changing the file's length.
//
// [CompressToCapacity] is a pure function: given raw bytes and a
// capacity, it returns a frame of exactly that length (compressed
// payload plus skippable-frame padding) or an error, with no file I/O.
// [WriteInPlace] is the thin wrapper that actually mutates a file: it
// backs up the entire target file (once, never overwriting a backup
// that's already there), writes the frame, syncs, re-reads to confirm
// the write took, and restores the patched region on any failure.
package binpatch
