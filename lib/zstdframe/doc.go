// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package zstdframe locates and decodes Zstandard frames embedded at
// unknown offsets inside an arbitrary byte stream.
//
// The target binaries this package is built for never carry a table of
// contents pointing at their compressed resources: the only way to find
// one is to search for its magic number and then determine, from the
// frame's own structure, exactly how many bytes it occupies. [Scan]
// performs the search; [FrameSize] performs the structural length
// computation (frame header fields plus a walk over block headers,
// the same arithmetic the reference zstd library exposes through
// ZSTD_findFrameCompressedSize); [Decode] combines both with an actual
// decompression via klauspost/compress/zstd and a set of safety checks
// (size cap, UTF-8 validity, JSON-object shape) appropriate to this
// package's callers.
package zstdframe
