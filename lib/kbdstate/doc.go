// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kbdstate persists a small record of the last successful
// patch so that repeat invocations against an unchanged target and
// override pair can skip the full binary scan.
//
// The record is serialized with lib/codec's CBOR Core Deterministic
// Encoding rather than JSON, matching the convention lib/codec.doc.go
// documents for internal on-disk state. Its presence is purely an
// optimization: a missing or stale file (content hash mismatch) just
// means the caller falls back to a full scan, never an error on its
// own.
package kbdstate
