// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package patcher orchestrates the full locate-identify-transform-write
// pipeline: scan a target binary for Zstandard frames, decode and
// identify the one matching a locale's OSK layout signature, apply an
// override mapping to it, and recompress the result back into the
// frame's exact original byte capacity.
//
// [Check] runs the pipeline read-only and reports whether the target
// is already in the desired state. [Apply] runs it for real, backing
// up and rewriting the target file in place. Both share the same
// scan/identify/transform core; only the final step differs.
package patcher
