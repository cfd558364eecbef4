// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package oskjson implements a tagged-variant JSON tree that preserves
// object key insertion order through a decode/mutate/encode round
// trip.
//
// encoding/json's generic decode target (map[string]any) does not
// preserve key order — Go maps have none. Since this package's callers
// re-serialize a JSON document after touching only a handful of
// fields, and check mode's correctness depends on that re-serialization
// being byte-for-byte deterministic given the same logical document,
// decoding through json.Decoder's token stream into an explicit
// ordered representation is required, not a style preference.
package oskjson
