// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kbdstate

import (
	"errors"
	"fmt"
	"os"

	"github.com/Sterny99/remarkable-2-language-mod/lib/codec"
)

// Schema is the current on-disk schema tag. Bumping it invalidates
// every previously written state file, since Load compares it
// exactly.
const Schema = "rm-xochitl-kbdpatch/state/v1"

// Hit records where a frame was found and replaced: its header
// offset, the byte capacity it was recompressed into, and the
// identification signature (locale row fingerprints) that selected it,
// kept so a future run can confirm the same candidate is still the
// right one before trusting the cached offset.
type Hit struct {
	HeaderOffset uint64 `cbor:"hdr_off"`
	Capacity     int    `cbor:"cap"`
	Signature    string `cbor:"sig"`
}

// State is the full persisted record.
type State struct {
	Schema      string `cbor:"schema"`
	OriginalSHA string `cbor:"orig_sha"`
	PatchedSHA  string `cbor:"patched_sha"`
	OverrideSHA string `cbor:"override_sha"`
	Locale      string `cbor:"locale"`
	Hits        []Hit  `cbor:"hits"`
}

// Load reads and decodes the state file at path. A missing file is
// not an error: it returns (nil, nil), signaling "no cached state" to
// the caller, which should fall back to a full scan.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kbdstate: read %s: %w", path, err)
	}

	var state State
	if err := codec.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("kbdstate: decode %s: %w", path, err)
	}
	if state.Schema != Schema {
		return nil, nil
	}
	return &state, nil
}

// Save encodes state and writes it to path, replacing any existing
// file.
func Save(path string, state *State) error {
	state.Schema = Schema
	data, err := codec.Marshal(state)
	if err != nil {
		return fmt.Errorf("kbdstate: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("kbdstate: write %s: %w", path, err)
	}
	return nil
}

// Usable reports whether state matches the current target, override,
// and locale exactly — the only condition under which its cached Hits
// can be trusted without re-scanning.
func (s *State) Usable(currentTargetSHA, overrideSHA, locale string) bool {
	return s != nil &&
		s.Schema == Schema &&
		s.OriginalSHA == currentTargetSHA &&
		s.OverrideSHA == overrideSHA &&
		s.Locale == locale
}
