// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kbdstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Sterny99/remarkable-2-language-mod/lib/codec"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.cbor")

	want := &State{
		OriginalSHA: "orig-sha",
		PatchedSHA:  "patched-sha",
		OverrideSHA: "override-sha",
		Locale:      "de_DE",
		Hits: []Hit{
			{HeaderOffset: 1024, Capacity: 256, Signature: "de_DE"},
		},
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil state")
	}
	if got.Schema != Schema {
		t.Errorf("Schema = %q, want %q", got.Schema, Schema)
	}
	if got.OriginalSHA != want.OriginalSHA || got.OverrideSHA != want.OverrideSHA || got.Locale != want.Locale {
		t.Errorf("got = %+v, want fields to match %+v", got, want)
	}
	if len(got.Hits) != 1 || got.Hits[0].HeaderOffset != 1024 || got.Hits[0].Capacity != 256 {
		t.Errorf("Hits = %+v, want one hit at offset 1024 cap 256", got.Hits)
	}
}

func TestLoadMissingFileReturnsNilNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.cbor")

	state, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state != nil {
		t.Errorf("state = %+v, want nil for a missing file", state)
	}
}

func TestLoadRejectsMismatchedSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.cbor")

	if err := Save(path, &State{OriginalSHA: "a"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Overwrite with a structurally valid record carrying a different
	// Schema, encoded directly (Save would stamp the current Schema):
	// Load must treat it as "no cached state".
	stale, err := codec.Marshal(&State{Schema: "rm-xochitl-kbdpatch/state/v0", OriginalSHA: "a"})
	if err != nil {
		t.Fatalf("codec.Marshal: %v", err)
	}
	if err := os.WriteFile(path, stale, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	state, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state != nil {
		t.Errorf("state = %+v, want nil for a mismatched schema", state)
	}

	// A file that is not valid CBOR at all is a decode error instead.
	if err := os.WriteFile(path, []byte{0xff, 0xff, 0xff}, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected Load to fail decoding a corrupted state file")
	}
}

func TestUsableMatchesOnAllFields(t *testing.T) {
	state := &State{
		Schema:      Schema,
		OriginalSHA: "target-sha",
		OverrideSHA: "override-sha",
		Locale:      "de_DE",
	}

	if !state.Usable("target-sha", "override-sha", "de_DE") {
		t.Error("expected Usable to match identical fields")
	}
	if state.Usable("different-sha", "override-sha", "de_DE") {
		t.Error("expected Usable to reject a changed target SHA")
	}
	if state.Usable("target-sha", "different-override", "de_DE") {
		t.Error("expected Usable to reject a changed override SHA")
	}
	if state.Usable("target-sha", "override-sha", "fr_FR") {
		t.Error("expected Usable to reject a changed locale")
	}
}

func TestUsableNilStateIsFalse(t *testing.T) {
	var state *State
	if state.Usable("a", "b", "c") {
		t.Error("expected Usable on a nil *State to return false")
	}
}
