// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import "testing"

func TestBuildMappingCoversAllPositions(t *testing.T) {
	override := overrideFixture(t, func(base rune) (string, string) {
		return "D" + string(base), "S" + string(base)
	})

	mapping, err := BuildMapping(override, "de_DE")
	if err != nil {
		t.Fatalf("BuildMapping: %v", err)
	}

	for _, letter := range []rune("qwertzuiopasdfghjklyxcvbnmüöä") {
		pair, ok := mapping[letter]
		if !ok {
			t.Errorf("mapping missing letter %q", letter)
			continue
		}
		wantDefault := "D" + string(letter)
		if pair.Default != wantDefault {
			t.Errorf("mapping[%q].Default = %q, want %q", letter, pair.Default, wantDefault)
		}
	}
}

func TestBuildMappingRejectsShortRow(t *testing.T) {
	override := overrideFixture(t, func(base rune) (string, string) { return "x", "X" })
	object := override.AsObject()
	alphabetic := object.Get("alphabetic").AsArray()
	// Truncate row0 below the 11-element minimum (needs the ü slot).
	row0 := alphabetic[0].AsArray()
	alphabetic[0].ArrayValue = row0[:5]

	if _, err := BuildMapping(override, "de_DE"); err == nil {
		t.Error("expected an error for a too-short override row")
	}
}

func TestBuildMappingUnsupportedLocale(t *testing.T) {
	override := overrideFixture(t, func(base rune) (string, string) { return "x", "X" })
	if _, err := BuildMapping(override, "fr_FR"); err == nil {
		t.Error("expected an error for an unregistered locale")
	}
}
