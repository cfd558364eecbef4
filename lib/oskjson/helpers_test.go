// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oskjson

import "testing"

func TestBaseLetterBareString(t *testing.T) {
	letter, ok := BaseLetter(NewString("Q"))
	if !ok || letter != 'q' {
		t.Errorf("got %q, %v, want 'q', true", letter, ok)
	}
}

func TestBaseLetterKeyObject(t *testing.T) {
	key, err := Parse([]byte(`{"default":["w"],"shifted":["W"]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	letter, ok := BaseLetter(key)
	if !ok || letter != 'w' {
		t.Errorf("got %q, %v, want 'w', true", letter, ok)
	}
}

func TestBaseLetterSpecialKeyRejected(t *testing.T) {
	key, err := Parse([]byte(`{"default":["shift"],"special":"shift"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := BaseLetter(key); ok {
		t.Error("expected a special key to have no base letter")
	}
}

func TestBaseLetterMultiGraphemeRejected(t *testing.T) {
	if _, ok := BaseLetter(NewString("esc")); ok {
		t.Error("expected a multi-character string to have no base letter")
	}
}

func TestSetKeyPairOnBareString(t *testing.T) {
	key, changed := SetKeyPair(NewString("a"), "נ", "ן")
	if !changed {
		t.Fatal("expected changed=true")
	}
	def, _ := FieldString0(key.AsObject(), "default")
	shifted, _ := FieldString0(key.AsObject(), "shifted")
	if def != "נ" || shifted != "ן" {
		t.Errorf("got default=%q shifted=%q", def, shifted)
	}
}

func TestSetKeyPairPreservesExtraAlternates(t *testing.T) {
	key, err := Parse([]byte(`{"default":["a","á","à"],"shifted":["A"]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	newKey, changed := SetKeyPair(key, "b", "B")
	if !changed {
		t.Fatal("expected changed=true")
	}
	object := newKey.AsObject()
	defaults := object.Get("default").AsArray()
	if len(defaults) != 3 {
		t.Fatalf("default len = %d, want 3 (index 0 rewritten, rest preserved)", len(defaults))
	}
	first, _ := defaults[0].AsString()
	if first != "b" {
		t.Errorf("default[0] = %q, want %q", first, "b")
	}
	second, _ := defaults[1].AsString()
	if second != "á" {
		t.Errorf("default[1] = %q, want %q (preserved)", second, "á")
	}
}

func TestSetKeyPairNoOpWhenAlreadyCorrect(t *testing.T) {
	key, err := Parse([]byte(`{"default":["x"],"shifted":["X"]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, changed := SetKeyPair(key, "x", "X")
	if changed {
		t.Error("expected changed=false when values already match")
	}
}
