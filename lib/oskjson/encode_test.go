// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oskjson

import "testing"

func TestMarshalRoundTripIsDeterministic(t *testing.T) {
	input := []byte(`{"z":1,"a":[1,2,3],"nested":{"b":true,"a":null}}`)

	v, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	first, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	reparsed, err := Parse(first)
	if err != nil {
		t.Fatalf("re-Parse: %v", err)
	}
	second, err := Marshal(reparsed)
	if err != nil {
		t.Fatalf("re-Marshal: %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("round trip not stable:\n first=%s\nsecond=%s", first, second)
	}
}

func TestMarshalEscapesStrings(t *testing.T) {
	v := NewString("line1\nline2\"quoted\"")
	out, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `"line1\nline2\"quoted\""`
	if string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}

func TestMarshalPreservesKeyOrderNotAlphabetical(t *testing.T) {
	object := NewObject()
	object.Set("z", NewString("1"))
	object.Set("a", NewString("2"))
	v := &Value{Kind: Object, ObjectValue: object}

	out, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"z":"1","a":"2"}`
	if string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}

func TestMarshalNullValue(t *testing.T) {
	out, err := Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != "null" {
		t.Errorf("got %s, want null", out)
	}
}
