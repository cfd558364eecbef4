// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oskjson

import "strings"

// FieldString0 returns the first element of the array stored at
// object[field] as a string, when that element exists and is a
// String. This is the shape every caller in lib/layout needs:
// default[0] and shifted[0] of a key object.
func FieldString0(object *Object, field string) (string, bool) {
	if object == nil {
		return "", false
	}
	array := object.Get(field).AsArray()
	if len(array) == 0 {
		return "", false
	}
	return array[0].AsString()
}

// FieldLen returns the length of the array stored at object[field], or
// 0 if the field is absent or not an array.
func FieldLen(object *Object, field string) int {
	return len(object.Get(field).AsArray())
}

// IsSpecialKey reports whether v is a key object carrying a "special"
// tag. Special keys are left untouched by the layout transformer.
func IsSpecialKey(v *Value) bool {
	object := v.AsObject()
	return object != nil && object.Has("special")
}

// BaseLetter extracts the lowercase-folded base letter of a key: for a
// bare string key, the string itself; for an object key, default[0].
// ok is false when the key has no single-character identity (special
// keys, multi-grapheme defaults, or a missing default field).
func BaseLetter(key *Value) (rune, bool) {
	var text string
	switch {
	case key == nil:
		return 0, false
	case key.Kind == String:
		text = key.StringValue
	case key.Kind == Object:
		if IsSpecialKey(key) {
			return 0, false
		}
		var ok bool
		text, ok = FieldString0(key.ObjectValue, "default")
		if !ok {
			return 0, false
		}
	default:
		return 0, false
	}

	runes := []rune(text)
	if len(runes) != 1 {
		return 0, false
	}
	return []rune(strings.ToLower(string(runes[0])))[0], true
}

// SetKeyPair rewrites key's default[0] and shifted[0] to newDefault
// and newShifted, returning the (possibly new) key value and whether
// anything actually changed. A bare-string key becomes an object with
// exactly those two single-element arrays. An object key keeps every
// other field; default/shifted arrays are grown to length one if
// shorter, and elements at index >= 1 are preserved.
func SetKeyPair(key *Value, newDefault, newShifted string) (*Value, bool) {
	if key != nil && key.Kind == String {
		object := NewObject()
		object.Set("default", NewArray([]*Value{NewString(newDefault)}))
		object.Set("shifted", NewArray([]*Value{NewString(newShifted)}))
		return &Value{Kind: Object, ObjectValue: object}, true
	}

	object := key.AsObject()
	if object == nil {
		return key, false
	}

	curDefault, okDefault := FieldString0(object, "default")
	curShifted, okShifted := FieldString0(object, "shifted")
	needsRewrite := !okDefault || !okShifted ||
		curDefault != newDefault ||
		curShifted != newShifted
	if !needsRewrite {
		return key, false
	}

	setArrayIndex0(object, "default", newDefault)
	setArrayIndex0(object, "shifted", newShifted)
	return key, true
}

// setArrayIndex0 replaces index 0 of the array at object[field] with
// value, preserving indices >= 1, growing the array to length one if
// it was shorter.
func setArrayIndex0(object *Object, field, value string) {
	existing := object.Get(field).AsArray()
	var rest []*Value
	if len(existing) > 1 {
		rest = existing[1:]
	}
	newArray := make([]*Value, 0, 1+len(rest))
	newArray = append(newArray, NewString(value))
	newArray = append(newArray, rest...)
	object.Set(field, NewArray(newArray))
}
