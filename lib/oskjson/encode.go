// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oskjson

import (
	"encoding/json"
	"fmt"
)

// Marshal emits compact, deterministic UTF-8 JSON for v: no trailing
// whitespace, object keys in their preserved insertion order. Two
// calls to Marshal on logically-equal (same Kind/order/content) trees
// always produce identical bytes, which is what makes a fresh decode
// + Marshal round trip usable as a check-mode comparison.
func Marshal(v *Value) ([]byte, error) {
	buf := make([]byte, 0, 256)
	out, err := appendValue(buf, v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func appendValue(buf []byte, v *Value) ([]byte, error) {
	if v == nil {
		return append(buf, "null"...), nil
	}
	switch v.Kind {
	case Null:
		return append(buf, "null"...), nil
	case Bool:
		if v.BoolValue {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case Number:
		return append(buf, v.NumberValue...), nil
	case String:
		return appendJSONString(buf, v.StringValue), nil
	case Array:
		return appendArray(buf, v.ArrayValue)
	case Object:
		return appendObject(buf, v.ObjectValue)
	default:
		return nil, fmt.Errorf("oskjson: unknown kind %d", v.Kind)
	}
}

func appendArray(buf []byte, elems []*Value) ([]byte, error) {
	buf = append(buf, '[')
	for i, elem := range elems {
		if i > 0 {
			buf = append(buf, ',')
		}
		var err error
		buf, err = appendValue(buf, elem)
		if err != nil {
			return nil, err
		}
	}
	return append(buf, ']'), nil
}

func appendObject(buf []byte, object *Object) ([]byte, error) {
	buf = append(buf, '{')
	if object != nil {
		for i, key := range object.Keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendJSONString(buf, key)
			buf = append(buf, ':')
			var err error
			buf, err = appendValue(buf, object.Values[key])
			if err != nil {
				return nil, err
			}
		}
	}
	return append(buf, '}'), nil
}

// appendJSONString appends the quoted, escaped JSON encoding of s.
// encoding/json's Marshal on a bare string produces exactly this
// (it's a standalone JSON value in its own right), so delegating to
// it avoids reimplementing escape-sequence handling for control
// characters, quotes, and multi-byte runes.
func appendJSONString(buf []byte, s string) []byte {
	encoded, _ := json.Marshal(s)
	return append(buf, encoded...)
}
