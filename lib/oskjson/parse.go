// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oskjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Parse decodes data into a Value tree, preserving object key order.
// Numbers are kept as their original literal text (via
// json.Decoder.UseNumber) rather than round-tripped through float64,
// since this package never does arithmetic on them and re-encoding a
// parsed float can change its textual representation.
func Parse(data []byte) (*Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	value, err := parseValue(decoder)
	if err != nil {
		return nil, err
	}

	// Reject trailing garbage after the single top-level value.
	if _, err := decoder.Token(); err != io.EOF {
		return nil, fmt.Errorf("oskjson: trailing data after top-level value")
	}

	return value, nil
}

func parseValue(decoder *json.Decoder) (*Value, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	return parseToken(decoder, token)
}

func parseToken(decoder *json.Decoder, token json.Token) (*Value, error) {
	switch t := token.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(decoder)
		case '[':
			return parseArray(decoder)
		default:
			return nil, fmt.Errorf("oskjson: unexpected delimiter %q", t)
		}
	case string:
		return &Value{Kind: String, StringValue: t}, nil
	case json.Number:
		return &Value{Kind: Number, NumberValue: t.String()}, nil
	case bool:
		return &Value{Kind: Bool, BoolValue: t}, nil
	case nil:
		return &Value{Kind: Null}, nil
	default:
		return nil, fmt.Errorf("oskjson: unrecognized token type %T", token)
	}
}

func parseObject(decoder *json.Decoder) (*Value, error) {
	object := NewObject()
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("oskjson: object key is not a string (%T)", keyToken)
		}
		value, err := parseValue(decoder)
		if err != nil {
			return nil, err
		}
		object.Set(key, value)
	}
	// Consume the closing '}'.
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return &Value{Kind: Object, ObjectValue: object}, nil
}

func parseArray(decoder *json.Decoder) (*Value, error) {
	var elems []*Value
	for decoder.More() {
		value, err := parseValue(decoder)
		if err != nil {
			return nil, err
		}
		elems = append(elems, value)
	}
	// Consume the closing ']'.
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return &Value{Kind: Array, ArrayValue: elems}, nil
}
