// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"fmt"

	"github.com/Sterny99/remarkable-2-language-mod/lib/oskjson"
)

// Result reports how many keys a mapping application pass visited
// (touched) and how many it actually rewrote (changed — a key whose
// default[0]/shifted[0] already equal the mapping's values is touched
// but not changed).
type Result struct {
	Touched int
	Changed int
}

// ApplyByIdentity walks every key across base's first three alphabetic
// rows, derives each non-special key's own base-letter identity (its
// lowercased default[0]), and rewrites any key whose identity is in
// mapping. This is the primary strategy: it works regardless of row
// shape, since it never assumes fixed column positions.
func ApplyByIdentity(base *oskjson.Value, mapping Mapping) (Result, error) {
	object := base.AsObject()
	if object == nil {
		return Result{}, fmt.Errorf("layout: base is not an object")
	}
	alphabetic := object.Get("alphabetic").AsArray()
	if len(alphabetic) < 3 {
		return Result{}, fmt.Errorf("layout: base alphabetic has fewer than 3 rows")
	}

	var result Result
	for rowIndex := 0; rowIndex < 3; rowIndex++ {
		row := alphabetic[rowIndex].AsArray()
		for i, key := range row {
			letter, ok := oskjson.BaseLetter(key)
			if !ok {
				continue
			}
			pair, ok := mapping[letter]
			if !ok {
				continue
			}
			result.Touched++
			newKey, changed := oskjson.SetKeyPair(key, pair.Default, pair.Shifted)
			row[i] = newKey
			if changed {
				result.Changed++
			}
		}
	}
	return result, nil
}

// ApplyByPosition rewrites base's alphabetic rows at the fixed
// positions locale's keyboard shape defines, ignoring each key's own
// base-letter identity. It is the fallback the original implementation
// uses when ApplyByIdentity touches nothing — a layout whose key
// objects don't expose a recognizable single-grapheme default[0], for
// instance a fully symbol-driven base layout.
func ApplyByPosition(base *oskjson.Value, mapping Mapping, locale string) (Result, error) {
	specs, minLens, err := rowSpecsForLocale(locale)
	if err != nil {
		return Result{}, err
	}

	object := base.AsObject()
	if object == nil {
		return Result{}, fmt.Errorf("layout: base is not an object")
	}
	alphabetic := object.Get("alphabetic").AsArray()
	if len(alphabetic) < 3 {
		return Result{}, fmt.Errorf("layout: base alphabetic has fewer than 3 rows")
	}

	var result Result
	for rowIndex, spec := range specs {
		row := alphabetic[rowIndex].AsArray()
		if len(row) < minLens[rowIndex] {
			return Result{}, fmt.Errorf("layout: base row %d too short (need >= %d, got %d)", rowIndex, minLens[rowIndex], len(row))
		}
		for i, letter := range spec.letters {
			col := spec.startCol + i
			if err := applyOne(row, col, letter, mapping, &result); err != nil {
				return Result{}, fmt.Errorf("layout: base row %d idx %d: %w", rowIndex, col, err)
			}
		}
		for col, letter := range spec.extraCols {
			if err := applyOne(row, col, letter, mapping, &result); err != nil {
				return Result{}, fmt.Errorf("layout: base row %d idx %d (%c): %w", rowIndex, col, letter, err)
			}
		}
	}
	return result, nil
}

func applyOne(row []*oskjson.Value, col int, letter rune, mapping Mapping, result *Result) error {
	pair, ok := mapping[letter]
	if !ok {
		return fmt.Errorf("mapping missing %c", letter)
	}
	if oskjson.IsSpecialKey(row[col]) {
		return fmt.Errorf("expected a plain key, got a special key")
	}
	result.Touched++
	newKey, changed := oskjson.SetKeyPair(row[col], pair.Default, pair.Shifted)
	row[col] = newKey
	if changed {
		result.Changed++
	}
	return nil
}
