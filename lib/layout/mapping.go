// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"fmt"

	"github.com/Sterny99/remarkable-2-language-mod/lib/oskjson"
)

// Pair is a replacement default/shifted grapheme pair for one
// base-letter position.
type Pair struct {
	Default string
	Shifted string
}

// Mapping associates a base letter (lowercase Latin letter, or a
// locale-extra such as 'ü') with its replacement pair.
type Mapping map[rune]Pair

// rowSpec names the positions build/apply walk for one de_DE
// alphabetic row: the plain-Latin letters at consecutive indices
// starting at startCol, plus any locale-extra letters at the trailing
// indices listed in extraCols.
type rowSpec struct {
	letters   string
	startCol  int
	extraCols map[int]rune
}

// deDERows describes the fixed de_DE keyboard shape the original
// implementation assumes: row0 is q..p with ü appended, row1 is a..l
// with ö,ä appended, row2 has a leading shift key then y..m.
var deDERows = [3]rowSpec{
	{letters: "qwertzuiop", startCol: 0, extraCols: map[int]rune{10: 'ü'}},
	{letters: "asdfghjkl", startCol: 0, extraCols: map[int]rune{9: 'ö', 10: 'ä'}},
	{letters: "yxcvbnm", startCol: 1, extraCols: nil},
}

// deDEMinRowLen is the shortest row length BuildMapping and ApplyByPosition
// require for de_DE, indexed in row order; it covers every position
// rowSpec touches (including its locale-extra columns).
var deDEMinRowLen = [3]int{11, 11, 8}

func rowSpecsForLocale(locale string) ([3]rowSpec, [3]int, error) {
	switch locale {
	case "de_DE":
		return deDERows, deDEMinRowLen, nil
	default:
		var zero [3]rowSpec
		var zeroLen [3]int
		return zero, zeroLen, fmt.Errorf("layout: unsupported locale %q", locale)
	}
}

// BuildMapping walks override's alphabetic rows at the fixed de_DE
// positions and returns the base-letter-to-replacement Mapping. This
// is a positional read, not an identity match: override's row
// structure is treated as a template keyed by index, exactly like
// spec.md §4.4's "associate by position, not by identity."
func BuildMapping(override *oskjson.Value, locale string) (Mapping, error) {
	specs, minLens, err := rowSpecsForLocale(locale)
	if err != nil {
		return nil, err
	}

	object := override.AsObject()
	if object == nil {
		return nil, fmt.Errorf("layout: override is not an object")
	}
	alphabetic := object.Get("alphabetic").AsArray()
	if len(alphabetic) != 3 {
		return nil, fmt.Errorf("layout: override alphabetic must have exactly 3 rows, got %d", len(alphabetic))
	}

	mapping := make(Mapping)
	for rowIndex, spec := range specs {
		row := alphabetic[rowIndex].AsArray()
		if len(row) < minLens[rowIndex] {
			return nil, fmt.Errorf("layout: override row %d too short (need >= %d, got %d)", rowIndex, minLens[rowIndex], len(row))
		}
		for i, letter := range spec.letters {
			pair, err := keyPair(row[spec.startCol+i])
			if err != nil {
				return nil, fmt.Errorf("layout: override row %d idx %d: %w", rowIndex, spec.startCol+i, err)
			}
			mapping[letter] = pair
		}
		for col, letter := range spec.extraCols {
			pair, err := keyPair(row[col])
			if err != nil {
				return nil, fmt.Errorf("layout: override row %d idx %d (%c): %w", rowIndex, col, letter, err)
			}
			mapping[letter] = pair
		}
	}
	return mapping, nil
}

// keyPair reads the default[0]/shifted[0] pair directly off an
// override key object, falling back to default[0] for shifted when
// shifted is absent (mirroring the override format's allowance for
// unshifted-only keys).
func keyPair(key *oskjson.Value) (Pair, error) {
	object := key.AsObject()
	if object == nil {
		return Pair{}, fmt.Errorf("key is not an object")
	}
	def, ok := oskjson.FieldString0(object, "default")
	if !ok {
		return Pair{}, fmt.Errorf("key missing default[0]")
	}
	shifted, ok := oskjson.FieldString0(object, "shifted")
	if !ok {
		shifted = def
	}
	return Pair{Default: def, Shifted: shifted}, nil
}
