// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Sterny99/remarkable-2-language-mod/lib/oskjson"
)

const (
	scorePerMatch    = 10
	penaltyPerMissed = 15
	bonusPerExtra    = 50
)

// ErrNoMatch is returned by Identify when no candidate clears the
// minimum acceptance gate for locale.
var ErrNoMatch = fmt.Errorf("layout: no candidate matches locale signature")

// rowLetters collects the lowercase-folded base letter of every
// non-special key in row. Keys without a recognizable single-grapheme
// identity are silently skipped, matching the original's tolerance for
// decorative or malformed entries in a candidate that ultimately
// fails the structural gate anyway.
func rowLetters(row *oskjson.Value) map[rune]struct{} {
	set := make(map[rune]struct{})
	for _, key := range row.AsArray() {
		letter, ok := oskjson.BaseLetter(key)
		if !ok {
			continue
		}
		set[letter] = struct{}{}
	}
	return set
}

// structuralGate checks the shape spec.md §4.3 step 1 requires:
// alphabetic must be an array of at least three non-empty arrays, and
// special must be an array (possibly empty). Returns the first three
// alphabetic rows' letter sets on success.
func structuralGate(doc *oskjson.Value) ([3]map[rune]struct{}, bool) {
	var rows [3]map[rune]struct{}

	object := doc.AsObject()
	if object == nil {
		return rows, false
	}

	alphabetic := object.Get("alphabetic").AsArray()
	if len(alphabetic) < 3 {
		return rows, false
	}
	special := object.Get("special")
	if special == nil || special.Kind != oskjson.Array {
		return rows, false
	}

	for i := 0; i < 3; i++ {
		row := alphabetic[i].AsArray()
		if len(row) == 0 {
			return rows, false
		}
		rows[i] = rowLetters(alphabetic[i])
	}
	return rows, true
}

// score computes the weighted match score of rows against sig, per
// the weights documented alongside this package: scorePerMatch for
// each expected letter present in the corresponding row,
// penaltyPerMissed for each expected letter absent, bonusPerExtra for
// each locale-extra letter present anywhere across the three rows.
// rowsWithMatch and anyExtra feed the minimum-acceptance gate.
func score(rows [3]map[rune]struct{}, sig Signature) (total int, rowsWithMatch int, anyExtra bool) {
	for i := 0; i < 3; i++ {
		matched := 0
		for letter := range sig.Rows[i] {
			if _, present := rows[i][letter]; present {
				matched++
			} else {
				total -= penaltyPerMissed
			}
		}
		total += matched * scorePerMatch
		if matched > 0 {
			rowsWithMatch++
		}
	}

	for extra := range sig.Extras {
		for i := 0; i < 3; i++ {
			if _, present := rows[i][extra]; present {
				total += bonusPerExtra
				anyExtra = true
				break
			}
		}
	}
	return total, rowsWithMatch, anyExtra
}

// SignatureString builds a content fingerprint of doc's three
// alphabetic rows: each row's matched base letters, sorted and
// concatenated, joined by "|". Two documents with the same shape
// produce the same string regardless of key ordering within a row.
// Used to confirm a cached candidate offset still holds the layout it
// held when the offset was recorded, before trusting it without a
// rescan.
func SignatureString(doc *oskjson.Value) string {
	rows, ok := structuralGate(doc)
	if !ok {
		return "unknown"
	}

	parts := make([]string, 3)
	for i, row := range rows {
		letters := make([]rune, 0, len(row))
		for letter := range row {
			letters = append(letters, letter)
		}
		sort.Slice(letters, func(a, b int) bool { return letters[a] < letters[b] })
		parts[i] = string(letters)
	}
	return strings.Join(parts, "|")
}

// Identify scores every candidate document against locale's
// signature and returns the index of the best-scoring one that clears
// the minimum acceptance gate (all three rows contribute at least one
// matched letter, and at least one locale-extra letter is present).
// Candidates failing the structural gate score as absent, not zero.
func Identify(docs []*oskjson.Value, locale string) (int, error) {
	sig, ok := LookupSignature(locale)
	if !ok {
		return -1, fmt.Errorf("layout: unsupported locale %q", locale)
	}

	best := -1
	bestScore := 0
	for i, doc := range docs {
		rows, ok := structuralGate(doc)
		if !ok {
			continue
		}
		s, rowsWithMatch, anyExtra := score(rows, sig)
		if rowsWithMatch < 3 || !anyExtra {
			continue
		}
		if best == -1 || s > bestScore {
			best, bestScore = i, s
		}
	}

	if best == -1 {
		return -1, ErrNoMatch
	}
	return best, nil
}
