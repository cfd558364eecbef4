// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Sterny99/remarkable-2-language-mod/lib/oskjson"
)

// plainKeyRow builds an alphabetic row of bare-string keys, one per
// letter in letters.
func plainKeyRow(letters string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range letters {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `%q`, string(r))
	}
	b.WriteByte(']')
	return b.String()
}

// deDEFixture builds a minimal de_DE-shaped layout document. Any of
// row0Extra/row1Extra may be empty to simulate a missing umlaut key
// for F3-style no-match fixtures.
func deDEFixture(t *testing.T, row0Extra, row1Extra string) *oskjson.Value {
	t.Helper()

	row0 := "qwertzuiop" + row0Extra
	row1 := "asdfghjkl" + row1Extra
	row2 := "_yxcvbnm" // index 0 is the shift key placeholder

	docJSON := fmt.Sprintf(
		`{"alphabetic":[%s,%s,%s],"special":[]}`,
		plainKeyRow(row0), plainKeyRow(row1), plainKeyRow(row2),
	)
	doc, err := oskjson.Parse([]byte(docJSON))
	if err != nil {
		t.Fatalf("Parse fixture: %v", err)
	}
	return doc
}

// overrideFixture builds a de_DE-shaped override document whose keys
// map letter -> (default,shifted) using a caller-supplied function.
func overrideFixture(t *testing.T, replace func(base rune) (string, string)) *oskjson.Value {
	t.Helper()

	keyObj := func(letter rune) string {
		def, sh := replace(letter)
		return fmt.Sprintf(`{"default":[%q],"shifted":[%q]}`, def, sh)
	}

	row := func(letters string) string {
		var b strings.Builder
		b.WriteByte('[')
		for i, r := range letters {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(keyObj(r))
		}
		b.WriteByte(']')
		return b.String()
	}

	row0 := row("qwertzuiopü")
	row1 := row("asdfghjklöä")
	row2 := row("_yxcvbnm") // index 0 is the shift key placeholder

	docJSON := fmt.Sprintf(`{"alphabetic":[%s,%s,%s],"special":[]}`, row0, row1, row2)
	doc, err := oskjson.Parse([]byte(docJSON))
	if err != nil {
		t.Fatalf("Parse override fixture: %v", err)
	}
	return doc
}
