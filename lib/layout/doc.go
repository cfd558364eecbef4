// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package layout identifies which decoded OSK layout JSON document
// represents a given locale, and transforms its alphabetic key rows
// according to an override template.
//
// Identification ([Identify]) scores each candidate document against a
// [Signature]: the set of base letters expected in each of the three
// alphabetic rows, plus locale-specific extra letters outside the
// standard Latin 26. Transformation ([BuildMapping] and [ApplyByIdentity]
// / [ApplyByPosition]) walks an override document's alphabetic rows in
// lockstep with the target layout to build a base-letter-to-replacement
// mapping, then applies it either by matching each target key's own
// base-letter identity (the general strategy) or, as a fallback, by
// fixed row position for locales whose layout shape is known exactly.
package layout
