// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package patcher

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Sterny99/remarkable-2-language-mod/lib/binhash"
	"github.com/Sterny99/remarkable-2-language-mod/lib/binpatch"
	"github.com/Sterny99/remarkable-2-language-mod/lib/kbdstate"
	"github.com/Sterny99/remarkable-2-language-mod/lib/layout"
	"github.com/Sterny99/remarkable-2-language-mod/lib/oskjson"
)

const defaultMaxDecodedSize = 8 * 1024 * 1024

// Options configures a Check or Apply run.
type Options struct {
	Locale         string
	OverridePath   string
	TargetPath     string
	StatePath      string
	BackupPath     string
	Force          bool
	MaxDecodedSize int
	Logger         *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func (o Options) maxDecodedSize() int {
	if o.MaxDecodedSize > 0 {
		return o.MaxDecodedSize
	}
	return defaultMaxDecodedSize
}

// Outcome summarizes the result of a run.
type Outcome struct {
	// Changed is true if Apply wrote a new patch, or if Check found
	// one would be needed.
	Changed bool

	// Offset and CompressedLen locate the frame that was (or would
	// be) rewritten.
	Offset        int
	CompressedLen int

	// Level is the zstd compression level Apply's rewrite used. Zero
	// when no write happened; Check never compresses, so it always
	// leaves Level zero.
	Level int

	// PatchedSHA is the SHA-256 digest (hex, binhash.FormatDigest form)
	// of the target file in its resulting state after Apply: the
	// post-write digest after a real write, or the already-correct
	// current digest when no write was necessary. Check leaves it empty.
	PatchedSHA string
}

// plan is the shared result of scanning, identifying, and transforming
// — everything Check and Apply both need before they diverge on
// whether to actually write.
type plan struct {
	offset        int
	compressedLen int
	currentJSON   []byte // canonical re-encoding of the frame as it stands today
	desiredJSON   []byte // canonical re-encoding after applying the override mapping
	targetSHA     string // digest of the target file as read at the start of this run
	overrideSHA   string // digest of the override file as read at the start of this run
	signature     string // layout.SignatureString of the chosen candidate, captured before mutation
}

// Check runs the pipeline read-only and reports whether the target
// already reflects the override (Changed=false) or would be modified
// by Apply (Changed=true).
func Check(opts Options) (Outcome, error) {
	p, err := buildPlan(opts)
	if err != nil {
		return Outcome{}, err
	}

	changed := !bytes.Equal(p.currentJSON, p.desiredJSON)
	return Outcome{Changed: changed, Offset: p.offset, CompressedLen: p.compressedLen}, nil
}

// Apply runs the pipeline and, if the target isn't already in the
// desired state, rewrites it in place. Returns Changed=false when no
// write was necessary (idempotent re-run).
func Apply(opts Options) (Outcome, error) {
	logger := opts.logger()
	p, err := buildPlan(opts)
	if err != nil {
		return Outcome{}, err
	}

	if bytes.Equal(p.currentJSON, p.desiredJSON) {
		logger.Info("already patched", "offset", p.offset, "sha256", p.targetSHA)
		return Outcome{Changed: false, Offset: p.offset, CompressedLen: p.compressedLen, PatchedSHA: p.targetSHA}, nil
	}

	frame, level, err := binpatch.CompressToCapacity(p.desiredJSON, p.compressedLen)
	if err != nil {
		return Outcome{}, classifyCompressError(err)
	}

	if err := binpatch.WriteInPlace(opts.TargetPath, p.offset, frame, p.desiredJSON, opts.BackupPath); err != nil {
		return Outcome{}, classifyWriteError(err, p.offset)
	}

	patchedDigest, err := binhash.HashFile(opts.TargetPath)
	if err != nil {
		return Outcome{}, newError(KindIOError, err, "hash patched target %s", opts.TargetPath)
	}
	patchedSHA := binhash.FormatDigest(patchedDigest)

	logger.Info("patched", "offset", p.offset, "compressed_len", p.compressedLen, "level", level, "sha256", patchedSHA)

	if err := saveState(opts, p, patchedSHA); err != nil {
		logger.Debug("state save failed (non-fatal)", "err", err)
	}

	return Outcome{Changed: true, Offset: p.offset, CompressedLen: p.compressedLen, Level: level, PatchedSHA: patchedSHA}, nil
}

// buildPlan loads the override and target, locates and identifies the
// right frame (using the state cache when it matches, scanning from
// scratch otherwise), and computes the canonical before/after JSON.
func buildPlan(opts Options) (*plan, error) {
	logger := opts.logger()

	overrideDoc, overrideSHA, err := loadOverride(opts.OverridePath)
	if err != nil {
		return nil, err
	}

	targetData, err := os.ReadFile(opts.TargetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, newError(KindTargetMissing, err, "target %s not found", opts.TargetPath)
		}
		return nil, newError(KindIOError, err, "read target %s", opts.TargetPath)
	}
	targetDigest, err := binhash.HashFile(opts.TargetPath)
	if err != nil {
		return nil, newError(KindIOError, err, "hash target %s", opts.TargetPath)
	}
	targetSHA := binhash.FormatDigest(targetDigest)

	var chosen *candidate
	if !opts.Force {
		if state, _ := kbdstate.Load(opts.StatePath); state.Usable(targetSHA, overrideSHA, opts.Locale) {
			hit := state.Hits[0]
			if c := decodeOne(targetData, int(hit.HeaderOffset), opts.maxDecodedSize(), logger); c != nil {
				if sig := layout.SignatureString(c.Doc); sig == hit.Signature {
					chosen = c
					logger.Debug("using cached state hit", "offset", c.Offset)
				} else {
					logger.Debug("cached state hit no longer matches, rescanning",
						"offset", c.Offset, "cached_sig", hit.Signature, "current_sig", sig)
				}
			}
		}
	}

	if chosen == nil {
		candidates := scanAndDecode(targetData, opts.maxDecodedSize(), logger)
		if len(candidates) == 0 {
			return nil, newError(KindNoCandidates, nil, "no Zstandard frame in %s decoded to JSON", opts.TargetPath)
		}

		docs := make([]*oskjson.Value, len(candidates))
		for i, c := range candidates {
			docs[i] = c.Doc
		}
		idx, err := layout.Identify(docs, opts.Locale)
		if err != nil {
			return nil, newError(KindNoMatch, err, "no candidate matches locale %q", opts.Locale)
		}
		chosen = &candidates[idx]
	}

	mapping, err := layout.BuildMapping(overrideDoc, opts.Locale)
	if err != nil {
		return nil, newError(KindInputError, err, "build mapping from override")
	}

	// Captured before applyMapping, which mutates chosen.Doc in place.
	signature := layout.SignatureString(chosen.Doc)

	currentJSON, err := oskjson.Marshal(chosen.Doc)
	if err != nil {
		return nil, newError(KindIOError, err, "marshal current layout")
	}

	transformed, err := applyMapping(chosen.Doc, mapping, opts.Locale)
	if err != nil {
		return nil, newError(KindInputError, err, "apply mapping")
	}
	desiredJSON, err := oskjson.Marshal(transformed)
	if err != nil {
		return nil, newError(KindIOError, err, "marshal transformed layout")
	}

	return &plan{
		offset:        chosen.Offset,
		compressedLen: chosen.CompressedLen,
		currentJSON:   currentJSON,
		desiredJSON:   desiredJSON,
		targetSHA:     targetSHA,
		overrideSHA:   overrideSHA,
		signature:     signature,
	}, nil
}

// applyMapping runs the primary by-identity strategy; if it touches
// nothing at all (a layout shape ApplyByIdentity can't recognize), it
// falls back to fixed row positions, matching the original
// implementation's fallback order.
func applyMapping(doc *oskjson.Value, mapping layout.Mapping, locale string) (*oskjson.Value, error) {
	result, err := layout.ApplyByIdentity(doc, mapping)
	if err != nil {
		return nil, err
	}
	if result.Touched == 0 {
		if _, err := layout.ApplyByPosition(doc, mapping, locale); err != nil {
			return nil, fmt.Errorf("identity pass touched nothing, position fallback failed: %w", err)
		}
	}
	return doc, nil
}

func loadOverride(path string) (*oskjson.Value, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", newError(KindInputError, err, "read override %s", path)
	}
	doc, err := oskjson.Parse(data)
	if err != nil {
		return nil, "", newError(KindInputError, err, "parse override %s as JSON", path)
	}
	if doc.AsObject() == nil {
		return nil, "", newError(KindInputError, nil, "override %s is not a JSON object", path)
	}
	digest, err := binhash.HashFile(path)
	if err != nil {
		return nil, "", newError(KindIOError, err, "hash override %s", path)
	}
	return doc, binhash.FormatDigest(digest), nil
}

func saveState(opts Options, p *plan, patchedSHA string) error {
	state := &kbdstate.State{
		OriginalSHA: p.targetSHA,
		PatchedSHA:  patchedSHA,
		OverrideSHA: p.overrideSHA,
		Locale:      opts.Locale,
		Hits: []kbdstate.Hit{{
			HeaderOffset: uint64(p.offset),
			Capacity:     p.compressedLen,
			Signature:    p.signature,
		}},
	}
	return kbdstate.Save(opts.StatePath, state)
}

func classifyCompressError(err error) error {
	var tooSmall *binpatch.ErrPaddingTooSmall
	if errors.As(err, &tooSmall) {
		return newError(KindPaddingTooSmall, err, "padding too small")
	}
	var exceeded *binpatch.ErrCapacityExceeded
	if errors.As(err, &exceeded) {
		return newError(KindCapacityExceeded, err, "recompressed output exceeds capacity")
	}
	return newError(KindIOError, err, "compress transformed layout")
}

// classifyWriteError maps a WriteInPlace failure onto the right error
// kind: a validation failure (the write happened but the re-read check
// rejected it, and the region has already been rolled back) is tagged
// distinctly from a surrounding I/O failure (open/stat/backup/write/sync).
func classifyWriteError(err error, offset int) error {
	var validationErr *binpatch.ErrValidation
	if errors.As(err, &validationErr) {
		return newError(KindPostWriteValidation, err, "write failed at offset %d", offset)
	}
	return newError(KindIOError, err, "write failed at offset %d", offset)
}
