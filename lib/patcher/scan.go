// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package patcher

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/Sterny99/remarkable-2-language-mod/lib/oskjson"
	"github.com/Sterny99/remarkable-2-language-mod/lib/zstdframe"
)

// candidate is a scanned offset that decoded and parsed to a JSON
// object: exactly the shape layout.Identify needs to score.
type candidate struct {
	Offset        int
	CompressedLen int
	Doc           *oskjson.Value
}

// scanAndDecode finds every standard-frame offset in data, decodes and
// parses each one concurrently across a worker pool bounded by
// GOMAXPROCS, and returns only the candidates that produced a parseable
// JSON document. Skippable frames and frames that fail to decode,
// exceed maxDecodedSize, or aren't valid JSON are dropped silently —
// spec.md requires the identifier never consider them, not that their
// failure be reported.
func scanAndDecode(data []byte, maxDecodedSize int, logger *slog.Logger) []candidate {
	scanned := zstdframe.Scan(data)

	var standardOffsets []int
	for _, c := range scanned {
		if c.Kind == zstdframe.Standard {
			standardOffsets = append(standardOffsets, c.Offset)
		}
	}
	logger.Debug("scan complete", "standard_frames", len(standardOffsets), "total_candidates", len(scanned))

	results := make([]*candidate, len(standardOffsets))
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup

	for i, offset := range standardOffsets {
		wg.Add(1)
		sem <- struct{}{}
		go func(i, offset int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = decodeOne(data, offset, maxDecodedSize, logger)
		}(i, offset)
	}
	wg.Wait()

	var out []candidate
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func decodeOne(data []byte, offset, maxDecodedSize int, logger *slog.Logger) *candidate {
	decoded, err := zstdframe.Decode(data, offset, maxDecodedSize)
	if err != nil {
		logger.Debug("candidate rejected at decode", "offset", offset, "err", err)
		return nil
	}

	doc, err := oskjson.Parse(decoded.JSON)
	if err != nil {
		logger.Debug("candidate rejected at parse", "offset", offset, "err", err)
		return nil
	}

	logger.Debug("candidate decoded", "offset", offset, "compressed_len", decoded.CompressedLen)
	return &candidate{Offset: offset, CompressedLen: decoded.CompressedLen, Doc: doc}
}
