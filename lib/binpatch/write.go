// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binpatch

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Sterny99/remarkable-2-language-mod/lib/oskjson"
	"github.com/Sterny99/remarkable-2-language-mod/lib/zstdframe"
)

// ElfMagic is the four-byte header every ELF executable starts with.
// WriteInPlace's post-write validation refuses to leave a target file
// whose header no longer reads as ELF.
var ElfMagic = []byte{0x7F, 'E', 'L', 'F'}

// ErrIO reports a failure in one of WriteInPlace's surrounding I/O
// steps (open, stat, backup, write, sync) as distinct from a
// post-write validation failure — the two need different error-kind
// tags upstream.
type ErrIO struct {
	Op  string
	Err error
}

func (e *ErrIO) Error() string { return fmt.Sprintf("binpatch: %s: %v", e.Op, e.Err) }
func (e *ErrIO) Unwrap() error { return e.Err }

// ErrValidation reports that WriteInPlace wrote frame but the
// subsequent re-read validation failed; the region has already been
// rolled back to its pre-write content by the time this is returned.
type ErrValidation struct {
	Err error
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("binpatch: post-write validation failed, rolled back: %v", e.Err)
}
func (e *ErrValidation) Unwrap() error { return e.Err }

// WriteInPlace rewrites targetPath's byte range [offset, offset+len(frame))
// with frame, in a fixed order: back up the entire target file to
// backupPath (skipped if a backup already exists there — the backup is
// meant to be the pristine pre-patch original, not a snapshot of every
// run), write frame at offset, sync, re-read and validate the write.
// If the write, the sync or the validation fails, the region's
// pre-write bytes (read into memory just before the write) are written
// back; the backup file is not copied back over the target. On success
// the file's length
// and every byte outside the rewritten range are unchanged. wantJSON is
// the exact decoded document the rewritten frame must decompress back
// to — it drives step (a) of post-write validation.
func WriteInPlace(targetPath string, offset int, frame []byte, wantJSON []byte, backupPath string) error {
	if err := ensureBackup(targetPath, backupPath); err != nil {
		return &ErrIO{Op: "backup target", Err: err}
	}

	file, err := os.OpenFile(targetPath, os.O_RDWR, 0)
	if err != nil {
		return &ErrIO{Op: "open target", Err: err}
	}
	defer file.Close()

	fileLenBefore, err := fileSize(file)
	if err != nil {
		return &ErrIO{Op: "stat target", Err: err}
	}

	original := make([]byte, len(frame))
	if _, err := file.ReadAt(original, int64(offset)); err != nil {
		return &ErrIO{Op: "read original region", Err: err}
	}

	if _, err := file.WriteAt(frame, int64(offset)); err != nil {
		restore(file, offset, original)
		return &ErrIO{Op: "write frame", Err: err}
	}
	if err := file.Sync(); err != nil {
		restore(file, offset, original)
		return &ErrIO{Op: "sync", Err: err}
	}

	if err := validate(file, offset, frame, wantJSON, fileLenBefore); err != nil {
		restore(file, offset, original)
		return &ErrValidation{Err: err}
	}

	return nil
}

// ensureBackup copies the entire target file to backupPath, unless a
// backup already exists there: the backup is the pristine original, so
// a second run (e.g. after editing the override and re-applying) must
// never overwrite it with an already-patched copy.
func ensureBackup(targetPath, backupPath string) error {
	if _, err := os.Stat(backupPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat backup: %w", err)
	}

	src, err := os.Open(targetPath)
	if err != nil {
		return fmt.Errorf("open target: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copy target to backup: %w", err)
	}
	return dst.Close()
}

// validate re-reads the patched region and the file's ELF header and
// checks every condition spec.md's post-write validation requires.
func validate(file *os.File, offset int, frame []byte, wantJSON []byte, fileLenBefore int64) error {
	fileLenAfter, err := fileSize(file)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if fileLenAfter != fileLenBefore {
		return fmt.Errorf("file length changed: %d -> %d", fileLenBefore, fileLenAfter)
	}

	header := make([]byte, 4)
	if _, err := file.ReadAt(header, 0); err != nil {
		return fmt.Errorf("read ELF header: %w", err)
	}
	if !bytes.Equal(header, ElfMagic) {
		return fmt.Errorf("ELF magic corrupted: got %x", header)
	}

	readBack := make([]byte, len(frame))
	if _, err := file.ReadAt(readBack, int64(offset)); err != nil {
		return fmt.Errorf("read patched region: %w", err)
	}
	if !bytes.Equal(readBack, frame) {
		return fmt.Errorf("patched region does not match what was written")
	}

	decoded, err := zstdframe.Decode(readBack, 0, len(wantJSON)+4096)
	if err != nil {
		return fmt.Errorf("decode patched frame: %w", err)
	}

	got, err := oskjson.Parse(decoded.JSON)
	if err != nil {
		return fmt.Errorf("parse decoded JSON: %w", err)
	}
	want, err := oskjson.Parse(wantJSON)
	if err != nil {
		return fmt.Errorf("parse expected JSON: %w", err)
	}
	gotBytes, err := oskjson.Marshal(got)
	if err != nil {
		return fmt.Errorf("marshal decoded JSON: %w", err)
	}
	wantBytes, err := oskjson.Marshal(want)
	if err != nil {
		return fmt.Errorf("marshal expected JSON: %w", err)
	}
	if !bytes.Equal(gotBytes, wantBytes) {
		return fmt.Errorf("decompressed JSON does not match the intended content")
	}

	slack := len(frame) - decoded.CompressedLen
	if slack != 0 {
		if slack < 8 {
			return fmt.Errorf("trailing slack %d is smaller than a skippable frame header", slack)
		}
		padding := readBack[decoded.CompressedLen:]
		expected, err := zstdframe.EncodeSkippableFrame(slack)
		if err != nil {
			return fmt.Errorf("rebuild expected padding: %w", err)
		}
		if !bytes.Equal(padding, expected) {
			return fmt.Errorf("trailing padding is not the expected skippable frame")
		}
	}

	return nil
}

// restore writes original back over offset, best-effort: errors from
// the write and the sync are ignored and not reported to the caller.
// The on-disk backup file is left in place as a last resort.
func restore(file *os.File, offset int, original []byte) {
	_, _ = file.WriteAt(original, int64(offset))
	_ = file.Sync()
}

func fileSize(file *os.File) (int64, error) {
	info, err := file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
