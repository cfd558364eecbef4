// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// rm-xochitl-kbdpatch locates the on-screen-keyboard layout resource
// embedded in the xochitl binary, identifies it by locale signature,
// applies an override key mapping, and recompresses it back into its
// exact original byte range in place.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/Sterny99/remarkable-2-language-mod/lib/patcher"
	"github.com/Sterny99/remarkable-2-language-mod/lib/process"
	"github.com/Sterny99/remarkable-2-language-mod/lib/version"
)

const defaultTarget = "/usr/bin/xochitl"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println(version.Info())
		return 0
	}

	var (
		locale         string
		jsonPath       string
		targetPath     string
		checkMode      bool
		verbose        bool
		statePath      string
		backupPath     string
		force          bool
		maxDecodedSize int
	)

	flagSet := pflag.NewFlagSet("rm-xochitl-kbdpatch", pflag.ContinueOnError)
	flagSet.StringVar(&locale, "locale", "", "target locale (currently only de_DE)")
	flagSet.StringVar(&jsonPath, "json", "", "path to the override layout JSON")
	flagSet.StringVar(&targetPath, "target", defaultTarget, "path to the binary to patch")
	flagSet.BoolVar(&checkMode, "check", false, "report whether a patch is needed without writing")
	flagSet.BoolVar(&verbose, "verbose", false, "emit diagnostic log lines")
	flagSet.StringVar(&statePath, "state", "", "idempotence state cache path (default: <target-dir>/.rm-xochitl-kbdpatch-state)")
	flagSet.StringVar(&backupPath, "backup", "", "backup file path (default: <target>.orig)")
	flagSet.BoolVar(&force, "force", false, "ignore the state cache and rescan the target")
	flagSet.IntVar(&maxDecodedSize, "max-decoded-size", 8*1024*1024, "safety cap on decompressed frame size, in bytes")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return 0
		}
		process.Fatal(err)
		return 1
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return 0
	}

	if locale == "" || jsonPath == "" {
		fmt.Fprintln(os.Stderr, "error: --locale and --json are required")
		printHelp(flagSet)
		return 1
	}
	if args := flagSet.Args(); len(args) > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected argument: %s\n", args[0])
		return 1
	}

	if statePath == "" {
		statePath = filepath.Join(filepath.Dir(targetPath), ".rm-xochitl-kbdpatch-state")
	}
	if backupPath == "" {
		backupPath = targetPath + ".orig"
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := patcher.Options{
		Locale:         locale,
		OverridePath:   jsonPath,
		TargetPath:     targetPath,
		StatePath:      statePath,
		BackupPath:     backupPath,
		Force:          force,
		MaxDecodedSize: maxDecodedSize,
		Logger:         logger,
	}

	if checkMode {
		return runCheck(opts, logger)
	}
	return runApply(opts, logger)
}

func runCheck(opts patcher.Options, logger *slog.Logger) int {
	outcome, err := patcher.Check(opts)
	if err != nil {
		logger.Error("check failed", "err", err)
		return 1
	}
	if outcome.Changed {
		logger.Info("patch needed", "offset", outcome.Offset)
		return 2
	}
	logger.Info("already patched", "offset", outcome.Offset)
	return 0
}

func runApply(opts patcher.Options, logger *slog.Logger) int {
	outcome, err := patcher.Apply(opts)
	if err != nil {
		var patchErr *patcher.Error
		if errors.As(err, &patchErr) {
			logger.Error("apply failed", "kind", patchErr.Kind, "err", patchErr)
		} else {
			logger.Error("apply failed", "err", err)
		}
		return 1
	}

	if outcome.Changed {
		logger.Info("PATCHED OK", "offset", outcome.Offset, "compressed_len", outcome.CompressedLen, "level", outcome.Level, "sha256", outcome.PatchedSHA)
	} else {
		logger.Info("already patched, nothing to do", "offset", outcome.Offset, "sha256", outcome.PatchedSHA)
	}
	fmt.Println(outcome.PatchedSHA)
	return 0
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `rm-xochitl-kbdpatch — patch the xochitl on-screen-keyboard layout in place.

Usage:
  rm-xochitl-kbdpatch --locale <LOCALE> --json <PATH> [flags]

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
