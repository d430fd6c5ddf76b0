// Package assemble produces the deterministic pack
// tree (copy or symlink), applying ignore patterns, and generating
// helptags, with an atomic rename-into-place swap.
package assemble

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// commitTimestamp returns the Unix timestamp of the HEAD commit in dir,
// used to stamp copied files for reproducibility.
func commitTimestamp(ctx context.Context, dir string) (time.Time, error) {
	cmd := exec.CommandContext(ctx, "git", "log", "-1", "--format=%ct")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return time.Time{}, zerr.With(zerr.Wrap(err, "read commit timestamp"), "dir", dir)
	}
	sec, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return time.Time{}, zerr.With(zerr.Wrap(err, "parse commit timestamp"), "dir", dir)
	}
	return time.Unix(sec, 0), nil
}

// copyFile copies src to dst byte-exact, creating parent directories,
// and stamps dst's mtime to ts.
func copyFile(src, dst string, ts time.Time) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "create pack directory"), "dir", filepath.Dir(dst))
	}

	in, err := os.Open(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "open source file"), "path", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "create pack file"), "path", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "copy file content"), "src", src), "dst", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "close pack file"), "path", dst)
	}
	if !ts.IsZero() {
		_ = os.Chtimes(dst, ts, ts)
	}
	return nil
}

// symlinkFile creates dst as a relative symlink pointing at src.
func symlinkFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "create pack directory"), "dir", filepath.Dir(dst))
	}
	rel, err := filepath.Rel(filepath.Dir(dst), src)
	if err != nil {
		rel = src
	}
	_ = os.Remove(dst)
	if err := os.Symlink(rel, dst); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "symlink pack file"), "src", src), "dst", dst)
	}
	return nil
}
