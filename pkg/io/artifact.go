// Package io persists rendered artifacts.
//
// Artifact writes are atomic from the reader's perspective: bytes go to a
// uniquely named temp file in the destination directory and the file is
// renamed into place afterward. A concurrent reader of the output path either
// sees the previous content or the complete new artifact, never a partial
// write. This matters when many inputs are batch-processed into the same
// directory.
package io

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/lheinlen/opinionmap/pkg/errors"
)

// WriteArtifact writes data to path atomically.
func WriteArtifact(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "rename into %s", path)
	}
	return nil
}

// ShowArtifact writes data to a temp file and hands it to the platform's
// file opener for interactive display. Used when no output path is supplied.
func ShowArtifact(data []byte, ext string) error {
	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("opinionmap-%s%s", uuid.NewString(), ext))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", tmp)
	}

	opener, err := findOpener()
	if err != nil {
		return err
	}
	if err := exec.Command(opener, tmp).Start(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "open %s", tmp)
	}
	return nil
}

// findOpener locates the platform's default file opener.
func findOpener() (string, error) {
	for _, candidate := range []string{"xdg-open", "open"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", errors.New(errors.ErrCodeInternal,
		"no file opener found for interactive display; pass an output path instead")
}
