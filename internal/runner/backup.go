package runner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// BackupTargets copies each target into a fresh timestamped directory under
// root and returns that directory. Copies are best-effort: a target that
// cannot be read or copied is skipped without failing the backup.
func BackupTargets(root string, targets []string) (string, error) {
	dir := filepath.Join(root, time.Now().Format("20060102-150405"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	for _, target := range targets {
		dest := filepath.Join(dir, filepath.Base(target))
		_ = copyPath(target, dest)
	}

	return dir, nil
}

// copyPath copies a file or directory tree from src to dest.
func copyPath(src, dest string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.IsDir():
		return copyDir(src, dest)
	case info.Mode().IsRegular():
		return copyFile(src, dest, info.Mode())
	default:
		// Symlinks, devices and the like are not worth preserving in a
		// pre-deletion safety copy.
		return nil
	}
}

func copyDir(src, dest string) error {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dest, entry.Name())
		_ = copyPath(from, to)
	}

	return nil
}

func copyFile(src, dest string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
