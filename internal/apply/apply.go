package apply

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

const defaultMode fs.FileMode = 0o644

// Options controls how output files are written.
// BackupSuffix is used only when Backup is true; if empty, ".bak" is used.
// A backup is only made when the destination already exists.
// Writes are done to a temp file in the same directory and then atomically renamed.
// An existing destination keeps its permissions; new files get 0644.
type Options struct {
	Backup       bool
	BackupSuffix string
}

// EnsureDir makes sure dir exists as a directory, creating a single level
// when it is missing. It reports whether the directory was created.
func EnsureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return false, errors.Errorf("apply: %s exists and is not a directory", dir)
		}
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, errors.Wrapf(err, "apply: stat %s", dir)
	}

	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return false, errors.Wrapf(err, "apply: no permission to create %s", dir)
		}
		return false, errors.Wrapf(err, "apply: create %s", dir)
	}
	return true, nil
}

// WriteAtomic writes data to path safely:
//  1. stat the destination, if any (mode is preserved)
//  2. optionally back up an existing destination (unique name)
//  3. write to a temp file in the same dir, fsync, close
//  4. atomic rename over the destination
//  5. fsync the parent directory (best-effort)
func WriteAtomic(path string, data []byte, opts Options) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	// 1) stat destination
	mode := defaultMode
	exists := false
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.Mode().IsRegular() {
			return errors.Errorf("apply: %s is not a regular file", path)
		}
		mode = info.Mode().Perm()
		exists = true
	case !errors.Is(err, fs.ErrNotExist):
		return errors.Wrap(err, "apply: stat")
	}

	// 2) optional backup
	if opts.Backup && exists {
		bak := opts.BackupSuffix
		if bak == "" {
			bak = ".bak"
		}
		backupPath, berr := uniqueBackupPath(dir, base, bak)
		if berr != nil {
			return berr
		}
		if err := copyFile(path, backupPath, mode); err != nil {
			return errors.Wrap(err, "apply: backup")
		}
	}

	// 3) write temp in same dir
	tf, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "apply: temp")
	}
	renamed := false
	defer func(name string) {
		if !renamed {
			_ = os.Remove(name)
		}
	}(tf.Name())
	if _, err := tf.Write(data); err != nil {
		_ = tf.Close()
		return errors.Wrap(err, "apply: write temp")
	}
	if err := tf.Chmod(mode); err != nil {
		_ = tf.Close()
		return errors.Wrap(err, "apply: chmod temp")
	}
	if err := tf.Sync(); err != nil {
		_ = tf.Close()
		return errors.Wrap(err, "apply: fsync temp")
	}
	if err := tf.Close(); err != nil {
		return errors.Wrap(err, "apply: close temp")
	}

	// 4) atomic replace
	if err := os.Rename(tf.Name(), path); err != nil {
		return errors.Wrap(err, "apply: rename")
	}
	renamed = true

	// 5) fsync parent dir (best effort; may not work on Windows)
	_ = syncDir(dir)

	return nil
}

func uniqueBackupPath(dir, base, suffix string) (string, error) {
	cand := filepath.Join(dir, base+suffix)
	if _, err := os.Lstat(cand); os.IsNotExist(err) {
		return cand, nil
	}
	for i := 1; i < 1000; i++ {
		p := filepath.Join(dir, base+suffix+"."+strconv.Itoa(i))
		if _, err := os.Lstat(p); os.IsNotExist(err) {
			return p, nil
		}
	}
	return "", errors.Errorf("apply: backup: too many existing backups for %s", base)
}

func copyFile(src, dst string, mode os.FileMode) error {
	r, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()
	w, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	if _, err := io.Copy(w, r); err != nil {
		return err
	}
	return w.Sync()
}

func syncDir(dir string) error {
	df, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer func() { _ = df.Close() }()
	return df.Sync()
}
