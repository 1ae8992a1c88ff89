package apply

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestEnsureDir_Creates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "converted")
	created, err := EnsureDir(dir)
	if err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("dir not created: %v", err)
	}
}

func TestEnsureDir_Exists(t *testing.T) {
	dir := t.TempDir()
	created, err := EnsureDir(dir)
	if err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for existing dir")
	}
}

func TestEnsureDir_SingleLevelOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if _, err := EnsureDir(dir); err == nil {
		t.Fatalf("expected error when parent is missing")
	}
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	p := filepath.Join(t.TempDir(), "converted")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	_, err := EnsureDir(p)
	if err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Fatalf("expected not-a-directory error, got %v", err)
	}
}

func TestEnsureDir_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission semantics differ here")
	}
	parent := t.TempDir()
	if err := os.Chmod(parent, 0o500); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(parent, 0o700) })
	_, err := EnsureDir(filepath.Join(parent, "converted"))
	if err == nil || !strings.Contains(err.Error(), "permission") {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestWriteAtomic_CreatesNew(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "walk.jma")
	if err := WriteAtomic(p, []byte("hello"), Options{Backup: true}); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	got, _ := os.ReadFile(p)
	if string(got) != "hello" {
		t.Fatalf("unexpected content: %q", got)
	}
	if _, err := os.Stat(p + ".bak"); !os.IsNotExist(err) {
		t.Fatalf("no backup expected for a new file, stat err=%v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %v", entries)
	}
}

func TestWriteAtomic_Replaces(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.jma")
	if err := os.WriteFile(p, []byte("hello"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := WriteAtomic(p, []byte("world"), Options{}); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	got, _ := os.ReadFile(p)
	if string(got) != "world" {
		t.Fatalf("unexpected content: %q", got)
	}
	if runtime.GOOS != "windows" {
		info, _ := os.Stat(p)
		if info.Mode().Perm() != 0o600 {
			t.Fatalf("mode not preserved: %v", info.Mode())
		}
	}
}

func TestWriteAtomic_Backup(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.jma")
	if err := os.WriteFile(p, []byte("orig"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := WriteAtomic(p, []byte("new"), Options{Backup: true}); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	got, _ := os.ReadFile(p)
	if string(got) != "new" {
		t.Fatalf("unexpected content: %q", got)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a.jma.bak"))
	if err != nil {
		t.Fatalf("expected backup: %v", err)
	}
	if string(data) != "orig" {
		t.Fatalf("unexpected backup content: %q", data)
	}
}

func TestWriteAtomic_BackupUnique(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.jma")
	if err := os.WriteFile(p, []byte("first"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	_ = os.WriteFile(filepath.Join(dir, "a.jma.bak"), []byte("x"), 0o644)

	if err := WriteAtomic(p, []byte("second"), Options{Backup: true, BackupSuffix: ".bak"}); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.jma.bak.1")); err != nil {
		t.Fatalf("expected unique backup: %v", err)
	}
}

func TestWriteAtomic_MissingDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing", "a.jma")
	err := WriteAtomic(p, []byte("x"), Options{})
	if err == nil || !strings.Contains(err.Error(), "temp") {
		t.Fatalf("expected temp error, got %v", err)
	}
}

func TestWriteAtomic_DestinationIsDir(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.jma")
	if err := os.Mkdir(p, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := WriteAtomic(p, []byte("x"), Options{}); err == nil {
		t.Fatalf("expected error when destination is a directory")
	}
}
