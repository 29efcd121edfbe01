package spool

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestNewArenaCreatesRoot(t *testing.T) {
	dir := t.TempDir()
	a, err := NewArena(context.Background(), dir, "scratch")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if _, err := os.Stat(filepath.Join(dir, "scratch")); err != nil {
		t.Fatalf("arena root not created: %v", err)
	}
}

func TestArenaCloseRemovesRoot(t *testing.T) {
	dir := t.TempDir()
	a, err := NewArena(context.Background(), dir, "scratch")
	if err != nil {
		t.Fatal(err)
	}
	root := filepath.Join(dir, "scratch")

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("arena root still exists after Close: %v", err)
	}
}

func TestArenaNewDirAndFile(t *testing.T) {
	ctx := context.Background()
	a, err := NewArena(ctx, t.TempDir(), "scratch")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	d, err := a.NewDir(ctx, "work-*")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(d.Name()); err != nil {
		t.Fatalf("dir not created: %v", err)
	}

	f, err := a.NewFile(ctx, "out.txt")
	if err != nil {
		t.Fatal(err)
	}
	const want = "testing"
	if _, err := io.WriteString(f, want); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, len(want))
	if _, err := f.ReadAt(got, 0); err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Fatalf("ReadAt = %q, want %q", got, want)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(f.Name()); !os.IsNotExist(err) {
		t.Fatalf("file still exists after Close: %v", err)
	}
}

func TestArenaNewSpoolIsUnlinked(t *testing.T) {
	ctx := context.Background()
	a, err := NewArena(ctx, t.TempDir(), "scratch")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	f, err := a.NewSpool(ctx, "spool-*")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := os.Stat(f.Name()); !os.IsNotExist(err) {
		t.Fatalf("NewSpool file should already be unlinked, stat err = %v", err)
	}
}

func TestFileReopenIsIndependentDescriptor(t *testing.T) {
	ctx := context.Background()
	a, err := NewArena(ctx, t.TempDir(), "scratch")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	f1, err := a.NewFile(ctx, "reopen.txt")
	if err != nil {
		t.Fatal(err)
	}
	defer f1.Close()

	f2, err := f1.Reopen()
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()

	if _, err := f1.Write(bytes.Repeat([]byte{'x'}, 64)); err != nil {
		t.Fatal(err)
	}
	off1, err := f1.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatal(err)
	}
	off2, err := f2.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatal(err)
	}
	if off1 != 64 || off2 != 0 {
		t.Fatalf("descriptors not independent: f1=%d f2=%d", off1, off2)
	}

	b1, b2 := make([]byte, 32), make([]byte, 32)
	if _, err := f1.ReadAt(b1, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := f2.ReadAt(b2, 0); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b1, b2) {
		t.Fatalf("reopened file has different backing data")
	}
}

func TestArenaSubIsTrackedAndClosed(t *testing.T) {
	ctx := context.Background()
	a, err := NewArena(ctx, t.TempDir(), "scratch")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	sub, err := a.Sub(ctx, "nested")
	if err != nil {
		t.Fatal(err)
	}
	subRoot := sub.root

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(subRoot); !os.IsNotExist(err) {
		t.Fatalf("sub-arena root still exists after parent Close: %v", err)
	}
}
