package scans

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCheckID = "2e9b0c51-8c44-4b0f-9b57-3f2d8a1c6e70"

func TestSaveAndOpen(t *testing.T) {
	store := NewStore(t.TempDir())
	ctx := context.Background()

	path, err := store.Save(ctx, testCheckID, "passport.pdf", strings.NewReader("scan bytes"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if path != filepath.Join(testCheckID, "passport.pdf") {
		t.Fatalf("unexpected storage path %q", path)
	}

	reader, err := store.Open(ctx, path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer reader.Close()
	content, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(content) != "scan bytes" {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestSaveSanitizesFilename(t *testing.T) {
	store := NewStore(t.TempDir())

	path, err := store.Save(context.Background(), testCheckID, "../../etc/passwd", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if path != filepath.Join(testCheckID, "passwd") {
		t.Fatalf("traversal not stripped, got %q", path)
	}
}

func TestSaveRejectsInvalidCheckID(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Save(context.Background(), "not-a-uuid", "a.pdf", strings.NewReader("x"))
	if !errors.Is(err, ErrInvalidCheckID) {
		t.Fatalf("expected ErrInvalidCheckID, got %v", err)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, err := store.Open(context.Background(), "../outside"); err == nil {
		t.Fatal("expected traversal to be rejected")
	}
	if _, err := store.Open(context.Background(), "/etc/passwd"); err == nil {
		t.Fatal("expected absolute path to be rejected")
	}
}

func TestDeleteAllForCheck(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)
	ctx := context.Background()

	if _, err := store.Save(ctx, testCheckID, "a.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := store.Save(ctx, testCheckID, "b.pdf", strings.NewReader("y")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := store.DeleteAllForCheck(ctx, testCheckID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, testCheckID)); !os.IsNotExist(err) {
		t.Fatalf("scan directory still present: %v", err)
	}

	// Deleting again must succeed.
	if err := store.DeleteAllForCheck(ctx, testCheckID); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
}
