package storage

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLocalStore_SaveOpenRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	id, err := store.Save("syllabus.pdf", strings.NewReader("course outline"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "syllabus.pdf" {
		t.Fatal("asset ID must not collide with the raw filename")
	}

	content, filename, err := store.Open(id)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer content.Close()

	data, err := io.ReadAll(content)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "course outline" {
		t.Fatalf("content = %q", data)
	}
	if filename != "syllabus.pdf" {
		t.Fatalf("original filename = %q, want syllabus.pdf", filename)
	}
}

func TestLocalStore_UniqueIDsForSameName(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	first, err := store.Save("notes.txt", strings.NewReader("v1"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := store.Save("notes.txt", strings.NewReader("v2"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first == second {
		t.Fatal("same filename must yield distinct asset IDs")
	}
}

func TestLocalStore_RejectsPathTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	for _, id := range []string{"../etc/passwd", "a/../../b", "", "sub/child"} {
		if _, _, err := store.Open(id); !errors.Is(err, ErrAssetNotFound) {
			t.Fatalf("id %q should be rejected, got %v", id, err)
		}
	}
}

func TestLocalStore_DeleteRemovesAsset(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	id, err := store.Save("drop.txt", strings.NewReader("bye"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := store.Open(id); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound after delete, got %v", err)
	}
	if err := store.Delete(id); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("double delete should report ErrAssetNotFound, got %v", err)
	}
}
