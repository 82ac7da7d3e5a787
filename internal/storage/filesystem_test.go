package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreWrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	key, err := store.Write(context.Background(), "gen-1/video.mp4", []byte("payload"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if key != "gen-1/video.mp4" {
		t.Fatalf("key = %q, want gen-1/video.mp4", key)
	}

	data, err := os.ReadFile(filepath.Join(store.BasePath(), "gen-1", "video.mp4"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("content = %q, want payload", data)
	}
}

func TestFileStoreWriteJSON(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	type artifact struct {
		Title string  `json:"title"`
		Score float64 `json:"score"`
	}
	if _, err := store.WriteJSON(context.Background(), "gen-2/qa_output.json", artifact{Title: "Eternal Light", Score: 9.5}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(store.BasePath(), "gen-2", "qa_output.json"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got artifact
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Title != "Eternal Light" || got.Score != 9.5 {
		t.Fatalf("got = %+v", got)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	for _, key := range []string{"", "../escape.txt", "a/../../escape.txt", "."} {
		if _, err := store.Write(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("Write(%q) = nil, want error", key)
		}
	}
}

func TestSanitizeKeyNormalizes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/leading/slash.txt", "leading/slash.txt"},
		{"./dotted/path.json", "dotted/path.json"},
		{"a//b.txt", "a/b.txt"},
		{"a\\b\\c.txt", "a/b/c.txt"},
	}
	for _, tc := range cases {
		got, err := sanitizeKey(tc.in)
		if err != nil {
			t.Fatalf("sanitizeKey(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("sanitizeKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewFileStoreRequiresPath(t *testing.T) {
	if _, err := NewFileStore("  "); err == nil {
		t.Fatal("NewFileStore() = nil, want error for empty path")
	}
}
