package resolver

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"inkpress/internal/storage"
)

func TestFileListEmptyDirectory(t *testing.T) {
	r := NewFile(storage.NewLocal(t.TempDir(), "http://localhost:8080/public"))

	env := r.List()
	if !env.Success {
		t.Fatalf("List = %+v", env)
	}
	files, found := env.Data.([]storage.File)
	if !found {
		t.Fatalf("data = %T", env.Data)
	}
	if len(files) != 0 {
		t.Fatalf("files = %+v, want empty", files)
	}
}

func TestFileListMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	r := NewFile(storage.NewLocal(dir, "http://localhost:8080/public"))

	env := r.List()
	if env.Success {
		t.Fatalf("List = %+v, want failure", env)
	}
	if env.Msg != "Bad request...!" {
		t.Fatalf("msg = %q", env.Msg)
	}
}

func TestFileUploadAndList(t *testing.T) {
	r := NewFile(storage.NewLocal(t.TempDir(), "http://localhost:8080/public"))

	env := r.Upload("photo.png", bytes.NewReader([]byte("not really a png")))
	if !env.Success {
		t.Fatalf("Upload = %+v", env)
	}
	if env.Msg != "Upload file successfully!" {
		t.Fatalf("msg = %q", env.Msg)
	}
	url, found := env.Data.(string)
	if !found || !strings.HasSuffix(url, "/photo.png") {
		t.Fatalf("data = %v", env.Data)
	}

	// Garbage bytes cannot be thumbnailed; the upload must still land.
	list := r.List()
	if !list.Success {
		t.Fatalf("List = %+v", list)
	}
	files := list.Data.([]storage.File)
	if len(files) != 1 || files[0].Name != "photo" {
		t.Fatalf("files = %+v", files)
	}
}

func TestFileUploadStripsPath(t *testing.T) {
	dir := t.TempDir()
	r := NewFile(storage.NewLocal(dir, "http://localhost:8080/public"))

	env := r.Upload("../../etc/evil.png", bytes.NewReader([]byte("x")))
	if !env.Success {
		t.Fatalf("Upload = %+v", env)
	}
	url := env.Data.(string)
	if !strings.HasSuffix(url, "/evil.png") {
		t.Fatalf("url = %q, want the base name only", url)
	}
}
