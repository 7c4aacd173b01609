package resolver

import (
	"io"
	"log/slog"

	"inkpress/internal/storage"
)

// File handles the shared file pool: listing images and saving uploads.
// The pool is global — no per-user scoping.
type File struct {
	files *storage.Local
}

// NewFile creates the file resolver over the given local store.
func NewFile(files *storage.Local) *File {
	return &File{files: files}
}

// List returns every allow-listed image in the upload directory.
func (r *File) List() Envelope {
	files, err := r.files.List()
	if err != nil {
		slog.Error("list files failed", "error", err)
		return fail("Bad request...!")
	}
	if files == nil {
		files = []storage.File{}
	}
	return ok("", files)
}

// Upload streams a file into the pool under its base filename (same-name
// uploads overwrite) and returns its public URL. For wide images a JPEG
// thumbnail is generated best-effort; a thumbnail failure never fails the
// upload.
func (r *File) Upload(filename string, src io.ReadSeeker) Envelope {
	name, url, err := r.files.Save(filename, src)
	if err != nil {
		slog.Error("upload failed", "filename", filename, "error", err)
		return fail("Can not upload file... Please try again!")
	}

	if storage.IsImage(name) {
		if _, err := src.Seek(0, io.SeekStart); err == nil {
			thumb, err := storage.GenerateThumbnail(src, storage.ThumbMaxWidth)
			if err != nil {
				slog.Warn("thumbnail generation failed", "filename", name, "error", err)
			} else if thumb != nil {
				if err := r.files.SaveThumb(name, thumb); err != nil {
					slog.Warn("thumbnail save failed", "filename", name, "error", err)
				}
			}
		}
	}

	return ok("Upload file successfully!", url)
}
