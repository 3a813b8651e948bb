package storage

import (
	"errors"
	"testing"

	"github.com/edustack/lms-service/internal/models"
)

func TestValidateUpload(t *testing.T) {
	store := &BlobStore{maxSize: 1 << 20}

	tests := []struct {
		name     string
		filename string
		size     int64
		category models.UploadCategory
		wantExt  string
		wantErr  error
	}{
		{"pdf document", "syllabus.pdf", 1024, models.UploadCategoryDocument, ".pdf", nil},
		{"uppercase extension", "NOTES.PDF", 1024, models.UploadCategoryDocument, ".pdf", nil},
		{"png image", "diagram.png", 2048, models.UploadCategoryImage, ".png", nil},
		{"zip archive", "homework.zip", 512, models.UploadCategoryArchive, ".zip", nil},
		{"image in document category", "diagram.png", 1024, models.UploadCategoryDocument, "", ErrUnsupportedFileType},
		{"executable rejected", "payload.exe", 1024, models.UploadCategoryDocument, "", ErrUnsupportedFileType},
		{"no extension", "README", 1024, models.UploadCategoryDocument, "", ErrUnsupportedFileType},
		{"over size cap", "big.pdf", 1<<20 + 1, models.UploadCategoryDocument, "", ErrFileTooLarge},
		{"at size cap", "exact.pdf", 1 << 20, models.UploadCategoryDocument, ".pdf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := store.ValidateUpload(tt.filename, tt.size, tt.category)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if ext != tt.wantExt {
				t.Errorf("ext = %q, want %q", ext, tt.wantExt)
			}
		})
	}
}

func TestObjectURL(t *testing.T) {
	t.Run("default endpoint", func(t *testing.T) {
		store := &BlobStore{bucket: "lms-files"}
		got := store.objectURL("document/u1/abc.pdf")
		want := "https://lms-files.s3.amazonaws.com/document/u1/abc.pdf"
		if got != want {
			t.Errorf("url = %s, want %s", got, want)
		}
	})

	t.Run("custom endpoint", func(t *testing.T) {
		store := &BlobStore{bucket: "lms-files", endpoint: "http://localhost:9000/"}
		got := store.objectURL("image/u1/abc.png")
		want := "http://localhost:9000/lms-files/image/u1/abc.png"
		if got != want {
			t.Errorf("url = %s, want %s", got, want)
		}
	})
}
