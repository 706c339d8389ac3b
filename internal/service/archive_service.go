package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// ErrNoFiles is returned when a compression request carries no files
var ErrNoFiles = errors.New("no files to compress")

// ArchiveEntry is one file to include in the archive
type ArchiveEntry struct {
	Name string
	Data io.Reader
}

// Archive is the produced zip plus the metadata the handler needs to
// serve a download.
type Archive struct {
	Data           []byte
	Filename       string
	ContentType    string
	FileCount      int
	OriginalSize   int64
	CompressedSize int64
}

// ArchiveService implements the file compressor
type ArchiveService struct {
	logger *zap.Logger
}

// NewArchiveService creates a new ArchiveService instance
func NewArchiveService(logger *zap.Logger) *ArchiveService {
	return &ArchiveService{logger: logger}
}

// Compress bundles the given files into a deflate-compressed zip archive
// with a timestamped download filename.
func (s *ArchiveService) Compress(ctx context.Context, entries []ArchiveEntry) (*Archive, error) {
	if len(entries) == 0 {
		return nil, ErrNoFiles
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var originalSize int64
	seen := make(map[string]int)

	for _, entry := range entries {
		name := filepath.Base(entry.Name)
		if name == "" || name == "." || name == string(filepath.Separator) {
			name = "file"
		}

		// Duplicate names get a numeric suffix so no entry is lost
		if n := seen[name]; n > 0 {
			ext := filepath.Ext(name)
			name = fmt.Sprintf("%s-%d%s", name[:len(name)-len(ext)], n, ext)
		}
		seen[filepath.Base(entry.Name)]++

		header := &zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: time.Now().UTC(),
		}

		w, err := zw.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("failed to add archive entry: %w", err)
		}

		written, err := io.Copy(w, entry.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to write archive entry %q: %w", name, err)
		}
		originalSize += written
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	archive := &Archive{
		Data:           buf.Bytes(),
		Filename:       fmt.Sprintf("archive-%s.zip", time.Now().UTC().Format("20060102-150405")),
		ContentType:    "application/zip",
		FileCount:      len(entries),
		OriginalSize:   originalSize,
		CompressedSize: int64(buf.Len()),
	}

	s.logger.Info("archive created",
		zap.Int("files", archive.FileCount),
		zap.Int64("originalSize", archive.OriginalSize),
		zap.Int64("compressedSize", archive.CompressedSize),
	)

	return archive, nil
}
