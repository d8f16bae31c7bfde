// Package archive reads exported conversation archives: the .zip file
// produced by the export, an extracted copy of it, or a bare
// conversations.json file.
package archive

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driven"
	"github.com/custodia-labs/chatsift/internal/logger"
)

// Ensure Reader implements the interface.
var _ driven.ArchiveReader = (*Reader)(nil)

// ConversationsFile is the name of the conversation document inside an export.
const ConversationsFile = "conversations.json"

// ErrLimitExceeded indicates an archive entry or the whole archive is larger
// than the reader accepts.
var ErrLimitExceeded = errors.New("archive size limit exceeded")

// Default limits on bytes held in memory.
const (
	DefaultMaxEntryBytes int64 = 1 << 30 // 1 GiB per file
	DefaultMaxTotalBytes int64 = 4 << 30 // 4 GiB per archive
)

// mediaExtensions lists the attachment types loaded alongside conversations.
var mediaExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".wav":  true,
	".mp3":  true,
	".mp4":  true,
}

// Limits bounds how much data a read may load.
type Limits struct {
	MaxEntryBytes int64
	MaxTotalBytes int64
}

// Reader loads archives into memory.
type Reader struct {
	limits Limits
}

// NewReader creates a reader with the default limits.
func NewReader() *Reader {
	return NewReaderWithLimits(Limits{
		MaxEntryBytes: DefaultMaxEntryBytes,
		MaxTotalBytes: DefaultMaxTotalBytes,
	})
}

// NewReaderWithLimits creates a reader with custom limits.
// A non-positive limit disables that check.
func NewReaderWithLimits(limits Limits) *Reader {
	return &Reader{limits: limits}
}

// IsMedia reports whether name has a supported attachment extension.
func IsMedia(name string) bool {
	return mediaExtensions[strings.ToLower(path.Ext(name))]
}

// Read loads the archive at p.
func (r *Reader) Read(ctx context.Context, p string) (*domain.ArchiveContents, error) {
	st, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", p, err)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}

	var contents *domain.ArchiveContents
	switch {
	case st.IsDir():
		contents, err = r.readDir(ctx, abs)
	case strings.EqualFold(filepath.Ext(abs), ".zip"):
		contents, err = r.readZip(ctx, abs)
	case strings.EqualFold(filepath.Base(abs), ConversationsFile):
		contents, err = r.readFile(abs)
	default:
		return nil, fmt.Errorf("%w: unsupported archive %q (expected .zip, directory or %s)",
			domain.ErrArchiveInvalid, p, ConversationsFile)
	}
	if err != nil {
		return nil, err
	}

	contents.Path = abs
	contents.Checksum = checksum(contents.Conversations)
	logger.Debug("Read %s: %d bytes of conversations, %d media files",
		abs, len(contents.Conversations), len(contents.Media))
	return contents, nil
}

func (r *Reader) readZip(ctx context.Context, zipPath string) (*domain.ArchiveContents, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open zip: %w", domain.ErrArchiveInvalid, err)
	}
	defer zr.Close()

	contents := &domain.ArchiveContents{Media: make(map[string][]byte)}
	budget := newBudget(r.limits)
	var (
		convEntry *zip.File
		convName  string
	)

	for _, zf := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if zf.FileInfo().IsDir() {
			continue
		}
		name, err := cleanEntryName(zf.Name)
		if err != nil {
			logger.Warn("Skipping zip entry %q: %v", zf.Name, err)
			continue
		}

		switch {
		case path.Base(name) == ConversationsFile:
			if convEntry == nil || depth(name) < depth(convName) {
				convEntry, convName = zf, name
			}
		case IsMedia(name):
			data, err := readZipEntry(zf, budget)
			if err != nil {
				return nil, err
			}
			contents.Media[name] = data
		}
	}

	if convEntry == nil {
		return nil, fmt.Errorf("%w: %s not found in %s", domain.ErrArchiveInvalid, ConversationsFile, zipPath)
	}
	data, err := readZipEntry(convEntry, budget)
	if err != nil {
		return nil, err
	}
	contents.Conversations = data
	return contents, nil
}

func readZipEntry(zf *zip.File, b *budget) ([]byte, error) {
	if err := b.reserve(zf.Name, int64(zf.UncompressedSize64)); err != nil {
		return nil, err
	}
	rc, err := zf.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %q: %w", zf.Name, err)
	}
	defer rc.Close()
	return b.read(zf.Name, rc)
}

func (r *Reader) readDir(ctx context.Context, dir string) (*domain.ArchiveContents, error) {
	contents := &domain.ArchiveContents{Media: make(map[string][]byte)}
	budget := newBudget(r.limits)

	convPath := filepath.Join(dir, ConversationsFile)
	if _, err := os.Stat(convPath); err != nil {
		return nil, fmt.Errorf("%w: %s not found in %s", domain.ErrArchiveInvalid, ConversationsFile, dir)
	}

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() || !IsMedia(p) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := readFile(p, budget)
		if err != nil {
			return err
		}
		contents.Media[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	data, err := readFile(convPath, budget)
	if err != nil {
		return nil, err
	}
	contents.Conversations = data
	return contents, nil
}

func (r *Reader) readFile(p string) (*domain.ArchiveContents, error) {
	data, err := readFile(p, newBudget(r.limits))
	if err != nil {
		return nil, err
	}
	return &domain.ArchiveContents{Conversations: data, Media: map[string][]byte{}}, nil
}

func readFile(p string, b *budget) ([]byte, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if st, err := f.Stat(); err == nil {
		if err := b.reserve(p, st.Size()); err != nil {
			return nil, err
		}
	}
	return b.read(p, f)
}

// cleanEntryName normalises a zip entry name and rejects names that escape
// the archive root.
func cleanEntryName(name string) (string, error) {
	// ZIP uses forward slashes, but some producers include backslashes.
	cleaned := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "." || cleaned == "" {
		return "", fmt.Errorf("empty entry name")
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("entry escapes archive root")
	}
	return cleaned, nil
}

func depth(name string) int {
	return strings.Count(strings.Trim(name, "/"), "/")
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// budget tracks bytes loaded against Limits.
type budget struct {
	limits Limits
	total  int64
}

func newBudget(l Limits) *budget {
	return &budget{limits: l}
}

// reserve checks a declared size before reading.
func (b *budget) reserve(name string, size int64) error {
	if b.limits.MaxEntryBytes > 0 && size > b.limits.MaxEntryBytes {
		return fmt.Errorf("%w: %q is %d bytes (max %d)", ErrLimitExceeded, name, size, b.limits.MaxEntryBytes)
	}
	if b.limits.MaxTotalBytes > 0 && b.total+size > b.limits.MaxTotalBytes {
		return fmt.Errorf("%w: archive exceeds %d bytes", ErrLimitExceeded, b.limits.MaxTotalBytes)
	}
	return nil
}

// read reads src fully, enforcing the limits on the bytes actually read.
func (b *budget) read(name string, src io.Reader) ([]byte, error) {
	limit := b.limits.MaxEntryBytes
	if b.limits.MaxTotalBytes > 0 {
		if left := b.limits.MaxTotalBytes - b.total; limit <= 0 || left < limit {
			limit = left
		}
	}
	if limit > 0 {
		src = io.LimitReader(src, limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %q is larger than %d bytes", ErrLimitExceeded, name, limit)
	}
	b.total += int64(len(data))
	return data, nil
}
