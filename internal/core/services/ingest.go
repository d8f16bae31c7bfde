package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driven"
	"github.com/custodia-labs/chatsift/internal/core/ports/driving"
	"github.com/custodia-labs/chatsift/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService loads exported archives into the corpus and media store.
// Loads are serialised; each one replaces the previous corpus and
// releases the media handles the previous load owned.
type IngestService struct {
	reader       driven.ArchiveReader
	mediaStore   driven.MediaStore
	archiveStore driven.ArchiveStore
	corpus       *Corpus

	mu      sync.Mutex
	current *domain.ArchiveRecord
}

// NewIngestService creates a new ingest service.
func NewIngestService(reader driven.ArchiveReader, mediaStore driven.MediaStore, corpus *Corpus) *IngestService {
	return &IngestService{
		reader:     reader,
		mediaStore: mediaStore,
		corpus:     corpus,
	}
}

// SetArchiveStore enables load history. Optional; without it loads are not recorded.
func (s *IngestService) SetArchiveStore(store driven.ArchiveStore) {
	s.archiveStore = store
}

// Load reads the archive at path and replaces the corpus with its conversations.
func (s *IngestService) Load(ctx context.Context, path string) (*domain.ArchiveRecord, error) {
	if path == "" {
		return nil, domain.ErrNoArchive
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Section("Archive Load")
	logger.Info("Loading archive %s", path)
	defer logger.Timed("archive load")()

	contents, err := s.reader.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	raws, dropped, err := DecodeConversations(contents.Conversations)
	if err != nil {
		return nil, err
	}

	flat, failed, err := flattenAll(ctx, raws)
	if err != nil {
		return nil, err
	}
	dropped += failed

	rec := &domain.ArchiveRecord{
		ID:            uuid.NewString(),
		Path:          contents.Path,
		Checksum:      contents.Checksum,
		Conversations: len(flat),
		Dropped:       dropped,
	}
	if rec.Path == "" {
		rec.Path = path
	}

	rec.MediaFiles = s.loadMedia(rec.ID, contents.Media)
	s.corpus.Ingest(flat)

	if s.current != nil {
		released := s.mediaStore.Release(s.current.ID)
		logger.Debug("Released %d media handles of load %s", released, s.current.ID)
	}

	rec.LoadedAt = time.Now()
	s.current = rec

	if s.archiveStore != nil {
		if err := s.archiveStore.Record(ctx, *rec); err != nil {
			logger.Warn("Failed to record archive load: %v", err)
		}
	}

	logger.Info("Loaded %d conversations (%d dropped), %d media files, %d index tokens",
		rec.Conversations, rec.Dropped, rec.MediaFiles, s.corpus.TokenCount())

	out := *rec
	return &out, nil
}

// flattenAll flattens raws on a bounded worker group. The result keeps the
// order of raws; conversations that fail to flatten are counted, not returned.
func flattenAll(ctx context.Context, raws []*domain.RawConversation) ([]*domain.FlatConversation, int, error) {
	results := make([]*domain.FlatConversation, len(raws))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, raw := range raws {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			conv, err := FlattenConversation(raw)
			if err != nil {
				if !errors.Is(err, domain.ErrNoContent) {
					logger.Warn("Dropping conversation %s: %v", raw.ID, err)
				}
				return nil
			}
			results[i] = conv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	flat := make([]*domain.FlatConversation, 0, len(results))
	for _, conv := range results {
		if conv != nil {
			flat = append(flat, conv)
		}
	}
	return flat, len(raws) - len(flat), nil
}

func (s *IngestService) loadMedia(owner string, media map[string][]byte) int {
	paths := make([]string, 0, len(media))
	for p := range media {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	n := 0
	for _, p := range paths {
		if _, err := s.mediaStore.Put(owner, p, media[p]); err != nil {
			logger.Warn("Skipping media %s: %v", p, err)
			continue
		}
		n++
	}
	return n
}

// Current returns the record of the active load, or nil.
func (s *IngestService) Current() *domain.ArchiveRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	out := *s.current
	return &out
}

// Unload empties the corpus and releases the active load's media.
func (s *IngestService) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus.Ingest(nil)
	if s.current != nil {
		s.mediaStore.Release(s.current.ID)
		s.current = nil
	}
}

// History lists recorded loads, newest first.
func (s *IngestService) History(ctx context.Context) ([]domain.ArchiveRecord, error) {
	if s.archiveStore == nil {
		return nil, nil
	}
	records, err := s.archiveStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list archive history: %w", err)
	}
	return records, nil
}

// DecodeConversations parses a conversations.json document.
//
// The document must be a JSON array. Each element is decoded on its own;
// elements that fail to decode are counted in dropped and skipped.
// Conversations without an id get a generated one.
func DecodeConversations(data []byte) ([]*domain.RawConversation, int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, 0, fmt.Errorf("%w: conversations.json: %w", domain.ErrArchiveInvalid, err)
	}

	out := make([]*domain.RawConversation, 0, len(items))
	dropped := 0
	for i, item := range items {
		var raw domain.RawConversation
		if err := json.Unmarshal(item, &raw); err != nil {
			logger.Warn("Dropping conversation #%d: %v", i, err)
			dropped++
			continue
		}
		if raw.ID == "" {
			raw.ID = uuid.NewString()
		}
		out = append(out, &raw)
	}
	return out, dropped, nil
}
