package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatsift/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/logger"
)

type ingestFixture struct {
	reader  *mockArchiveReader
	media   *memory.MediaStore
	corpus  *Corpus
	service *IngestService
}

func newIngestFixture() *ingestFixture {
	f := &ingestFixture{
		reader: &mockArchiveReader{archives: map[string]*domain.ArchiveContents{
			"/exports/one.zip": testArchive("/exports/one.zip"),
			"/exports/two.zip": testArchive("/exports/two.zip"),
		}},
		media:  memory.NewMediaStore(),
		corpus: NewCorpus(),
	}
	f.service = NewIngestService(f.reader, f.media, f.corpus)
	return f
}

func TestIngestService_Load(t *testing.T) {
	f := newIngestFixture()

	rec, err := f.service.Load(context.Background(), "/exports/one.zip")
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "/exports/one.zip", rec.Path)
	assert.Equal(t, "abc123", rec.Checksum)
	assert.Equal(t, 2, rec.Conversations)
	assert.Equal(t, 3, rec.Dropped)
	assert.Equal(t, 5, rec.Total())
	assert.Equal(t, 2, rec.MediaFiles)
	assert.False(t, rec.LoadedAt.IsZero())

	convs := f.corpus.Conversations()
	require.Len(t, convs, 2)
	assert.Equal(t, "conv-a", convs[0].ID)
	assert.Equal(t, "What breed is this cat?", convs[0].Preview)
	assert.Equal(t, "conv-b", convs[1].ID, "conversation_id is used when id is absent")

	assert.Equal(t, rec, f.service.Current())
}

func TestIngestService_LoadReleasesPreviousMedia(t *testing.T) {
	f := newIngestFixture()
	ctx := context.Background()

	first, err := f.service.Load(ctx, "/exports/one.zip")
	require.NoError(t, err)
	second, err := f.service.Load(ctx, "/exports/two.zip")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, f.media.Len())
	for _, p := range f.media.Paths() {
		h, _ := f.media.Get(p)
		assert.Equal(t, second.ID, h.Owner)
	}
	assert.Equal(t, 0, f.media.Release(first.ID))
}

func TestIngestService_LoadErrors(t *testing.T) {
	f := newIngestFixture()
	ctx := context.Background()

	_, err := f.service.Load(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNoArchive)

	_, err = f.service.Load(ctx, "/missing.zip")
	assert.ErrorIs(t, err, domain.ErrArchiveInvalid)
	assert.Nil(t, f.service.Current())

	f.reader.archives["/broken.zip"] = &domain.ArchiveContents{Conversations: []byte(`{"not": "a list"}`)}
	_, err = f.service.Load(ctx, "/broken.zip")
	assert.ErrorIs(t, err, domain.ErrArchiveInvalid)
}

func TestIngestService_FailedLoadKeepsCorpus(t *testing.T) {
	f := newIngestFixture()
	ctx := context.Background()

	_, err := f.service.Load(ctx, "/exports/one.zip")
	require.NoError(t, err)

	_, err = f.service.Load(ctx, "/missing.zip")
	require.Error(t, err)

	assert.Equal(t, 2, f.corpus.Len())
	assert.Equal(t, 2, f.media.Len())
}

func TestIngestService_History(t *testing.T) {
	f := newIngestFixture()
	ctx := context.Background()

	history, err := f.service.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	store := memory.NewArchiveStore()
	f.service.SetArchiveStore(store)

	_, err = f.service.Load(ctx, "/exports/one.zip")
	require.NoError(t, err)
	_, err = f.service.Load(ctx, "/exports/two.zip")
	require.NoError(t, err)

	history, err = f.service.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "/exports/two.zip", history[0].Path)
	assert.Equal(t, "/exports/one.zip", history[1].Path)
}

func TestIngestService_RecordFailureIsNotFatal(t *testing.T) {
	f := newIngestFixture()
	f.service.SetArchiveStore(failingArchiveStore{})

	rec, err := f.service.Load(context.Background(), "/exports/one.zip")

	require.NoError(t, err)
	assert.Equal(t, 2, rec.Conversations)
}

func TestIngestService_Unload(t *testing.T) {
	f := newIngestFixture()
	_, err := f.service.Load(context.Background(), "/exports/one.zip")
	require.NoError(t, err)

	f.service.Unload()

	assert.Nil(t, f.service.Current())
	assert.Equal(t, 0, f.corpus.Len())
	assert.Equal(t, 0, f.media.Len())
}

func TestDecodeConversations(t *testing.T) {
	raws, dropped, err := DecodeConversations([]byte(exportJSON))
	require.NoError(t, err)

	assert.Len(t, raws, 4)
	assert.Equal(t, 1, dropped)

	raws, dropped, err = DecodeConversations([]byte(`[{"title": "no id", "mapping": {}}]`))
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Zero(t, dropped)
	assert.NotEmpty(t, raws[0].ID)

	_, _, err = DecodeConversations([]byte(`not json`))
	assert.ErrorIs(t, err, domain.ErrArchiveInvalid)
}

func TestFlattenAll_KeepsOrder(t *testing.T) {
	raws, _, err := DecodeConversations([]byte(exportJSON))
	require.NoError(t, err)

	// Repeat the export so the worker group has more work than workers.
	var many []*domain.RawConversation
	for range 50 {
		many = append(many, raws...)
	}

	flat, failed, err := flattenAll(context.Background(), many)
	require.NoError(t, err)

	assert.Equal(t, 100, failed)
	require.Len(t, flat, 100)
	for i := 0; i < len(flat); i += 2 {
		assert.Equal(t, "conv-a", flat[i].ID)
		assert.Equal(t, "conv-b", flat[i+1].ID)
	}
}

func TestFlattenAll_Cancelled(t *testing.T) {
	raws, _, err := DecodeConversations([]byte(exportJSON))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = flattenAll(ctx, raws)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestService_LoadLogsSummary(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	defer func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}()

	f := newIngestFixture()
	_, err := f.service.Load(context.Background(), "/exports/one.zip")
	require.NoError(t, err)

	want := fmt.Sprintf("Loaded 2 conversations (3 dropped), 2 media files, %d index tokens", f.corpus.TokenCount())
	assert.Contains(t, buf.String(), want)
	assert.Positive(t, f.corpus.TokenCount())
}
