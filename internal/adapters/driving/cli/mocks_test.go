package cli

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

var testCreated = time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

func testConversations() []*domain.FlatConversation {
	return []*domain.FlatConversation{
		{
			ID:        "conv-1",
			Title:     "Go channels",
			CreatedAt: testCreated,
			Messages: []domain.Message{
				{Role: domain.RoleUser, Parts: []domain.ContentPart{domain.TextPart("How do channels work?")}},
				{
					Role: domain.RoleAssistant,
					Parts: []domain.ContentPart{
						domain.TextPart("Channels pass values between goroutines."),
						domain.AssetPart("file-service://file-abc"),
					},
				},
			},
		},
		{ID: "conv-2", Title: "Sourdough", Messages: []domain.Message{
			{Role: domain.RoleUser, Parts: []domain.ContentPart{domain.TextPart("starter ratio")}},
		}},
	}
}

// mockSearchService implements driving.SearchService.
type mockSearchService struct {
	response *domain.SearchResponse
	err      error
	query    string
	opts     domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context, query string, opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	m.query, m.opts = query, opts
	if m.err != nil {
		return nil, m.err
	}
	if m.response != nil {
		return m.response, nil
	}
	convs := testConversations()
	return &domain.SearchResponse{
		Results: []domain.SearchResult{
			{Conversation: convs[0], Score: 1.5, MatchCount: 3, Preview: "...pass values between goroutines."},
		},
		Metadata: domain.SearchResultMetadata{Query: query, TotalMatches: 3, MatchingConversations: 1},
	}, nil
}

func (m *mockSearchService) SmartPreview(conv *domain.FlatConversation, _ string) string {
	return conv.Preview
}

// mockIngestService implements driving.IngestService.
type mockIngestService struct {
	current *domain.ArchiveRecord
	history []domain.ArchiveRecord
	loadErr error
	loaded  []string
}

func (m *mockIngestService) Load(_ context.Context, path string) (*domain.ArchiveRecord, error) {
	m.loaded = append(m.loaded, path)
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	m.current = &domain.ArchiveRecord{
		ID:            "load-1",
		Path:          path,
		Checksum:      "0123456789abcdef",
		Conversations: 2,
		Dropped:       1,
		MediaFiles:    1,
		LoadedAt:      testCreated,
	}
	return m.current, nil
}

func (m *mockIngestService) Current() *domain.ArchiveRecord {
	return m.current
}

func (m *mockIngestService) History(_ context.Context) ([]domain.ArchiveRecord, error) {
	return m.history, nil
}

// mockConversationService implements driving.ConversationService.
type mockConversationService struct {
	convs []*domain.FlatConversation
}

func (m *mockConversationService) List(_ context.Context) ([]*domain.FlatConversation, error) {
	return m.convs, nil
}

func (m *mockConversationService) Get(_ context.Context, id string) (*domain.FlatConversation, error) {
	for _, c := range m.convs {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockConversationService) Transcript(ctx context.Context, id string) (string, error) {
	if _, err := m.Get(ctx, id); err != nil {
		return "", err
	}
	return "# transcript " + id, nil
}

// mockMediaService implements driving.MediaService.
type mockMediaService struct {
	handles map[string]*domain.MediaHandle
}

func (m *mockMediaService) Resolve(reference string) (*domain.MediaHandle, error) {
	h, ok := m.handles[domain.AttachmentID(reference)]
	if !ok {
		return nil, domain.ErrMediaNotFound
	}
	return h, nil
}

func (m *mockMediaService) Content(h *domain.MediaHandle) ([]byte, error) {
	return h.Data, nil
}

// mockSettingsService implements driving.SettingsService with an in-memory map.
type mockSettingsService struct {
	settings domain.Settings
	setErr   error
}

func (m *mockSettingsService) Get() domain.Settings { return m.settings }

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	switch key {
	case domain.SettingDefaultArchive:
		m.settings.DefaultArchive = value
	case domain.SettingSearchLimit:
		if value == "7" {
			m.settings.SearchLimit = 7
		}
	case domain.SettingUseIndex:
		m.settings.UseIndex = value == "true"
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

func (m *mockSettingsService) Reset(key string) error {
	defaults := domain.DefaultSettings()
	switch key {
	case domain.SettingSearchLimit:
		m.settings.SearchLimit = defaults.SearchLimit
	case domain.SettingDefaultArchive:
		m.settings.DefaultArchive = ""
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

func (m *mockSettingsService) Path() string { return "/tmp/chatsift/config.toml" }

// testServices bundles the mocks installed by setupTestServices.
type testServices struct {
	search       *mockSearchService
	ingest       *mockIngestService
	conversation *mockConversationService
	media        *mockMediaService
	settings     *mockSettingsService
}

// setupTestServices installs mocks with an archive already loaded and
// returns a cleanup func restoring the previous services and flag values.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		search: &mockSearchService{},
		ingest: &mockIngestService{current: &domain.ArchiveRecord{
			ID: "load-0", Path: "/exports/current.zip", Conversations: 2,
		}},
		conversation: &mockConversationService{convs: testConversations()},
		media: &mockMediaService{handles: map[string]*domain.MediaHandle{
			"file-abc": {ID: "h1", Path: "file-abc-photo.png", MIMEType: "image/png", Data: []byte("png")},
		}},
		settings: &mockSettingsService{settings: domain.DefaultSettings()},
	}

	prev := Services{
		Search:       searchService,
		Ingest:       ingestService,
		Conversation: conversationService,
		Media:        mediaService,
		Settings:     settingsService,
	}
	SetServices(Services{
		Search:       ts.search,
		Ingest:       ts.ingest,
		Conversation: ts.conversation,
		Media:        ts.media,
		Settings:     ts.settings,
	})

	return ts, func() {
		SetServices(prev)
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue) //nolint:errcheck // defaults always parse
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeSplit runs the root command with args and returns stdout and
// stderr separately.
func executeSplit(args ...string) (string, string, error) {
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
