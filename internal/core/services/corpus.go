package services

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/fuzzy"
	"github.com/custodia-labs/chatsift/internal/logger"
)

// Corpus owns the ingested conversations and a token index over them.
//
// Ingest replaces the whole state; the index is rebuilt from scratch and
// never updated partially. Readers work on an immutable snapshot, so a
// search running during a reload sees either the old or the new corpus.
type Corpus struct {
	mu    sync.RWMutex
	state *corpusState
}

// corpusState is one immutable generation of the corpus.
type corpusState struct {
	conversations []*domain.FlatConversation
	byID          map[string]*domain.FlatConversation

	// tokens maps a lower-cased word (>= 3 characters) to the ids of the
	// conversations whose title or message text contain it.
	tokens map[string]map[string]struct{}
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{state: buildState(nil)}
}

// Ingest replaces the corpus with conversations, in the given order, and
// rebuilds the token index.
func (c *Corpus) Ingest(conversations []*domain.FlatConversation) {
	defer logger.Timed("corpus ingest")()

	st := buildState(conversations)

	c.mu.Lock()
	c.state = st
	c.mu.Unlock()

	logger.Debug("Corpus: %d conversations, %d index tokens", len(st.conversations), len(st.tokens))
}

func buildState(conversations []*domain.FlatConversation) *corpusState {
	st := &corpusState{
		conversations: make([]*domain.FlatConversation, 0, len(conversations)),
		byID:          make(map[string]*domain.FlatConversation, len(conversations)),
		tokens:        make(map[string]map[string]struct{}),
	}
	for _, conv := range conversations {
		if conv == nil {
			continue
		}
		st.conversations = append(st.conversations, conv)
		if _, dup := st.byID[conv.ID]; !dup {
			st.byID[conv.ID] = conv
		}
		for tok := range conversationTokens(conv) {
			ids, ok := st.tokens[tok]
			if !ok {
				ids = make(map[string]struct{})
				st.tokens[tok] = ids
			}
			ids[conv.ID] = struct{}{}
		}
	}
	return st
}

// conversationTokens returns the distinct index tokens of a conversation.
func conversationTokens(conv *domain.FlatConversation) map[string]struct{} {
	set := make(map[string]struct{})
	add := func(text string) {
		for _, tok := range fuzzy.TokenizeIndex(text) {
			set[tok] = struct{}{}
		}
	}
	add(conv.Title)
	forEachText(conv, add)
	return set
}

// forEachText calls fn with the text of every text-bearing part, in order.
func forEachText(conv *domain.FlatConversation, fn func(string)) {
	for i := range conv.Messages {
		for _, p := range conv.Messages[i].Parts {
			if p.Text != "" {
				fn(p.Text)
			}
		}
	}
}

func (c *Corpus) snapshot() *corpusState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Conversations returns the conversations in ingest order.
func (c *Corpus) Conversations() []*domain.FlatConversation {
	st := c.snapshot()
	out := make([]*domain.FlatConversation, len(st.conversations))
	copy(out, st.conversations)
	return out
}

// Get returns a conversation by ID.
func (c *Corpus) Get(id string) (*domain.FlatConversation, bool) {
	conv, ok := c.snapshot().byID[id]
	return conv, ok
}

// Len returns the number of conversations.
func (c *Corpus) Len() int {
	return len(c.snapshot().conversations)
}

// TokenCount returns the number of distinct index tokens.
func (c *Corpus) TokenCount() int {
	return len(c.snapshot().tokens)
}

// candidates returns the ids of conversations that may match term.
// A term of at least fuzzy.MinIndexTokenLength characters made of word
// runes can only occur inside an indexed token, so the union of the
// conversations of every token containing it is a superset of the matches.
// ok is false when the index cannot prune for this term.
func (st *corpusState) candidates(term string) (map[string]struct{}, bool) {
	if utf8.RuneCountInString(term) < fuzzy.MinIndexTokenLength {
		return nil, false
	}
	out := make(map[string]struct{})
	for tok, ids := range st.tokens {
		if !strings.Contains(tok, term) {
			continue
		}
		for id := range ids {
			out[id] = struct{}{}
		}
	}
	return out, true
}
