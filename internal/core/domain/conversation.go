package domain

import (
	"strings"
	"time"
)

// Role identifies who authored a message.
type Role string

// Known author roles. Exports may contain others (e.g. "tool"); they are kept
// as-is and treated like any non-system role.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// PartKind tags the variant held by a ContentPart.
type PartKind int

const (
	// PartPlainText is a bare string part.
	PartPlainText PartKind = iota

	// PartStructured is an object part with optional text and image reference.
	PartStructured

	// PartAssetPointer is an object part pointing at an uploaded attachment.
	PartAssetPointer
)

// String returns the variant name.
func (k PartKind) String() string {
	switch k {
	case PartPlainText:
		return "text"
	case PartStructured:
		return "structured"
	case PartAssetPointer:
		return "asset_pointer"
	default:
		return "unknown"
	}
}

// ContentPart is one element of a message's content.
// Kind selects which fields are meaningful:
//
//	PartPlainText:    Text
//	PartStructured:   Text, ImageURL (either may be empty)
//	PartAssetPointer: AssetPointer, Text (optional caption)
type ContentPart struct {
	Kind         PartKind
	Text         string
	ImageURL     string
	AssetPointer string
}

// TextPart builds a plain text part.
func TextPart(text string) ContentPart {
	return ContentPart{Kind: PartPlainText, Text: text}
}

// ImagePart builds a structured part carrying an image URL.
func ImagePart(url string) ContentPart {
	return ContentPart{Kind: PartStructured, ImageURL: url}
}

// AssetPart builds an asset pointer part.
func AssetPart(pointer string) ContentPart {
	return ContentPart{Kind: PartAssetPointer, AssetPointer: pointer}
}

// HasText reports whether the part carries non-blank text.
func (p ContentPart) HasText() bool {
	return strings.TrimSpace(p.Text) != ""
}

// HasMedia reports whether the part references an image or attachment.
func (p ContentPart) HasMedia() bool {
	switch p.Kind {
	case PartStructured:
		return p.ImageURL != ""
	case PartAssetPointer:
		return p.AssetPointer != ""
	default:
		return false
	}
}

// MediaRef returns the attachment reference of the part, if any.
func (p ContentPart) MediaRef() string {
	switch p.Kind {
	case PartAssetPointer:
		return p.AssetPointer
	case PartStructured:
		return p.ImageURL
	default:
		return ""
	}
}

// Message is a single authored entry of a conversation.
type Message struct {
	// ID is the message identifier from the export.
	ID string

	// Role is the author role.
	Role Role

	// AuthorName is set for tool messages (e.g. "dalle.text2im").
	AuthorName string

	// ContentType is the export's content type ("text", "multimodal_text", ...).
	ContentType string

	// Parts holds the ordered content parts.
	Parts []ContentPart

	// CreatedAt is the message creation time (zero when absent).
	CreatedAt time.Time
}

// HasContent reports whether at least one part has text or media.
func (m *Message) HasContent() bool {
	for i := range m.Parts {
		if m.Parts[i].HasText() || m.Parts[i].HasMedia() {
			return true
		}
	}
	return false
}

// Node is one entry of a conversation graph.
type Node struct {
	// ID is the node identifier. Defaults to the mapping key.
	ID string

	// Message is nil for structural nodes (e.g. the synthetic root).
	Message *Message

	// ParentID is empty for root nodes.
	ParentID string

	// Children lists child node ids in display order.
	Children []string
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.ParentID == ""
}

// Graph is the node mapping of one conversation.
// Nodes are stored in an arena in the order they were added (document order
// when decoded from JSON), and addressed by a stable id->index mapping.
type Graph struct {
	nodes []Node
	index map[string]int
}

// NewGraph builds a graph from nodes, keyed by node ID.
// A later node with a duplicate ID replaces the earlier one in place.
func NewGraph(nodes ...Node) *Graph {
	g := &Graph{index: make(map[string]int, len(nodes))}
	for _, n := range nodes {
		g.put(n.ID, n)
	}
	return g
}

func (g *Graph) put(key string, n Node) {
	if g.index == nil {
		g.index = make(map[string]int)
	}
	if n.ID == "" {
		n.ID = key
	}
	if i, ok := g.index[key]; ok {
		g.nodes[i] = n
		return
	}
	g.index[key] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

// At returns the node stored at arena index i.
func (g *Graph) At(i int) *Node {
	return &g.nodes[i]
}

// Lookup returns the arena index of the node keyed by id.
func (g *Graph) Lookup(id string) (int, bool) {
	if g == nil {
		return 0, false
	}
	i, ok := g.index[id]
	return i, ok
}

// RawConversation is one conversation as found in an export, before flattening.
type RawConversation struct {
	ID         string
	Title      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Mapping    *Graph
	IsArchived bool
}

// FlatConversation is the linear, search-addressable form of a conversation.
// It is immutable once built.
type FlatConversation struct {
	// ID is the conversation identifier.
	ID string

	// Title is the conversation title ("Untitled Conversation" when blank).
	Title string

	// CreatedAt is the conversation creation time.
	CreatedAt time.Time

	// Messages holds the retained messages in transcript order.
	Messages []Message

	// Preview is a short excerpt of the first user message.
	Preview string
}

// MediaRefs returns every attachment reference in transcript order.
func (c *FlatConversation) MediaRefs() []string {
	var refs []string
	for i := range c.Messages {
		for _, p := range c.Messages[i].Parts {
			if ref := p.MediaRef(); ref != "" {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}
