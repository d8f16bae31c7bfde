package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Wire shapes of the conversations.json export. Only the fields the
// flattener and search need are decoded; everything else is ignored.

type wireConversation struct {
	ID             string   `json:"id"`
	ConversationID string   `json:"conversation_id"`
	Title          string   `json:"title"`
	CreateTime     *float64 `json:"create_time"`
	UpdateTime     *float64 `json:"update_time"`
	Mapping        Graph    `json:"mapping"`
	IsArchived     bool     `json:"is_archived"`
}

type wireNode struct {
	ID       string   `json:"id"`
	Message  *Message `json:"message"`
	Parent   *string  `json:"parent"`
	Children []string `json:"children"`
}

type wireMessage struct {
	ID     string `json:"id"`
	Author struct {
		Role string  `json:"role"`
		Name *string `json:"name"`
	} `json:"author"`
	CreateTime *float64 `json:"create_time"`
	Content    struct {
		ContentType string        `json:"content_type"`
		Parts       []ContentPart `json:"parts"`
		Text        *string       `json:"text"`
	} `json:"content"`
}

type wirePart struct {
	Text         string          `json:"text"`
	ImageURL     json.RawMessage `json:"image_url"`
	AssetPointer string          `json:"asset_pointer"`
}

var jsonNull = []byte("null")

// UnmarshalJSON decodes one exported conversation.
func (c *RawConversation) UnmarshalJSON(data []byte) error {
	var w wireConversation
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := w.ID
	if id == "" {
		id = w.ConversationID
	}
	*c = RawConversation{
		ID:         id,
		Title:      w.Title,
		CreatedAt:  epochTime(w.CreateTime),
		UpdatedAt:  epochTime(w.UpdateTime),
		Mapping:    &w.Mapping,
		IsArchived: w.IsArchived,
	}
	return nil
}

// UnmarshalJSON decodes a node mapping, keeping the document order of keys so
// that "first root encountered" is well defined.
func (g *Graph) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	*g = Graph{index: make(map[string]int)}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: mapping must be an object", ErrInvalidInput)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("node %q: %w", key, err)
		}
		if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
			continue
		}
		var n Node
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("node %q: %w", key, err)
		}
		g.put(key, n)
	}
	_, err = dec.Token()
	return err
}

// UnmarshalJSON decodes a mapping entry.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = Node{ID: w.ID, Message: w.Message, Children: w.Children}
	if w.Parent != nil {
		n.ParentID = *w.Parent
	}
	return nil
}

// UnmarshalJSON decodes an exported message. Content without parts but with
// a text field (code, execution output) becomes a single plain text part.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = Message{
		ID:          w.ID,
		Role:        Role(w.Author.Role),
		ContentType: w.Content.ContentType,
		Parts:       w.Content.Parts,
		CreatedAt:   epochTime(w.CreateTime),
	}
	if w.Author.Name != nil {
		m.AuthorName = *w.Author.Name
	}
	if m.Parts == nil && w.Content.Text != nil {
		m.Parts = []ContentPart{TextPart(*w.Content.Text)}
	}
	return nil
}

// UnmarshalJSON decodes a content part: a bare string, or an object with
// text, image_url (string or {"url": ...}) and asset_pointer fields.
// Values of any other JSON type decode to an empty structured part.
func (p *ContentPart) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*p = ContentPart{Kind: PartStructured}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = TextPart(s)
	case '{':
		var w wirePart
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		imageURL, err := decodeImageURL(w.ImageURL)
		if err != nil {
			return err
		}
		if w.AssetPointer != "" {
			*p = ContentPart{Kind: PartAssetPointer, AssetPointer: w.AssetPointer, Text: w.Text}
		} else {
			*p = ContentPart{Kind: PartStructured, Text: w.Text, ImageURL: imageURL}
		}
	default:
		*p = ContentPart{Kind: PartStructured}
	}
	return nil
}

func decodeImageURL(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", err
	}
	return obj.URL, nil
}

// epochTime converts fractional Unix seconds to a UTC time.
// Missing or non-positive values yield the zero time.
func epochTime(sec *float64) time.Time {
	if sec == nil || *sec <= 0 || math.IsNaN(*sec) || math.IsInf(*sec, 0) {
		return time.Time{}
	}
	whole, frac := math.Modf(*sec)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}
