package services

import (
	"time"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

func textMsg(id string, role domain.Role, text ...string) *domain.Message {
	m := &domain.Message{ID: id, Role: role}
	for _, t := range text {
		m.Parts = append(m.Parts, domain.TextPart(t))
	}
	return m
}

func node(id, parent string, msg *domain.Message, children ...string) domain.Node {
	return domain.Node{ID: id, ParentID: parent, Message: msg, Children: children}
}

// conv builds a flat conversation with one user message per text.
func conv(id, title string, created time.Time, texts ...string) *domain.FlatConversation {
	c := &domain.FlatConversation{ID: id, Title: title, CreatedAt: created}
	for i, t := range texts {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		c.Messages = append(c.Messages, *textMsg(id+"-m", role, t))
	}
	c.Preview = GeneratePreview(c.Messages)
	return c
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 12, 0, 0, 0, time.UTC)
}

// typescriptCorpus is a small corpus exercising title and body matches.
func typescriptCorpus() []*domain.FlatConversation {
	return []*domain.FlatConversation{
		conv("c1", "TypeScript generics", day(1),
			"How do I write generic functions in TypeScript?",
			"Use angle brackets to declare a type parameter."),
		conv("c2", "Weekend plans", day(2),
			"Suggest a hiking project for the weekend",
			"Try the coastal trail."),
		conv("c3", "Build tooling", day(3),
			"My typescript project fails to compile",
			"Check your tsconfig paths for the project."),
		conv("c4", "Go concurrency", day(4),
			"Explain goroutines and channels",
			"Goroutines are lightweight threads."),
	}
}
