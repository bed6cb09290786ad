// Package memory is an in-process store.Store used by tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ammosync/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu         sync.Mutex
	characters []store.Character
	attributes map[string][]store.Attribute
	chat       []store.ChatMessage
}

func New() *Store {
	return &Store{attributes: make(map[string][]store.Attribute)}
}

func (s *Store) Close(ctx context.Context) error { return nil }

func (s *Store) EnsureSchema(ctx context.Context) error { return nil }

func (s *Store) UpsertCharacter(ctx context.Context, c store.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.characters {
		if s.characters[i].ID == c.ID {
			s.characters[i] = c
			return nil
		}
	}
	s.characters = append(s.characters, c)
	return nil
}

func (s *Store) GetCharacter(ctx context.Context, id string) (*store.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.characters {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) FindCharacterByName(ctx context.Context, name string) (*store.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	for _, c := range s.characters {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) ListCharacters(ctx context.Context) ([]store.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]store.Character{}, s.characters...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCharacterHashes(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hashes := make(map[string]string)
	for _, c := range s.characters {
		if c.SourceFile != "" {
			hashes[c.SourceFile] = c.SourceHash
		}
	}
	return hashes, nil
}

func (s *Store) ListAttributes(ctx context.Context, characterID string) ([]store.Attribute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]store.Attribute{}, s.attributes[characterID]...), nil
}

func (s *Store) GetAttribute(ctx context.Context, characterID, name string) (*store.Attribute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.attributes[characterID] {
		if a.Name == name {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *Store) SetAttribute(ctx context.Context, characterID, name, current string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasCharacter(characterID) {
		return fmt.Errorf("setting attribute %s: unknown character %s", name, characterID)
	}

	attrs := s.attributes[characterID]
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Current = current
			return nil
		}
	}
	s.attributes[characterID] = append(attrs, store.Attribute{CharacterID: characterID, Name: name, Current: current})
	return nil
}

func (s *Store) DeleteAttributes(ctx context.Context, characterID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.attributes[characterID]))
	delete(s.attributes, characterID)
	return n, nil
}

func (s *Store) SendChat(ctx context.Context, msg store.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	s.chat = append(s.chat, msg)
	return nil
}

func (s *Store) ListChat(ctx context.Context, limit int) ([]store.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0
	if limit > 0 && len(s.chat) > limit {
		start = len(s.chat) - limit
	}
	return append([]store.ChatMessage{}, s.chat[start:]...), nil
}

func (s *Store) hasCharacter(id string) bool {
	for _, c := range s.characters {
		if c.ID == id {
			return true
		}
	}
	return false
}
