package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

const permSessionFile = 0600

// TOMLFileStore persists sessions in a single TOML file. Suited to
// single-node deployments without Redis; the file is reloaded when its
// modification time changes so an operator can edit or prune it by hand.
type TOMLFileStore struct {
	FilePath string

	mu         sync.Mutex
	data       tomlSchema
	modifiedAt time.Time
}

type tomlSchema struct {
	Sessions map[string]*tomlSession `toml:"sessions"`
}

type tomlSession struct {
	Token       string    `toml:"token"`
	CartOwnerID string    `toml:"cart_owner_id,omitempty"`
	Name        string    `toml:"name"`
	Email       string    `toml:"email"`
	CreatedAt   time.Time `toml:"created_at"`
}

func (t *tomlSession) toDomain(id string) *Session {
	return &Session{
		ID:          id,
		Token:       t.Token,
		CartOwnerID: t.CartOwnerID,
		Name:        t.Name,
		Email:       t.Email,
		CreatedAt:   t.CreatedAt,
	}
}

func (t *tomlSession) fromDomain(s *Session) {
	t.Token = s.Token
	t.CartOwnerID = s.CartOwnerID
	t.Name = s.Name
	t.Email = s.Email
	t.CreatedAt = s.CreatedAt
}

// NewTOMLFileStore opens (or creates) the session file at path.
func NewTOMLFileStore(path string) (*TOMLFileStore, error) {
	s := &TOMLFileStore{
		FilePath: path,
		data:     tomlSchema{Sessions: make(map[string]*tomlSession)},
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.save(); err != nil {
			return nil, err
		}
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *TOMLFileStore) Put(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadIfModified(); err != nil {
		return err
	}
	if _, ok := s.data.Sessions[sess.ID]; !ok {
		s.data.Sessions[sess.ID] = &tomlSession{}
	}
	s.data.Sessions[sess.ID].fromDomain(sess)
	return s.save()
}

func (s *TOMLFileStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadIfModified(); err != nil {
		return nil, err
	}
	repr, ok := s.data.Sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return repr.toDomain(id), nil
}

func (s *TOMLFileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadIfModified(); err != nil {
		return err
	}
	if _, ok := s.data.Sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.data.Sessions, id)
	return s.save()
}

func (s *TOMLFileStore) reloadIfModified() error {
	info, err := os.Stat(s.FilePath)
	if err != nil {
		return fmt.Errorf("stat session file: %w", err)
	}
	modTime := info.ModTime()
	if s.modifiedAt.Equal(modTime) {
		return nil
	}
	s.modifiedAt = modTime
	return s.load()
}

func (s *TOMLFileStore) load() error {
	if _, err := toml.DecodeFile(s.FilePath, &s.data); err != nil {
		return fmt.Errorf("load session file: %w", err)
	}
	if s.data.Sessions == nil {
		s.data.Sessions = make(map[string]*tomlSession)
	}
	return nil
}

func (s *TOMLFileStore) save() error {
	file, err := os.OpenFile(s.FilePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, permSessionFile)
	if err != nil {
		return fmt.Errorf("save session file: %w", err)
	}
	defer func() { _ = file.Close() }()

	enc := toml.NewEncoder(file)
	if err := enc.Encode(s.data); err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	return nil
}
