package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no session exists for an ID, either because it
// never existed, expired, or was cleared at logout.
var ErrNotFound = errors.New("session not found")

// Session binds a storefront session ID to the opaque credential issued by
// the commerce API. The token is never interpreted locally; it is only
// replayed on upstream calls. CartOwnerID is captured lazily from the first
// cart read and is required for order history lookups.
type Session struct {
	ID          string    `json:"id" toml:"id"`
	Token       string    `json:"token" toml:"token"`
	CartOwnerID string    `json:"cart_owner_id" toml:"cart_owner_id"`
	Name        string    `json:"name" toml:"name"`
	Email       string    `json:"email" toml:"email"`
	CreatedAt   time.Time `json:"created_at" toml:"created_at"`
}

// Store persists sessions across restarts.
type Store interface {
	Put(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// Manager owns the session lifecycle: create at login, rehydrate on each
// request, clear at logout.
type Manager struct {
	store Store
}

// NewManager creates a session manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Create mints a new session for a freshly issued commerce token.
func (m *Manager) Create(ctx context.Context, token, name, email string) (*Session, error) {
	s := &Session{
		ID:        uuid.New().String(),
		Token:     token,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.store.Put(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get rehydrates a session by ID.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// SetCartOwner records the cart owner ID observed on a cart read. A no-op
// when the owner is already known or empty.
func (m *Manager) SetCartOwner(ctx context.Context, id, ownerID string) error {
	if ownerID == "" {
		return nil
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.CartOwnerID == ownerID {
		return nil
	}
	s.CartOwnerID = ownerID
	return m.store.Put(ctx, s)
}

// Clear removes the session. Clearing an unknown session is not an error.
func (m *Manager) Clear(ctx context.Context, id string) error {
	err := m.store.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
