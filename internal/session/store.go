package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"hotable/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// Store keeps one ConversationContext per chat session.
type Store interface {
	Load(ctx context.Context, id string) (domain.ConversationContext, error)
	Save(ctx context.Context, id string, state domain.ConversationContext) error
	Reset(ctx context.Context, id string) error
	Close() error
}

func NewID() string {
	return "sess_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// LoadOrNew returns the stored context for id, or a fresh one when the
// session is unknown or expired. An empty id gets a generated one.
func LoadOrNew(ctx context.Context, store Store, id string) (string, domain.ConversationContext, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return NewID(), domain.ConversationContext{}, nil
	}
	state, err := store.Load(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return id, domain.ConversationContext{}, nil
	}
	if err != nil {
		return "", domain.ConversationContext{}, err
	}
	return id, state, nil
}
