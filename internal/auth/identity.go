package auth

import (
	"context"
	"sync"

	"route-diary/internal/trips"
)

// PrincipalHolder is the engine-facing identity provider: it answers
// "who owns trips detected right now". A holder starts empty (anonymous
// tracking) and is bound once the user signs in, at which point queued
// trips become syncable.
type PrincipalHolder struct {
	mu     sync.Mutex
	userID string
}

func NewPrincipalHolder(userID string) *PrincipalHolder {
	return &PrincipalHolder{userID: userID}
}

func (h *PrincipalHolder) Bind(userID string) {
	h.mu.Lock()
	h.userID = userID
	h.mu.Unlock()
}

func (h *PrincipalHolder) Clear() {
	h.mu.Lock()
	h.userID = ""
	h.mu.Unlock()
}

func (h *PrincipalHolder) CurrentPrincipal(_ context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.userID == "" {
		return "", trips.ErrNoPrincipal
	}
	return h.userID, nil
}
