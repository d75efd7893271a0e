// Package store holds client-side application state mutated through a
// single dispatch entry point.
package store

import (
	"errors"
	"fmt"
	"sync"
)

const (
	SetAuth   = "SET_AUTH"
	ClearAuth = "CLEAR_AUTH"
)

var ErrUnknownAction = errors.New("unknown action type")

// Action is the unit of mutation accepted by a Dispatcher.
type Action struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type User struct {
	Email string `json:"email"`
}

type AuthPayload struct {
	User User `json:"user"`
}

// Dispatcher is anything that accepts state mutations.
type Dispatcher interface {
	Dispatch(action Action) error
}

// Store is an in-memory auth state container.
type Store struct {
	mu   sync.RWMutex
	user *User
}

func New() *Store {
	return &Store{}
}

func (s *Store) Dispatch(action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch action.Type {
	case SetAuth:
		var p AuthPayload
		switch v := action.Payload.(type) {
		case AuthPayload:
			p = v
		case *AuthPayload:
			if v == nil {
				return fmt.Errorf("%s: nil payload", action.Type)
			}
			p = *v
		default:
			return fmt.Errorf("%s: unexpected payload %T", action.Type, action.Payload)
		}
		u := p.User
		s.user = &u
	case ClearAuth:
		s.user = nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}
	return nil
}

// User returns the authenticated user, if any.
func (s *Store) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}
