package store

import (
	"errors"
	"testing"
)

func TestSetAndClearAuth(t *testing.T) {
	s := New()

	if _, ok := s.User(); ok {
		t.Fatal("expected no user on a fresh store")
	}

	err := s.Dispatch(Action{Type: SetAuth, Payload: AuthPayload{User: User{Email: "a@b.com"}}})
	if err != nil {
		t.Fatalf("dispatch SET_AUTH: %v", err)
	}
	u, ok := s.User()
	if !ok || u.Email != "a@b.com" {
		t.Fatalf("expected a@b.com, got %+v (ok=%v)", u, ok)
	}

	if err := s.Dispatch(Action{Type: ClearAuth}); err != nil {
		t.Fatalf("dispatch CLEAR_AUTH: %v", err)
	}
	if _, ok := s.User(); ok {
		t.Error("expected user cleared")
	}
}

func TestSetAuthPointerPayload(t *testing.T) {
	s := New()
	if err := s.Dispatch(Action{Type: SetAuth, Payload: &AuthPayload{User: User{Email: "x@y.z"}}}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if u, _ := s.User(); u.Email != "x@y.z" {
		t.Errorf("expected x@y.z, got %q", u.Email)
	}
}

func TestDispatchRejectsBadInput(t *testing.T) {
	s := New()

	err := s.Dispatch(Action{Type: "NOPE"})
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}

	if err := s.Dispatch(Action{Type: SetAuth, Payload: "a@b.com"}); err == nil {
		t.Error("expected error for wrong payload type")
	}
	if _, ok := s.User(); ok {
		t.Error("failed dispatch must not set a user")
	}
}
