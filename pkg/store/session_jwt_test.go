package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestJWTSessionRoundTrip(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", time.Minute, nil)
	if err != nil {
		t.Fatalf("new jwt session store: %v", err)
	}
	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	uid, ok, err := s.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("get user by token: %v", err)
	}
	if !ok || uid != "user-1" {
		t.Fatalf("got (%q, %v), want (user-1, true)", uid, ok)
	}
}

func TestJWTSessionRejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTSessionStore("secret-a", time.Minute, nil)
	if err != nil {
		t.Fatalf("new jwt session store: %v", err)
	}
	verifier, err := NewJWTSessionStore("secret-b", time.Minute, nil)
	if err != nil {
		t.Fatalf("new jwt session store: %v", err)
	}
	token, err := issuer.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, ok, _ := verifier.GetUserIDByToken(token); ok {
		t.Fatalf("token signed with another secret should not validate")
	}
}

func TestJWTSessionExpires(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", -time.Minute, nil)
	if err != nil {
		t.Fatalf("new jwt session store: %v", err)
	}
	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, ok, _ := s.GetUserIDByToken(token); ok {
		t.Fatalf("expired token should not validate")
	}
}

func TestJWTSessionRequiresSecret(t *testing.T) {
	if _, err := NewJWTSessionStore("  ", time.Minute, nil); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestJWTSessionDeleteRevokesBeforeExpiry(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", time.Hour, nil)
	if err != nil {
		t.Fatalf("new jwt session store: %v", err)
	}
	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, ok, _ := s.GetUserIDByToken(token); !ok {
		t.Fatalf("fresh token should validate")
	}
	if err := s.DeleteSession(token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if uid, ok, _ := s.GetUserIDByToken(token); ok {
		t.Fatalf("deleted session still resolves to %q", uid)
	}
}

func TestJWTSessionDeleteOnlyAffectsThatToken(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", time.Hour, nil)
	if err != nil {
		t.Fatalf("new jwt session store: %v", err)
	}
	t1, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t2, err := s.NewSession("user-2")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.DeleteSession(t1); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, ok, _ := s.GetUserIDByToken(t2); !ok {
		t.Fatalf("unrelated session must survive another token's deletion")
	}
}

func TestJWTSessionRedisRevoker(t *testing.T) {
	m := miniredis.RunT(t)
	s, err := NewJWTSessionStore("test-secret", time.Hour, NewRedisTokenRevoker(m.Addr(), ""))
	if err != nil {
		t.Fatalf("new jwt session store: %v", err)
	}
	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.DeleteSession(token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, ok, _ := s.GetUserIDByToken(token); ok {
		t.Fatalf("revocation must hold through the redis revoker")
	}
}
