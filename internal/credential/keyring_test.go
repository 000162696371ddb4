package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func newTestStore() *Store {
	return NewStore(keyring.NewArrayKeyring(nil))
}

func TestSetGetDelete(t *testing.T) {
	s := newTestStore()

	if _, err := s.Get(KeyIMAPPassword); !errors.Is(err, ErrMissing) {
		t.Fatalf("Get before Set: got %v, want ErrMissing", err)
	}

	if err := s.Set(KeyIMAPPassword, "hunter2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(KeyIMAPPassword)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("Get = %q, want hunter2", got)
	}

	if err := s.Delete(KeyIMAPPassword); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(KeyIMAPPassword); !errors.Is(err, ErrMissing) {
		t.Errorf("Get after Delete: got %v, want ErrMissing", err)
	}
}

func TestResolve(t *testing.T) {
	s := newTestStore()
	if err := s.Set(KeyPostgresDSN, "postgres://from-keyring"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := s.Resolve("postgres://from-config", KeyPostgresDSN)
	if err != nil || got != "postgres://from-config" {
		t.Errorf("configured value: got %q, %v", got, err)
	}

	got, err = s.Resolve("", KeyPostgresDSN)
	if err != nil || got != "postgres://from-keyring" {
		t.Errorf("keyring fallback: got %q, %v", got, err)
	}

	if _, err := s.Resolve("", KeyIMAPPassword); !errors.Is(err, ErrMissing) {
		t.Errorf("missing: got %v, want ErrMissing", err)
	}
}
