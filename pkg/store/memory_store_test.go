package store

import (
	"errors"
	"testing"
	"time"

	"biblioteca/pkg/domain"
)

func TestMemoryStoreDuplicateUsername(t *testing.T) {
	m := NewMemoryStore()
	if err := m.SaveUser(domain.User{ID: "u1", Username: "alice"}); err != nil {
		t.Fatalf("save user: %v", err)
	}
	if err := m.SaveUser(domain.User{ID: "u2", Username: "alice"}); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("got %v, want ErrDuplicateUsername", err)
	}
	u, ok, err := m.GetUserByUsername("alice")
	if err != nil || !ok {
		t.Fatalf("fetch user: ok=%v err=%v", ok, err)
	}
	if u.ID != "u1" {
		t.Fatalf("duplicate save must not replace the original, got %q", u.ID)
	}
	count, _ := m.UserCount()
	if count != 1 {
		t.Fatalf("got %d users, want 1", count)
	}
}

func TestMemoryStoreDuplicateReservation(t *testing.T) {
	m := NewMemoryStore()
	first := domain.Reservation{ID: "r1", UserID: "u1", BookID: "b1", ReservedAt: time.Now().UTC()}
	if err := m.CreateReservation(first); err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	second := domain.Reservation{ID: "r2", UserID: "u1", BookID: "b1", ReservedAt: time.Now().UTC()}
	if err := m.CreateReservation(second); !errors.Is(err, ErrDuplicateReservation) {
		t.Fatalf("got %v, want ErrDuplicateReservation", err)
	}
	got, err := m.ListReservationsByUser("u1")
	if err != nil {
		t.Fatalf("list reservations: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d reservations, want 1", len(got))
	}
}

func TestMemoryStoreDeleteBookCascades(t *testing.T) {
	m := NewMemoryStore()
	if err := m.SaveBook(domain.Book{ID: "b1", Title: "Dune"}); err != nil {
		t.Fatalf("save book: %v", err)
	}
	if err := m.CreateReservation(domain.Reservation{ID: "r1", UserID: "u1", BookID: "b1"}); err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	if err := m.DeleteBook("b1"); err != nil {
		t.Fatalf("delete book: %v", err)
	}
	if _, ok, _ := m.GetBook("b1"); ok {
		t.Fatalf("book should be gone")
	}
	got, _ := m.ListReservationsByUser("u1")
	if len(got) != 0 {
		t.Fatalf("reservations of a deleted book should be gone, got %d", len(got))
	}
}

func TestMemoryStoreUpdateBookInfoLeavesActiveAlone(t *testing.T) {
	m := NewMemoryStore()
	if err := m.SaveBook(domain.Book{ID: "b1", Title: "Dune", Active: true}); err != nil {
		t.Fatalf("save book: %v", err)
	}
	found, err := m.UpdateBookInfo("b1", "Duna", "Frank Herbert", "SciFi", 1965, "Aleph")
	if err != nil {
		t.Fatalf("update book: %v", err)
	}
	if !found {
		t.Fatalf("expected book to be found")
	}
	b, ok, _ := m.GetBook("b1")
	if !ok {
		t.Fatalf("book missing after update")
	}
	if b.Title != "Duna" || !b.Active {
		t.Fatalf("got title=%q active=%v, want title=Duna active=true", b.Title, b.Active)
	}
}

func TestMemoryStoreUpdateUnknownBook(t *testing.T) {
	m := NewMemoryStore()
	found, err := m.UpdateBookInfo("missing", "t", "a", "c", 2000, "p")
	if err != nil {
		t.Fatalf("update book: %v", err)
	}
	if found {
		t.Fatalf("unknown id should report not found")
	}
	books, _ := m.ListBooks()
	if len(books) != 0 {
		t.Fatalf("update of unknown id must not create records, got %d", len(books))
	}
}
