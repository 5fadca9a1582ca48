package store

import (
	"errors"

	"biblioteca/pkg/domain"
)

// ErrDuplicateReservation indicates a reservation already exists for the
// same (user, book) pair. Backed by a storage-level unique index so the
// guarantee holds under concurrent requests, not just the pre-check.
var ErrDuplicateReservation = errors.New("duplicate reservation")

// ErrDuplicateUsername indicates the username is already registered.
// Backed by the unique index on users.username.
var ErrDuplicateUsername = errors.New("duplicate username")

// Store defines persistence operations for users, books, and reservations.
type Store interface {
	// users
	SaveUser(domain.User) error
	HasUsername(username string) (bool, error)
	GetUserByUsername(username string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	UserCount() (int, error)

	// books
	SaveBook(domain.Book) error
	UpdateBookInfo(id, title, author, category string, year int, publisher string) (bool, error)
	ListBooks() ([]domain.Book, error)
	ListActiveBooks() ([]domain.Book, error)
	GetBook(id string) (domain.Book, bool, error)
	HasBookTitle(title string) (bool, error)
	DeleteBook(id string) error

	// reservations
	CreateReservation(domain.Reservation) error
	HasReservation(userID, bookID string) (bool, error)
	ListReservationsByUser(userID string) ([]domain.Reservation, error)
}

// SessionStore persists session tokens.
type SessionStore interface {
	NewSession(userID string) (string, error)
	GetUserIDByToken(token string) (string, bool, error)
	DeleteSession(token string) error
}
