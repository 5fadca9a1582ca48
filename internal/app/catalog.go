package app

import (
	"fmt"
	"strings"
	"time"

	"biblioteca/internal/util"
	"biblioteca/pkg/domain"
)

// ListBooks returns the whole catalog in insertion order.
func (a *App) ListBooks() ([]domain.Book, error) {
	return a.store.ListBooks()
}

// ListActiveBooks returns the books eligible for reservation.
func (a *App) ListActiveBooks() ([]domain.Book, error) {
	return a.store.ListActiveBooks()
}

// GetBook retrieves one book.
func (a *App) GetBook(id string) (domain.Book, bool, error) {
	return a.store.GetBook(id)
}

// CreateBook adds a catalog entry. Year validation happens at the HTTP
// boundary where the raw form value is parsed.
func (a *App) CreateBook(title, author, category string, year int, publisher string, active bool) (domain.Book, error) {
	if publisher = strings.TrimSpace(publisher); publisher == "" {
		publisher = domain.DefaultPublisher
	}
	now := time.Now().UTC()
	book := domain.Book{
		ID:        util.NewID(),
		Title:     title,
		Author:    author,
		Category:  category,
		Year:      year,
		Publisher: publisher,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.SaveBook(book); err != nil {
		return domain.Book{}, fmt.Errorf("save book: %w", err)
	}
	return book, nil
}

// UpdateBook rewrites the mutable book fields. The active flag is not part
// of the update surface. An unknown ID yields ErrBookNotFound.
func (a *App) UpdateBook(id, title, author, category string, year int, publisher string) error {
	found, err := a.store.UpdateBookInfo(id, title, author, category, year, publisher)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if !found {
		return ErrBookNotFound
	}
	return nil
}

// DeleteBook removes a book and its reservations. Unknown IDs are a no-op.
func (a *App) DeleteBook(id string) error {
	if err := a.store.DeleteBook(id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}
