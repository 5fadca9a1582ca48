package app

import (
	"errors"
	"fmt"
	"time"

	"biblioteca/internal/util"
	"biblioteca/pkg/domain"
	"biblioteca/pkg/store"
)

// Reserve creates a reservation for an active book. The pre-check keeps the
// common duplicate case cheap; the storage unique index closes the race
// between concurrent requests for the same pair.
func (a *App) Reserve(userID, bookID string) (domain.Reservation, error) {
	book, ok, err := a.store.GetBook(bookID)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("fetch book: %w", err)
	}
	if !ok {
		return domain.Reservation{}, ErrBookNotFound
	}
	if !book.Active {
		return domain.Reservation{}, ErrBookNotActive
	}
	exists, err := a.store.HasReservation(userID, bookID)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("check reservation: %w", err)
	}
	if exists {
		return domain.Reservation{}, ErrAlreadyReserved
	}
	reservation := domain.Reservation{
		ID:         util.NewID(),
		UserID:     userID,
		BookID:     bookID,
		ReservedAt: time.Now().UTC(),
	}
	if err := a.store.CreateReservation(reservation); err != nil {
		if errors.Is(err, store.ErrDuplicateReservation) {
			return domain.Reservation{}, ErrAlreadyReserved
		}
		return domain.Reservation{}, fmt.Errorf("create reservation: %w", err)
	}
	return reservation, nil
}

// MyReservations returns the user's reservations resolved with book and
// user details. Books deleted after the fact are skipped.
func (a *App) MyReservations(userID string) ([]domain.ReservationView, error) {
	reservations, err := a.store.ListReservationsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return nil, nil
	}
	views := make([]domain.ReservationView, 0, len(reservations))
	for _, r := range reservations {
		book, found, err := a.store.GetBook(r.BookID)
		if err != nil {
			return nil, fmt.Errorf("fetch book %s: %w", r.BookID, err)
		}
		if !found {
			continue
		}
		views = append(views, domain.ReservationView{
			Reservation: r,
			Book:        book,
			User:        user,
		})
	}
	return views, nil
}
