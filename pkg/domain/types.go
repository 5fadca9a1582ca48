package domain

import "time"

// Book is a catalog entry. Active marks it eligible for reservation.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Category  string    `json:"category"`
	Year      int       `json:"year"`
	Publisher string    `json:"publisher"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultPublisher is assigned when no publisher is supplied.
const DefaultPublisher = "Sem Editora"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Reservation links a user to a book. At most one per (user, book) pair.
type Reservation struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	BookID     string    `json:"bookId"`
	ReservedAt time.Time `json:"reservedAt"`
}

// ReservationView is a reservation resolved with its book and user for
// display. Resolution happens at the reservation manager boundary, not
// through lazy relationship loading.
type ReservationView struct {
	Reservation Reservation `json:"reservation"`
	Book        Book        `json:"book"`
	User        User        `json:"user"`
}
