package store

import "time"

// GORM models used for persistence.
type UserModel struct {
	ID           string    `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

type BookModel struct {
	ID        string `gorm:"primaryKey"`
	Title     string `gorm:"not null;index"`
	Author    string `gorm:"not null"`
	Category  string `gorm:"not null"`
	Year      int    `gorm:"not null"`
	Publisher string
	Active    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ReservationModel struct {
	ID         string    `gorm:"primaryKey"`
	UserID     string    `gorm:"not null;uniqueIndex:idx_user_book"`
	BookID     string    `gorm:"not null;uniqueIndex:idx_user_book"`
	ReservedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string        { return "users" }
func (BookModel) TableName() string        { return "books" }
func (ReservationModel) TableName() string { return "reservations" }
