package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"biblioteca/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&UserModel{}, &BookModel{}, &ReservationModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveUser persists a new user. A unique-index violation on username is
// reported as ErrDuplicateUsername.
func (s *GormStore) SaveUser(u domain.User) error {
	model := userToModel(u)
	if err := s.db.Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

// HasUsername checks whether a username is already taken.
func (s *GormStore) HasUsername(username string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserByUsername looks up a user by username.
func (s *GormStore) GetUserByUsername(username string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// UserCount returns number of users.
func (s *GormStore) UserCount() (int, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// SaveBook persists a new book.
func (s *GormStore) SaveBook(b domain.Book) error {
	model := bookToModel(b)
	return s.db.Create(&model).Error
}

// UpdateBookInfo updates the mutable fields of a book. The active flag is
// deliberately left untouched. Returns false when no book has that ID.
func (s *GormStore) UpdateBookInfo(id, title, author, category string, year int, publisher string) (bool, error) {
	res := s.db.Model(&BookModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":      title,
			"author":     author,
			"category":   category,
			"year":       year,
			"publisher":  publisher,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListBooks returns all books ordered by created_at.
func (s *GormStore) ListBooks() ([]domain.Book, error) {
	return s.listBooks("created_at ASC")
}

// ListActiveBooks returns books eligible for reservation.
func (s *GormStore) ListActiveBooks() ([]domain.Book, error) {
	return s.listBooks("created_at ASC", "active = ?", true)
}

func (s *GormStore) listBooks(order string, conds ...any) ([]domain.Book, error) {
	var models []BookModel
	tx := s.db.Order(order)
	if len(conds) > 0 {
		tx = tx.Where(conds[0], conds[1:]...)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Book, 0, len(models))
	for _, m := range models {
		res = append(res, bookFromModel(m))
	}
	return res, nil
}

// GetBook retrieves a book.
func (s *GormStore) GetBook(id string) (domain.Book, bool, error) {
	var model BookModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, false, nil
		}
		return domain.Book{}, false, err
	}
	return bookFromModel(model), true, nil
}

// HasBookTitle checks for an exact title match.
func (s *GormStore) HasBookTitle(title string) (bool, error) {
	var count int64
	if err := s.db.Model(&BookModel{}).Where("title = ?", title).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteBook removes a book and its reservations in one transaction.
// Deleting an unknown ID is a no-op.
func (s *GormStore) DeleteBook(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ReservationModel{}, "book_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&BookModel{}, "id = ?", id).Error; err != nil {
			return err
		}
		return nil
	})
}

// CreateReservation inserts a reservation. A unique-index violation on
// (user_id, book_id) is reported as ErrDuplicateReservation.
func (s *GormStore) CreateReservation(r domain.Reservation) error {
	model := reservationToModel(r)
	if err := s.db.Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReservation
		}
		return err
	}
	return nil
}

// HasReservation checks for an existing reservation for the pair.
func (s *GormStore) HasReservation(userID, bookID string) (bool, error) {
	var count int64
	if err := s.db.Model(&ReservationModel{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListReservationsByUser returns the user's reservations ordered by date.
func (s *GormStore) ListReservationsByUser(userID string) ([]domain.Reservation, error) {
	var models []ReservationModel
	if err := s.db.Where("user_id = ?", userID).Order("reserved_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Reservation, 0, len(models))
	for _, m := range models {
		res = append(res, reservationFromModel(m))
	}
	return res, nil
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

func bookToModel(b domain.Book) BookModel {
	return BookModel{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Category:  b.Category,
		Year:      b.Year,
		Publisher: b.Publisher,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func bookFromModel(m BookModel) domain.Book {
	return domain.Book{
		ID:        m.ID,
		Title:     m.Title,
		Author:    m.Author,
		Category:  m.Category,
		Year:      m.Year,
		Publisher: m.Publisher,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func reservationToModel(r domain.Reservation) ReservationModel {
	return ReservationModel{
		ID:         r.ID,
		UserID:     r.UserID,
		BookID:     r.BookID,
		ReservedAt: r.ReservedAt,
	}
}

func reservationFromModel(m ReservationModel) domain.Reservation {
	return domain.Reservation{
		ID:         m.ID,
		UserID:     m.UserID,
		BookID:     m.BookID,
		ReservedAt: m.ReservedAt,
	}
}
