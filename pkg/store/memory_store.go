package store

import (
	"sync"

	"biblioteca/pkg/domain"
)

// MemoryStore keeps everything in-process. Used by tests and local runs
// without a database.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[string]domain.User // key: user ID
	username     map[string]string      // username -> user ID
	books        map[string]domain.Book
	bookOrder    []string
	reservations map[string]domain.Reservation
	resOrder     []string
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]domain.User),
		username:     make(map[string]string),
		books:        make(map[string]domain.Book),
		reservations: make(map[string]domain.Reservation),
	}
}

// SaveUser registers a user, enforcing the username uniqueness the SQL
// store gets from its unique index.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.username[u.Username]; exists {
		return ErrDuplicateUsername
	}
	m.users[u.ID] = u
	m.username[u.Username] = u.ID
	return nil
}

// HasUsername reports whether the username is taken.
func (m *MemoryStore) HasUsername(username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.username[username]
	return ok, nil
}

// GetUserByUsername looks up a user by username.
func (m *MemoryStore) GetUserByUsername(username string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.username[username]
	if !ok {
		return domain.User{}, false, nil
	}
	u, ok := m.users[id]
	return u, ok, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// UserCount returns number of users.
func (m *MemoryStore) UserCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// SaveBook stores a book and tracks insertion order.
func (m *MemoryStore) SaveBook(b domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.books[b.ID]; !exists {
		m.bookOrder = append(m.bookOrder, b.ID)
	}
	m.books[b.ID] = b
	return nil
}

// UpdateBookInfo updates mutable fields, leaving the active flag alone.
func (m *MemoryStore) UpdateBookInfo(id, title, author, category string, year int, publisher string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return false, nil
	}
	b.Title = title
	b.Author = author
	b.Category = category
	b.Year = year
	b.Publisher = publisher
	m.books[id] = b
	return true, nil
}

// ListBooks returns books in insertion order.
func (m *MemoryStore) ListBooks() ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Book, 0, len(m.bookOrder))
	for _, id := range m.bookOrder {
		if b, ok := m.books[id]; ok {
			res = append(res, b)
		}
	}
	return res, nil
}

// ListActiveBooks returns books with the active flag set.
func (m *MemoryStore) ListActiveBooks() ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Book, 0, len(m.bookOrder))
	for _, id := range m.bookOrder {
		if b, ok := m.books[id]; ok && b.Active {
			res = append(res, b)
		}
	}
	return res, nil
}

// GetBook retrieves a book by ID.
func (m *MemoryStore) GetBook(id string) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	return b, ok, nil
}

// HasBookTitle checks for an exact title match.
func (m *MemoryStore) HasBookTitle(title string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.books {
		if b.Title == title {
			return true, nil
		}
	}
	return false, nil
}

// DeleteBook removes a book and its reservations. Unknown ID is a no-op.
func (m *MemoryStore) DeleteBook(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.books, id)
	filtered := m.bookOrder[:0]
	for _, item := range m.bookOrder {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	m.bookOrder = filtered

	kept := m.resOrder[:0]
	for _, rid := range m.resOrder {
		if m.reservations[rid].BookID == id {
			delete(m.reservations, rid)
			continue
		}
		kept = append(kept, rid)
	}
	m.resOrder = kept
	return nil
}

// CreateReservation inserts a reservation, enforcing the (user, book)
// uniqueness the SQL store gets from its unique index.
func (m *MemoryStore) CreateReservation(r domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reservations {
		if existing.UserID == r.UserID && existing.BookID == r.BookID {
			return ErrDuplicateReservation
		}
	}
	m.reservations[r.ID] = r
	m.resOrder = append(m.resOrder, r.ID)
	return nil
}

// HasReservation checks for an existing reservation for the pair.
func (m *MemoryStore) HasReservation(userID, bookID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reservations {
		if r.UserID == userID && r.BookID == bookID {
			return true, nil
		}
	}
	return false, nil
}

// ListReservationsByUser returns the user's reservations in insertion order.
func (m *MemoryStore) ListReservationsByUser(userID string) ([]domain.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Reservation, 0, 4)
	for _, id := range m.resOrder {
		if r, ok := m.reservations[id]; ok && r.UserID == userID {
			res = append(res, r)
		}
	}
	return res, nil
}
