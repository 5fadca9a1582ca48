package app

import "errors"

var (
	// ErrInvalidCredentials is returned when the supplied credentials do not
	// match. Unknown username and wrong password are indistinguishable so the
	// message cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("login ou senha incorretos")

	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("nome de usuário já existe")

	ErrCredentialsRequired = errors.New("usuário e senha são obrigatórios")

	// ErrBookNotFound is returned for operations on an unknown book ID.
	ErrBookNotFound = errors.New("livro não encontrado")

	// ErrBookNotActive is returned when reserving a book not marked active.
	ErrBookNotActive = errors.New("livro não disponível para reserva")

	// ErrAlreadyReserved is returned on a second reservation for the same
	// (user, book) pair. Surfaced as a notice, not a hard failure.
	ErrAlreadyReserved = errors.New("você já reservou este livro")
)
