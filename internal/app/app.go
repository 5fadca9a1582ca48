package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"biblioteca/internal/util"
	"biblioteca/pkg/auth"
	"biblioteca/pkg/domain"
	"biblioteca/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	SessionStrategy string
	SessionSecret   string
	SessionTTL      time.Duration
	Store           store.Store
	Sessions        store.SessionStore
}

// App is the core application service wiring storage, sessions, the catalog
// and reservations together.
type App struct {
	store    store.Store
	sessions store.SessionStore
}

// New constructs the application with database storage and session management.
func New(cfg Config) (*App, error) {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}

	sessionStore := cfg.Sessions
	if sessionStore == nil {
		switch cfg.SessionStrategy {
		case "jwt":
			// Logout must invalidate tokens before their expiry, so the
			// stateless store carries a revocation list. Shared via Redis
			// when an address is configured.
			var revoker store.TokenRevoker = store.NewMemoryTokenRevoker()
			if strings.TrimSpace(cfg.RedisAddr) != "" {
				revoker = store.NewRedisTokenRevoker(cfg.RedisAddr, cfg.RedisPassword)
			}
			var err error
			sessionStore, err = store.NewJWTSessionStore(cfg.SessionSecret, cfg.SessionTTL, revoker)
			if err != nil {
				return nil, fmt.Errorf("init jwt session store: %w", err)
			}
		default:
			if strings.TrimSpace(cfg.RedisAddr) == "" {
				return nil, fmt.Errorf("redisAddr is required for the redis session strategy")
			}
			sessionStore = store.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		}
	}

	return &App{
		store:    dataStore,
		sessions: sessionStore,
	}, nil
}

// SignUp registers a new user with a hashed password.
func (a *App) SignUp(username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrCredentialsRequired
	}
	exists, err := a.store.HasUsername(username)
	if err != nil {
		return domain.User{}, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return domain.User{}, ErrUsernameTaken
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           util.NewID(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.SaveUser(user); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// Login validates credentials and issues a fresh session token.
func (a *App) Login(username, password string) (domain.User, string, error) {
	username = strings.TrimSpace(username)
	user, ok, err := a.store.GetUserByUsername(username)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue session: %w", err)
	}
	return user, token, nil
}

// UserFromToken resolves a user from a session token.
func (a *App) UserFromToken(token string) (domain.User, bool) {
	uid, ok, err := a.sessions.GetUserIDByToken(token)
	if err != nil || !ok {
		return domain.User{}, false
	}
	user, found, err := a.store.GetUserByID(uid)
	if err != nil || !found {
		return domain.User{}, false
	}
	return user, true
}

// Logout invalidates the session token.
func (a *App) Logout(token string) error {
	return a.sessions.DeleteSession(token)
}
