package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"biblioteca/internal/app"
	"biblioteca/internal/util"
	"biblioteca/pkg/domain"
)

const sessionCookie = "biblioteca_sessao"

// Config wires required dependencies for the HTTP server.
type Config struct {
	App           *app.App
	SecureCookies bool
}

// Server exposes the server-rendered HTTP surface.
type Server struct {
	app           *app.App
	mux           *http.ServeMux
	secureCookies bool
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:           cfg.App,
		mux:           http.NewServeMux(),
		secureCookies: cfg.SecureCookies,
	}
	s.routes()
	return s
}

// Router returns the configured handler with ambient middleware applied.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("biblioteca", util.WithSecurityHeaders(s.mux)))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// public
	s.mux.HandleFunc("/login", s.handleLogin)
	s.mux.HandleFunc("/cadastro", s.handleCadastro)

	// catalog (auth required)
	s.mux.Handle("/inicio", s.authenticated(s.handleInicio))
	s.mux.Handle("/novo", s.authenticated(s.handleNovo))
	s.mux.Handle("/criar", s.authenticated(s.handleCriar))
	s.mux.Handle("/editar/", s.authenticated(s.handleEditar))
	s.mux.Handle("/atualizar/", s.authenticated(s.handleAtualizar))
	s.mux.Handle("/deletar/", s.authenticated(s.handleDeletar))
	s.mux.Handle("/logout", s.authenticated(s.handleLogout))

	// reservations (auth required)
	s.mux.Handle("/reservar", s.authenticated(s.handleReservar))
	s.mux.Handle("/fazer_reserva/", s.authenticated(s.handleFazerReserva))
	s.mux.Handle("/minhas_reservas", s.authenticated(s.handleMinhasReservas))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

// authenticated resolves the session cookie to a user; without one the
// request is redirected to the login page.
func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authorize(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, user)
	})
}

func (s *Server) authorize(r *http.Request) (domain.User, bool) {
	token, ok := s.sessionToken(r)
	if !ok {
		return domain.User{}, false
	}
	return s.app.UserFromToken(token)
}

func (s *Server) sessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return "", false
	}
	return cookie.Value, true
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// session handlers
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Login", Notices: noticesFromQuery(r)}
	switch r.Method {
	case http.MethodGet:
		s.render(w, http.StatusOK, "login", data)
	case http.MethodPost:
		username := r.FormValue("username")
		password := r.FormValue("password")
		user, token, err := s.app.Login(username, password)
		if err != nil {
			s.audit(r, "login", "fail", "username", username)
			data.Notices = append(data.Notices, "Login ou senha incorretos. Tente novamente.")
			s.render(w, http.StatusUnauthorized, "login", data)
			return
		}
		s.audit(r, "login", "success", "user_id", user.ID)
		s.setSessionCookie(w, token)
		http.Redirect(w, r, "/inicio", http.StatusSeeOther)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCadastro(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Cadastro"}
	switch r.Method {
	case http.MethodGet:
		s.render(w, http.StatusOK, "cadastro", data)
	case http.MethodPost:
		username := r.FormValue("username")
		password := r.FormValue("password")
		user, err := s.app.SignUp(username, password)
		switch {
		case errors.Is(err, app.ErrUsernameTaken):
			s.audit(r, "signup", "fail", "reason", "username_taken")
			data.Notices = append(data.Notices, "Nome de usuário já existe. Tente um diferente.")
			s.render(w, http.StatusConflict, "cadastro", data)
		case errors.Is(err, app.ErrCredentialsRequired):
			data.Notices = append(data.Notices, "Usuário e senha são obrigatórios.")
			s.render(w, http.StatusBadRequest, "cadastro", data)
		case err != nil:
			s.internalError(w, r, "signup", err)
		default:
			s.audit(r, "signup", "success", "user_id", user.ID)
			http.Redirect(w, r, "/login?aviso=cadastro_ok", http.StatusSeeOther)
		}
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, user domain.User) {
	if token, ok := s.sessionToken(r); ok {
		if err := s.app.Logout(token); err != nil {
			s.internalError(w, r, "logout", err)
			return
		}
	}
	s.audit(r, "logout", "success", "user_id", user.ID)
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// catalog handlers
func (s *Server) handleInicio(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	books, err := s.app.ListBooks()
	if err != nil {
		s.internalError(w, r, "list books", err)
		return
	}
	s.render(w, http.StatusOK, "lista", pageData{
		Title:   "Catálogo",
		Notices: noticesFromQuery(r),
		User:    user,
		Books:   books,
	})
}

func (s *Server) handleNovo(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.render(w, http.StatusOK, "novo", pageData{Title: "Novo Livro"})
}

func (s *Server) handleCriar(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	year, ok := parseYear(r.FormValue("ano"))
	if !ok {
		http.Error(w, "O ano deve ser um número válido!", http.StatusBadRequest)
		return
	}
	_, err := s.app.CreateBook(
		r.FormValue("titulo"),
		r.FormValue("autor"),
		r.FormValue("categoria"),
		year,
		r.FormValue("editora"),
		r.FormValue("ativo") == "on",
	)
	if err != nil {
		s.internalError(w, r, "create book", err)
		return
	}
	http.Redirect(w, r, "/inicio", http.StatusSeeOther)
}

func (s *Server) handleEditar(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, ok := pathID(r, "/editar/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	book, found, err := s.app.GetBook(id)
	if err != nil {
		s.internalError(w, r, "fetch book", err)
		return
	}
	if !found {
		http.Redirect(w, r, "/inicio", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, "editar", pageData{Title: "Editar Livro", Book: book})
}

func (s *Server) handleAtualizar(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	id, ok := pathID(r, "/atualizar/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	year, yearOK := parseYear(r.FormValue("ano"))
	if !yearOK {
		http.Error(w, "O ano deve ser um número válido!", http.StatusBadRequest)
		return
	}
	err := s.app.UpdateBook(id,
		r.FormValue("titulo"),
		r.FormValue("autor"),
		r.FormValue("categoria"),
		year,
		r.FormValue("editora"),
	)
	switch {
	case errors.Is(err, app.ErrBookNotFound):
		// The miss is logged but the user lands back on the list either way.
		util.LoggerFromContext(r.Context()).Warn("update of unknown book", "book_id", id)
	case err != nil:
		s.internalError(w, r, "update book", err)
		return
	}
	http.Redirect(w, r, "/inicio", http.StatusSeeOther)
}

func (s *Server) handleDeletar(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id, ok := pathID(r, "/deletar/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := s.app.DeleteBook(id); err != nil {
		s.internalError(w, r, "delete book", err)
		return
	}
	http.Redirect(w, r, "/inicio", http.StatusSeeOther)
}

// reservation handlers
func (s *Server) handleReservar(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	books, err := s.app.ListActiveBooks()
	if err != nil {
		s.internalError(w, r, "list active books", err)
		return
	}
	s.render(w, http.StatusOK, "reservar", pageData{
		Title:   "Reservar",
		Notices: noticesFromQuery(r),
		User:    user,
		Books:   books,
	})
}

func (s *Server) handleFazerReserva(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	bookID, ok := pathID(r, "/fazer_reserva/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, err := s.app.Reserve(user.ID, bookID)
	aviso := "reserva_ok"
	switch {
	case errors.Is(err, app.ErrAlreadyReserved):
		aviso = "ja_reservado"
	case errors.Is(err, app.ErrBookNotFound):
		aviso = "livro_nao_encontrado"
	case errors.Is(err, app.ErrBookNotActive):
		aviso = "livro_indisponivel"
	case err != nil:
		s.internalError(w, r, "reserve", err)
		return
	default:
		s.audit(r, "reserve", "success", "user_id", user.ID, "book_id", bookID)
	}
	http.Redirect(w, r, "/reservar?aviso="+aviso, http.StatusSeeOther)
}

func (s *Server) handleMinhasReservas(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	views, err := s.app.MyReservations(user.ID)
	if err != nil {
		s.internalError(w, r, "list my reservations", err)
		return
	}
	s.render(w, http.StatusOK, "minhas_reservas", pageData{
		Title:        "Minhas Reservas",
		User:         user,
		Reservations: views,
	})
}

// Redirect targets carry a server-defined notice code; arbitrary query text
// is never echoed back into a page.
var noticeText = map[string]string{
	"cadastro_ok":          "Cadastro realizado com sucesso! Você já pode fazer login.",
	"reserva_ok":           "Reserva realizada com sucesso!",
	"ja_reservado":         "Você já reservou este livro.",
	"livro_nao_encontrado": "Livro não encontrado.",
	"livro_indisponivel":   "Este livro não está disponível para reserva.",
}

func noticesFromQuery(r *http.Request) []string {
	code := r.URL.Query().Get("aviso")
	if text, ok := noticeText[code]; ok {
		return []string{text}
	}
	return nil
}

func pathID(r *http.Request, prefix string) (string, bool) {
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func parseYear(raw string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return year, true
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	util.LoggerFromContext(r.Context()).Error(op, "err", err)
	http.Error(w, "erro interno", http.StatusInternalServerError)
}

func (s *Server) audit(r *http.Request, action, outcome string, extra ...any) {
	args := append([]any{
		"action", action,
		"outcome", outcome,
		"client_ip", util.ClientIP(r),
		"request_id", util.RequestIDFromRequest(r),
	}, extra...)
	slog.Info("audit", args...)
}

func (s *Server) logRenderError(name string, err error) {
	slog.Error("render template", "template", name, "err", err)
}
