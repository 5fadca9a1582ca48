package server

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"biblioteca/internal/app"
	"biblioteca/pkg/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.App) {
	t.Helper()
	appCore, err := app.New(app.Config{
		Store:    store.NewMemoryStore(),
		Sessions: store.NewMemorySessionStore(),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	srv := httptest.NewServer(New(Config{App: appCore}).Router())
	t.Cleanup(srv.Close)
	return srv, appCore
}

// newClient returns a cookie-carrying client that does not follow redirects,
// so tests can assert on Location headers.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("new cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, c *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.Post(target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	return resp
}

func get(t *testing.T, c *http.Client, target string) *http.Response {
	t.Helper()
	resp, err := c.Get(target)
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func wantRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("got status %d, want 303", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("got Location %q, want %q", got, location)
	}
}

func signUpAndLogin(t *testing.T, c *http.Client, base, username, password string) {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	wantRedirect(t, postForm(t, c, base+"/cadastro", form), "/login?aviso=cadastro_ok")
	wantRedirect(t, postForm(t, c, base+"/login", form), "/inicio")
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t)
	for _, path := range []string{
		"/inicio", "/novo", "/editar/x", "/deletar/x",
		"/reservar", "/fazer_reserva/x", "/minhas_reservas", "/logout",
	} {
		wantRedirect(t, get(t, c, srv.URL+path), "/login")
	}
	resp := postForm(t, c, srv.URL+"/criar", url.Values{})
	wantRedirect(t, resp, "/login")
	resp = postForm(t, c, srv.URL+"/atualizar/x", url.Values{})
	wantRedirect(t, resp, "/login")
}

func TestRegisterLoginAndBrowse(t *testing.T) {
	srv, appCore := newTestServer(t)
	if _, err := appCore.CreateBook("Dune", "Frank Herbert", "SciFi", 1965, "", true); err != nil {
		t.Fatalf("seed book: %v", err)
	}
	c := newClient(t)
	signUpAndLogin(t, c, srv.URL, "alice", "pw1")

	resp := get(t, c, srv.URL+"/inicio")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("inicio after login: status %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Dune") {
		t.Fatalf("catalog page missing seeded book:\n%s", body)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t)
	form := url.Values{"username": {"alice"}, "password": {"pw1"}}
	wantRedirect(t, postForm(t, c, srv.URL+"/cadastro", form), "/login?aviso=cadastro_ok")

	resp := postForm(t, c, srv.URL+"/cadastro", form)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate signup: status %d, want 409", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "já existe") {
		t.Fatalf("duplicate signup page missing notice:\n%s", body)
	}
}

func TestLoginFailureShowsNotice(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t)
	resp := postForm(t, c, srv.URL+"/login", url.Values{"username": {"ghost"}, "password": {"x"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d, want 401", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "incorretos") {
		t.Fatalf("login page missing failure notice:\n%s", body)
	}
}

func TestCreateBookRejectsBadYear(t *testing.T) {
	srv, appCore := newTestServer(t)
	c := newClient(t)
	signUpAndLogin(t, c, srv.URL, "alice", "pw1")

	form := url.Values{
		"titulo":    {"Dune"},
		"autor":     {"Frank Herbert"},
		"categoria": {"SciFi"},
		"ano":       {"mil novecentos"},
	}
	resp := postForm(t, c, srv.URL+"/criar", form)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad year: status %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
	books, _ := appCore.ListBooks()
	if len(books) != 0 {
		t.Fatalf("rejected create must not persist a book")
	}

	form.Set("ano", "1965")
	wantRedirect(t, postForm(t, c, srv.URL+"/criar", form), "/inicio")
	books, _ = appCore.ListBooks()
	if len(books) != 1 {
		t.Fatalf("got %d books after create, want 1", len(books))
	}
}

func TestEditUnknownBookRedirects(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t)
	signUpAndLogin(t, c, srv.URL, "alice", "pw1")

	wantRedirect(t, get(t, c, srv.URL+"/editar/missing"), "/inicio")
	form := url.Values{
		"titulo": {"t"}, "autor": {"a"}, "categoria": {"c"}, "ano": {"2000"}, "editora": {"p"},
	}
	wantRedirect(t, postForm(t, c, srv.URL+"/atualizar/missing", form), "/inicio")
	wantRedirect(t, get(t, c, srv.URL+"/deletar/missing"), "/inicio")
}

func TestReserveFlow(t *testing.T) {
	srv, appCore := newTestServer(t)
	active, err := appCore.CreateBook("Dune", "Frank Herbert", "SciFi", 1965, "", true)
	if err != nil {
		t.Fatalf("seed book: %v", err)
	}
	inactive, err := appCore.CreateBook("Neuromancer", "William Gibson", "SciFi", 1984, "", false)
	if err != nil {
		t.Fatalf("seed book: %v", err)
	}

	c := newClient(t)
	signUpAndLogin(t, c, srv.URL, "alice", "pw1")

	// The browsing view filters to active books only.
	body := readBody(t, get(t, c, srv.URL+"/reservar"))
	if !strings.Contains(body, "Dune") || strings.Contains(body, "Neuromancer") {
		t.Fatalf("reservar page should list only active books:\n%s", body)
	}

	wantRedirect(t, get(t, c, srv.URL+"/fazer_reserva/"+active.ID), "/reservar?aviso=reserva_ok")
	wantRedirect(t, get(t, c, srv.URL+"/fazer_reserva/"+active.ID), "/reservar?aviso=ja_reservado")
	wantRedirect(t, get(t, c, srv.URL+"/fazer_reserva/"+inactive.ID), "/reservar?aviso=livro_indisponivel")
	wantRedirect(t, get(t, c, srv.URL+"/fazer_reserva/missing"), "/reservar?aviso=livro_nao_encontrado")

	body = readBody(t, get(t, c, srv.URL+"/reservar?aviso=ja_reservado"))
	if !strings.Contains(body, "já reservou") {
		t.Fatalf("notice code not rendered:\n%s", body)
	}

	body = readBody(t, get(t, c, srv.URL+"/minhas_reservas"))
	if got := strings.Count(body, "Dune"); got != 1 {
		t.Fatalf("expected exactly one reservation listed, got %d occurrences:\n%s", got, body)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t)
	signUpAndLogin(t, c, srv.URL, "alice", "pw1")

	wantRedirect(t, get(t, c, srv.URL+"/logout"), "/login")
	wantRedirect(t, get(t, c, srv.URL+"/inicio"), "/login")
}

func TestSessionCookieFlags(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t)
	form := url.Values{"username": {"alice"}, "password": {"pw1"}}
	wantRedirect(t, postForm(t, c, srv.URL+"/cadastro", form), "/login?aviso=cadastro_ok")

	resp := postForm(t, c, srv.URL+"/login", form)
	defer resp.Body.Close()
	var session *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookie {
			session = cookie
		}
	}
	if session == nil {
		t.Fatalf("login should set the session cookie")
	}
	if !session.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if session.SameSite != http.SameSiteLaxMode {
		t.Fatalf("session cookie must be SameSite=Lax")
	}
}
