package server

import (
	"html/template"
	"net/http"

	"biblioteca/pkg/domain"
)

// pageData carries everything a page render needs, including the explicit
// per-render notice list (no ambient session flash state).
type pageData struct {
	Title        string
	Notices      []string
	User         domain.User
	Books        []domain.Book
	Book         domain.Book
	Reservations []domain.ReservationView
}

// Presentation is intentionally minimal: a handful of small server-rendered
// pages sharing one layout.
var pages = template.Must(template.New("pages").Parse(`
{{define "head"}}<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{range .Notices}}<p class="aviso">{{.}}</p>{{end}}
{{end}}

{{define "foot"}}</body></html>{{end}}

{{define "login"}}{{template "head" .}}
<form method="post" action="/login">
<label>Usuário <input name="username" required></label>
<label>Senha <input name="password" type="password" required></label>
<button type="submit">Entrar</button>
</form>
<p><a href="/cadastro">Criar conta</a></p>
{{template "foot" .}}{{end}}

{{define "cadastro"}}{{template "head" .}}
<form method="post" action="/cadastro">
<label>Usuário <input name="username" required></label>
<label>Senha <input name="password" type="password" required></label>
<button type="submit">Cadastrar</button>
</form>
<p><a href="/login">Já tenho conta</a></p>
{{template "foot" .}}{{end}}

{{define "lista"}}{{template "head" .}}
<p><a href="/novo">Novo livro</a> | <a href="/reservar">Reservar</a> | <a href="/minhas_reservas">Minhas reservas</a> | <a href="/logout">Sair</a></p>
<table>
<tr><th>Título</th><th>Autor</th><th>Categoria</th><th>Ano</th><th>Editora</th><th>Ativo</th><th></th></tr>
{{range .Books}}<tr>
<td>{{.Title}}</td><td>{{.Author}}</td><td>{{.Category}}</td><td>{{.Year}}</td><td>{{.Publisher}}</td><td>{{if .Active}}sim{{else}}não{{end}}</td>
<td><a href="/editar/{{.ID}}">editar</a> <a href="/deletar/{{.ID}}">excluir</a></td>
</tr>{{end}}
</table>
{{template "foot" .}}{{end}}

{{define "novo"}}{{template "head" .}}
<form method="post" action="/criar">
{{template "campos" .Book}}
<label>Ativo <input name="ativo" type="checkbox"></label>
<button type="submit">Criar</button>
</form>
{{template "foot" .}}{{end}}

{{define "editar"}}{{template "head" .}}
<form method="post" action="/atualizar/{{.Book.ID}}">
{{template "campos" .Book}}
<button type="submit">Salvar</button>
</form>
{{template "foot" .}}{{end}}

{{define "campos"}}
<label>Título <input name="titulo" value="{{.Title}}" required></label>
<label>Autor <input name="autor" value="{{.Author}}" required></label>
<label>Categoria <input name="categoria" value="{{.Category}}" required></label>
<label>Ano <input name="ano" value="{{if .Year}}{{.Year}}{{end}}" required></label>
<label>Editora <input name="editora" value="{{.Publisher}}"></label>
{{end}}

{{define "reservar"}}{{template "head" .}}
<p><a href="/inicio">Início</a> | <a href="/minhas_reservas">Minhas reservas</a></p>
<ul>
{{range .Books}}<li>{{.Title}} — {{.Author}} <a href="/fazer_reserva/{{.ID}}">reservar</a></li>{{end}}
</ul>
{{template "foot" .}}{{end}}

{{define "minhas_reservas"}}{{template "head" .}}
<p><a href="/inicio">Início</a> | <a href="/reservar">Reservar</a></p>
<ul>
{{range .Reservations}}<li>{{.Book.Title}} — {{.Book.Author}} ({{.Reservation.ReservedAt.Format "02/01/2006 15:04"}})</li>{{end}}
</ul>
{{template "foot" .}}{{end}}
`))

func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		// Headers are already out; nothing to do beyond logging.
		s.logRenderError(name, err)
	}
}
