package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Expected header columns of the catalog CSV.
const (
	columnTitle    = "Titulo do Livro"
	columnAuthor   = "Autor"
	columnCategory = "Categoria"
	columnYear     = "Ano de Publicação"
	columnActive   = "Ativo"
)

// ImportCatalog loads the catalog CSV once at startup, before any request is
// served. Rows whose exact title already exists are skipped, so re-running
// the import produces no duplicates. Any malformed row aborts the import,
// which is fatal to process startup.
func (a *App) ImportCatalog(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open catalog csv: %w", err)
	}
	defer f.Close()

	imported, skipped, err := a.importRows(csv.NewReader(f))
	if err != nil {
		return fmt.Errorf("import catalog %s: %w", path, err)
	}
	slog.Info("catalog import complete", "path", path, "imported", imported, "skipped", skipped)
	return nil
}

func (a *App) importRows(r *csv.Reader) (imported, skipped int, err error) {
	header, err := r.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read header: %w", err)
	}
	cols, err := headerIndex(header)
	if err != nil {
		return 0, 0, err
	}

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("row %d: %w", line, err)
		}

		title := strings.TrimSpace(row[cols[columnTitle]])
		author := strings.TrimSpace(row[cols[columnAuthor]])
		category := strings.TrimSpace(row[cols[columnCategory]])
		if title == "" || author == "" || category == "" {
			return imported, skipped, fmt.Errorf("row %d: missing required field", line)
		}
		year, err := strconv.Atoi(strings.TrimSpace(row[cols[columnYear]]))
		if err != nil {
			return imported, skipped, fmt.Errorf("row %d: invalid year %q", line, row[cols[columnYear]])
		}
		active := strings.TrimSpace(row[cols[columnActive]]) == "TRUE"

		exists, err := a.store.HasBookTitle(title)
		if err != nil {
			return imported, skipped, fmt.Errorf("row %d: check title: %w", line, err)
		}
		if exists {
			skipped++
			continue
		}
		if _, err := a.CreateBook(title, author, category, year, "", active); err != nil {
			return imported, skipped, fmt.Errorf("row %d: %w", line, err)
		}
		imported++
	}
	return imported, skipped, nil
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{columnTitle, columnAuthor, columnCategory, columnYear, columnActive} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("catalog csv missing column %q", required)
		}
	}
	return cols, nil
}
