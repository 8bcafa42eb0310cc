package catalog

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
)

const sqliteDriver = "sqlite3_catalog"

var registerDriver sync.Once

// fold is exposed to SQL so case folding matches strings.ToLower exactly.
// SQLite's own lower() only folds ASCII.
func registerSQLiteDriver() {
	registerDriver.Do(func() {
		sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("fold", strings.ToLower, true)
			},
		})
	})
}

// SQLiteRepository keeps the catalog in an in-memory SQLite database.
// The database disappears with the process.
type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS items (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	thumbnail TEXT NOT NULL,
	source_kind TEXT NOT NULL,
	source_url TEXT NOT NULL,
	source_handle TEXT NOT NULL,
	category TEXT NOT NULL,
	kind TEXT NOT NULL,
	year INTEGER NOT NULL,
	duration TEXT NOT NULL,
	seasons INTEGER NOT NULL,
	rating TEXT NOT NULL,
	featured INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS items_id ON items (id);
CREATE INDEX IF NOT EXISTS items_category ON items (category);
CREATE TABLE IF NOT EXISTS item_genres (
	item_seq INTEGER NOT NULL REFERENCES items (seq),
	pos INTEGER NOT NULL,
	genre TEXT NOT NULL,
	PRIMARY KEY (item_seq, pos)
);`

// NewSQLiteRepository opens a named in-memory database. An empty name gives a
// private database.
func NewSQLiteRepository(name string) (*SQLiteRepository, error) {
	registerSQLiteDriver()

	dsn := ":memory:"
	if name != "" {
		dsn = fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(name))
	}
	db, err := sql.Open(sqliteDriver, dsn)
	if err != nil {
		return nil, err
	}
	// every new connection to :memory: would see an empty database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (s *SQLiteRepository) Close() error {
	return s.db.Close()
}

func (s *SQLiteRepository) Insert(item MediaItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO items (id, title, description, thumbnail, source_kind, source_url, source_handle,
			category, kind, year, duration, seasons, rating, featured)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.Description, item.Thumbnail,
		string(item.Source.Kind), item.Source.URL, item.Source.Handle,
		item.Category, string(item.Kind), item.Year, item.Duration, item.Seasons, item.Rating, item.Featured,
	)
	if err != nil {
		return fmt.Errorf("sqlite insert failed: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for pos, g := range item.Genres {
		if _, err := tx.Exec(
			`INSERT INTO item_genres (item_seq, pos, genre) VALUES (?, ?, ?)`,
			seq, pos, g,
		); err != nil {
			return fmt.Errorf("sqlite insert genre failed: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteRepository) Get(id string) (*MediaItem, error) {
	items, err := s.query(`i.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrItemNotFound
	}
	return &items[0], nil
}

func (s *SQLiteRepository) List() ([]MediaItem, error) {
	return s.query(`1 = 1`)
}

func (s *SQLiteRepository) ListByCategory(tag string) ([]MediaItem, error) {
	return s.query(`i.category = ?`, tag)
}

func (s *SQLiteRepository) Search(query string) ([]MediaItem, error) {
	if query == "" {
		return s.List()
	}
	q := strings.ToLower(query)
	return s.query(
		`instr(fold(i.title), ?) > 0
		OR instr(fold(i.description), ?) > 0
		OR EXISTS (SELECT 1 FROM item_genres g WHERE g.item_seq = i.seq AND instr(fold(g.genre), ?) > 0)`,
		q, q, q,
	)
}

func (s *SQLiteRepository) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM item_genres`); err != nil {
		return fmt.Errorf("sqlite reset failed: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM items`); err != nil {
		return fmt.Errorf("sqlite reset failed: %w", err)
	}
	return tx.Commit()
}

type row struct {
	seq  int64
	item MediaItem
}

func (s *SQLiteRepository) query(where string, args ...any) ([]MediaItem, error) {
	rows, err := s.scanItems(where, args...)
	if err != nil {
		return nil, err
	}
	// the single connection is free again once scanItems returns
	genres, err := s.genresBySeq()
	if err != nil {
		return nil, err
	}
	out := make([]MediaItem, 0, len(rows))
	for _, r := range rows {
		r.item.Genres = genres[r.seq]
		if r.item.Genres == nil {
			r.item.Genres = []string{}
		}
		out = append(out, r.item)
	}
	return out, nil
}

func (s *SQLiteRepository) scanItems(where string, args ...any) ([]row, error) {
	rows, err := s.db.Query(
		`SELECT i.seq, i.id, i.title, i.description, i.thumbnail, i.source_kind, i.source_url, i.source_handle,
			i.category, i.kind, i.year, i.duration, i.seasons, i.rating, i.featured
		FROM items i WHERE `+where+` ORDER BY i.seq`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []row
	for rows.Next() {
		var (
			r                    row
			sourceKind, itemKind string
		)
		if err := rows.Scan(
			&r.seq, &r.item.ID, &r.item.Title, &r.item.Description, &r.item.Thumbnail,
			&sourceKind, &r.item.Source.URL, &r.item.Source.Handle,
			&r.item.Category, &itemKind, &r.item.Year, &r.item.Duration, &r.item.Seasons,
			&r.item.Rating, &r.item.Featured,
		); err != nil {
			return nil, err
		}
		r.item.Source.Kind = SourceKind(sourceKind)
		r.item.Kind = Kind(itemKind)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteRepository) genresBySeq() (map[int64][]string, error) {
	rows, err := s.db.Query(`SELECT item_seq, genre FROM item_genres ORDER BY item_seq, pos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]string)
	for rows.Next() {
		var (
			seq   int64
			genre string
		)
		if err := rows.Scan(&seq, &genre); err != nil {
			return nil, err
		}
		out[seq] = append(out[seq], genre)
	}
	return out, rows.Err()
}
