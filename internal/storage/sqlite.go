package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/attractions-admin/internal/models"
)

// ErrNotFound is returned when no attraction has the requested id.
var ErrNotFound = errors.New("attraction not found")

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows one writer; serialize through a single connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS attractions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			cover_image TEXT,
			latitude REAL,
			longitude REAL,
			rating REAL NOT NULL DEFAULT 4.5,
			distance TEXT,
			category TEXT NOT NULL DEFAULT '',
			is_recommended INTEGER NOT NULL DEFAULT 1,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attractions_category ON attractions(category)`,
		`CREATE INDEX IF NOT EXISTS idx_attractions_order ON attractions(sort_order DESC, id DESC)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// ListQuery selects a page of attractions
type ListQuery struct {
	Page          int
	PageSize      int
	Category      string
	IsRecommended *bool
	Keyword       string
}

const attractionColumns = `id, name, description, cover_image, latitude, longitude, rating,
	distance, category, is_recommended, sort_order, created_at, updated_at`

// ListAttractions returns one page of attractions and the total number matching q.
// A keyword search matches name, description and category and ignores the other filters.
func (s *Store) ListAttractions(q ListQuery) ([]models.Attraction, int, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}

	var where []string
	var args []interface{}
	if q.Keyword != "" {
		like := "%" + q.Keyword + "%"
		where = append(where, "(name LIKE ? OR description LIKE ? OR category LIKE ?)")
		args = append(args, like, like, like)
	} else {
		if q.Category != "" {
			where = append(where, "category = ?")
			args = append(args, q.Category)
		}
		if q.IsRecommended != nil {
			where = append(where, "is_recommended = ?")
			args = append(args, *q.IsRecommended)
		}
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM attractions`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageArgs := append(append([]interface{}{}, args...), q.PageSize, (q.Page-1)*q.PageSize)
	rows, err := s.db.Query(`SELECT `+attractionColumns+` FROM attractions`+clause+
		` ORDER BY sort_order DESC, created_at DESC, id DESC LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []models.Attraction{}
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *a)
	}
	return items, total, rows.Err()
}

// GetAttraction returns an attraction by ID
func (s *Store) GetAttraction(id int64) (*models.Attraction, error) {
	row := s.db.QueryRow(`SELECT `+attractionColumns+` FROM attractions WHERE id = ?`, id)
	a, err := scanAttraction(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateAttraction stores a new attraction and returns it with its assigned id
func (s *Store) CreateAttraction(in *models.AttractionInput) (*models.Attraction, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`
		INSERT INTO attractions (name, description, cover_image, latitude, longitude, rating,
			distance, category, is_recommended, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Name, in.Description, in.CoverImage, in.Latitude, in.Longitude, in.Rating,
		in.Distance, in.Category, in.IsRecommended, in.SortOrder, now, now)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetAttraction(id)
}

// BulkCreateAttractions inserts many attractions in a transaction
func (s *Store) BulkCreateAttractions(items []models.AttractionInput) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO attractions (name, description, cover_image, latitude, longitude, rating,
			distance, category, is_recommended, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, in := range items {
		_, err := stmt.Exec(in.Name, in.Description, in.CoverImage, in.Latitude, in.Longitude,
			in.Rating, in.Distance, in.Category, in.IsRecommended, in.SortOrder)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpdatableColumns lists the columns UpdateAttraction accepts, in the order they are written.
var UpdatableColumns = []string{
	"name", "category", "description", "latitude", "longitude", "rating",
	"distance", "sort_order", "is_recommended", "cover_image",
}

// UpdateAttraction sets the given columns of attraction id. A nil value stores NULL;
// columns not present in fields are left unchanged.
func (s *Store) UpdateAttraction(id int64, fields map[string]interface{}) (*models.Attraction, error) {
	// Build dynamic update query
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}

	for _, col := range UpdatableColumns {
		v, ok := fields[col]
		if !ok {
			continue
		}
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	for col := range fields {
		if !isUpdatable(col) {
			return nil, fmt.Errorf("column %q cannot be updated", col)
		}
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE attractions SET %s WHERE id = ?", strings.Join(sets, ", "))

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.GetAttraction(id)
}

func isUpdatable(col string) bool {
	for _, c := range UpdatableColumns {
		if c == col {
			return true
		}
	}
	return false
}

// DeleteAttraction removes attraction id
func (s *Store) DeleteAttraction(id int64) error {
	res, err := s.db.Exec(`DELETE FROM attractions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAttraction(row scanner) (*models.Attraction, error) {
	var a models.Attraction
	var description, coverImage, distance sql.NullString
	var latitude, longitude sql.NullFloat64

	err := row.Scan(&a.ID, &a.Name, &description, &coverImage, &latitude, &longitude,
		&a.Rating, &distance, &a.Category, &a.IsRecommended, &a.SortOrder, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		a.Description = &description.String
	}
	if coverImage.Valid {
		a.CoverImage = &coverImage.String
	}
	if distance.Valid {
		a.Distance = &distance.String
	}
	if latitude.Valid {
		a.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		a.Longitude = &longitude.Float64
	}
	return &a, nil
}
