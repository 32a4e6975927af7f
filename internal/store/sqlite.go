// Package store persists the polygon collection in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"zone-marker/internal/polygon"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// ErrNameTaken reports a create with a name that already exists in the collection.
var ErrNameTaken = errors.New("polygon with this name already exists")

// PolygonStore is the persistence interface consumed by the API handlers.
type PolygonStore interface {
	List(ctx context.Context) ([]polygon.Polygon, error)
	Create(ctx context.Context, name string, points [][2]float64) (int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Close() error
}

type sqliteStore struct {
	db  *sql.DB
	log *logrus.Entry
}

// NewSQLite opens (and if needed initializes) a SQLite-backed polygon store.
func NewSQLite(dataSourceName string) (PolygonStore, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	stmt := `CREATE TABLE IF NOT EXISTS polygons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		points TEXT NOT NULL
	);`
	if _, err := db.Exec(stmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating polygons table: %w", err)
	}

	return &sqliteStore{db: db, log: logrus.WithField("component", "store")}, nil
}

func (s *sqliteStore) List(ctx context.Context) ([]polygon.Polygon, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, points FROM polygons ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	polygons := []polygon.Polygon{}
	for rows.Next() {
		var p polygon.Polygon
		var pointsJSON string
		if err := rows.Scan(&p.ID, &p.Name, &pointsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(pointsJSON), &p.Points); err != nil {
			// Skip rows with unreadable point data rather than failing the list.
			s.log.WithError(err).WithField("id", p.ID).Warn("skipping polygon with invalid points")
			continue
		}
		polygons = append(polygons, p)
	}
	return polygons, rows.Err()
}

func (s *sqliteStore) Create(ctx context.Context, name string, points [][2]float64) (int64, error) {
	var existing int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM polygons WHERE name = ?", name).Scan(&existing)
	switch {
	case err == nil:
		return 0, ErrNameTaken
	case !errors.Is(err, sql.ErrNoRows):
		return 0, err
	}

	pointsJSON, err := json.Marshal(points)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO polygons (name, points) VALUES (?, ?)", name, string(pointsJSON))
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"id": id, "name": name}).Info("polygon created")
	return id, nil
}

func (s *sqliteStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM polygons WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		s.log.WithField("id", id).Info("polygon deleted")
	}
	return affected > 0, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
