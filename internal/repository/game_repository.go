// This file defines repository methods for the game catalog. Games are
// static reference data maintained by organizers; sessions reference a
// game for its title and player range.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// ErrGameNotFound is returned when a game cannot be found.
var ErrGameNotFound = errors.New("game not found")

// GameRepo encapsulates all database queries related to games.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo constructs a GameRepo with the provided DB handle.
func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{db: db}
}

// Create inserts a new game. On success the ID, CreatedAt and
// UpdatedAt fields are populated from the database.
func (r *GameRepo) Create(ctx context.Context, g *model.Game) error {
	const qInsert = `INSERT INTO games (title, complexity, min_players, max_players)
	                 VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, g.Title, g.Complexity, g.MinPlayers, g.MaxPlayers)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)

	const qSelect = `SELECT created_at, updated_at FROM games WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, g.ID).Scan(&g.CreatedAt, &g.UpdatedAt)
}

// GetByID fetches a game by its ID. It returns ErrGameNotFound if no
// row is found.
func (r *GameRepo) GetByID(ctx context.Context, id uint64) (*model.Game, error) {
	const q = `SELECT id, title, complexity, min_players, max_players, created_at, updated_at
	           FROM games WHERE id = ?`
	var g model.Game
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&g.ID, &g.Title, &g.Complexity, &g.MinPlayers, &g.MaxPlayers, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ListAll returns the whole catalog ordered by title.
func (r *GameRepo) ListAll(ctx context.Context) ([]*model.Game, error) {
	const q = `SELECT id, title, complexity, min_players, max_players, created_at, updated_at
	           FROM games ORDER BY title, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Game
	for rows.Next() {
		g := new(model.Game)
		if err := rows.Scan(&g.ID, &g.Title, &g.Complexity, &g.MinPlayers, &g.MaxPlayers, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists mutable fields of a game. It returns sql.ErrNoRows
// when no row is affected.
func (r *GameRepo) Update(ctx context.Context, g *model.Game) error {
	const q = `UPDATE games
	           SET title = ?, complexity = ?, min_players = ?, max_players = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, g.Title, g.Complexity, g.MinPlayers, g.MaxPlayers, g.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
