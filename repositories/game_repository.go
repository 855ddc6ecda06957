package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sahilkapur/patti-tracker/models"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	Update(ctx context.Context, exec SQLExecutor, game *models.Game) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, limit, offset int) ([]models.Game, error)
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO games (date, location, game_type, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return executor.QueryRowContext(ctx, query,
		game.Date,
		game.Location,
		game.GameType,
		game.Notes,
	).Scan(&game.ID, &game.CreatedAt)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `
		SELECT id, date, location, game_type, notes, created_at
		FROM games
		WHERE id = $1`

	return r.scanGame(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) Update(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE games SET
			date = $1,
			location = $2,
			game_type = $3,
			notes = $4
		WHERE id = $5`

	result, err := executor.ExecContext(ctx, query,
		game.Date,
		game.Location,
		game.GameType,
		game.Notes,
		game.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) Delete(ctx context.Context, id int) error {
	// Result facts cascade (ON DELETE CASCADE on game_results.game_id).
	result, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) List(ctx context.Context, limit, offset int) ([]models.Game, error) {
	query := `
		SELECT g.id, g.date, g.location, g.game_type, g.notes, g.created_at,
		       COUNT(r.id) AS result_count
		FROM games g
		LEFT JOIN game_results r ON r.game_id = g.id
		GROUP BY g.id
		ORDER BY g.date DESC, g.id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		var g models.Game
		var location, notes sql.NullString
		if err := rows.Scan(&g.ID, &g.Date, &location, &g.GameType, &notes, &g.CreatedAt, &g.ResultCount); err != nil {
			return nil, err
		}
		if location.Valid {
			g.Location = &location.String
		}
		if notes.Valid {
			g.Notes = &notes.String
		}
		games = append(games, g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *postgresGameRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&count)
	return count, err
}

func (r *postgresGameRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM games WHERE date >= $1`, since).Scan(&count)
	return count, err
}

func (r *postgresGameRepository) scanGame(row *sql.Row) (*models.Game, error) {
	var g models.Game
	var location, notes sql.NullString
	err := row.Scan(&g.ID, &g.Date, &location, &g.GameType, &notes, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	if location.Valid {
		g.Location = &location.String
	}
	if notes.Valid {
		g.Notes = &notes.String
	}
	return &g, nil
}
