package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sahilkapur/patti-tracker/models"
)

var (
	ErrResultPlayerInvalid = errors.New("result references an invalid player")
	ErrResultGameInvalid   = errors.New("result references an invalid game")
	ErrResultConflict      = errors.New("player already has a result in this game")
)

type ResultRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, gameID int, results []models.GameResult) error
	DeleteByGameID(ctx context.Context, exec SQLExecutor, gameID int) error
	ListByGameID(ctx context.Context, gameID int) ([]models.GameResult, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateBatch inserts all result rows for one game. It is always called
// under the caller's transaction so a failure on any row aborts the lot.
func (r *postgresResultRepository) CreateBatch(ctx context.Context, exec SQLExecutor, gameID int, results []models.GameResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO game_results (game_id, player_id, position)
		VALUES ($1, $2, $3)
		RETURNING id`

	for i := range results {
		results[i].GameID = gameID
		err := executor.QueryRowContext(ctx, query,
			gameID,
			results[i].PlayerID,
			results[i].Position,
		).Scan(&results[i].ID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				switch pqErr.Code {
				case "23505": // unique_violation
					if pqErr.Constraint == "game_results_game_player_key" {
						return ErrResultConflict
					}
				case "23503": // foreign_key_violation
					if pqErr.Constraint == "game_results_player_id_fkey" {
						return ErrResultPlayerInvalid
					}
					if pqErr.Constraint == "game_results_game_id_fkey" {
						return ErrResultGameInvalid
					}
				}
			}
			return fmt.Errorf("failed to insert result for player %d: %w", results[i].PlayerID, err)
		}
	}
	return nil
}

func (r *postgresResultRepository) DeleteByGameID(ctx context.Context, exec SQLExecutor, gameID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM game_results WHERE game_id = $1`, gameID)
	return err
}

func (r *postgresResultRepository) ListByGameID(ctx context.Context, gameID int) ([]models.GameResult, error) {
	query := `
		SELECT r.id, r.game_id, r.player_id, r.position, p.name, p.avatar_url
		FROM game_results r
		JOIN players p ON p.id = r.player_id
		WHERE r.game_id = $1
		ORDER BY r.position ASC`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.GameResult, 0)
	for rows.Next() {
		var res models.GameResult
		var avatarURL sql.NullString
		if err := rows.Scan(&res.ID, &res.GameID, &res.PlayerID, &res.Position, &res.PlayerName, &avatarURL); err != nil {
			return nil, err
		}
		if avatarURL.Valid {
			res.PlayerAvatarURL = &avatarURL.String
		}
		results = append(results, res)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
