package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sahilkapur/patti-tracker/models"
)

// StatsRepository reads flattened (player, game, position) fact rows for the
// ranking engine. Time windows arrive as concrete time.Time bind parameters
// computed by the caller from the closed timeframe enum; no caller-supplied
// token ever reaches the SQL text. All aggregation happens in Go on the
// typed rows these methods return.
type StatsRepository interface {
	// ListFacts returns facts for all players, optionally bounded below
	// (since, inclusive) and above (until, inclusive) by game date.
	ListFacts(ctx context.Context, since, until *time.Time) ([]models.ResultFact, error)
	// ListFactsByPlayer returns one player's facts in chronological order.
	ListFactsByPlayer(ctx context.Context, playerID int, since, until *time.Time) ([]models.ResultFact, error)
	// ListPlayerGames returns a player's most recent games, newest first.
	ListPlayerGames(ctx context.Context, playerID int, limit int) ([]models.PlayerGameSummary, error)
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

const factColumns = `
	SELECT p.id, p.name, p.avatar_url, g.id, g.date, r.position
	FROM game_results r
	JOIN players p ON p.id = r.player_id
	JOIN games g ON g.id = r.game_id`

func (r *postgresStatsRepository) ListFacts(ctx context.Context, since, until *time.Time) ([]models.ResultFact, error) {
	query, args := buildFactQuery(nil, since, until, "ORDER BY p.id ASC, g.date ASC, g.id ASC")
	return r.queryFacts(ctx, query, args...)
}

func (r *postgresStatsRepository) ListFactsByPlayer(ctx context.Context, playerID int, since, until *time.Time) ([]models.ResultFact, error) {
	query, args := buildFactQuery(&playerID, since, until, "ORDER BY g.date ASC, g.id ASC")
	return r.queryFacts(ctx, query, args...)
}

// buildFactQuery assembles the fact SELECT with only fixed clause text;
// every variable value is a bind parameter.
func buildFactQuery(playerID *int, since, until *time.Time, orderBy string) (string, []interface{}) {
	var b strings.Builder
	b.WriteString(factColumns)

	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, strings.Replace(clause, "?", fmt.Sprintf("$%d", len(args)), 1))
	}

	if playerID != nil {
		addCondition("p.id = ?", *playerID)
	}
	if since != nil {
		addCondition("g.date >= ?", *since)
	}
	if until != nil {
		addCondition("g.date <= ?", *until)
	}

	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	b.WriteString(" ")
	b.WriteString(orderBy)
	return b.String(), args
}

func (r *postgresStatsRepository) queryFacts(ctx context.Context, query string, args ...interface{}) ([]models.ResultFact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	facts := make([]models.ResultFact, 0)
	for rows.Next() {
		var f models.ResultFact
		var avatarURL sql.NullString
		if err := rows.Scan(&f.PlayerID, &f.PlayerName, &avatarURL, &f.GameID, &f.GameDate, &f.Position); err != nil {
			return nil, err
		}
		if avatarURL.Valid {
			f.AvatarURL = &avatarURL.String
		}
		facts = append(facts, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return facts, nil
}

func (r *postgresStatsRepository) ListPlayerGames(ctx context.Context, playerID int, limit int) ([]models.PlayerGameSummary, error) {
	query := `
		SELECT g.id, g.date, g.game_type, g.location, r.position
		FROM game_results r
		JOIN games g ON g.id = r.game_id
		WHERE r.player_id = $1
		ORDER BY g.date DESC, g.id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.PlayerGameSummary, 0)
	for rows.Next() {
		var s models.PlayerGameSummary
		var location sql.NullString
		if err := rows.Scan(&s.GameID, &s.Date, &s.GameType, &location, &s.Position); err != nil {
			return nil, err
		}
		if location.Valid {
			s.Location = &location.String
		}
		games = append(games, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}
