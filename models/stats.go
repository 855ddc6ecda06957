package models

import "time"

// ResultFact is the flattened (player, game, position) row the ranking engine
// folds over. Positions and dates arrive here already decoded to real types;
// no aggregation is done in SQL.
type ResultFact struct {
	PlayerID   int
	PlayerName string
	AvatarURL  *string
	GameID     int
	GameDate   time.Time
	Position   int
}

// PlayerStats is the derived per-player aggregate. It is recomputed from
// facts on every read and never stored as a source of truth.
type PlayerStats struct {
	PlayerID      int        `json:"player_id"`
	Name          string     `json:"name"`
	AvatarURL     *string    `json:"avatar_url,omitempty"`
	TotalGames    int        `json:"total_games"`
	GamesWon      int        `json:"games_won"`
	WinRate       float64    `json:"win_rate"`
	AvgPosition   float64    `json:"avg_position"`
	BestPosition  int        `json:"best_position"`
	WorstPosition int        `json:"worst_position"`
	Points        int        `json:"points"`
	RankingScore  float64    `json:"ranking_score"`
	LastGameDate  *time.Time `json:"last_game_date,omitempty"`
	Rank          int        `json:"rank,omitempty"`
}

type PositionCount struct {
	Position int `json:"position"`
	Count    int `json:"count"`
}

// ProgressionPoint is one historical snapshot in a player's score progression:
// the game played, the position taken, and the cumulative aggregate over all
// facts dated on or before that game's date.
type ProgressionPoint struct {
	GameID   int         `json:"game_id"`
	Date     time.Time   `json:"date"`
	Position int         `json:"position"`
	Stats    PlayerStats `json:"stats"`
}

type PlayerGameSummary struct {
	GameID   int       `json:"game_id"`
	Date     time.Time `json:"date"`
	GameType string    `json:"game_type"`
	Location *string   `json:"location,omitempty"`
	Position int       `json:"position"`
}

type PlayerAnalytics struct {
	Player            *Player             `json:"player"`
	Stats             PlayerStats         `json:"stats"`
	PositionBreakdown []PositionCount     `json:"position_breakdown"`
	RecentGames       []PlayerGameSummary `json:"recent_games"`
}
