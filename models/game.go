package models

import "time"

const DefaultGameType = "3 Patti"

type Game struct {
	ID        int       `json:"id"`
	Date      time.Time `json:"date"`
	Location  *string   `json:"location,omitempty"`
	GameType  string    `json:"game_type"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Populated by the service layer, not stored on the games row.
	Results     []GameResult `json:"results,omitempty"`
	ResultCount int          `json:"result_count,omitempty"`
}
