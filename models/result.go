package models

// GameResult is one player's finishing position within one game.
// Position is 1-based; 1 is the winner. At most one row per (game, player).
type GameResult struct {
	ID       int `json:"id"`
	GameID   int `json:"game_id"`
	PlayerID int `json:"player_id"`
	Position int `json:"position"`

	// Joined player data, populated on reads.
	PlayerName      string  `json:"player_name,omitempty"`
	PlayerAvatarURL *string `json:"player_avatar_url,omitempty"`
}
