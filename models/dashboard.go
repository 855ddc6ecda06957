package models

type DashboardStats struct {
	PlayersTotal   int           `json:"players_total"`
	GamesTotal     int           `json:"games_total"`
	GamesThisMonth int           `json:"games_this_month"`
	TopPlayers     []PlayerStats `json:"top_players"`
	RecentGames    []Game        `json:"recent_games"`
}
