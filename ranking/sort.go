package ranking

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilkapur/patti-tracker/models"
)

var (
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
)

type SortField string

const (
	SortByRankingScore SortField = "ranking_score"
	SortByGamesWon     SortField = "games_won"
	SortByWinRate      SortField = "win_rate"
	SortByTotalGames   SortField = "total_games"
	SortByAvgPosition  SortField = "avg_position"
	SortByBestPosition SortField = "best_position"
	SortByName         SortField = "name"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "ASC"
	OrderDesc SortOrder = "DESC"
)

// ParseSortField accepts only whitelisted field names. Anything else is an
// error, never a silent fallback to the default. Empty means the default
// ranking_score ordering.
func ParseSortField(s string) (SortField, error) {
	if s == "" {
		return SortByRankingScore, nil
	}
	switch f := SortField(s); f {
	case SortByRankingScore, SortByGamesWon, SortByWinRate, SortByTotalGames,
		SortByAvgPosition, SortByBestPosition, SortByName:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortField, s)
}

func ParseSortOrder(s string) (SortOrder, error) {
	if s == "" {
		return OrderDesc, nil
	}
	switch o := SortOrder(strings.ToUpper(s)); o {
	case OrderAsc, OrderDesc:
		return o, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, s)
}

// Sort orders standings by the requested field, then breaks ties with the
// fixed chain games_won DESC, win_rate DESC, avg_position ASC, name ASC.
// The name tiebreak makes the ordering fully deterministic. Ranks are
// assigned 1-based after sorting.
func Sort(standings []models.PlayerStats, field SortField, order SortOrder) {
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]

		if c := compareField(a, b, field); c != 0 {
			if order == OrderAsc {
				return c < 0
			}
			return c > 0
		}
		if a.GamesWon != b.GamesWon {
			return a.GamesWon > b.GamesWon
		}
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.AvgPosition != b.AvgPosition {
			return a.AvgPosition < b.AvgPosition
		}
		return a.Name < b.Name
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
}

// SortDefault applies the leaderboard's default ordering: ranking_score
// descending with the standard tiebreak chain.
func SortDefault(standings []models.PlayerStats) {
	Sort(standings, SortByRankingScore, OrderDesc)
}

func compareField(a, b models.PlayerStats, field SortField) int {
	switch field {
	case SortByGamesWon:
		return compareInt(a.GamesWon, b.GamesWon)
	case SortByWinRate:
		return compareFloat(a.WinRate, b.WinRate)
	case SortByTotalGames:
		return compareInt(a.TotalGames, b.TotalGames)
	case SortByAvgPosition:
		return compareFloat(a.AvgPosition, b.AvgPosition)
	case SortByBestPosition:
		return compareInt(a.BestPosition, b.BestPosition)
	case SortByName:
		return strings.Compare(a.Name, b.Name)
	default:
		return compareFloat(a.RankingScore, b.RankingScore)
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
