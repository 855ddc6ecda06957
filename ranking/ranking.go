package ranking

import (
	"math"

	"github.com/sahilkapur/patti-tracker/models"
)

// Position points: 1st = 10, 2nd = 5, 3rd = 3, 4th = 1, 5th and below = 0.
const (
	firstPlacePoints  = 10
	secondPlacePoints = 5
	thirdPlacePoints  = 3
	fourthPlacePoints = 1

	// Ceiling of the consistency bonus scale. An average position of 1
	// over ten games earns the full (10 - 1) bonus points.
	consistencyCeiling = 10.0
)

// PositionPoints returns the direct points earned for a finishing position.
func PositionPoints(position int) int {
	switch position {
	case 1:
		return firstPlacePoints
	case 2:
		return secondPlacePoints
	case 3:
		return thirdPlacePoints
	case 4:
		return fourthPlacePoints
	default:
		return 0
	}
}

// ConsistencyBonus rewards a low average position scaled by games played:
// (10 - max(avgPosition, 1)) * totalGames / 10.
//
// The max(·, 1) clamp is carried over verbatim from the original scoring
// formula. Positions start at 1 so avgPosition can never fall below 1, but
// the clamp is part of the published score contract and stays.
func ConsistencyBonus(avgPosition float64, totalGames int) float64 {
	if totalGames == 0 {
		return 0
	}
	return (consistencyCeiling - math.Max(avgPosition, 1)) * float64(totalGames) / 10
}

// Round2 rounds to two decimal places, the precision all derived stats are
// reported at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compute folds a player's result facts into the derived aggregate.
// Identity fields (PlayerID, Name, AvatarURL) are taken from the first fact
// when present; callers fill them in themselves for the zero-games case.
// An empty fact set yields an all-zero aggregate, never an error.
func Compute(facts []models.ResultFact) models.PlayerStats {
	var stats models.PlayerStats
	if len(facts) == 0 {
		return stats
	}

	stats.PlayerID = facts[0].PlayerID
	stats.Name = facts[0].PlayerName
	stats.AvatarURL = facts[0].AvatarURL

	positionSum := 0
	for _, f := range facts {
		stats.TotalGames++
		positionSum += f.Position
		stats.Points += PositionPoints(f.Position)

		if f.Position == 1 {
			stats.GamesWon++
		}
		if stats.BestPosition == 0 || f.Position < stats.BestPosition {
			stats.BestPosition = f.Position
		}
		if f.Position > stats.WorstPosition {
			stats.WorstPosition = f.Position
		}
		if stats.LastGameDate == nil || f.GameDate.After(*stats.LastGameDate) {
			d := f.GameDate
			stats.LastGameDate = &d
		}
	}

	avg := float64(positionSum) / float64(stats.TotalGames)
	stats.WinRate = Round2(float64(stats.GamesWon) / float64(stats.TotalGames) * 100)
	stats.AvgPosition = Round2(avg)
	stats.RankingScore = Round2(float64(stats.Points) + ConsistencyBonus(avg, stats.TotalGames))

	return stats
}
