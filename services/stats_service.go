package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sahilkapur/patti-tracker/models"
	"github.com/sahilkapur/patti-tracker/ranking"
	"github.com/sahilkapur/patti-tracker/repositories"
)

const defaultRecentGames = 10

type StatsService interface {
	GetLeaderboard(ctx context.Context, timeframe, sortBy, sortOrder string, limit int) ([]models.PlayerStats, error)
	GetPlayerAnalytics(ctx context.Context, playerID int, timeframe string) (*models.PlayerAnalytics, error)
	GetScoreProgression(ctx context.Context, playerID int) ([]models.ProgressionPoint, error)
	GetCumulativeScoresAsOf(ctx context.Context, gameID int) ([]models.PlayerStats, error)
}

type statsService struct {
	statsRepo  repositories.StatsRepository
	playerRepo repositories.PlayerRepository
	gameRepo   repositories.GameRepository
}

func NewStatsService(
	statsRepo repositories.StatsRepository,
	playerRepo repositories.PlayerRepository,
	gameRepo repositories.GameRepository,
) StatsService {
	return &statsService{
		statsRepo:  statsRepo,
		playerRepo: playerRepo,
		gameRepo:   gameRepo,
	}
}

// GetLeaderboard aggregates every player's facts within the timeframe and
// orders them by the requested whitelisted field. Players with no facts in
// the window still appear, with an all-zero aggregate.
func (s *statsService) GetLeaderboard(ctx context.Context, timeframe, sortBy, sortOrder string, limit int) ([]models.PlayerStats, error) {
	tf, err := ranking.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	field, err := ranking.ParseSortField(sortBy)
	if err != nil {
		return nil, err
	}
	order, err := ranking.ParseSortOrder(sortOrder)
	if err != nil {
		return nil, err
	}

	var since *time.Time
	if cutoff, ok := tf.Cutoff(time.Now()); ok {
		since = &cutoff
	}

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	facts, err := s.statsRepo.ListFacts(ctx, since, nil)
	if err != nil {
		return nil, err
	}

	byPlayer := groupFacts(facts)
	standings := make([]models.PlayerStats, 0, len(players))
	for _, p := range players {
		stats := ranking.Compute(byPlayer[p.ID])
		stats.PlayerID = p.ID
		stats.Name = p.Name
		stats.AvatarURL = p.AvatarURL
		standings = append(standings, stats)
	}

	ranking.Sort(standings, field, order)
	if limit > 0 && limit < len(standings) {
		standings = standings[:limit]
	}
	return standings, nil
}

// GetPlayerAnalytics reports a player's aggregate plus breakdowns. A player
// with zero games yields a zero aggregate; an unknown player id is NotFound
// so callers can tell the two apart.
func (s *statsService) GetPlayerAnalytics(ctx context.Context, playerID int, timeframe string) (*models.PlayerAnalytics, error) {
	tf, err := ranking.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	var since *time.Time
	if cutoff, ok := tf.Cutoff(time.Now()); ok {
		since = &cutoff
	}
	facts, err := s.statsRepo.ListFactsByPlayer(ctx, playerID, since, nil)
	if err != nil {
		return nil, err
	}
	recent, err := s.statsRepo.ListPlayerGames(ctx, playerID, defaultRecentGames)
	if err != nil {
		return nil, err
	}

	stats := ranking.Compute(facts)
	stats.PlayerID = player.ID
	stats.Name = player.Name
	stats.AvatarURL = player.AvatarURL

	return &models.PlayerAnalytics{
		Player:            player,
		Stats:             stats,
		PositionBreakdown: positionBreakdown(facts),
		RecentGames:       recent,
	}, nil
}

// GetScoreProgression reconstructs how a player's aggregate evolved: one
// snapshot per game in chronological order, each computed over the facts
// dated on or before that game's date.
func (s *statsService) GetScoreProgression(ctx context.Context, playerID int) ([]models.ProgressionPoint, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	facts, err := s.statsRepo.ListFactsByPlayer(ctx, playerID, nil, nil)
	if err != nil {
		return nil, err
	}

	points := make([]models.ProgressionPoint, 0, len(facts))
	for _, f := range facts {
		window := factsUntil(facts, f.GameDate)
		points = append(points, models.ProgressionPoint{
			GameID:   f.GameID,
			Date:     f.GameDate,
			Position: f.Position,
			Stats:    ranking.Compute(window),
		})
	}
	return points, nil
}

// GetCumulativeScoresAsOf computes every player's aggregate using only facts
// dated on or before the reference game's date. A pure function of the fact
// store: re-running it later with no new games yields identical output.
func (s *statsService) GetCumulativeScoresAsOf(ctx context.Context, gameID int) ([]models.PlayerStats, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	until := game.Date
	facts, err := s.statsRepo.ListFacts(ctx, nil, &until)
	if err != nil {
		return nil, err
	}

	byPlayer := groupFacts(facts)
	standings := make([]models.PlayerStats, 0, len(byPlayer))
	for _, playerFacts := range byPlayer {
		standings = append(standings, ranking.Compute(playerFacts))
	}

	ranking.SortDefault(standings)
	return standings, nil
}

func groupFacts(facts []models.ResultFact) map[int][]models.ResultFact {
	byPlayer := make(map[int][]models.ResultFact)
	for _, f := range facts {
		byPlayer[f.PlayerID] = append(byPlayer[f.PlayerID], f)
	}
	return byPlayer
}

func factsUntil(facts []models.ResultFact, until time.Time) []models.ResultFact {
	window := make([]models.ResultFact, 0, len(facts))
	for _, f := range facts {
		if !f.GameDate.After(until) {
			window = append(window, f)
		}
	}
	return window
}

func positionBreakdown(facts []models.ResultFact) []models.PositionCount {
	counts := make(map[int]int)
	for _, f := range facts {
		counts[f.Position]++
	}
	positions := make([]int, 0, len(counts))
	for p := range counts {
		positions = append(positions, p)
	}
	sort.Ints(positions)

	breakdown := make([]models.PositionCount, 0, len(positions))
	for _, p := range positions {
		breakdown = append(breakdown, models.PositionCount{Position: p, Count: counts[p]})
	}
	return breakdown
}
