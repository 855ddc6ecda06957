package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sahilkapur/patti-tracker/models"
	"github.com/sahilkapur/patti-tracker/ranking"
	"github.com/sahilkapur/patti-tracker/repositories"
)

const (
	dashboardTopPlayers  = 5
	dashboardRecentGames = 5
)

type DashboardService interface {
	GetStats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	playerRepo repositories.PlayerRepository
	gameRepo   repositories.GameRepository
	stats      StatsService
}

func NewDashboardService(
	playerRepo repositories.PlayerRepository,
	gameRepo repositories.GameRepository,
	stats StatsService,
) DashboardService {
	return &dashboardService{
		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		stats:      stats,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.PlayersTotal, err = s.playerRepo.Count(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		out.GamesTotal, err = s.gameRepo.Count(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		out.GamesThisMonth, err = s.gameRepo.CountSince(gCtx, monthStart)
		return err
	})
	g.Go(func() error {
		var err error
		out.TopPlayers, err = s.stats.GetLeaderboard(gCtx,
			string(ranking.TimeframeLifetime), "", "", dashboardTopPlayers)
		return err
	})
	g.Go(func() error {
		var err error
		out.RecentGames, err = s.gameRepo.List(gCtx, dashboardRecentGames, 0)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
