package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/sahilkapur/patti-tracker/models"
	"github.com/sahilkapur/patti-tracker/services"
)

func TestDashboardGetStats(t *testing.T) {
	playerRepo := newMockPlayerRepo(
		&models.Player{ID: 1, Name: "Asha"},
		&models.Player{ID: 2, Name: "Bhavna"},
	)
	gameRepo := newMockGameRepo(
		&models.Game{ID: 1, Date: time.Now()},
		&models.Game{ID: 2, Date: time.Now()},
		&models.Game{ID: 3, Date: time.Now()},
	)
	gameRepo.countSince = 2
	statsSvc := services.NewStatsService(&mockStatsRepo{}, playerRepo, gameRepo)
	svc := services.NewDashboardService(playerRepo, gameRepo, statsSvc)

	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.PlayersTotal != 2 {
		t.Errorf("PlayersTotal = %d, want 2", stats.PlayersTotal)
	}
	if stats.GamesTotal != 3 {
		t.Errorf("GamesTotal = %d, want 3", stats.GamesTotal)
	}
	if stats.GamesThisMonth != 2 {
		t.Errorf("GamesThisMonth = %d, want 2", stats.GamesThisMonth)
	}
	if len(stats.TopPlayers) != 2 {
		t.Errorf("TopPlayers = %d, want 2", len(stats.TopPlayers))
	}
	if len(stats.RecentGames) != 3 {
		t.Errorf("RecentGames = %d, want 3", len(stats.RecentGames))
	}
}

func TestDashboardGetStatsPropagatesErrors(t *testing.T) {
	playerRepo := newMockPlayerRepo()
	gameRepo := newMockGameRepo()
	statsSvc := services.NewStatsService(&mockStatsRepo{listErr: errBoom}, playerRepo, gameRepo)
	svc := services.NewDashboardService(playerRepo, gameRepo, statsSvc)

	if _, err := svc.GetStats(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
}
