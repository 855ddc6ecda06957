package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sahilkapur/patti-tracker/models"
	"github.com/sahilkapur/patti-tracker/repositories"
)

func TestDeletePlayerCascadesOnlyTheirResults(t *testing.T) {
	dbConn := newTestDB(t)
	ctx := context.Background()

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)

	asha := createTestPlayer(t, playerRepo, "Asha")
	bhavna := createTestPlayer(t, playerRepo, "Bhavna")
	game := createTestGame(t, gameRepo, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

	results := []models.GameResult{
		{PlayerID: asha.ID, Position: 1},
		{PlayerID: bhavna.ID, Position: 2},
	}
	if err := resultRepo.CreateBatch(ctx, nil, game.ID, results); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	if err := playerRepo.Delete(ctx, asha.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	remaining, err := resultRepo.ListByGameID(ctx, game.ID)
	if err != nil {
		t.Fatalf("ListByGameID: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("remaining results = %d, want 1", len(remaining))
	}
	if remaining[0].PlayerID != bhavna.ID {
		t.Errorf("surviving result belongs to player %d, want %d", remaining[0].PlayerID, bhavna.ID)
	}

	// The game itself survives the player deletion.
	if _, err := gameRepo.GetByID(ctx, game.ID); err != nil {
		t.Errorf("game should still exist: %v", err)
	}
}

func TestDeleteGameCascadesResultsAndKeepsPlayers(t *testing.T) {
	dbConn := newTestDB(t)
	ctx := context.Background()

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)

	asha := createTestPlayer(t, playerRepo, "Asha")
	game := createTestGame(t, gameRepo, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

	if err := resultRepo.CreateBatch(ctx, nil, game.ID, []models.GameResult{
		{PlayerID: asha.ID, Position: 1},
	}); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	if err := gameRepo.Delete(ctx, game.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if n := countResults(t, dbConn); n != 0 {
		t.Errorf("results after game delete = %d, want 0", n)
	}
	if _, err := playerRepo.GetByID(ctx, asha.ID); err != nil {
		t.Errorf("player should still exist: %v", err)
	}
}

func TestDuplicateGamePlayerResultIsRejected(t *testing.T) {
	dbConn := newTestDB(t)
	ctx := context.Background()

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)

	asha := createTestPlayer(t, playerRepo, "Asha")
	game := createTestGame(t, gameRepo, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

	if err := resultRepo.CreateBatch(ctx, nil, game.ID, []models.GameResult{
		{PlayerID: asha.ID, Position: 1},
	}); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	err := resultRepo.CreateBatch(ctx, nil, game.ID, []models.GameResult{
		{PlayerID: asha.ID, Position: 2},
	})
	if !errors.Is(err, repositories.ErrResultConflict) {
		t.Fatalf("duplicate insert error = %v, want ErrResultConflict", err)
	}
}

func TestMidBatchFailureRollsBackAllRows(t *testing.T) {
	dbConn := newTestDB(t)
	ctx := context.Background()

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	txStarter := repositories.NewTxStarter(dbConn)

	asha := createTestPlayer(t, playerRepo, "Asha")
	game := createTestGame(t, gameRepo, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

	tx, err := txStarter.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// Second row references a player that does not exist, so the whole
	// batch must come to nothing.
	err = resultRepo.CreateBatch(ctx, tx, game.ID, []models.GameResult{
		{PlayerID: asha.ID, Position: 1},
		{PlayerID: 999999, Position: 2},
	})
	if !errors.Is(err, repositories.ErrResultPlayerInvalid) {
		t.Fatalf("CreateBatch error = %v, want ErrResultPlayerInvalid", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	if n := countResults(t, dbConn); n != 0 {
		t.Errorf("results after rollback = %d, want 0", n)
	}
}

func TestPlayerNameUniqueConflict(t *testing.T) {
	dbConn := newTestDB(t)
	ctx := context.Background()

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	createTestPlayer(t, playerRepo, "Asha")

	err := playerRepo.Create(ctx, &models.Player{Name: "Asha"})
	if !errors.Is(err, repositories.ErrPlayerNameConflict) {
		t.Fatalf("duplicate name error = %v, want ErrPlayerNameConflict", err)
	}
}
