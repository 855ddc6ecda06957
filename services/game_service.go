package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/sahilkapur/patti-tracker/models"
	"github.com/sahilkapur/patti-tracker/ranking"
	"github.com/sahilkapur/patti-tracker/repositories"
)

type ResultEntryInput struct {
	PlayerID int `json:"player_id"`
	Position int `json:"position"`
}

type GameInput struct {
	Date     *models.Date       `json:"date"`
	Location *string            `json:"location"`
	GameType *string            `json:"game_type"`
	Notes    *string            `json:"notes"`
	Results  []ResultEntryInput `json:"results"`
}

type GameService interface {
	CreateGame(ctx context.Context, input GameInput) (*models.Game, error)
	UpdateGame(ctx context.Context, gameID int, input GameInput) (*models.Game, error)
	DeleteGame(ctx context.Context, gameID int) error
	GetGameByID(ctx context.Context, gameID int) (*models.Game, error)
	ListGames(ctx context.Context, limit, offset int) ([]models.Game, error)
}

type gameService struct {
	txStarter  repositories.TxStarter
	gameRepo   repositories.GameRepository
	resultRepo repositories.ResultRepository
	playerRepo repositories.PlayerRepository
	hub        *ranking.Hub
	logger     *slog.Logger
}

func NewGameService(
	txStarter repositories.TxStarter,
	gameRepo repositories.GameRepository,
	resultRepo repositories.ResultRepository,
	playerRepo repositories.PlayerRepository,
	hub *ranking.Hub,
	logger *slog.Logger,
) GameService {
	return &gameService{
		txStarter:  txStarter,
		gameRepo:   gameRepo,
		resultRepo: resultRepo,
		playerRepo: playerRepo,
		hub:        hub,
		logger:     logger,
	}
}

// CreateGame validates a candidate game and commits it as one atomic unit.
// Validation order and the failure reasons are part of the contract:
// non-empty results, distinct players, players exist, positions form the
// exact permutation 1..N. Nothing is persisted on any failure.
func (s *gameService) CreateGame(ctx context.Context, input GameInput) (*models.Game, error) {
	if err := validateEntryShape(input.Results); err != nil {
		return nil, err
	}

	game := gameFromInput(input)

	tx, err := s.txStarter.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
			}
		}
	}()

	if txErr = s.validateReferences(ctx, tx, input.Results); txErr != nil {
		return nil, txErr
	}
	if txErr = validatePositions(input.Results); txErr != nil {
		return nil, txErr
	}

	if txErr = s.gameRepo.Create(ctx, tx, game); txErr != nil {
		return nil, fmt.Errorf("failed to create game: %w", txErr)
	}
	results := resultsFromEntries(input.Results)
	if txErr = s.resultRepo.CreateBatch(ctx, tx, game.ID, results); txErr != nil {
		return nil, fmt.Errorf("failed to insert results: %w", txErr)
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit game: %w", txErr)
	}

	game.Results = results
	game.ResultCount = len(results)
	s.notifyLeaderboard(ranking.EventLeaderboardUpdated, game.ID)
	return game, nil
}

// UpdateGame re-validates and atomically replaces the game's full result
// set. A failure at any point leaves the previous game and results intact.
func (s *gameService) UpdateGame(ctx context.Context, gameID int, input GameInput) (*models.Game, error) {
	if err := validateEntryShape(input.Results); err != nil {
		return nil, err
	}

	existing, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	game := gameFromInput(input)
	game.ID = existing.ID
	game.CreatedAt = existing.CreatedAt
	if input.Date == nil {
		game.Date = existing.Date
	}
	if input.GameType == nil {
		game.GameType = existing.GameType
	}

	tx, err := s.txStarter.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
			}
		}
	}()

	if txErr = s.validateReferences(ctx, tx, input.Results); txErr != nil {
		return nil, txErr
	}
	if txErr = validatePositions(input.Results); txErr != nil {
		return nil, txErr
	}

	if txErr = s.gameRepo.Update(ctx, tx, game); txErr != nil {
		if errors.Is(txErr, repositories.ErrGameNotFound) {
			txErr = ErrGameNotFound
		}
		return nil, txErr
	}
	if txErr = s.resultRepo.DeleteByGameID(ctx, tx, gameID); txErr != nil {
		return nil, fmt.Errorf("failed to clear previous results: %w", txErr)
	}
	results := resultsFromEntries(input.Results)
	if txErr = s.resultRepo.CreateBatch(ctx, tx, gameID, results); txErr != nil {
		return nil, fmt.Errorf("failed to insert results: %w", txErr)
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit game update: %w", txErr)
	}

	game.Results = results
	game.ResultCount = len(results)
	s.notifyLeaderboard(ranking.EventLeaderboardUpdated, gameID)
	return game, nil
}

func (s *gameService) DeleteGame(ctx context.Context, gameID int) error {
	if err := s.gameRepo.Delete(ctx, gameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return ErrGameNotFound
		}
		return err
	}
	s.notifyLeaderboard(ranking.EventGameDeleted, gameID)
	return nil
}

func (s *gameService) GetGameByID(ctx context.Context, gameID int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	results, err := s.resultRepo.ListByGameID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	game.Results = results
	game.ResultCount = len(results)
	return game, nil
}

func (s *gameService) ListGames(ctx context.Context, limit, offset int) ([]models.Game, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.gameRepo.List(ctx, limit, offset)
}

// validateEntryShape covers the checks that need no database state:
// at least one entry, no player listed twice.
func validateEntryShape(entries []ResultEntryInput) error {
	if len(entries) == 0 {
		return ErrGameResultsRequired
	}
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if seen[e.PlayerID] {
			return ErrDuplicatePlayerInGame
		}
		seen[e.PlayerID] = true
	}
	return nil
}

// validatePositions enforces the permutation invariant: sorted positions
// must equal exactly [1, 2, ..., N]. Submitted positions are never coerced
// or renumbered; any deviation is a hard reject.
func validatePositions(entries []ResultEntryInput) error {
	positions := make([]int, len(entries))
	for i, e := range entries {
		positions[i] = e.Position
	}
	sort.Ints(positions)
	for i, p := range positions {
		if p != i+1 {
			return ErrInvalidPositionSequence
		}
	}
	return nil
}

func (s *gameService) validateReferences(ctx context.Context, tx repositories.Tx, entries []ResultEntryInput) error {
	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.PlayerID
	}
	missing, err := s.playerRepo.FilterMissingIDs(ctx, tx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify players: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrResultPlayerNotFound, missing)
	}
	return nil
}

func gameFromInput(input GameInput) *models.Game {
	game := &models.Game{
		Date:     time.Now(),
		GameType: models.DefaultGameType,
		Location: input.Location,
		Notes:    input.Notes,
	}
	if input.Date != nil {
		game.Date = input.Date.Time
	}
	if input.GameType != nil && *input.GameType != "" {
		game.GameType = *input.GameType
	}
	return game
}

func resultsFromEntries(entries []ResultEntryInput) []models.GameResult {
	results := make([]models.GameResult, len(entries))
	for i, e := range entries {
		results[i] = models.GameResult{PlayerID: e.PlayerID, Position: e.Position}
	}
	return results
}

func (s *gameService) notifyLeaderboard(event string, gameID int) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(ranking.WebSocketMessage{
		Type:    event,
		Payload: map[string]int{"game_id": gameID},
	})
}
