package services_test

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sahilkapur/patti-tracker/models"
	"github.com/sahilkapur/patti-tracker/repositories"
)

// Hand-written fakes for the repository interfaces. Behavior is configured
// per test through function fields; unset fields mean the call succeeds with
// zero values.

type mockTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *mockTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *mockTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *mockTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *mockTx) Commit() error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *mockTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type mockTxStarter struct {
	tx       *mockTx
	beginErr error
}

func (s *mockTxStarter) Begin(ctx context.Context) (repositories.Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return s.tx, nil
}

type mockPlayerRepo struct {
	players    map[int]*models.Player
	createErr  error
	updateErr  error
	deleteErr  error
	missingIDs []int
	filterErr  error
}

func newMockPlayerRepo(players ...*models.Player) *mockPlayerRepo {
	m := &mockPlayerRepo{players: make(map[int]*models.Player)}
	for _, p := range players {
		m.players[p.ID] = p
	}
	return m
}

func (m *mockPlayerRepo) Create(ctx context.Context, player *models.Player) error {
	if m.createErr != nil {
		return m.createErr
	}
	player.ID = len(m.players) + 1
	m.players[player.ID] = player
	return nil
}

func (m *mockPlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	p, ok := m.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return p, nil
}

func (m *mockPlayerRepo) Update(ctx context.Context, player *models.Player) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	m.players[player.ID] = player
	return nil
}

func (m *mockPlayerRepo) Delete(ctx context.Context, id int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(m.players, id)
	return nil
}

func (m *mockPlayerRepo) List(ctx context.Context) ([]models.Player, error) {
	out := make([]models.Player, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPlayerRepo) Count(ctx context.Context) (int, error) {
	return len(m.players), nil
}

func (m *mockPlayerRepo) FilterMissingIDs(ctx context.Context, exec repositories.SQLExecutor, ids []int) ([]int, error) {
	if m.filterErr != nil {
		return nil, m.filterErr
	}
	if m.missingIDs != nil {
		return m.missingIDs, nil
	}
	var missing []int
	for _, id := range ids {
		if _, ok := m.players[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type mockGameRepo struct {
	games      map[int]*models.Game
	nextID     int
	createErr  error
	updateErr  error
	deleteErr  error
	countSince int
}

func newMockGameRepo(games ...*models.Game) *mockGameRepo {
	m := &mockGameRepo{games: make(map[int]*models.Game), nextID: 1}
	for _, g := range games {
		m.games[g.ID] = g
		if g.ID >= m.nextID {
			m.nextID = g.ID + 1
		}
	}
	return m
}

func (m *mockGameRepo) Create(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error {
	if m.createErr != nil {
		return m.createErr
	}
	game.ID = m.nextID
	m.nextID++
	m.games[game.ID] = game
	return nil
}

func (m *mockGameRepo) GetByID(ctx context.Context, id int) (*models.Game, error) {
	g, ok := m.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	copied := *g
	return &copied, nil
}

func (m *mockGameRepo) Update(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.games[game.ID]; !ok {
		return repositories.ErrGameNotFound
	}
	m.games[game.ID] = game
	return nil
}

func (m *mockGameRepo) Delete(ctx context.Context, id int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.games[id]; !ok {
		return repositories.ErrGameNotFound
	}
	delete(m.games, id)
	return nil
}

func (m *mockGameRepo) List(ctx context.Context, limit, offset int) ([]models.Game, error) {
	out := make([]models.Game, 0, len(m.games))
	for _, g := range m.games {
		out = append(out, *g)
	}
	return out, nil
}

func (m *mockGameRepo) Count(ctx context.Context) (int, error) {
	return len(m.games), nil
}

func (m *mockGameRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	return m.countSince, nil
}

type mockResultRepo struct {
	byGame      map[int][]models.GameResult
	createErr   error
	deleteErr   error
	createCalls int
	deleteCalls int
}

func newMockResultRepo() *mockResultRepo {
	return &mockResultRepo{byGame: make(map[int][]models.GameResult)}
}

func (m *mockResultRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, gameID int, results []models.GameResult) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.byGame[gameID] = append([]models.GameResult(nil), results...)
	return nil
}

func (m *mockResultRepo) DeleteByGameID(ctx context.Context, exec repositories.SQLExecutor, gameID int) error {
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.byGame, gameID)
	return nil
}

func (m *mockResultRepo) ListByGameID(ctx context.Context, gameID int) ([]models.GameResult, error) {
	return m.byGame[gameID], nil
}

type mockStatsRepo struct {
	facts       []models.ResultFact
	playerGames []models.PlayerGameSummary
	listErr     error
}

func (m *mockStatsRepo) ListFacts(ctx context.Context, since, until *time.Time) ([]models.ResultFact, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return filterFacts(m.facts, 0, since, until), nil
}

func (m *mockStatsRepo) ListFactsByPlayer(ctx context.Context, playerID int, since, until *time.Time) ([]models.ResultFact, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return filterFacts(m.facts, playerID, since, until), nil
}

func (m *mockStatsRepo) ListPlayerGames(ctx context.Context, playerID int, limit int) ([]models.PlayerGameSummary, error) {
	return m.playerGames, nil
}

func filterFacts(facts []models.ResultFact, playerID int, since, until *time.Time) []models.ResultFact {
	var out []models.ResultFact
	for _, f := range facts {
		if playerID != 0 && f.PlayerID != playerID {
			continue
		}
		if since != nil && f.GameDate.Before(*since) {
			continue
		}
		if until != nil && f.GameDate.After(*until) {
			continue
		}
		out = append(out, f)
	}
	return out
}

type mockCredentialRepo struct {
	cred   *models.DeleteCredential
	getErr error
}

func (m *mockCredentialRepo) Get(ctx context.Context) (*models.DeleteCredential, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cred == nil {
		return nil, repositories.ErrCredentialNotFound
	}
	return m.cred, nil
}

func (m *mockCredentialRepo) Create(ctx context.Context, cred *models.DeleteCredential) error {
	cred.ID = 1
	m.cred = cred
	return nil
}

func (m *mockCredentialRepo) UpdateHash(ctx context.Context, id int, passwordHash string) error {
	if m.cred == nil || m.cred.ID != id {
		return repositories.ErrCredentialNotFound
	}
	m.cred.PasswordHash = passwordHash
	m.cred.ResetToken = nil
	m.cred.ResetExpiresAt = nil
	return nil
}

func (m *mockCredentialRepo) SetResetToken(ctx context.Context, id int, token string, expiresAt time.Time) error {
	if m.cred == nil || m.cred.ID != id {
		return repositories.ErrCredentialNotFound
	}
	m.cred.ResetToken = &token
	m.cred.ResetExpiresAt = &expiresAt
	return nil
}

func (m *mockCredentialRepo) GetByResetToken(ctx context.Context, token string) (*models.DeleteCredential, error) {
	if m.cred == nil || m.cred.ResetToken == nil || *m.cred.ResetToken != token {
		return nil, repositories.ErrCredentialNotFound
	}
	return m.cred, nil
}

var errBoom = errors.New("boom")
