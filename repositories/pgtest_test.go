package repositories_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sahilkapur/patti-tracker/db"
	"github.com/sahilkapur/patti-tracker/models"
	"github.com/sahilkapur/patti-tracker/repositories"
)

// newTestDB starts a Postgres container, runs the schema bootstrap, and
// returns a connected *sql.DB. The container is terminated when the test
// ends.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("patti_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("getting connection string: %v", err)
	}

	dbConn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { dbConn.Close() })

	if err := db.Migrate(ctx, dbConn); err != nil {
		t.Fatalf("running schema migration: %v", err)
	}

	return dbConn
}

func createTestPlayer(t *testing.T, repo repositories.PlayerRepository, name string) *models.Player {
	t.Helper()
	p := &models.Player{Name: name}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("creating player %q: %v", name, err)
	}
	return p
}

func createTestGame(t *testing.T, repo repositories.GameRepository, date time.Time) *models.Game {
	t.Helper()
	g := &models.Game{Date: date, GameType: models.DefaultGameType}
	if err := repo.Create(context.Background(), nil, g); err != nil {
		t.Fatalf("creating game: %v", err)
	}
	return g
}

func countResults(t *testing.T, dbConn *sql.DB) int {
	t.Helper()
	var n int
	if err := dbConn.QueryRow(`SELECT COUNT(*) FROM game_results`).Scan(&n); err != nil {
		t.Fatalf("counting results: %v", err)
	}
	return n
}
