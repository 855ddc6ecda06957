package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sahilkapur/patti-tracker/handlers"
	"github.com/sahilkapur/patti-tracker/models"
	"github.com/sahilkapur/patti-tracker/ranking"
	"github.com/sahilkapur/patti-tracker/services"
)

type stubStatsService struct {
	standings []models.PlayerStats
	analytics *models.PlayerAnalytics
	err       error
}

func (s *stubStatsService) GetLeaderboard(ctx context.Context, timeframe, sortBy, sortOrder string, limit int) ([]models.PlayerStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	// Honor the whitelist the same way the real service does, so handler
	// tests exercise the error mapping.
	if _, err := ranking.ParseTimeframe(timeframe); err != nil {
		return nil, err
	}
	if _, err := ranking.ParseSortField(sortBy); err != nil {
		return nil, err
	}
	if _, err := ranking.ParseSortOrder(sortOrder); err != nil {
		return nil, err
	}
	return s.standings, nil
}

func (s *stubStatsService) GetPlayerAnalytics(ctx context.Context, playerID int, timeframe string) (*models.PlayerAnalytics, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.analytics == nil {
		return nil, services.ErrPlayerNotFound
	}
	return s.analytics, nil
}

func (s *stubStatsService) GetScoreProgression(ctx context.Context, playerID int) ([]models.ProgressionPoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	return nil, nil
}

func (s *stubStatsService) GetCumulativeScoresAsOf(ctx context.Context, gameID int) ([]models.PlayerStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.standings, nil
}

func statsRouter(svc services.StatsService) *chi.Mux {
	h := handlers.NewStatsHandler(svc)
	r := chi.NewRouter()
	r.Get("/leaderboard", h.GetLeaderboard)
	r.Get("/players/{id}/analytics", h.GetPlayerAnalytics)
	r.Get("/players/{id}/progression", h.GetScoreProgression)
	r.Get("/games/{id}/cumulative-scores", h.GetCumulativeScoresAsOf)
	return r
}

func TestGetLeaderboardOK(t *testing.T) {
	svc := &stubStatsService{standings: []models.PlayerStats{{Name: "Asha", Rank: 1, RankingScore: 25.5}}}
	router := statsRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/leaderboard?timeframe=30d&sort_by=games_won&sort_order=asc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Leaderboard []models.PlayerStats `json:"leaderboard"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Leaderboard) != 1 || body.Leaderboard[0].Name != "Asha" {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetLeaderboardInvalidSortFieldIs400(t *testing.T) {
	router := statsRouter(&stubStatsService{})

	req := httptest.NewRequest(http.MethodGet, "/leaderboard?sort_by=password", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetLeaderboardInvalidTimeframeIs400(t *testing.T) {
	router := statsRouter(&stubStatsService{})

	req := httptest.NewRequest(http.MethodGet, "/leaderboard?timeframe=14d", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetPlayerAnalyticsUnknownPlayerIs404(t *testing.T) {
	router := statsRouter(&stubStatsService{})

	req := httptest.NewRequest(http.MethodGet, "/players/42/analytics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetPlayerAnalyticsBadIDIs400(t *testing.T) {
	router := statsRouter(&stubStatsService{})

	req := httptest.NewRequest(http.MethodGet, "/players/abc/analytics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetCumulativeScoresUnknownGameIs404(t *testing.T) {
	router := statsRouter(&stubStatsService{err: services.ErrGameNotFound})

	req := httptest.NewRequest(http.MethodGet, "/games/9/cumulative-scores", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
