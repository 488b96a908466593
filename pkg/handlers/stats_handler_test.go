package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/models"
)

func TestStatsHandler_Stats(t *testing.T) {
	suggestions := &mockSuggestionService{
		stats: map[models.SuggestionStatus]int{
			models.SuggestionStatusPending:  4,
			models.SuggestionStatusAccepted: 2,
		},
	}
	actionLog := &mockActionLog{entries: []*models.ActionLogEntry{
		{ActionType: "suggestion_created", TriggeredBy: "system"},
		{ActionType: "suggestion_accepted", TriggeredBy: "user"},
	}}
	handler := NewStatsHandler(suggestions, actionLog, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	handler.Stats(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 4, response.Suggestions["pending"])
	assert.Equal(t, 2, response.Suggestions["accepted"])
	assert.Equal(t, 0, response.Suggestions["rejected"])
	require.Len(t, response.RecentActions, 2)
	assert.Equal(t, "suggestion_created", response.RecentActions[0].ActionType)
}

func TestStatsHandler_EmptyLog(t *testing.T) {
	handler := NewStatsHandler(&mockSuggestionService{stats: map[models.SuggestionStatus]int{}}, &mockActionLog{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	handler.Stats(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.NotNil(t, response.RecentActions)
	assert.Empty(t, response.RecentActions)
}
