package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cleargraph/crm-engine/pkg/apperrors"
	"github.com/cleargraph/crm-engine/pkg/models"
)

func TestSuggestionHandler_List_DefaultsToPending(t *testing.T) {
	mock := &mockSuggestionService{
		suggestions: []*models.Suggestion{
			{ID: uuid.New(), Status: models.SuggestionStatusPending},
		},
	}
	handler := NewSuggestionHandler(mock, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/suggestions", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.SuggestionStatusPending, mock.lastFilter.Status)

	var response SuggestionListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 1, response.Count)
	require.Len(t, response.Suggestions, 1)
}

func TestSuggestionHandler_List_StatusAll(t *testing.T) {
	mock := &mockSuggestionService{}
	handler := NewSuggestionHandler(mock, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/suggestions?status=all&suggestion_type=duplicate&limit=5", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.SuggestionStatus(""), mock.lastFilter.Status)
	assert.Equal(t, models.SuggestionTypeDuplicate, mock.lastFilter.Type)
	assert.Equal(t, 5, mock.lastFilter.Limit)

	var response SuggestionListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 0, response.Count)
	assert.NotNil(t, response.Suggestions)
}

func TestSuggestionHandler_List_InvalidLimit(t *testing.T) {
	handler := NewSuggestionHandler(&mockSuggestionService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/suggestions?limit=zero", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "invalid_request", errResp["error"])
}

func TestSuggestionHandler_Get_NotFound(t *testing.T) {
	handler := NewSuggestionHandler(&mockSuggestionService{}, zap.NewNop())

	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/suggestions/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errResp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "not_found", errResp["error"])
	assert.Equal(t, "Suggestion not found", errResp["message"])
}

func TestSuggestionHandler_Get_InvalidID(t *testing.T) {
	handler := NewSuggestionHandler(&mockSuggestionService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/suggestions/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestionHandler_Action_Accept(t *testing.T) {
	suggestion := &models.Suggestion{ID: uuid.New(), Status: models.SuggestionStatusPending}
	mock := &mockSuggestionService{reviewed: suggestion}
	handler := NewSuggestionHandler(mock, zap.NewNop())

	body := bytes.NewBufferString(`{"action": "accept"}`)
	req := httptest.NewRequest(http.MethodPost, "/suggestions/"+suggestion.ID.String()+"/action", body)
	req.SetPathValue("id", suggestion.ID.String())
	rec := httptest.NewRecorder()
	handler.Action(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.SuggestionStatusAccepted, mock.lastStatus)
	assert.Equal(t, "user", mock.lastReviewer)

	var response SuggestionActionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.True(t, response.Success)
	assert.Equal(t, suggestion.ID, response.SuggestionID)
	assert.Equal(t, "accepted", response.NewStatus)
	assert.Equal(t, "Suggestion accepted", response.Message)
}

func TestSuggestionHandler_Action_InvalidAction(t *testing.T) {
	handler := NewSuggestionHandler(&mockSuggestionService{}, zap.NewNop())

	id := uuid.New()
	body := bytes.NewBufferString(`{"action": "maybe"}`)
	req := httptest.NewRequest(http.MethodPost, "/suggestions/"+id.String()+"/action", body)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()
	handler.Action(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "action must be accept or reject", errResp["message"])
}

func TestSuggestionHandler_Action_AlreadyProcessed(t *testing.T) {
	mock := &mockSuggestionService{err: apperrors.ErrSuggestionReviewed}
	handler := NewSuggestionHandler(mock, zap.NewNop())

	id := uuid.New()
	body := bytes.NewBufferString(`{"action": "reject"}`)
	req := httptest.NewRequest(http.MethodPost, "/suggestions/"+id.String()+"/action", body)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()
	handler.Action(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "already_processed", errResp["error"])
	assert.Equal(t, "Suggestion already processed", errResp["message"])
}
