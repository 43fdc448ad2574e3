package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/manqala/community-events-api/internal/api/handler/v1/response"
	"github.com/manqala/community-events-api/internal/config"
	"github.com/manqala/community-events-api/internal/domain"
	"github.com/manqala/community-events-api/internal/repository/dao"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dao.InitTables(db))

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:        "test",
			JWTSigningKey:      "test-signing-key",
			AllowedCORSDomains: []string{"http://localhost:3000"},
		},
		Gin: &config.GinConfig{Mode: gin.TestMode},
	}

	return NewServer(conf, db)
}

func performRequest(t *testing.T, s *Server, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

// signupAndLogin creates the account and returns a bearer token for it.
func signupAndLogin(t *testing.T, s *Server, email string) string {
	t.Helper()

	w := performRequest(t, s, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":    email,
		"password": "s3cret-pass",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, s, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	login := decodeJSON[response.LoginResponse](t, w)
	require.NotEmpty(t, login.Token)

	return login.Token
}

func createTestEvent(t *testing.T, s *Server, token string) domain.Event {
	t.Helper()

	w := performRequest(t, s, http.MethodPost, "/api/v1/events", token, gin.H{
		"name":      "Summer Fair",
		"starts_at": time.Now().Format(time.RFC3339),
		"ends_at":   time.Now().Add(8 * time.Hour).Format(time.RFC3339),
		"items": []gin.H{
			{"item": "meal", "participant_type": "resident", "user_max": 1, "event_max": 2},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	return decodeJSON[domain.Event](t, w)
}

func registerInterest(t *testing.T, s *Server, token string, eventID uint) response.RegisterInterestResponse {
	t.Helper()

	w := performRequest(t, s, http.MethodPost, fmt.Sprintf("/api/v1/events/%d/register", eventID), token, gin.H{
		"participant_type": "resident",
		"property_unit":    "12B",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	return decodeJSON[response.RegisterInterestResponse](t, w)
}

func TestHealthcheck(t *testing.T) {
	s := newTestServer(t)

	w := performRequest(t, s, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	w := performRequest(t, s, http.MethodGet, "/api/v1/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(t, s, http.MethodGet, "/api/v1/events", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEventLifecycle(t *testing.T) {
	s := newTestServer(t)

	hostToken := signupAndLogin(t, s, "host@example.com")
	aliceToken := signupAndLogin(t, s, "alice@example.com")

	event := createTestEvent(t, s, hostToken)
	require.NotZero(t, event.ID)
	assert.Contains(t, event.Admins, "host@example.com")

	// Only admins may read the catalog.
	w := performRequest(t, s, http.MethodGet, fmt.Sprintf("/api/v1/events/%d", event.ID), hostToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, s, http.MethodGet, fmt.Sprintf("/api/v1/events/%d", event.ID), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	registration := registerInterest(t, s, aliceToken, event.ID)
	assert.Equal(t, "alice@example.com", registration.Participant.Identity)
	assert.Equal(t, domain.TokenContextRegistration, registration.Token.Context)
	assert.NotEmpty(t, registration.Token.Value)

	// Verification is an admin-only endpoint.
	verifyPath := fmt.Sprintf("/api/v1/events/%d/participants/alice@example.com/verify", event.ID)
	w = performRequest(t, s, http.MethodGet, verifyPath, hostToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	verified := decodeJSON[response.VerifyParticipantResponse](t, w)
	assert.True(t, verified.Registered)

	w = performRequest(t, s, http.MethodGet, verifyPath, aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	unknownPath := fmt.Sprintf("/api/v1/events/%d/participants/nobody@example.com/verify", event.ID)
	w = performRequest(t, s, http.MethodGet, unknownPath, hostToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	verified = decodeJSON[response.VerifyParticipantResponse](t, w)
	assert.False(t, verified.Registered)
}

func TestDistributeOverHTTP(t *testing.T) {
	s := newTestServer(t)

	hostToken := signupAndLogin(t, s, "host@example.com")
	aliceToken := signupAndLogin(t, s, "alice@example.com")

	event := createTestEvent(t, s, hostToken)
	registration := registerInterest(t, s, aliceToken, event.ID)

	distributePath := fmt.Sprintf("/api/v1/events/%d/distribute", event.ID)
	body := gin.H{"item": "meal", "virtual_id": registration.Token.Value}

	w := performRequest(t, s, http.MethodPost, distributePath, hostToken, body)
	require.Equal(t, http.StatusCreated, w.Code)
	grant := decodeJSON[domain.ItemGrant](t, w)
	assert.Equal(t, "meal", grant.Item)

	// user_max is 1, the second helping is rejected.
	w = performRequest(t, s, http.MethodPost, distributePath, hostToken, body)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Non-admins cannot distribute.
	w = performRequest(t, s, http.MethodPost, distributePath, aliceToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Unknown tokens map to not found.
	w = performRequest(t, s, http.MethodPost, distributePath, hostToken, gin.H{
		"item": "meal", "virtual_id": "no-such-token",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactScoringAndLeaderboardOverHTTP(t *testing.T) {
	s := newTestServer(t)

	hostToken := signupAndLogin(t, s, "host@example.com")
	aliceToken := signupAndLogin(t, s, "alice@example.com")
	bobToken := signupAndLogin(t, s, "bob@example.com")

	event := createTestEvent(t, s, hostToken)
	registerInterest(t, s, aliceToken, event.ID)
	registerInterest(t, s, bobToken, event.ID)

	shareBody := gin.H{"event_id": event.ID, "property_unit": "12B"}
	w := performRequest(t, s, http.MethodPost, "/api/v1/contacts/share", aliceToken, shareBody)
	require.Equal(t, http.StatusCreated, w.Code)
	aliceShare := decodeJSON[domain.VirtualToken](t, w)
	assert.Equal(t, domain.TokenContextShareContact, aliceShare.Context)

	w = performRequest(t, s, http.MethodPost, "/api/v1/contacts/share", bobToken, shareBody)
	require.Equal(t, http.StatusCreated, w.Code)
	bobShare := decodeJSON[domain.VirtualToken](t, w)

	scoreBody := gin.H{"virtual_id": aliceShare.Value, "counterpart_id": bobShare.Value}
	w = performRequest(t, s, http.MethodPost, "/api/v1/contacts/score", aliceToken, scoreBody)
	require.Equal(t, http.StatusOK, w.Code)
	scored := decodeJSON[response.ScoreInteractionResponse](t, w)
	assert.True(t, scored.Scored)
	require.NotNil(t, scored.Entry)
	assert.Equal(t, "alice@example.com", scored.Entry.Participant)

	// The same exchange again is a no-op.
	w = performRequest(t, s, http.MethodPost, "/api/v1/contacts/score", aliceToken, scoreBody)
	require.Equal(t, http.StatusOK, w.Code)
	scored = decodeJSON[response.ScoreInteractionResponse](t, w)
	assert.False(t, scored.Scored)

	leaderboardPath := fmt.Sprintf("/api/v1/events/%d/leaderboard", event.ID)
	w = performRequest(t, s, http.MethodGet, leaderboardPath, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rank := decodeJSON[domain.LeaderboardRank](t, w)
	assert.Equal(t, 1, rank.Total)
	assert.Equal(t, 1, rank.Rank)
	assert.Equal(t, 100.0, rank.Percentile)

	// The host never registered and may not read the leaderboard.
	w = performRequest(t, s, http.MethodGet, leaderboardPath, hostToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
