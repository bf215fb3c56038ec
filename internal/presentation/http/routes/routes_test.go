package routes

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/FormulaEngajamento/engajamento-go/internal/application/container"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
	adminpersistence "github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/admin"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/security"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	raw, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { raw.Close() })

	db := &database.DB{DB: raw}
	require.NoError(t, database.NewTableCreator().CreateSchema(raw))

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		DefaultLevel:  slog.LevelError,
		ChannelLevels: map[logging.Channel]slog.Level{},
	})
	require.NoError(t, err)

	hash, err := security.HashPassword("segredo123", 4)
	require.NoError(t, err)
	userRepo := adminpersistence.NewSQLUserRepository(db, logger)
	require.NoError(t, userRepo.Create("rafael", hash, false))

	appContainer := container.NewContainer(db, logger, performance.NewTracker(performance.DefaultTrackerConfig()))
	return SetupRoutes(appContainer)
}

func doJSON(router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/api/admin/login", gin.H{
		"username": "rafael",
		"password": "segredo123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestVisitorEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/analytics/visitor", gin.H{
		"visitorId": "visitor_abc123",
		"userData":  gin.H{"landingPage": "/"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"isNewVisitor":true`)

	again := doJSON(router, http.MethodPost, "/api/analytics/visitor", gin.H{
		"visitorId": "visitor_abc123",
	}, nil)
	require.Equal(t, http.StatusOK, again.Code)
	assert.Contains(t, again.Body.String(), `"isNewVisitor":false`)

	missing := doJSON(router, http.MethodPost, "/api/analytics/visitor", gin.H{}, nil)
	assert.Equal(t, http.StatusBadRequest, missing.Code)

	badPrefix := doJSON(router, http.MethodPost, "/api/analytics/visitor", gin.H{
		"visitorId": "abc123",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, badPrefix.Code)
}

func TestSignalsEndpointHonorsOptOut(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/analytics/signals", gin.H{
		"visitorId":     "visitor_abc123",
		"deviceSignals": gin.H{"doNotTrack": "1"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"optedOut":true`)
	assert.Contains(t, w.Body.String(), `"inference":null`)
}

func TestSignalsEndpointRunsInference(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/analytics/signals", gin.H{
		"visitorId": "visitor_abc123",
		"deviceSignals": gin.H{
			"doNotTrack":          "0",
			"hardwareConcurrency": 16,
			"screenResolution":    "2560x1440",
		},
		"behavioralSignals": gin.H{
			"hourOfDay":       10,
			"isWeekday":       true,
			"isBusinessHours": true,
			"landingPage":     "/",
		},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"ageRange":"35-44"`)
	assert.Contains(t, w.Body.String(), `"optedOut":false`)
}

func TestVideoCurrentWhenUnconfigured(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/video/current", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"video":null}`, w.Body.String())
}

func TestAdminEndpointsRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/admin/stats", "/api/admin/visitors", "/api/admin/registrations"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestLoginAndStats(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"totalVisitors":0`)
}

func TestVisitorsPagination(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	for _, id := range []string{"visitor_um", "visitor_dois"} {
		w := doJSON(router, http.MethodPost, "/api/analytics/visitor", gin.H{"visitorId": id}, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	type visitorsPage struct {
		Visitors []struct {
			VisitorID string `json:"visitor_id"`
		} `json:"visitors"`
		Total      int `json:"total"`
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		TotalPages int `json:"totalPages"`
	}

	fetchPage := func(page int) visitorsPage {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/visitors?page="+strconv.Itoa(page)+"&limit=1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp visitorsPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	first := fetchPage(1)
	second := fetchPage(2)

	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 2, second.Page)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, 1, first.Limit)

	require.Len(t, first.Visitors, 1)
	require.Len(t, second.Visitors, 1)
	assert.NotEqual(t, first.Visitors[0].VisitorID, second.Visitors[0].VisitorID)
	assert.ElementsMatch(t,
		[]string{"visitor_um", "visitor_dois"},
		[]string{first.Visitors[0].VisitorID, second.Visitors[0].VisitorID})
}

func TestRegistrationsPagination(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	for _, id := range []string{"visitor_um", "visitor_dois", "visitor_tres"} {
		w := doJSON(router, http.MethodPost, "/api/analytics/registration", gin.H{
			"visitorId": id,
			"email":     id + "@example.com",
		}, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/registrations?page=2&limit=2", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Registrations []json.RawMessage `json:"registrations"`
		Total         int               `json:"total"`
		Page          int               `json:"page"`
		TotalPages    int               `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Len(t, resp.Registrations, 1)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/admin/login", gin.H{
		"username": "rafael",
		"password": "errada",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteMyDataEndpoint(t *testing.T) {
	router := newTestRouter(t)

	created := doJSON(router, http.MethodPost, "/api/analytics/visitor", gin.H{
		"visitorId": "visitor_erase",
	}, nil)
	require.Equal(t, http.StatusOK, created.Code)

	w := doJSON(router, http.MethodPost, "/api/analytics/delete-my-data", gin.H{
		"visitorId": "visitor_erase",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestImportWordRejectsNonDocx(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/import/word", strings.NewReader("not multipart"))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
