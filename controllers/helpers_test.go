package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RushabhMehta2005/recipe-api/controllers"
	"github.com/RushabhMehta2005/recipe-api/middleware"
	"github.com/RushabhMehta2005/recipe-api/models"
	"github.com/RushabhMehta2005/recipe-api/routes"
	"github.com/RushabhMehta2005/recipe-api/services"
	"github.com/RushabhMehta2005/recipe-api/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	users  *services.UserService
	tokens *services.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	logger := zap.NewNop()
	hasher := services.NewHasher(2, testutil.HashCost)
	t.Cleanup(hasher.Close)

	users := services.NewUserService(db, hasher, logger)
	tokens := services.NewTokenService("test-secret", time.Hour)
	auth := middleware.NewAuthenticator(tokens, users, logger)
	h := controllers.NewHandler(db, users, tokens, auth, logger)

	return &testEnv{
		router: routes.Setup(h, logger, nil),
		db:     db,
		users:  users,
		tokens: tokens,
	}
}

// createUser stores a user and returns it with a valid token.
func (e *testEnv) createUser(t *testing.T, email string) (*models.User, string) {
	t.Helper()
	user, err := e.users.CreateUser(context.Background(), email, "testpass123", services.UserFields{Name: "Test"})
	require.NoError(t, err)
	token, err := e.tokens.Issue(user.ID)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type attribute struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type recipeSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Tags        []uint `json:"tags"`
	Ingredients []uint `json:"ingredients"`
	TimeMinutes int    `json:"time_minutes"`
	Price       string `json:"price"`
	Link        string `json:"link"`
}

type recipeDetail struct {
	ID          uint        `json:"id"`
	Title       string      `json:"title"`
	Tags        []attribute `json:"tags"`
	Ingredients []attribute `json:"ingredients"`
	TimeMinutes int         `json:"time_minutes"`
	Price       string      `json:"price"`
	Link        string      `json:"link"`
}
