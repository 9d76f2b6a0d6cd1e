package integration

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"lecturelens-be/internal/bootstrap"
	"lecturelens-be/internal/config"
	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/pkg/serverutils"
	"lecturelens-be/internal/repository/unitofwork"
	"lecturelens-be/internal/server"
	"lecturelens-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Runs the full HTTP surface against a real Postgres. Requires
// DB_CONNECTION_STRING; skipped otherwise.
func TestSessionFlow(t *testing.T) {
	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "integration-test-secret")
	}
	if os.Getenv("BACKEND_SERVICE_KEY") == "" {
		os.Setenv("BACKEND_SERVICE_KEY", "integration-test-key")
	}

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		t.Skip("DB_CONNECTION_STRING not set, skipping integration test")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	require.NoError(t, err)

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	owner := seedActiveUser(t, db, "flow-owner")
	stranger := seedActiveUser(t, db, "flow-stranger")
	defer cleanupUsers(db, owner.Id, stranger.Id)

	ownerToken := signIn(t, app, owner.Email)
	strangerToken := signIn(t, app, stranger.Email)

	// Create a session
	var created serverutils.ApiResponse[dto.CreateSessionResponse]
	resp := doJSON(t, app, "POST", "/api/session/v1", ownerToken, dto.CreateSessionRequest{
		Name:           "Integration Lecture",
		SourceLanguage: "en",
		TargetLanguage: "id",
	}, &created)
	require.Equal(t, fiber.StatusCreated, resp)
	sessionId := created.Data.Id

	// Trusted ingest with a citation
	var ingested serverutils.ApiResponse[dto.IngestSegmentResponse]
	req := httptest.NewRequest("POST", "/api/internal/v1/segments", jsonBody(t, dto.IngestSegmentRequest{
		SessionId: sessionId,
		Text:      "Merge sort splits the input in half.",
		StartMs:   0,
		EndMs:     4200,
		Citations: []dto.IngestCitationPayload{
			{DocumentName: "Algorithms.pdf", PageNumber: 12, Snippet: "merge sort", Rank: 1},
		},
	}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Key", cfg.App.ServiceKey)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	require.NoError(t, json.NewDecoder(res.Body).Decode(&ingested))

	// Owner reads the transcript back
	var transcript serverutils.ApiResponse[dto.TranscriptResponse]
	resp = doJSON(t, app, "GET", "/api/session/v1/"+sessionId.String()+"/transcript", ownerToken, nil, &transcript)
	require.Equal(t, fiber.StatusOK, resp)
	require.Len(t, transcript.Data.Segments, 1)
	require.Len(t, transcript.Data.Segments[0].Citations, 1)
	assert.Equal(t, 1, transcript.Data.Segments[0].Citations[0].Number)
	assert.Equal(t, "Algorithms.pdf", transcript.Data.Segments[0].Citations[0].DocumentName)

	// A stranger gets the same answer as for an id that does not exist
	resp = doJSON(t, app, "GET", "/api/session/v1/"+sessionId.String()+"/transcript", strangerToken, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp)
	resp = doJSON(t, app, "GET", "/api/session/v1/"+uuid.NewString()+"/transcript", strangerToken, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp)

	// Delete cleans everything up
	resp = doJSON(t, app, "DELETE", "/api/session/v1/"+sessionId.String(), ownerToken, nil, nil)
	require.Equal(t, fiber.StatusOK, resp)
	resp = doJSON(t, app, "GET", "/api/session/v1/"+sessionId.String(), ownerToken, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp)
}

const integrationPassword = "integration123"

func seedActiveUser(t *testing.T, db *gorm.DB, prefix string) *entity.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(integrationPassword), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashStr := string(hash)

	user := &entity.User{
		Id:            uuid.New(),
		Email:         prefix + "-" + uuid.NewString()[:8] + "@example.com",
		FullName:      "Integration User",
		PasswordHash:  &hashStr,
		Status:        entity.UserStatusActive,
		EmailVerified: true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	factory := unitofwork.NewRepositoryFactory(db)
	uow := factory.NewUnitOfWork(t.Context())
	require.NoError(t, uow.UserRepository().Create(t.Context(), user))
	return user
}

func cleanupUsers(db *gorm.DB, ids ...uuid.UUID) {
	for _, id := range ids {
		db.Exec("DELETE FROM user_refresh_tokens WHERE user_id = ?", id)
		db.Exec("DELETE FROM users WHERE id = ?", id)
	}
}

func signIn(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	var signedIn serverutils.ApiResponse[dto.SignInResponse]
	resp := doJSON(t, app, "POST", "/api/auth/v1/sign-in", "", dto.SignInRequest{
		Email:    email,
		Password: integrationPassword,
	}, &signedIn)
	require.Equal(t, fiber.StatusOK, resp)
	require.NotEmpty(t, signedIn.Data.AccessToken)
	return signedIn.Data.AccessToken
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

// doJSON fires one request and decodes the envelope into out when non-nil.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body, out interface{}) int {
	t.Helper()

	r := httptest.NewRequest(method, path, nil)
	if body != nil {
		r = httptest.NewRequest(method, path, jsonBody(t, body))
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(r, -1)
	require.NoError(t, err)
	if out != nil && res.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}
