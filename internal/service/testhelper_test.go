package service

import (
	"context"
	"testing"
	"time"

	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/repository/unitofwork"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// The production schema is Postgres, but the services only touch plain
// columns, so an in-memory SQLite copy of the tables is enough to exercise
// the full repository stack.
var testSchema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT,
		full_name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		email_verified_at DATETIME,
		avatar_url TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE email_verification_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE user_refresh_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token_hash TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME,
		ip_address TEXT,
		user_agent TEXT
	)`,
	`CREATE TABLE password_reset_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		used BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME
	)`,
	`CREATE TABLE user_providers (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		provider_name TEXT NOT NULL,
		provider_user_id TEXT NOT NULL,
		avatar_url TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		source_language TEXT NOT NULL,
		target_language TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		ended_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE transcript_segments (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		text TEXT NOT NULL,
		translated_text TEXT,
		start_ms INTEGER NOT NULL,
		end_ms INTEGER NOT NULL,
		words TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE citations (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		segment_id TEXT,
		document_id TEXT,
		document_name TEXT NOT NULL,
		page_number INTEGER NOT NULL,
		snippet TEXT,
		relevance_score REAL NOT NULL DEFAULT 0,
		rank INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME
	)`,
	`CREATE TABLE documents (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		name TEXT NOT NULL,
		page_count INTEGER NOT NULL DEFAULT 0,
		storage_url TEXT,
		status TEXT NOT NULL DEFAULT 'uploading',
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE document_chunks (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		page_number INTEGER NOT NULL,
		content TEXT NOT NULL,
		embedding TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE notes (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL UNIQUE,
		content_markdown TEXT,
		content_markdown_translated TEXT,
		target_language TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		generated_at DATETIME,
		last_edited_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range testSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func seedUser(t *testing.T, factory unitofwork.RepositoryFactory, email string) *entity.User {
	t.Helper()

	user := &entity.User{
		Id:        uuid.New(),
		Email:     email,
		FullName:  "Test User",
		Status:    entity.UserStatusActive,
		CreatedAt: time.Now(),
	}

	uow := factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.UserRepository().Create(context.Background(), user))
	return user
}

func seedSession(t *testing.T, factory unitofwork.RepositoryFactory, userId uuid.UUID) *entity.Session {
	t.Helper()

	session := &entity.Session{
		Id:             uuid.New(),
		UserId:         userId,
		Name:           "Algorithms Lecture 3",
		SourceLanguage: "en",
		TargetLanguage: "id",
		Status:         entity.SessionStatusActive,
		CreatedAt:      time.Now(),
	}

	uow := factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.SessionRepository().Create(context.Background(), session))
	return session
}

// testFixture bundles the usual cast: a database, its owner and a second
// user who owns nothing.
type testFixture struct {
	db       *gorm.DB
	factory  unitofwork.RepositoryFactory
	owner    *entity.User
	stranger *entity.User
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	return &testFixture{
		db:       db,
		factory:  factory,
		owner:    seedUser(t, factory, "owner@example.com"),
		stranger: seedUser(t, factory, "stranger@example.com"),
	}
}

// seedSegment stores one transcript segment with a single citation.
func seedSegment(t *testing.T, factory unitofwork.RepositoryFactory, sessionId uuid.UUID, startMs int64, text, docName string, page int) *entity.TranscriptSegment {
	t.Helper()
	ctx := context.Background()

	segment := &entity.TranscriptSegment{
		Id:        uuid.New(),
		SessionId: sessionId,
		Text:      text,
		StartMs:   startMs,
		EndMs:     startMs + 1000,
		CreatedAt: time.Now(),
	}

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.TranscriptSegmentRepository().Create(ctx, segment))

	segId := segment.Id
	cit := &entity.Citation{
		Id:           uuid.New(),
		SessionId:    sessionId,
		SegmentId:    &segId,
		DocumentName: docName,
		PageNumber:   page,
		Snippet:      "snippet from " + docName,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, uow.CitationRepository().CreateBulk(ctx, []*entity.Citation{cit}))

	segment.Citations = []*entity.Citation{cit}
	return segment
}

// capturingPublisher records payloads handed to the live delivery pipeline.
type capturingPublisher struct {
	payloads [][]byte
}

func (p *capturingPublisher) Publish(_ context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

type testLogger struct{}

func (testLogger) Debug(string, string, map[string]interface{}) {}
func (testLogger) Info(string, string, map[string]interface{})  {}
func (testLogger) Warn(string, string, map[string]interface{})  {}
func (testLogger) Error(string, string, map[string]interface{}) {}
func (testLogger) Sync() error                                  { return nil }
