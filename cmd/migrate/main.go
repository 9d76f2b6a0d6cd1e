package main

import (
	"log"
	"os"

	"lecturelens-be/internal/model"
	"lecturelens-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions & Enums (Things GORM AutoMigrate doesn't do perfectly)
	log.Println("Step 1: Setting up Extensions and Enums...")

	setupSQL := []string{
		// Extensions
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,

		// Enums (Idempotent creation)
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_status') THEN CREATE TYPE user_status AS ENUM ('pending', 'active', 'blocked'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'session_status') THEN CREATE TYPE session_status AS ENUM ('active', 'ended'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'document_status') THEN CREATE TYPE document_status AS ENUM ('uploading', 'indexing', 'ready', 'failed'); END IF; END $$;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.PasswordResetToken{},
		&model.UserProvider{},
		&model.EmailVerificationToken{},
		&model.UserRefreshToken{},
		&model.Session{},
		&model.TranscriptSegment{},
		&model.Citation{},
		&model.Document{},
		&model.DocumentChunk{},
		&model.Note{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Indexes the models don't express
	log.Println("Step 3: Creating supporting indexes...")

	postMigrationSQL := []string{
		// Ordered transcript reads are the hot path
		`CREATE INDEX IF NOT EXISTS idx_transcript_segments_session_start ON transcript_segments (session_id, start_ms);`,

		// One note per session
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_notes_session ON notes (session_id);`,

		// ANN search over course material chunks
		`CREATE INDEX IF NOT EXISTS idx_document_chunks_embedding ON document_chunks USING hnsw (embedding vector_cosine_ops);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
