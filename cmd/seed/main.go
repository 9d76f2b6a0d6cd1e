package main

import (
	"log"
	"time"

	"lecturelens-be/internal/config"
	"lecturelens-be/internal/model"
	"lecturelens-be/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a verified demo account plus one sample session so the frontend
// has something to render on a fresh database.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo12345"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}
	hashStr := string(hash)
	now := time.Now()

	demoUser := model.User{
		Email:           "demo@lecturelens.app",
		PasswordHash:    &hashStr,
		FullName:        "Demo Student",
		Status:          "active",
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}
	if err := db.Where("email = ?", demoUser.Email).FirstOrCreate(&demoUser).Error; err != nil {
		log.Fatalf("Error seeding demo user: %v", err)
	}

	demoSession := model.Session{
		UserId:         demoUser.Id,
		Name:           "Intro to Distributed Systems: Lecture 1",
		SourceLanguage: "en",
		TargetLanguage: "id",
		Status:         "active",
	}
	if err := db.Where("user_id = ? AND name = ?", demoUser.Id, demoSession.Name).FirstOrCreate(&demoSession).Error; err != nil {
		log.Fatalf("Error seeding demo session: %v", err)
	}

	log.Printf("Demo account: %s / demo12345 (user %s, session %s)", demoUser.Email, demoUser.Id, demoSession.Id)
	log.Println("✅ Seed completed successfully.")
}
