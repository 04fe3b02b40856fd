// Command seed provisions the first admin account so a fresh deployment
// can log in. Existing usernames are left untouched.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mss-edu/school-api/internal/models"
	"github.com/mss-edu/school-api/pkg/config"
	"github.com/mss-edu/school-api/pkg/database"
)

func main() {
	var (
		username string
		password string
		fullName string
		role     string
	)

	flag.StringVar(&username, "username", "admin", "Login username")
	flag.StringVar(&password, "password", "", "Initial password (required)")
	flag.StringVar(&fullName, "name", "System Administrator", "Display name")
	flag.StringVar(&role, "role", string(models.RoleAdmin), "User role")
	flag.Parse()

	if password == "" {
		log.Fatal("password is required")
	}
	if !models.UserRole(role).Valid() {
		log.Fatalf("unknown role %q", role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database.MigrationsDir); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var exists bool
	if err := db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)", username); err != nil {
		log.Fatalf("failed to check existing user: %v", err)
	}
	if exists {
		log.Printf("user %q already exists, nothing to do", username)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	const query = `INSERT INTO users (username, password_hash, full_name, role, active)
        VALUES ($1, $2, $3, $4, TRUE)`
	if _, err := db.ExecContext(ctx, query, username, string(hash), fullName, role); err != nil {
		log.Fatalf("failed to create user: %v", err)
	}

	log.Printf("created %s user %q", role, username)
}
