package main

import (
	"database/sql"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/cliniiq/hospital-api/config"
	"github.com/cliniiq/hospital-api/internal/domain/entity"
	"github.com/cliniiq/hospital-api/pkg/helpers"
)

// Seeds the first admin account so the dashboard is reachable on a fresh
// database. Safe to run repeatedly: an existing email is left untouched.
func main() {
	var (
		email     = flag.String("email", "admin@cliniiq.local", "admin email")
		password  = flag.String("password", "changeme-now", "admin password")
		firstName = flag.String("first-name", "System", "admin first name")
		lastName  = flag.String("last-name", "Admin", "admin last name")
		phone     = flag.String("phone", "00000000000", "admin phone number")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	hash, err := helpers.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	res, err := db.Exec(`
		INSERT INTO users (id, first_name, last_name, email, phone, dob, gender, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (email) DO NOTHING`,
		uuid.NewString(), *firstName, *lastName, *email, *phone,
		"1990-01-01", string(entity.GenderMale), hash, string(entity.RoleAdmin), now,
	)
	if err != nil {
		log.Fatalf("insert admin: %v", err)
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		log.Printf("admin %s already exists, nothing to do", *email)
		return
	}
	log.Printf("admin %s created", *email)
}
