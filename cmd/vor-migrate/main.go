package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"voice-of-rajkot/internal/auth"
	"voice-of-rajkot/internal/config"
	"voice-of-rajkot/internal/database/migrations"
	"voice-of-rajkot/internal/models"
)

// Migration CLI. Applies or rolls back the schema without starting the
// HTTP service, and can seed the first admin account.
func main() {
	down := flag.Bool("down", false, "roll back all migrations instead of applying them")
	seedAdmin := flag.Bool("seed-admin", false, "create an admin user from ADMIN_EMAIL / ADMIN_PASSWORD")
	dir := flag.String("dir", "./migrations", "migrations directory")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	cfg := config.Load()

	sqldb, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL: %v", err)
	}
	defer sqldb.Close()

	if err := sqldb.Ping(); err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	opts := migrations.DefaultOptions()
	opts.MigrationsDir = *dir
	runner := migrations.NewRunner(bunDB, opts)

	if *down {
		if err := runner.MigrateDown(); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		log.Println("✅ All migrations rolled back")
		return
	}

	if err := runner.RunMigrations(); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}
	log.Println("✅ Migrations applied")

	if *seedAdmin {
		if err := createAdmin(bunDB); err != nil {
			log.Fatalf("Admin seed failed: %v", err)
		}
	}
}

func createAdmin(bunDB *bun.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	ctx := context.Background()

	exists, err := bunDB.NewSelect().
		Model((*models.User)(nil)).
		Where("email = ?", email).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("Admin %s already exists, skipping seed", email)
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		ID:           uuid.NewString(),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
		Tags:         []string{},
		CreatedAt:    time.Now(),
	}
	if _, err := bunDB.NewInsert().Model(&admin).Exec(ctx); err != nil {
		return err
	}
	log.Printf("✅ Admin %s created", email)
	return nil
}
