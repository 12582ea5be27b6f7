package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"pinnacle_metals/internal/app/service"
	"pinnacle_metals/internal/domain/repository"
	"pinnacle_metals/internal/platform/config"
	"pinnacle_metals/internal/platform/database"
	"pinnacle_metals/internal/platform/logger"
)

// Usage: seedadmin -email admin@example.com -password secret [-promote]
// ADMIN_EMAIL and ADMIN_PASSWORD (from the environment or .env) are used when
// the flags are omitted.
func main() {
	config.LoadDotEnv()
	log := logger.Init("development")

	req, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	dsn := config.DatabaseURL()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, dsn)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	seeder := service.NewAdminSeeder(
		repository.NewPgUserRepository(db),
		repository.NewPgProfileRepository(db),
		func(ctx context.Context, fn func(tx *sql.Tx) error) error { return database.Tx(ctx, db, fn) },
	)
	res, err := seeder.Seed(ctx, req)
	if err != nil {
		log.Error("seeding admin failed", "error", err)
		os.Exit(1)
	}

	verb := "updated existing user"
	if res.Created {
		verb = "created"
	}
	fmt.Printf("Admin ready (%s): email=%s accountId=%s role=%s\n", verb, res.User.Email, res.User.AccountID, res.User.Role)
}

// parseFlags reads the environment at call time, so .env must already be loaded.
func parseFlags(args []string) (service.SeedAdminRequest, error) {
	fs := flag.NewFlagSet("seedadmin", flag.ContinueOnError)
	email := fs.String("email", os.Getenv("ADMIN_EMAIL"), "admin email address")
	password := fs.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (optional with -promote)")
	promote := fs.Bool("promote", false, "only promote an existing user")
	if err := fs.Parse(args); err != nil {
		return service.SeedAdminRequest{}, err
	}
	return service.SeedAdminRequest{Email: *email, Password: *password, PromoteOnly: *promote}, nil
}
