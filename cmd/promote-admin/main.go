package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dimitrije/gabay-admin-api/internal/config"
	"github.com/dimitrije/gabay-admin-api/internal/database"
	"github.com/dimitrije/gabay-admin-api/internal/profiles"
)

func main() {
	revoke := flag.Bool("revoke", false, "clear the admin flag instead of setting it")
	flag.Usage = func() {
		fmt.Println("Usage: promote-admin [-revoke] <email>")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	email := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.UsesDatabase() {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := profiles.NewPgStore(db, cfg.Platform.ProfilesTable)
	err = store.SetAdmin(ctx, email, !*revoke)
	if errors.Is(err, profiles.ErrProfileNotFound) {
		log.Fatalf("No profile found with email: %s", email)
	}
	if err != nil {
		log.Fatalf("Failed to update profile: %v", err)
	}

	if *revoke {
		fmt.Printf("Successfully revoked admin from %s\n", email)
		return
	}
	fmt.Printf("Successfully promoted %s to admin\n", email)
}
