// Command seed creates a demo account with generated history.
package main

import (
	"context"
	"flag"
	"log"

	"healthtracker/internal/config"
	"healthtracker/internal/database"
	"healthtracker/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	username := flag.String("username", defaults.Username, "Username of the demo account")
	password := flag.String("password", defaults.Password, "Password of the demo account")
	days := flag.Int("days", defaults.Days, "Days of history to generate")
	seedValue := flag.Int64("seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	summary, err := seed.NewSeeder(db, seed.Options{
		Username: *username,
		Password: *password,
		Days:     *days,
		Seed:     *seedValue,
	}).Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %q: %d activities, %d meals, %d weigh-ins, %d goals",
		summary.User.Username, summary.Activities, summary.Meals, summary.Weights, summary.Goals)
	log.Printf("Log in with password: %s", *password)
}
