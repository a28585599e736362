// Command main fills the database with demo users, places and interactions.
package main

import (
	"context"
	"flag"
	"log"

	"campusmap/internal/config"
	"campusmap/internal/database"
	"campusmap/internal/middleware"
	"campusmap/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPlaces := flag.Int("places", 60, "Number of places to create")
	shouldClean := flag.Bool("clean", false, "Delete users and places before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed, 0 picks one")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}
	middleware.Logger = middleware.NewLogger(cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	log.Printf("Target: %d users, %d places, clean=%v", *numUsers, *numPlaces, *shouldClean)

	summary, err := seed.NewSeeder(db, seed.Options{
		NumUsers:  *numUsers,
		NumPlaces: *numPlaces,
		Clean:     *shouldClean,
		RandSeed:  *randSeed,
	}).Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d places, %d votes, %d favorites, %d comments",
		summary.Users, summary.Places, summary.Votes, summary.Favorites, summary.Comments)
	log.Printf("All demo users have the password: %s", seed.DemoPassword)
}
