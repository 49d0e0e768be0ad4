package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"roomly/internal/config"
	"roomly/internal/db"
	"roomly/internal/model"
	"roomly/internal/repository"
)

// seedLocations is the fixed set of bookable spaces with their display
// labels and capacities.
var seedLocations = []model.LocationInfo{
	{Name: model.LocationGarden, Label: "Garden", Capacity: 40},
	{Name: model.LocationCasino, Label: "Casino", Capacity: 60},
	{Name: model.LocationLounge, Label: "Lounge", Capacity: 20},
	{Name: model.LocationRooftop, Label: "Rooftop", Capacity: 30},
}

func main() {
	log.Println("Starting seed script...")

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	// Seed locations
	locationRepo := repository.NewLocationRepository(gormDB)
	for i := range seedLocations {
		if err := locationRepo.Upsert(ctx, &seedLocations[i]); err != nil {
			log.Fatalf("Failed to seed location %s: %v", seedLocations[i].Name, err)
		}
	}
	log.Printf("Seeded %d locations", len(seedLocations))

	// Promote an admin if ADMIN_EMAIL is set and the user already exists.
	// Users are created on first Google login, so this is a no-op until
	// the admin has logged in once.
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		log.Println("ADMIN_EMAIL not set, skipping admin promotion")
		return
	}

	userRepo := repository.NewUserRepository(gormDB)
	user, err := userRepo.FindByEmail(ctx, adminEmail)
	if err != nil {
		log.Printf("Admin user %s not found, will need to log in first", adminEmail)
		return
	}

	if user.Role == model.RoleAdmin {
		log.Printf("User %s is already an admin", adminEmail)
		return
	}

	user.Role = model.RoleAdmin
	if err := userRepo.Update(ctx, user); err != nil {
		log.Fatalf("Failed to promote admin %s: %v", adminEmail, err)
	}
	log.Printf("Promoted %s to admin", adminEmail)
}
