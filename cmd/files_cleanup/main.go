package main

import (
	"context"
	"log"
	"os"

	"hostcalendar/internal/database"
	"hostcalendar/internal/domain/attachment"

	"github.com/joho/godotenv"
)

// Removes attachment files on disk that no booking_files row points at,
// e.g. leftovers from bookings deleted with ON DELETE CASCADE.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}
	dryRun := os.Getenv("DRY_RUN") == "true"

	db, err := database.Connect(databaseURL, nil)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	known, err := attachment.NewRepository(db).Paths(context.Background())
	if err != nil {
		log.Fatalf("list booking files failed: %v", err)
	}

	storage := attachment.NewStorage(uploadsDir, "", nil)
	orphans, err := storage.Orphans(known)
	if err != nil {
		log.Fatalf("scan %s failed: %v", uploadsDir, err)
	}

	removed := 0
	for _, p := range orphans {
		if dryRun {
			log.Printf("would remove %s", p)
			continue
		}
		if err := storage.Remove(p); err != nil {
			log.Printf("remove %s: %v", p, err)
			continue
		}
		removed++
	}

	log.Printf("files cleanup completed: known=%d orphaned=%d removed=%d", len(known), len(orphans), removed)
}
