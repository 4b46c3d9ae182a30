package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pharmled/pharmledgo/internal/config"
	"github.com/pharmled/pharmledgo/internal/database"
	"github.com/pharmled/pharmledgo/internal/handlers"
	"github.com/pharmled/pharmledgo/internal/models"
	"github.com/pharmled/pharmledgo/internal/services/guidance"
	"github.com/pharmled/pharmledgo/internal/slotting"
	"github.com/pharmled/pharmledgo/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 3. Auto-Migrate Schema (Critical for Zero-Config)
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.StaffAccount{},
		&models.Patient{},
		&models.Prescription{},
		&models.Shelf{},
		&models.Slot{},
		&models.LetterSection{},
		&models.ActionLog{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	slots := slotting.NewService(db.DB)

	// 4. Seed the letter sections (A-Z + Overflow) so the settings screen
	// always shows the full alphabet
	if err := slots.SeedSections(); err != nil {
		log.Printf("⚠️ Section seeding warning: %v", err)
	}

	// 5. Rebuild the occupancy ledger from the prescription table. Flags can
	// drift after a crash or a manual database edit; reconciliation at boot
	// guarantees a clean starting state.
	log.Println("🔄 Reconciling slot occupancy...")
	if err := slots.Reconcile(); err != nil {
		log.Printf("⚠️ Reconciliation warning: %v", err)
	} else {
		log.Println("✅ Slot occupancy reconciled")
	}

	// 6. LED display hub + blink session manager
	hub := websocket.NewHub()
	go hub.Run()
	guide := guidance.NewManager(hub)

	// 7. HTTP router
	router := handlers.NewRouter(db, cfg, hub, guide)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	guide.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Server shutdown error: %v", err)
	}

	if err := db.Close(); err != nil {
		log.Printf("⚠️ Database shutdown error: %v", err)
	}
	log.Println("✅ Shutdown complete")
}
