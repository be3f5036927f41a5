package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/bytemc-uz/bytemc-backend/internal/config"
	"github.com/bytemc-uz/bytemc-backend/internal/database"
	"github.com/bytemc-uz/bytemc-backend/internal/handlers"
	"github.com/bytemc-uz/bytemc-backend/internal/litebans"
	"github.com/bytemc-uz/bytemc-backend/internal/middleware"
	"github.com/bytemc-uz/bytemc-backend/internal/models"
	"github.com/bytemc-uz/bytemc-backend/internal/routes"
	"github.com/bytemc-uz/bytemc-backend/internal/services"
	"github.com/bytemc-uz/bytemc-backend/internal/store"
)

// maxPortAttempts bounds the bind retry when the configured port is taken.
const maxPortAttempts = 10

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if cfg.JWTSecret == "change-this-secret" {
		log.Println("WARNING: JWT_SECRET not set, using the insecure default")
	}

	// Local JSON document (admins, proofs, players seen; punishments too in
	// file-fallback mode)
	st, err := store.New(cfg.DataFile)
	if err != nil {
		log.Fatal("Failed to open data file:", err)
	}
	log.Printf("Data file: %s", st.Path())

	// Optional LiteBans backend
	var lb *litebans.Client
	if cfg.UseLitebans() {
		if err := database.ConnectLitebans(cfg); err != nil {
			log.Fatal("Failed to connect to LiteBans DB:", err)
		}
		defer database.DisconnectLitebans()

		lb = litebans.NewClient(database.LitebansDB, cfg.LitebansPrefix)
		if cfg.LitebansPrefix == "" {
			prefix, err := lb.DetectPrefix(context.Background())
			if err != nil {
				log.Printf("WARNING: table prefix detection failed, assuming %q: %v", prefix, err)
			} else if prefix != "" {
				log.Printf("Detected LiteBans table prefix: %q", prefix)
			}
		}
	} else {
		log.Println("LiteBans DB not configured: serving punishments from the local data file")
	}

	// Optional Redis (rate limiting)
	if cfg.RedisURI != "" {
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			log.Printf("WARNING: Redis unavailable, rate limiting disabled: %v", err)
		} else {
			defer database.DisconnectRedis()
		}
	}

	// Seed and reconcile staff accounts
	accounts := &services.Accounts{Store: st}
	if err := accounts.SeedDefaultAdmin(cfg.AdminUser, cfg.AdminPass); err != nil {
		log.Fatal("Failed to seed admin account:", err)
	}
	if err := accounts.EnsureAccount(cfg.HelperUser, models.RoleHelper, cfg.HelperPass); err != nil {
		log.Printf("WARNING: failed to ensure helper account: %v", err)
	}
	if err := accounts.EnsureAccount(cfg.ModerUser, models.RoleModerator, cfg.ModerPass); err != nil {
		log.Printf("WARNING: failed to ensure moderator account: %v", err)
	}

	uploads, err := services.NewUploads(cfg.UploadsDir)
	if err != nil {
		log.Fatal("Failed to prepare uploads dir:", err)
	}

	tokens := services.NewTokenService(cfg.JWTSecret)
	records := &services.Records{Store: st}
	if lb != nil {
		// assign only a live client; a typed nil would read as litebans mode
		records.Litebans = lb
	}
	status := &services.StatusService{Store: st, Host: cfg.MCHost, Port: cfg.MCPort}
	handlers.Init(records, accounts, tokens, status, uploads)

	// Router
	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	routes.SetupRoutes(r, tokens, cfg.UploadsDir)

	startServer(cfg.Port, r)
}

// startServer listens on port, stepping to the next port (bounded) when the
// address is already taken.
func startServer(port int, handler http.Handler) {
	for attempt := 0; ; attempt++ {
		addr := fmt.Sprintf(":%d", port+attempt)
		log.Printf("Backend listening on http://localhost%s", addr)
		err := http.ListenAndServe(addr, handler)
		if errors.Is(err, syscall.EADDRINUSE) && attempt < maxPortAttempts {
			log.Printf("Port %d in use, trying %d...", port+attempt, port+attempt+1)
			time.Sleep(250 * time.Millisecond)
			continue
		}
		log.Fatal("Failed to start server:", err)
	}
}
