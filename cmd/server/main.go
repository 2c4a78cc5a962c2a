package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-pos/internal/ai"
	"go-pos/internal/auth"
	"go-pos/internal/cache"
	"go-pos/internal/config"
	"go-pos/internal/database"
	"go-pos/internal/handlers"
	"go-pos/internal/invoices"
	"go-pos/internal/syncjob"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}

	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("❌ Database: %v", err)
	}

	clock, err := invoices.ClockFor(cfg.TimeZone)
	if err != nil {
		log.Fatalf("❌ POS_TIMEZONE: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := database.NewInvoiceStore(db)
	h := &handlers.Handler{
		DB:          db,
		Store:       store,
		Issuer:      auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		ShopName:    cfg.ShopName,
		BaseURL:     cfg.BaseURL,
		UploadDir:   cfg.UploadDir,
		LicenseSalt: cfg.LicenseSalt,
	}

	// --- Invoice notifications: Redis pub/sub across processes, in-memory otherwise ---
	var (
		notifier invoices.Notifier
		mirror   syncjob.StockMirror
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("❌ Redis: %v", err)
		}
		adapter := cache.NewRedisAdapter(rdb)
		notifier = cache.NewInvoiceEvents(rdb)
		mirror = adapter
		h.Idempotency = adapter
		log.Println("✅ Connected to Redis at " + cfg.RedisAddr)
	} else {
		notifier = invoices.NewBroadcaster()
		log.Println("⚠️ REDIS_ADDR not set: live invoice updates are local to this process")
	}
	h.Invoices = invoices.NewService(store, notifier, clock)

	if cfg.GeminiAPIKey != "" {
		h.Agent = ai.NewAgent(cfg.GeminiAPIKey, db, h.Invoices)
	} else {
		log.Println("⚠️ GEMINI_API_KEY not set: the assistant is disabled")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("❌ Upload dir: %v", err)
	}

	// --- Background sync ---
	go syncjob.NewRunner(db, mirror, h.Invoices, cfg.SyncInterval).Run(ctx)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.AllowRegistration {
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}
	h.Routes(r, handlers.Options{
		AllowRegistration: cfg.AllowRegistration,
		LicenseRequired:   cfg.LicenseRequired,
	})

	// --- DEPLOYMENT: Serve React Frontend ---
	r.Static("/assets", filepath.Join(cfg.WebDir, "assets"))
	r.StaticFile("/vite.svg", filepath.Join(cfg.WebDir, "vite.svg"))
	// SPA catch-all: a refresh on "/dashboard" serves index.html and React routes it.
	r.NoRoute(func(c *gin.Context) {
		c.File(filepath.Join(cfg.WebDir, "index.html"))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// Requests inherit the signal context so open SSE streams end on shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Println("🚀 Server starting on " + cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
