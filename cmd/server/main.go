package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/admobility/admobility/internal/config"
	"github.com/admobility/admobility/internal/database"
	"github.com/admobility/admobility/internal/handler"
	"github.com/admobility/admobility/internal/middleware"
	"github.com/admobility/admobility/internal/queue"
	"github.com/admobility/admobility/internal/repository"
	"github.com/admobility/admobility/internal/router"
	queue_publisher "github.com/admobility/admobility/internal/service"
	"github.com/admobility/admobility/internal/session"
	"github.com/admobility/admobility/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: sessions disabled, rate limiting off")
	}
	sessions := session.NewRedisStore(rdb, time.Duration(cfg.SessionTTLMin)*time.Minute)

	accounts := repository.NewAccountRepo(db)
	users := repository.NewUserRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	advertisers := repository.NewAdvertiserRepo(db)
	blobs := storage.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL)

	authH := handler.NewAuthHandler(cfg, accounts, users, advertisers, sessions)
	vehicleH := handler.NewVehicleHandler(users, vehicles, blobs, sessions, queue_publisher.PublishVehicleRegistered)
	advertiserH := handler.NewAdvertiserHandler(advertisers, sessions)

	e := echo.New()
	e.Use(middleware.SessionCookie(cfg.SessionSecret))
	e.Use(middleware.EdgeGate())

	router.RegisterInfra(e, cfg.UploadDir)
	router.RegisterAPI(e, authH, vehicleH, advertiserH, config.LoadRateLimitConfig(), rdb)
	router.RegisterPages(e)

	// Background consumer for the vehicle review log. Runs its own
	// reconnect loop for the life of the process.
	go func() {
		if err := queue.StartVehicleConsumer(); err != nil {
			log.Printf("vehicle consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
