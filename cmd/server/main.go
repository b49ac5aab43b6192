package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/allocation"
	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/database"
	"github.com/iliyamo/train-seat-reservation/internal/handler"
	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/queue"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	layout := model.Layout{
		Rows:         cfg.SeatRows,
		SeatsPerRow:  cfg.SeatsPerRow,
		LastRowSeats: cfg.LastRowSeats,
	}

	var (
		trains repository.TrainStore
		users  repository.UserStore
	)
	switch cfg.StoreDriver {
	case "memory":
		mem := repository.NewMemoryStore()
		trains, users = mem, mem
	case "mysql":
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := repository.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Fatalf("ensure schema: %v", err)
		}
		cancel()
		trains = repository.NewTrainRepo(db)
		users = repository.NewUserRepo(db)
	default:
		log.Fatalf("unknown STORE_DRIVER: %q", cfg.StoreDriver)
	}

	engine := allocation.New(trains, users)
	seedTrain(engine, layout)

	rdb := config.NewRedisClient()
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	var pub queue.Publisher
	if os.Getenv("EVENTS_DISABLED") == "" {
		pub = queue.AMQPPublisher{}
		go func() {
			if err := queue.StartSeatsConsumer(); err != nil {
				log.Printf("seats consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret)
	router.RegisterTrain(e,
		handler.NewTrainHandler(engine, pub, rdb, cacheCfg.Prefix, layout),
		cfg.JWTSecret, rdb, rlCfg, cacheCfg)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreDriver)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedTrain initializes the seat map on first boot.  An existing train
// is left untouched so restarts never wipe live bookings.
func seedTrain(engine *allocation.Engine, layout model.Layout) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := engine.State(ctx)
	if err == nil {
		return
	}
	if !errors.Is(err, repository.ErrTrainNotFound) {
		log.Fatalf("load train state: %v", err)
	}
	train, err := engine.Reset(ctx, layout, true)
	if err != nil {
		log.Fatalf("seed train: %v", err)
	}
	log.Printf("seeded train with %d seats (%d pre-booked)", len(train.Seats), len(train.BookedNumbers()))
}
