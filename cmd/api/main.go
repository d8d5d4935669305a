package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	mongoadapter "github.com/robertarktes/travel-reservations/internal/adapters/mongo"
	"github.com/robertarktes/travel-reservations/internal/adapters/rabbit"
	redisadapter "github.com/robertarktes/travel-reservations/internal/adapters/redis"
	"github.com/robertarktes/travel-reservations/internal/analytics"
	"github.com/robertarktes/travel-reservations/internal/auth"
	"github.com/robertarktes/travel-reservations/internal/booking"
	"github.com/robertarktes/travel-reservations/internal/config"
	"github.com/robertarktes/travel-reservations/internal/currency"
	"github.com/robertarktes/travel-reservations/internal/events"
	httphandler "github.com/robertarktes/travel-reservations/internal/http"
	"github.com/robertarktes/travel-reservations/internal/observability"
	"github.com/robertarktes/travel-reservations/internal/rateLimit"
	"github.com/robertarktes/travel-reservations/internal/wishlist"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger()

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDatabase)

	catalog := mongoadapter.NewCatalogRepository(db, logger)
	ledger := mongoadapter.NewLedgerRepository(db, logger)
	wishlistRepo := mongoadapter.NewWishlistRepository(db, logger)
	users := mongoadapter.NewUserRepository(db, logger)

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelIndexes()
	if err := wishlistRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("failed to create wishlist indexes: %v", err)
	}
	if err := users.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("failed to create user indexes: %v", err)
	}

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	redisCache := redisadapter.NewCache(redisClient)
	idemp := redisadapter.NewIdempotency(redisClient, cfg.IdempotencyTTL)
	rl := rateLimit.NewRateLimiter(redisCache)

	rabbitConn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer rabbitConn.Close()
	rabbitPub, err := rabbit.NewPublisher(rabbitConn)
	if err != nil {
		log.Fatalf("failed to create publisher: %v", err)
	}

	bus := events.NewBus()
	bridge := rabbit.NewBridge(rabbitPub, bus, logger)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret)
	authSvc := auth.NewService(users, tokens, logger)
	policy := booking.RestockPolicy{Threshold: cfg.RestockThreshold, Amount: cfg.RestockAmount}
	coordinator := booking.NewCoordinator(catalog, ledger, users, bus, policy, logger)
	reader := booking.NewReader(ledger, catalog, users, logger)
	aggregator := analytics.NewAggregator(ledger, catalog)
	wl := wishlist.NewStore(wishlistRepo, catalog, users, logger)
	fx := currency.NewClient(cfg.CurrencyAPIURL, redisCache, logger)

	handlers := httphandler.NewHandlers(cfg, logger, authSvc, coordinator, reader, aggregator, wl, catalog, fx, idemp)
	r := httphandler.SetupRouter(handlers, logger, tokens, rl)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		bridge.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown Server ...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
	logger.Info("Server exiting")
}
