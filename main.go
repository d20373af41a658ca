package main

import (
	"ConnectSpace/cache"
	"ConnectSpace/config"
	"ConnectSpace/events"
	"ConnectSpace/handlers"
	"ConnectSpace/logger"
	"ConnectSpace/payments"
	"ConnectSpace/routes"
	"ConnectSpace/store"
	"ConnectSpace/utils"
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type stores struct {
	properties store.PropertyStore
	users      store.UserStore
	favorites  store.FavoriteStore
	inquiries  store.InquiryStore
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLogger, closeLogger, err := logger.New(logger.Config{
		Level:         logger.ParseLevel(cfg.Log.Level),
		Format:        cfg.Log.Format,
		FluentEnabled: cfg.Log.FluentEnabled,
		FluentHost:    cfg.Log.FluentHost,
		FluentPort:    cfg.Log.FluentPort,
		FluentTag:     "connectspace",
		FluentLevel:   logger.ParseLevel(cfg.Log.FluentLevel),
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer closeLogger()
	slog.SetDefault(appLogger)

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, appLogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handlers.Check{}
	var st stores

	switch cfg.Mongo.Driver {
	case "memory":
		appLogger.Warn("using in-memory store; data is lost on restart")
		st = stores{
			properties: store.NewMemoryPropertyStore(),
			users:      store.NewMemoryUserStore(),
			favorites:  store.NewMemoryFavoriteStore(),
			inquiries:  store.NewMemoryInquiryStore(),
		}
	default:
		client, err := config.ConnectDB(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				appLogger.Error("mongo disconnect", "error", err)
			}
		}()
		appLogger.Info("Connected to MongoDB", "database", cfg.Mongo.Database)

		db := client.Database(cfg.Mongo.Database)
		collections := store.Collections{
			Properties: db.Collection(cfg.Mongo.PropertiesCollection),
			Users:      db.Collection(cfg.Mongo.UsersCollection),
			Favorites:  db.Collection(cfg.Mongo.FavoritesCollection),
			Inquiries:  db.Collection(cfg.Mongo.InquiriesCollection),
		}
		if err := store.EnsureIndexes(ctx, collections); err != nil {
			return err
		}
		st = stores{
			properties: store.NewMongoPropertyStore(collections.Properties),
			users:      store.NewMongoUserStore(collections.Users),
			favorites:  store.NewMongoFavoriteStore(collections.Favorites),
			inquiries:  store.NewMongoInquiryStore(collections.Inquiries),
		}
		checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
	}

	var listCache cache.Cache = cache.NewMemoryCache()
	if cfg.Redis.Addr != "" {
		redisClient := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			appLogger.Warn("Redis unavailable, caching in process", "addr", cfg.Redis.Addr, "error", err)
		} else {
			appLogger.Info("Connected to Redis", "addr", cfg.Redis.Addr)
			listCache = cache.NewRedisCache(redisClient, cfg.Redis.TTL)
			checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATS.URL != "" {
		nc, err := events.Connect(cfg.NATS.URL, cfg.NATS.MaxReconnects, cfg.NATS.ReconnectWait, func(msg string, err error) {
			if err != nil {
				appLogger.Warn(msg, "error", err)
				return
			}
			appLogger.Info(msg)
		})
		if err != nil {
			return err
		}
		defer nc.Drain()
		publisher = events.NewNATSPublisher(nc)
		checks["nats"] = func(context.Context) error {
			if nc.Status() != nats.CONNECTED {
				return errors.New(nc.Status().String())
			}
			return nil
		}
		appLogger.Info("Connected to NATS", "url", cfg.NATS.URL)
	}

	tokens, err := utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	if err != nil {
		return err
	}
	gateway, err := payments.NewSandboxGateway(cfg.Payments.KeySecret)
	if err != nil {
		return err
	}

	e := routes.NewEcho(routes.ServerOptions{
		Logger:         appLogger,
		Production:     cfg.IsProduction(),
		RequestTimeout: cfg.Server.RequestTimeout,
		CorsOrigins:    cfg.Server.CorsOrigins,
	})
	routes.RegisterRoutes(e, routes.Controllers{
		Properties: handlers.NewPropertyController(st.properties, st.inquiries, listCache, publisher),
		Maps:       handlers.NewMapController(st.properties, st.users),
		Users:      handlers.NewUserController(st.users, tokens, cfg.Auth.AdminEmails),
		Favorites:  handlers.NewFavoriteController(st.favorites, st.properties),
		Payments:   handlers.NewPaymentController(gateway),
		Health:     handlers.NewHealthController(checks),
	}, tokens)

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("Server starting", "port", cfg.Server.Port, "env", cfg.Environment)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
