package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vbforge/product-catalog/internal/api"
	"github.com/vbforge/product-catalog/internal/auth/token"
	"github.com/vbforge/product-catalog/internal/core/domain"
	"github.com/vbforge/product-catalog/internal/core/ports"
	"github.com/vbforge/product-catalog/internal/infrastructure/config"
	mongodb "github.com/vbforge/product-catalog/internal/infrastructure/db/mongo"
	redisdb "github.com/vbforge/product-catalog/internal/infrastructure/db/redis"
	"github.com/vbforge/product-catalog/pkg/logger"
)

// @title        Product Catalog API
// @version      1.0
// @description  Product/Tag catalog secured with self-issued JWT bearer tokens.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "product-catalog",
		Pretty:  cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongodb")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("creating mongodb indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to redis")
	}
	defer func() { _ = rdb.Close() }()

	codec := token.NewCodec([]byte(cfg.JWT.Secret), cfg.JWT.TTL, nil)

	if err := seedUsers(ctx, mongodb.NewUserRepository(db)); err != nil {
		log.Fatal().Err(err).Msg("seeding users")
	}

	e := api.NewRouter(db, rdb, codec, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// seedUsers ensures the two well-known demo accounts exist:
// user/password (USER) and admin/admin (ADMIN).
func seedUsers(ctx context.Context, repo ports.UserRepository) error {
	seeds := []struct {
		username, password string
		roles              []string
	}{
		{"user", "password", []string{domain.RoleUser}},
		{"admin", "admin", []string{domain.RoleUser, domain.RoleAdmin}},
	}

	for _, s := range seeds {
		if _, err := repo.FindByUsername(ctx, s.username); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		_, err = repo.Create(ctx, &domain.User{
			Username:     s.username,
			PasswordHash: string(hash),
			Roles:        s.roles,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil && !errors.Is(err, domain.ErrUserExists) {
			return err
		}
	}
	return nil
}
