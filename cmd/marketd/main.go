package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"anonmarket/internal/adapter/handler"
	"anonmarket/internal/adapter/storage"
	"anonmarket/internal/config"
	"anonmarket/internal/core/service"
	"anonmarket/internal/port"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	app := &cli.App{
		Name:  "marketd",
		Usage: "marketplace transaction core",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run migrations (unless disabled) and serve the marketplace API",
				Action: func(c *cli.Context) error {
					return serve(c.Context, log)
				},
			},
			{
				Name:  "migrate",
				Usage: "apply pending schema migrations and exit",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					db, err := openMySQL(cfg)
					if err != nil {
						return err
					}
					defer db.Close()
					return runMigrations(db, cfg.MigrationsPath, log)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("marketd failed")
	}
}

func serve(ctx context.Context, log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := openMySQL(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to mysql")

	if cfg.MigrateOnServe {
		if err := runMigrations(db, cfg.MigrationsPath, log); err != nil {
			return err
		}
	}

	var soldOut port.SoldOutCache
	var rdb *redis.Client
	if cfg.RedisEnabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: cfg.RedisPoolSize,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return errors.Wrap(err, "connect redis")
		}
		defer rdb.Close()
		soldOut = storage.NewRedisSoldOut(rdb)
		log.Info("connected to redis")
	}

	mysqlStore := storage.NewMySQL(db)
	market := service.NewMarketplace(mysqlStore.Stores(), mysqlStore, soldOut, log)
	httpHandler := handler.NewHTTPHandler(market, log)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpHandler.Router(),
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Error("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	log.Info("http server stopped")

	return nil
}

func openMySQL(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, errors.Wrap(err, "connect mysql")
	}
	db.SetMaxOpenConns(cfg.MySQLMaxOpen)
	db.SetMaxIdleConns(cfg.MySQLMaxIdle)
	db.SetConnMaxLifetime(cfg.MySQLMaxLife)
	return db, nil
}

func runMigrations(db *sqlx.DB, path string, log *logrus.Logger) error {
	driver, err := migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	if err != nil {
		return errors.Wrap(err, "migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "mysql", driver)
	if err != nil {
		return errors.Wrap(err, "init migrations")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "apply migrations")
	}
	log.Info("migrations up to date")
	return nil
}
