package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matchmates/matchmates-bot/internal/bot"
	"github.com/matchmates/matchmates-bot/internal/config"
	"github.com/matchmates/matchmates-bot/internal/gateway"
	"github.com/matchmates/matchmates-bot/internal/intake"
	"github.com/matchmates/matchmates-bot/internal/interest"
	"github.com/matchmates/matchmates-bot/internal/logger"
	"github.com/matchmates/matchmates-bot/internal/match"
	"github.com/matchmates/matchmates-bot/internal/profile"
	"github.com/matchmates/matchmates-bot/internal/session"
)

var version = "dev"

func main() {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "matchmates-bot",
		Short: "matchmates-bot runs the MatchMates intake and matching service",
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the messaging gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "token [user-id]",
		Short: "Issue a gateway token for a user id (testing)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			tok, err := gateway.IssueToken(args[0], []byte(cfg.JWTSecret), cfg.SessionTTL)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(cfg *config.Config) error {
	log, err := logger.New(cfg.JSONLogs, cfg.Debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	var (
		profiles profile.Store
		edges    interest.Store
		sessions session.Store
	)

	if cfg.DevMode {
		log.Info("dev mode: using in-memory stores")
		profiles = profile.NewMemoryStore()
		edges = interest.NewMemoryStore()
		sessions = session.NewMemoryStore()
	} else {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return fmt.Errorf("reaching database: %w", err)
		}
		log.Info("database connection established")
		profiles = profile.NewPostgresStore(db)
		edges = interest.NewPostgresStore(db)

		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer rdb.Close()
			sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
			log.Info("using redis session store", zap.String("addr", cfg.RedisAddr))
		} else {
			sessions = session.NewMemoryStore()
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	machine := intake.NewMachine(profiles)
	matcher := match.NewEngine(profiles, sessions, rng, log)
	reciprocity := interest.NewEngine(edges, sessions, log)
	orch := bot.NewOrchestrator(sessions, profiles, machine, matcher, reciprocity, log)

	srv := gateway.NewServer(gateway.NewHub(), orch, []byte(cfg.JWTSecret), log)
	httpSrv := &http.Server{Addr: cfg.Listen, Handler: srv.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("gateway listening", zap.String("addr", cfg.Listen))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
