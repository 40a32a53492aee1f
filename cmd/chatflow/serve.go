package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/quizline/chatflow"
	"github.com/quizline/chatflow/internal/config"
	"github.com/quizline/chatflow/internal/logging"
	"github.com/quizline/chatflow/internal/server"
	redislock "github.com/quizline/chatflow/pkg/adapters/redis"
	"github.com/quizline/chatflow/pkg/line"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long:  `Loads the chatflow graph, then serves the LINE webhook with metrics and static assets.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		graphPath, _ := cmd.Flags().GetString("graph")

		if err := runServe(configPath, graphPath); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(configPath, graphPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if graphPath != "" {
		cfg.Graph.Path = graphPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(slog.LevelInfo)

	botOpts := []chatflow.Option{chatflow.WithLogger(logger)}
	if cfg.Redis.Addr != "" {
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		botOpts = append(botOpts, chatflow.WithLocker(redislock.NewLocker(client, "chatflow:")))
		logger.Info("distributed locking enabled", "redis", cfg.Redis.Addr)
	}

	bot, err := chatflow.Load(cfg.Graph.Path, botOpts...)
	if err != nil {
		return err
	}
	logger.Info("chatflow loaded", "path", cfg.Graph.Path, "nodes", len(bot.Document.Nodes))

	client := line.NewClient(cfg.Line.ChannelToken)
	srv := server.New(bot.Engine, client, cfg.Line.ChannelSecret,
		server.WithBaseURL(cfg.Server.BaseURL),
		server.WithStaticDir(cfg.Server.StaticDir),
		server.WithLogger(logger),
	)

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting webhook server", "addr", httpSrv.Addr)
		serverErrors <- httpSrv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpSrv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "err", err)
			if err := httpSrv.Close(); err != nil {
				return fmt.Errorf("failed to stop server: %w", err)
			}
		}
		logger.Info("server stopped")
	}
	return nil
}
