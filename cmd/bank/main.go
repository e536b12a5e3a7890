package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sotrh/bank/internal/common/clock"
	"github.com/sotrh/bank/internal/common/uuid"
	"github.com/sotrh/bank/internal/config"
	"github.com/sotrh/bank/internal/dice"
	"github.com/sotrh/bank/internal/handlers/discord"
	"github.com/sotrh/bank/internal/repositories/game"
	"github.com/sotrh/bank/internal/repositories/round_ledger"
	gameService "github.com/sotrh/bank/internal/services/game"
	"github.com/sotrh/bank/internal/services/messaging"
	"github.com/spf13/cobra"
)

const releaseVersion = "0.1.0"

func main() {
	cobra.CheckErr(newCmd().Execute())
}

func newCmd() *cobra.Command {
	v := config.NewViper()
	var configPath string

	cmd := &cobra.Command{
		Use:     "bank",
		Short:   "Discord bot for Bank, the push-your-luck dice game.",
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	config.BindFlags(fs, v)
	fs.StringVarP(&configPath, "config", "c", "", "path to a config file (yaml, json or toml)")

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("bank v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.Verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	settings, err := cfg.Settings()
	if err != nil {
		return fmt.Errorf("invalid game settings: %w", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Test Redis connection
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr, err)
	}

	// Initialize repositories
	gameRepo, err := game.NewRedis(&game.Config{
		RedisClient:  redisClient,
		CompletedTTL: cfg.Redis.CompletedTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create game repository: %w", err)
	}

	ledgerRepo, err := round_ledger.NewRedis(&round_ledger.Config{
		RedisClient:  redisClient,
		CompletedTTL: cfg.Redis.CompletedTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create round ledger repository: %w", err)
	}

	logActiveGames(pingCtx, gameRepo, cfg.Verbose)

	// Initialize services
	gameSvc, err := gameService.NewService(&gameService.Config{
		DefaultSettings: &settings,
		GameRepo:        gameRepo,
		LedgerRepo:      ledgerRepo,
		Clock:           clock.New(),
		UUIDGenerator:   uuid.New(),
	})
	if err != nil {
		return fmt.Errorf("failed to create game service: %w", err)
	}

	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		return fmt.Errorf("failed to create messaging service: %w", err)
	}

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Token:            cfg.Discord.Token,
		ApplicationID:    cfg.Discord.AppID,
		GuildID:          cfg.Discord.GuildID,
		DefaultSettings:  settings,
		GameService:      gameSvc,
		MessagingService: messagingSvc,
		Roller:           dice.New(&dice.Config{}),
	})
	if err != nil {
		return fmt.Errorf("failed to create Discord bot: %w", err)
	}

	if err := bot.Start(); err != nil {
		return fmt.Errorf("failed to start Discord bot: %w", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	<-ctx.Done()

	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	log.Println("Bot has been shut down")
	return nil
}

// logActiveGames reports the tables that survived the last restart
func logActiveGames(ctx context.Context, repo game.Repository, verbose bool) {
	out, err := repo.GetActiveGames(ctx, &game.GetActiveGamesInput{})
	if err != nil {
		log.Printf("Failed to list active games: %v", err)
		return
	}

	log.Printf("Found %d active games", len(out.Games))
	if !verbose {
		return
	}
	for _, g := range out.Games {
		log.Printf("Game %s in channel %s: %s", g.ID, g.ChannelID, g.State)
	}
}
