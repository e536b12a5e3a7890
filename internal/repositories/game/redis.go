package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sotrh/bank/internal/models"
)

const (
	// Key prefixes for Redis
	gameKeyPrefix    = "game:"
	channelKeyPrefix = "channel:"

	// activeGamesKey is a sorted set of game IDs scored by last update
	activeGamesKey = "active_games"
)

// ErrGameNotFound is returned when a game is not found
var ErrGameNotFound = errors.New("game not found")

// Config holds configuration for the Redis game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// CompletedTTL expires finished games and their channel binding after
	// the given duration. Zero keeps them until they are deleted.
	CompletedTTL time.Duration
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client       *redis.Client
	completedTTL time.Duration
}

// NewRedis creates a new Redis-backed game repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if cfg.CompletedTTL < 0 {
		return nil, errors.New("completed TTL cannot be negative")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client:       cfg.RedisClient,
		completedTTL: cfg.CompletedTTL,
	}, nil
}

func gameKey(gameID string) string {
	return gameKeyPrefix + gameID
}

func channelKey(channelID string) string {
	return channelKeyPrefix + channelID
}

func decodeGame(data string) (*models.Game, error) {
	var game models.Game
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// SaveGame writes the game blob, points its channel at it and files it in
// the active index while a round is in play. Finished games are dropped
// from the index and expire after CompletedTTL.
func (r *redisRepository) SaveGame(ctx context.Context, input *SaveGameInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}
	g := input.Game
	if g.ID == "" {
		return errors.New("game ID cannot be empty")
	}

	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	var ttl time.Duration
	status := g.Status()
	if status == models.GameStatusCompleted {
		ttl = r.completedTTL
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, gameKey(g.ID), data, ttl)
	if g.ChannelID != "" {
		pipe.Set(ctx, channelKey(g.ChannelID), g.ID, ttl)
	}

	switch status {
	case models.GameStatusActive:
		pipe.ZAdd(ctx, activeGamesKey, redis.Z{
			Score:  float64(g.UpdatedAt.Unix()),
			Member: g.ID,
		})
	default:
		pipe.ZRem(ctx, activeGamesKey, g.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// GetGame retrieves a game by ID from Redis
func (r *redisRepository) GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	data, err := r.client.Get(ctx, gameKey(input.GameID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game, err := decodeGame(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	return game, nil
}

// GetGameByChannel retrieves the game bound to a channel from Redis
func (r *redisRepository) GetGameByChannel(ctx context.Context, input *GetGameByChannelInput) (*models.Game, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	gameID, err := r.client.Get(ctx, channelKey(input.ChannelID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game ID for channel: %w", err)
	}

	return r.GetGame(ctx, &GetGameInput{
		GameID: gameID,
	})
}

// DeleteGame removes a game and its channel binding from Redis
func (r *redisRepository) DeleteGame(ctx context.Context, input *DeleteGameInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	game, err := r.GetGame(ctx, &GetGameInput{
		GameID: input.GameID,
	})
	if err != nil {
		return err
	}

	// the channel may already host a newer game
	keepChannel := true
	if game.ChannelID != "" {
		current, err := r.client.Get(ctx, channelKey(game.ChannelID)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to get game ID for channel: %w", err)
		}
		keepChannel = current != input.GameID
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, gameKey(input.GameID))
	if !keepChannel {
		pipe.Del(ctx, channelKey(game.ChannelID))
	}
	pipe.ZRem(ctx, activeGamesKey, input.GameID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

// GetActiveGames returns games with a round in play, most recently updated
// first. IDs whose game has vanished are pruned from the index.
func (r *redisRepository) GetActiveGames(ctx context.Context, input *GetActiveGamesInput) (*GetActiveGamesOutput, error) {
	stop := int64(-1)
	if input != nil && input.Limit > 0 {
		stop = input.Limit - 1
	}

	gameIDs, err := r.client.ZRevRange(ctx, activeGamesKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active game IDs: %w", err)
	}

	games := make([]*models.Game, 0, len(gameIDs))
	if len(gameIDs) == 0 {
		return &GetActiveGamesOutput{Games: games}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(gameIDs))
	for i, gameID := range gameIDs {
		cmds[i] = pipe.Get(ctx, gameKey(gameID))
	}

	// redis.Nil from a vanished game surfaces per command below
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get active games: %w", err)
	}

	var stale []any
	for i, cmd := range cmds {
		data, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			stale = append(stale, gameIDs[i])
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get game %s: %w", gameIDs[i], err)
		}

		game, err := decodeGame(data)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal game %s: %w", gameIDs[i], err)
		}
		games = append(games, game)
	}

	if len(stale) > 0 {
		if err := r.client.ZRem(ctx, activeGamesKey, stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune active games: %w", err)
		}
	}

	return &GetActiveGamesOutput{
		Games: games,
	}, nil
}
