package round_ledger

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
	roundKeyPrefix      = "round:"
	gameRoundsKeyPrefix = "game_rounds:"
)

// Config holds configuration for the Redis round ledger repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// CompletedTTL expires a game's records once its final round is added.
	// It should match the game repository's so both go together. Zero keeps
	// them until they are deleted.
	CompletedTTL time.Duration
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client       *redis.Client
	completedTTL time.Duration
}

// NewRedis creates a new Redis-backed round ledger repository
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

// AddRoundRecord stores the record and indexes it under its game by round
// number. A final record starts the expiry of every key the game wrote.
func (r *redisRepository) AddRoundRecord(ctx context.Context, input *AddRoundRecordInput) error {
	if input == nil || input.Record == nil {
		return errors.New("input and record cannot be nil")
	}

	record := input.Record
	if record.ID == "" {
		return errors.New("round record ID cannot be empty")
	}
	if record.GameID == "" {
		return errors.New("round record game ID cannot be empty")
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal round record: %w", err)
	}

	gameKey := gameRoundsKeyPrefix + record.GameID

	var ttl time.Duration
	var earlier []string
	if input.Final && r.completedTTL > 0 {
		ttl = r.completedTTL
		earlier, err = r.client.ZRange(ctx, gameKey, 0, -1).Result()
		if err != nil {
			return fmt.Errorf("failed to get round IDs for game: %w", err)
		}
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, roundKeyPrefix+record.ID, recordJSON, ttl)
	pipe.ZAdd(ctx, gameKey, redis.Z{
		Score:  float64(record.Number),
		Member: record.ID,
	})
	if ttl > 0 {
		for _, roundID := range earlier {
			pipe.Expire(ctx, roundKeyPrefix+roundID, ttl)
		}
		pipe.Expire(ctx, gameKey, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add round record: %w", err)
	}

	return nil
}

// GetRoundRecordsForGame retrieves all round records for a game
func (r *redisRepository) GetRoundRecordsForGame(ctx context.Context, input *GetRoundRecordsForGameInput) (*GetRoundRecordsForGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	roundIDs, err := r.client.ZRange(ctx, gameRoundsKeyPrefix+input.GameID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get round IDs for game: %w", err)
	}

	if len(roundIDs) == 0 {
		return &GetRoundRecordsForGameOutput{
			Records: []*models.RoundRecord{},
		}, nil
	}

	pipe := r.client.Pipeline()
	commands := make([]*redis.StringCmd, len(roundIDs))
	for i, roundID := range roundIDs {
		commands[i] = pipe.Get(ctx, roundKeyPrefix+roundID)
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get round records: %w", err)
	}

	records := make([]*models.RoundRecord, 0, len(roundIDs))
	for i, cmd := range commands {
		recordJSON, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get round record %s: %w", roundIDs[i], err)
		}

		var record models.RoundRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal round record %s: %w", roundIDs[i], err)
		}

		records = append(records, &record)
	}

	return &GetRoundRecordsForGameOutput{
		Records: records,
	}, nil
}

// DeleteRoundRecords deletes all round records for a game
func (r *redisRepository) DeleteRoundRecords(ctx context.Context, input *DeleteRoundRecordsInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	gameKey := gameRoundsKeyPrefix + input.GameID
	roundIDs, err := r.client.ZRange(ctx, gameKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to get round IDs for game: %w", err)
	}

	pipe := r.client.TxPipeline()
	for _, roundID := range roundIDs {
		pipe.Del(ctx, roundKeyPrefix+roundID)
	}
	pipe.Del(ctx, gameKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete round records: %w", err)
	}

	return nil
}
