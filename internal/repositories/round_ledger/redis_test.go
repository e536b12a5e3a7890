package round_ledger

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sotrh/bank/internal/models"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	ctx     context.Context
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.ctx = context.Background()
	s.testNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) record(id, gameID string, number int) *models.RoundRecord {
	return &models.RoundRecord{
		ID:      id,
		GameID:  gameID,
		Number:  number,
		Outcome: models.OutcomeRoundComplete,
		Pot:     18,
		Rolls:   []models.Roll{models.Sum(9), models.Sum(9)},
		Banks: []models.BankEntry{
			{PlayerID: "p1", PlayerName: "Alice", Amount: 18},
			{PlayerID: "p2", PlayerName: "Bob", Amount: 18},
		},
		Timestamp: s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestAddAndGetRoundRecords() {
	// added out of order, read back by round number
	for _, rec := range []*models.RoundRecord{
		s.record("round-2", "test-game-id", 2),
		s.record("round-1", "test-game-id", 1),
		s.record("other", "other-game-id", 1),
	} {
		s.Require().NoError(s.repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{Record: rec}))
	}

	out, err := s.repo.GetRoundRecordsForGame(s.ctx, &GetRoundRecordsForGameInput{GameID: "test-game-id"})
	s.Require().NoError(err)
	s.Require().Len(out.Records, 2)

	s.Equal("round-1", out.Records[0].ID)
	s.Equal("round-2", out.Records[1].ID)
	s.Equal(models.OutcomeRoundComplete, out.Records[0].Outcome)
	s.Equal(uint(18), out.Records[0].Pot)
	s.Len(out.Records[0].Banks, 2)
	s.Equal("Alice", out.Records[0].Banks[0].PlayerName)
	s.True(s.testNow.Equal(out.Records[0].Timestamp))
}

func (s *RedisRepositoryTestSuite) TestGetRoundRecordsForEmptyGame() {
	out, err := s.repo.GetRoundRecordsForGame(s.ctx, &GetRoundRecordsForGameInput{GameID: "nothing-here"})
	s.Require().NoError(err)
	s.Empty(out.Records)
}

func (s *RedisRepositoryTestSuite) TestDeleteRoundRecords() {
	s.Require().NoError(s.repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{Record: s.record("round-1", "test-game-id", 1)}))
	s.Require().NoError(s.repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{Record: s.record("other", "other-game-id", 1)}))

	s.Require().NoError(s.repo.DeleteRoundRecords(s.ctx, &DeleteRoundRecordsInput{GameID: "test-game-id"}))

	out, err := s.repo.GetRoundRecordsForGame(s.ctx, &GetRoundRecordsForGameInput{GameID: "test-game-id"})
	s.Require().NoError(err)
	s.Empty(out.Records)
	s.False(s.mr.Exists(roundKeyPrefix + "round-1"))

	out, err = s.repo.GetRoundRecordsForGame(s.ctx, &GetRoundRecordsForGameInput{GameID: "other-game-id"})
	s.Require().NoError(err)
	s.Len(out.Records, 1)
}

func (s *RedisRepositoryTestSuite) TestAddRoundRecordValidatesInput() {
	s.Error(s.repo.AddRoundRecord(s.ctx, nil))
	s.Error(s.repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{}))
	s.Error(s.repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{Record: &models.RoundRecord{GameID: "g"}}))
	s.Error(s.repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{Record: &models.RoundRecord{ID: "r"}}))
}

func (s *RedisRepositoryTestSuite) TestFinalRecordExpiresGameLedger() {
	repo, err := NewRedis(&Config{RedisClient: s.client, CompletedTTL: time.Hour})
	s.Require().NoError(err)

	s.Require().NoError(repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{Record: s.record("round-1", "test-game-id", 1)}))
	s.Equal(time.Duration(0), s.mr.TTL(roundKeyPrefix+"round-1"))
	s.Equal(time.Duration(0), s.mr.TTL(gameRoundsKeyPrefix+"test-game-id"))

	s.Require().NoError(repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{
		Record: s.record("round-2", "test-game-id", 2),
		Final:  true,
	}))
	s.Require().NoError(repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{Record: s.record("other", "other-game-id", 1)}))

	s.Equal(time.Hour, s.mr.TTL(roundKeyPrefix+"round-1"))
	s.Equal(time.Hour, s.mr.TTL(roundKeyPrefix+"round-2"))
	s.Equal(time.Hour, s.mr.TTL(gameRoundsKeyPrefix+"test-game-id"))

	s.mr.FastForward(time.Hour + time.Second)

	s.False(s.mr.Exists(roundKeyPrefix + "round-1"))
	s.False(s.mr.Exists(roundKeyPrefix + "round-2"))
	s.False(s.mr.Exists(gameRoundsKeyPrefix + "test-game-id"))

	out, err := repo.GetRoundRecordsForGame(s.ctx, &GetRoundRecordsForGameInput{GameID: "other-game-id"})
	s.Require().NoError(err)
	s.Len(out.Records, 1)
}

func (s *RedisRepositoryTestSuite) TestFinalRecordWithoutTTLIsKept() {
	s.Require().NoError(s.repo.AddRoundRecord(s.ctx, &AddRoundRecordInput{
		Record: s.record("round-1", "test-game-id", 1),
		Final:  true,
	}))

	s.mr.FastForward(24 * time.Hour)

	out, err := s.repo.GetRoundRecordsForGame(s.ctx, &GetRoundRecordsForGameInput{GameID: "test-game-id"})
	s.Require().NoError(err)
	s.Len(out.Records, 1)
}

func (s *RedisRepositoryTestSuite) TestNewRedisRejectsNegativeTTL() {
	_, err := NewRedis(&Config{RedisClient: s.client, CompletedTTL: -time.Second})
	s.Error(err)
}
