package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sotrh/bank/internal/models"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	fs *pflag.FlagSet
	v  *viper.Viper
}

func (s *ConfigTestSuite) SetupTest() {
	s.fs = pflag.NewFlagSet("bank", pflag.ContinueOnError)
	s.v = NewViper()
	BindFlags(s.fs, s.v)
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) load(args ...string) (*Config, error) {
	s.Require().NoError(s.fs.Parse(args))
	return Load(s.v, "")
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := s.load("--discord-token", "secret")
	s.Require().NoError(err)

	s.Equal("localhost:6379", cfg.Redis.Addr)
	s.Equal(0, cfg.Redis.DB)
	s.Equal(7*24*time.Hour, cfg.Redis.CompletedTTL)
	s.Equal("secret", cfg.Discord.Token)
	s.Equal(models.DefaultTargetScore, cfg.Game.TargetScore)
	s.Equal(0, cfg.Game.MaxRounds)
	s.Equal(models.PolicyDefault, cfg.Game.Rules)
	s.False(cfg.Verbose)
}

func (s *ConfigTestSuite) TestEnvironment() {
	s.T().Setenv("BANK_DISCORD_TOKEN", "from-env")
	s.T().Setenv("BANK_DISCORD_GUILD_ID", "guild-1")
	s.T().Setenv("BANK_REDIS_ADDR", "redis:6380")
	s.T().Setenv("BANK_REDIS_COMPLETED_TTL", "1h30m")
	s.T().Setenv("BANK_GAME_MAX_ROUNDS", "10")
	s.T().Setenv("BANK_GAME_RULES", "classic")

	cfg, err := s.load()
	s.Require().NoError(err)

	s.Equal("from-env", cfg.Discord.Token)
	s.Equal("guild-1", cfg.Discord.GuildID)
	s.Equal("redis:6380", cfg.Redis.Addr)
	s.Equal(90*time.Minute, cfg.Redis.CompletedTTL)
	s.Equal(10, cfg.Game.MaxRounds)
	s.Equal("classic", cfg.Game.Rules)
}

func (s *ConfigTestSuite) TestFlagsOverrideEnvironment() {
	s.T().Setenv("BANK_DISCORD_TOKEN", "from-env")

	cfg, err := s.load("--discord-token", "from-flag", "--game-target-score", "300", "-v")
	s.Require().NoError(err)

	s.Equal("from-flag", cfg.Discord.Token)
	s.Equal(uint(300), cfg.Game.TargetScore)
	s.True(cfg.Verbose)
}

func (s *ConfigTestSuite) TestUnderscoreFlagsAreNormalized() {
	cfg, err := s.load("--discord_token", "secret", "--redis_db", "3")
	s.Require().NoError(err)

	s.Equal("secret", cfg.Discord.Token)
	s.Equal(3, cfg.Redis.DB)
}

func (s *ConfigTestSuite) TestConfigFile() {
	path := filepath.Join(s.T().TempDir(), "bank.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("discord:\n  token: from-file\ngame:\n  rules: classic\n"), 0o600))

	s.Require().NoError(s.fs.Parse(nil))
	cfg, err := Load(s.v, path)
	s.Require().NoError(err)

	s.Equal("from-file", cfg.Discord.Token)
	s.Equal("classic", cfg.Game.Rules)
}

func (s *ConfigTestSuite) TestValidation() {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing token"},
		{name: "bad redis address", args: []string{"--discord-token", "t", "--redis-addr", "localhost"}},
		{name: "unknown rules", args: []string{"--discord-token", "t", "--game-rules", "house"}},
		{name: "no way to end", args: []string{"--discord-token", "t", "--game-target-score", "0"}},
		{name: "too many rounds", args: []string{"--discord-token", "t", "--game-max-rounds", "500"}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			_, err := s.load(tt.args...)
			s.Error(err)
		})
	}
}

func (s *ConfigTestSuite) TestSettings() {
	cfg, err := s.load("--discord-token", "t", "--game-rules", "classic", "--game-target-score", "0", "--game-max-rounds", "10")
	s.Require().NoError(err)

	settings, err := cfg.Settings()
	s.Require().NoError(err)
	s.Equal(models.Settings{MaxRounds: 10, Policy: models.ClassicPolicy()}, settings)
}

func (s *ConfigTestSuite) TestFlagKey() {
	s.Equal("redis.addr", flagKey("redis-addr"))
	s.Equal("discord.app_id", flagKey("discord-app-id"))
	s.Equal("game.target_score", flagKey("game-target-score"))
	s.Equal("redis.completed_ttl", flagKey("redis-completed-ttl"))
	s.Equal("verbose", flagKey("verbose"))
}

func (s *ConfigTestSuite) TestNilViper() {
	_, err := Load(nil, "")
	s.Error(err)
}
