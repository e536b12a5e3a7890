// Package config loads the bot's settings from flags, BANK_ environment
// variables, an optional config file and a .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sotrh/bank/internal/common/validate"
	"github.com/sotrh/bank/internal/models"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable
const EnvPrefix = "BANK"

// Config is the bot configuration
type Config struct {
	Redis   RedisConfig   `mapstructure:"redis"`
	Discord DiscordConfig `mapstructure:"discord"`
	Game    GameConfig    `mapstructure:"game"`
	Verbose bool          `mapstructure:"verbose"`
}

// RedisConfig locates the redis instance games are stored in
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0,lte=15"`

	// CompletedTTL is how long finished games are kept
	CompletedTTL time.Duration `mapstructure:"completed_ttl" validate:"gte=0"`
}

// DiscordConfig holds the bot credentials
type DiscordConfig struct {
	Token string `mapstructure:"token" validate:"required"`
	AppID string `mapstructure:"app_id"`

	// GuildID registers commands for a single server, for development
	GuildID string `mapstructure:"guild_id"`
}

// GameConfig is the table setup used when /bank new is given no options
type GameConfig struct {
	TargetScore uint   `mapstructure:"target_score" validate:"required_without=MaxRounds"`
	MaxRounds   int    `mapstructure:"max_rounds" validate:"gte=0,lte=100"`
	Rules       string `mapstructure:"rules" validate:"oneof=default classic"`
}

// NewViper returns a viper instance reading BANK_ environment variables
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags registers the bot's flags on fs and binds each one to v. A flag
// named group-some-name is read from the key group.some_name and from the
// environment variable BANK_GROUP_SOME_NAME.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.String("redis-addr", "localhost:6379", "redis address (env: BANK_REDIS_ADDR)")
	fs.String("redis-password", "", "redis password (env: BANK_REDIS_PASSWORD)")
	fs.Int("redis-db", 0, "redis database number (env: BANK_REDIS_DB)")
	fs.Duration("redis-completed-ttl", 7*24*time.Hour, "how long finished games are kept, 0 to keep forever (env: BANK_REDIS_COMPLETED_TTL)")
	fs.String("discord-token", "", "discord bot token (env: BANK_DISCORD_TOKEN)")
	fs.String("discord-app-id", "", "discord application ID, defaults to the bot user (env: BANK_DISCORD_APP_ID)")
	fs.String("discord-guild-id", "", "register commands for one guild only (env: BANK_DISCORD_GUILD_ID)")
	fs.Uint("game-target-score", models.DefaultTargetScore, "score that wins a game, 0 to play by rounds only (env: BANK_GAME_TARGET_SCORE)")
	fs.Int("game-max-rounds", 0, "rounds per game, 0 for no limit (env: BANK_GAME_MAX_ROUNDS)")
	fs.String("game-rules", models.PolicyDefault, "rule preset, default or classic (env: BANK_GAME_RULES)")
	fs.BoolP("verbose", "v", false, "log file and line, and list resumed games at startup (env: BANK_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		key := flagKey(f.Name)
		_ = v.BindPFlag(key, f)
		_ = v.BindEnv(key)
	})
}

// flagKey maps redis-addr to redis.addr and discord-app-id to discord.app_id
func flagKey(name string) string {
	group, rest, found := strings.Cut(name, "-")
	if !found {
		return name
	}
	return group + "." + strings.ReplaceAll(rest, "-", "_")
}

// Load reads the configuration. Values come from, highest first: flags set
// on the command line, the environment (including a .env file in the
// working directory), the config file when path is set, then flag defaults.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		return nil, errors.New("viper instance cannot be nil")
	}

	// a missing .env is fine
	_ = godotenv.Load()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Settings returns the game settings new tables start with
func (c *Config) Settings() (models.Settings, error) {
	policy, ok := models.PolicyByName(c.Game.Rules)
	if !ok {
		return models.Settings{}, fmt.Errorf("unknown rules %q", c.Game.Rules)
	}

	settings := models.Settings{
		TargetScore: c.Game.TargetScore,
		MaxRounds:   c.Game.MaxRounds,
		Policy:      policy,
	}
	if err := validate.Struct(settings); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}
