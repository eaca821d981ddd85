package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "HOLDEM"

type Config struct {
	Tables          int           `mapstructure:"tables"`
	Hands           int           `mapstructure:"hands"`
	Players         int           `mapstructure:"players"`
	BuyIn           int64         `mapstructure:"buy-in"`           // cents
	SmallBlind      int64         `mapstructure:"small-blind"`      // cents
	MinDenomination int64         `mapstructure:"min-denomination"` // cents
	ActionTime      int           `mapstructure:"action-time"`      // seconds
	PauseTime       int           `mapstructure:"pause-time"`       // seconds
	ThinkingTime    time.Duration `mapstructure:"thinking-time"`
	SettlementUnit  int64         `mapstructure:"settlement-unit"` // cents
	Seed            int64         `mapstructure:"seed"`
	LogLevel        string        `mapstructure:"log-level"`
}

func DefaultConfig() Config {
	return Config{
		Tables:          2,
		Hands:           20,
		Players:         4,
		BuyIn:           2000,
		SmallBlind:      5,
		MinDenomination: 5,
		ActionTime:      5,
		PauseTime:       1,
		ThinkingTime:    50 * time.Millisecond,
		SettlementUnit:  100,
		Seed:            0,
		LogLevel:        "info",
	}
}

func bindFlags(flags *pflag.FlagSet, cfg Config) {
	flags.Int("tables", cfg.Tables, "number of tables played at the same time")
	flags.Int("hands", cfg.Hands, "hands dealt at each table before it closes")
	flags.Int("players", cfg.Players, "bots seated at each table")
	flags.Int64("buy-in", cfg.BuyIn, "buy-in of every bot in cents")
	flags.Int64("small-blind", cfg.SmallBlind, "small blind in cents")
	flags.Int64("min-denomination", cfg.MinDenomination, "smallest chip in cents")
	flags.Int("action-time", cfg.ActionTime, "seconds a seat has to act")
	flags.Int("pause-time", cfg.PauseTime, "seconds between hands, 0 deals at once")
	flags.Duration("thinking-time", cfg.ThinkingTime, "longest delay before a bot acts")
	flags.Int64("settlement-unit", cfg.SettlementUnit, "rounding unit of the settlement report in cents")
	flags.Int64("seed", cfg.Seed, "random seed, 0 picks one from the clock")
}

/*
loadConfig 讀取設定
  - 優先順序: flag > 環境變數 (HOLDEM_*) > 設定檔 > 預設值
  - 工作目錄下的 .env 會先載入到環境變數
*/
func loadConfig(flags *pflag.FlagSet, configFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("tables", defaults.Tables)
	v.SetDefault("hands", defaults.Hands)
	v.SetDefault("players", defaults.Players)
	v.SetDefault("buy-in", defaults.BuyIn)
	v.SetDefault("small-blind", defaults.SmallBlind)
	v.SetDefault("min-denomination", defaults.MinDenomination)
	v.SetDefault("action-time", defaults.ActionTime)
	v.SetDefault("pause-time", defaults.PauseTime)
	v.SetDefault("thinking-time", defaults.ThinkingTime)
	v.SetDefault("settlement-unit", defaults.SettlementUnit)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("log-level", defaults.LogLevel)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Tables < 1:
		return errors.New("config: at least one table is needed")
	case c.Hands < 1:
		return errors.New("config: at least one hand is needed")
	case c.Players < 2:
		return errors.New("config: a table needs two players")
	case c.ThinkingTime < 0:
		return errors.New("config: thinking time must not be negative")
	}
	return nil
}
