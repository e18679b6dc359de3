// Package config loads runtime settings. Command-line flags win over the
// process environment, which wins over an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMissingToken is returned when no credential was supplied.
var ErrMissingToken = errors.New("save your token in the BOT_TOKEN env variable!")

// Config holds every setting of the bot.
type Config struct {
	Token        string  `env:"BOT_TOKEN"`
	MusicDir     string  `env:"MUSIC_DIR" envDefault:"music"`
	LogLevel     string  `env:"LOG_LEVEL" envDefault:"debug"`
	LogNoColor   bool    `env:"LOG_NO_COLOR" envDefault:"false"`
	Proxy        string  `env:"DISCORD_PROXY"`
	SendRate     float64 `env:"SEND_RATE" envDefault:"5"`
	SendRateMax  float64 `env:"SEND_RATE_MAX" envDefault:"10"`
	OpenAttempts int     `env:"GATEWAY_OPEN_ATTEMPTS" envDefault:"5"`
	FFmpegPath   string  `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
}

// Flags are the command-line options.
type Flags struct {
	Token   string
	EnvFile string
}

// ParseFlags parses args (without the program name).
func ParseFlags(args []string, output io.Writer) (Flags, error) {
	var f Flags
	fs := flag.NewFlagSet("jukebot", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.Token, "t", "", "provide token as argument")
	fs.StringVar(&f.Token, "token", "", "provide token as argument")
	fs.StringVar(&f.EnvFile, "env", ".env", "optional dotenv file")
	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	return f, nil
}

// Load reads the dotenv file named by flags (a missing file is fine), then
// the environment, and applies the flag token over BOT_TOKEN.
func Load(flags Flags) (*Config, error) {
	if flags.EnvFile != "" {
		// Already-set variables win over the file.
		_ = godotenv.Load(flags.EnvFile)
	}
	cfg, err := parse(env.Options{})
	if err != nil {
		return nil, err
	}
	return finish(cfg, flags)
}

// LoadFrom is Load over an explicit environment, without touching the
// process environment or any dotenv file.
func LoadFrom(environ map[string]string, flags Flags) (*Config, error) {
	cfg, err := parse(env.Options{Environment: environ})
	if err != nil {
		return nil, err
	}
	return finish(cfg, flags)
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

func finish(cfg *Config, flags Flags) (*Config, error) {
	if flags.Token != "" {
		cfg.Token = flags.Token
	}
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	if cfg.SendRate <= 0 {
		cfg.SendRate = 1
	}
	if cfg.SendRateMax < cfg.SendRate {
		cfg.SendRateMax = cfg.SendRate
	}
	if cfg.OpenAttempts < 1 {
		cfg.OpenAttempts = 1
	}
	return cfg, nil
}
