package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"

	"epub2pwa/images"

	"github.com/joho/godotenv"
)

const (
	DefaultMaxImageWidth  = 400
	DefaultCoverWidth     = 700
	DefaultIconSize       = 192
	DefaultIconBackground = "#ffffff"
	DefaultStagingDir     = "temp"
	DefaultOutput         = "web/"
)

type Config struct {
	MaxImageWidth  int
	CoverWidth     int
	IconSize       int
	IconBackground color.RGBA
	StagingDir     string
	Output         string
}

// LoadEnvFiles reads .env and .env.local from the working directory.
// Variables already set in the process environment win.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads the env files and returns the configuration with environment
// overrides applied on top of the defaults.
func Load() (*Config, error) {
	LoadEnvFiles()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		StagingDir: getEnv("EPUB2PWA_STAGING_DIR", DefaultStagingDir),
		Output:     getEnv("EPUB2PWA_OUTPUT", DefaultOutput),
	}

	var err error
	if cfg.MaxImageWidth, err = getPositiveInt("EPUB2PWA_MAX_IMAGE_WIDTH", DefaultMaxImageWidth); err != nil {
		return nil, err
	}
	if cfg.CoverWidth, err = getPositiveInt("EPUB2PWA_COVER_WIDTH", DefaultCoverWidth); err != nil {
		return nil, err
	}
	if cfg.IconSize, err = getPositiveInt("EPUB2PWA_ICON_SIZE", DefaultIconSize); err != nil {
		return nil, err
	}
	bg := getEnv("EPUB2PWA_ICON_BACKGROUND", DefaultIconBackground)
	if cfg.IconBackground, err = images.ParseHexColor(bg); err != nil {
		return nil, fmt.Errorf("EPUB2PWA_ICON_BACKGROUND: %w", err)
	}
	return cfg, nil
}

func (c *Config) CoverOptions() images.CoverOptions {
	return images.CoverOptions{
		Width:      c.CoverWidth,
		IconSize:   c.IconSize,
		Background: c.IconBackground,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getPositiveInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, v)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %d", key, n)
	}
	return n, nil
}
