package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/robmorgan/cadence/asset"
	"github.com/robmorgan/cadence/logger"
	"github.com/robmorgan/cadence/world"
)

// DefaultFPS is how often the runner advances the song.
const DefaultFPS = 60

// Config represents options that configure the headless runner.
type Config struct {
	// Project logger
	Logger *logrus.Logger `yaml:"-"`

	// AssetRoot is a directory searched for scores and MIDI files before the embedded assets. Empty means embedded
	// assets only.
	AssetRoot string `yaml:"asset_root"`

	// ScorePath names the score to play, relative to the asset root.
	ScorePath string `yaml:"score"`

	// Seed drives every random choice a score makes.
	Seed int64 `yaml:"seed"`

	FPS      int    `yaml:"fps"`
	LogLevel string `yaml:"log_level"`

	// Player is where the simulated player stands. Player-relative positions resolve against it.
	Player Position `yaml:"player"`

	// StopAfter ends the run after this many beats. Zero plays until the last action has fired and the world is
	// empty.
	StopAfter float64 `yaml:"stop_after"`
}

// Position is a point on the playfield.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Pos converts p to a world position.
func (p Position) Pos() world.Pos {
	return world.Pos{X: p.X, Y: p.Y}
}

// InvalidConfigError is returned when a configuration value is out of range.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (err InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", err.Field, err.Reason)
}

// NewConfig creates a Config with reasonable defaults for real usage: the embedded score at 60 FPS.
func NewConfig() Config {
	return Config{
		Logger:    logger.GetLogger(),
		ScorePath: asset.DefaultScore,
		FPS:       DefaultFPS,
		LogLevel:  logrus.InfoLevel.String(),
	}
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.WithStackTrace(err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := NewConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.WithStackTrace(err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field is usable.
func (c Config) Validate() error {
	if c.FPS <= 0 {
		return errors.WithStackTrace(InvalidConfigError{Field: "fps", Reason: "must be positive"})
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.WithStackTrace(InvalidConfigError{Field: "log_level", Reason: err.Error()})
	}
	if c.ScorePath == "" {
		return errors.WithStackTrace(InvalidConfigError{Field: "score", Reason: "must not be empty"})
	}
	if c.StopAfter < 0 {
		return errors.WithStackTrace(InvalidConfigError{Field: "stop_after", Reason: "must not be negative"})
	}
	p := c.Player
	if p.X < world.MinCoord || p.X > world.MaxCoord || p.Y < world.MinCoord || p.Y > world.MaxCoord {
		return errors.WithStackTrace(InvalidConfigError{Field: "player", Reason: "must be on the playfield"})
	}
	return nil
}

// Loader returns the asset loader for this configuration.
func (c Config) Loader() asset.Loader {
	return asset.NewLoader(c.AssetRoot)
}
