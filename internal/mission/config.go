package mission

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Garsondee/battlescape/internal/terrain"
)

// ConfigName is the base name of the optional tool config file.
const ConfigName = "battlescape"

// EnvPrefix prefixes environment overrides, e.g. BATTLESCAPE_VISION_RANGE.
const EnvPrefix = "BATTLESCAPE"

// Config is the resolved configuration shared by the command-line tools.
type Config struct {
	Mission  string
	Runs     int
	SeedBase int64
	SeedStep int64
	LogLevel string
	Vision   terrain.VisionConfig
	Scale    int
}

// flagKeys maps viper keys to command-line flag names.
var flagKeys = map[string]string{
	"mission":       "mission",
	"runs":          "runs",
	"seedBase":      "seed",
	"seedStep":      "seed-step",
	"logLevel":      "log-level",
	"vision.range":  "vision-range",
	"vision.fovDeg": "fov",
	"viewer.scale":  "scale",
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mission", "missions/warehouse.yaml")
	v.SetDefault("runs", 8)
	v.SetDefault("seedBase", 1)
	v.SetDefault("seedStep", 7919)
	v.SetDefault("logLevel", "info")
	v.SetDefault("vision.range", 20.0)
	v.SetDefault("vision.fovDeg", 90.0)
	v.SetDefault("viewer.scale", 24)
}

// NewFlagSet declares the flags understood by LoadConfig.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", ".", "directory searched for "+ConfigName+".yaml")
	fs.String("mission", "missions/warehouse.yaml", "mission descriptor file")
	fs.Int("runs", 8, "number of seeded runs")
	fs.Int64("seed", 1, "seed of the first run")
	fs.Int64("seed-step", 7919, "seed increment between runs")
	fs.String("log-level", "info", "trace, debug, info, warn or error")
	fs.Float64("vision-range", 20, "vision range in cells")
	fs.Float64("fov", 90, "field of view in degrees")
	fs.Int("scale", 24, "viewer pixels per cell")
	return fs
}

// LoadConfig parses args into fs and resolves the configuration from, in
// decreasing priority: flags given on the command line, BATTLESCAPE_*
// environment variables, the optional config file and the defaults.
func LoadConfig(fs *pflag.FlagSet, args []string) (Config, error) {
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	v := viper.New()
	SetDefaults(v)
	for key, name := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	dir, err := fs.GetString("config")
	if err != nil {
		return Config{}, err
	}
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Config{
		Mission:  v.GetString("mission"),
		Runs:     v.GetInt("runs"),
		SeedBase: v.GetInt64("seedBase"),
		SeedStep: v.GetInt64("seedStep"),
		LogLevel: v.GetString("logLevel"),
		Vision:   terrain.VisionFromDegrees(v.GetFloat64("vision.range"), v.GetFloat64("vision.fovDeg")),
		Scale:    v.GetInt("viewer.scale"),
	}
	if err := cfg.validate(v.GetFloat64("vision.fovDeg")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate(fovDeg float64) error {
	switch {
	case c.Mission == "":
		return errors.New("config: mission is required")
	case c.Runs <= 0:
		return fmt.Errorf("config: runs must be positive, got %d", c.Runs)
	case c.Vision.Range <= 0:
		return fmt.Errorf("config: vision.range must be positive, got %v", c.Vision.Range)
	case fovDeg <= 0 || fovDeg > 360:
		return fmt.Errorf("config: vision.fovDeg %v outside (0, 360]", fovDeg)
	case c.Scale < 4:
		return fmt.Errorf("config: viewer.scale %d below 4", c.Scale)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Logger returns a console logger at the configured level.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
}
