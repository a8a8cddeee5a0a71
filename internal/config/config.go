package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Walk     WalkConfig     `yaml:"walk"`
	Replay   ReplayConfig   `yaml:"replay"`
	Snippets SnippetsConfig `yaml:"snippets"`
	Walk2D   Walk2DConfig   `yaml:"walk2d"`
}

type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" validate:"oneof=console json"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}

type WalkConfig struct {
	StartLatDeg float64          `yaml:"start_lat_deg" validate:"gte=-90,lte=90"`
	StartLonDeg float64          `yaml:"start_lon_deg" validate:"gte=-180,lte=180"`
	RadiusM     float64          `yaml:"radius_m" validate:"gt=0"`
	Count       int              `yaml:"count" validate:"gt=0"`
	Seed        uint64           `yaml:"seed"`
	Text        TextOutputConfig `yaml:"text"`
	DB          DBConfig         `yaml:"db"`
	NMEA        NMEAOutputConfig `yaml:"nmea"`
}

type TextOutputConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path" validate:"required_if=Enable true"`
}

type DBConfig struct {
	Enable    bool   `yaml:"enable"`
	Driver    string `yaml:"driver" validate:"oneof=sqlite postgres mysql"`
	DSN       string `yaml:"dsn" validate:"required_if=Enable true"`
	Table     string `yaml:"table" validate:"required_if=Enable true"`
	AppMask   int    `yaml:"app_mask"`
	BatchSize int    `yaml:"batch_size" validate:"gt=0"`
	// Session names the walk in the sessions table. Empty generates one.
	Session string `yaml:"session"`
}

type NMEAOutputConfig struct {
	Enable   bool          `yaml:"enable"`
	Path     string        `yaml:"path" validate:"required_if=Enable true"`
	Interval time.Duration `yaml:"interval" validate:"gt=0"`
}

type ReplayConfig struct {
	Output   string        `yaml:"output" validate:"required"`
	Interval time.Duration `yaml:"interval" validate:"gte=0"`
	Loop     bool          `yaml:"loop"`
	Limit    int           `yaml:"limit" validate:"gte=0"`
	NMEA     bool          `yaml:"nmea"`
	UDP      UDPConfig     `yaml:"udp"`
}

type UDPConfig struct {
	Enable bool   `yaml:"enable"`
	Dest   string `yaml:"dest" validate:"required_if=Enable true"`
}

type SnippetsConfig struct {
	Input     string `yaml:"input" validate:"required"`
	Output    string `yaml:"output" validate:"required"`
	Container string `yaml:"container" validate:"required"`
}

type Walk2DConfig struct {
	Steps  int     `yaml:"steps" validate:"gt=0"`
	Inc    float64 `yaml:"inc" validate:"gt=0"`
	Seed   uint64  `yaml:"seed"`
	Output string  `yaml:"output" validate:"required"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Walk: WalkConfig{
			StartLatDeg: -22.817092,
			StartLonDeg: -47.092430,
			RadiusM:     20,
			Count:       10000,
			Text:        TextOutputConfig{Enable: true, Path: "output.txt"},
			DB: DBConfig{
				Enable:    true,
				Driver:    "sqlite",
				DSN:       "database.db",
				Table:     "Points",
				AppMask:   1,
				BatchSize: 500,
			},
			NMEA: NMEAOutputConfig{Path: "walk.nmea", Interval: 1 * time.Second},
		},
		Replay: ReplayConfig{
			Output:   "../gps_test.txt",
			Interval: 100 * time.Millisecond,
			Loop:     true,
			UDP:      UDPConfig{Dest: "127.0.0.1:4000"},
		},
		Snippets: SnippetsConfig{
			Input:     "processed_primeiro.txt",
			Output:    "out_primeiro.txt",
			Container: "dataPtr",
		},
		Walk2D: Walk2DConfig{
			Steps:  100000,
			Inc:    2,
			Output: "walk2d.csv",
		},
	}
}

// Load reads path over Default(). An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints. Call it again after applying CLI
// overrides.
func (c Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return describe(err)
	}
	if c.Replay.UDP.Enable {
		if _, _, err := net.SplitHostPort(c.Replay.UDP.Dest); err != nil {
			return fmt.Errorf("replay.udp.dest must be host:port: %w", err)
		}
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// describe turns the first validation failure into a "walk.radius_m must be > 0" style error.
func describe(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err
	}
	fe := ves[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Errorf("%s is required", field)
	case "gt":
		return fmt.Errorf("%s must be > %s", field, fe.Param())
	case "gte":
		return fmt.Errorf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Errorf("%s must be <= %s", field, fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of [%s]", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Errorf("%s failed %s validation", field, fe.Tag())
	}
}
