package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/weft/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "weft.json"

	// DefaultEnoughTime is the remaining slice budget below which the
	// scheduler yields.
	DefaultEnoughTime = "1ms"

	// DefaultSlice is the length of one idle period.
	DefaultSlice = "16ms"

	// DefaultIdleSleep bounds how long the loop waits when idle.
	DefaultIdleSleep = "50ms"

	// DefaultInspectorAddr is the inspector's listen address.
	DefaultInspectorAddr = "127.0.0.1:7070"

	// DefaultNamespace is the Prometheus namespace.
	DefaultNamespace = "weft"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config represents the complete weft.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// DevMode enables debug logging and the inspector by default.
	DevMode bool `json:"devMode,omitempty"`

	// Scheduler contains time-slicing configuration.
	Scheduler SchedulerConfig `json:"scheduler,omitempty"`

	// Inspector contains inspector server configuration.
	Inspector InspectorConfig `json:"inspector,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SchedulerConfig contains time-slicing configuration. Durations use
// time.ParseDuration syntax.
type SchedulerConfig struct {
	// EnoughTime is the remaining budget below which a slice yields.
	EnoughTime string `json:"enoughTime,omitempty"`

	// Slice is the length of one idle period.
	Slice string `json:"slice,omitempty"`

	// IdleSleep bounds how long the loop waits when nothing is queued.
	IdleSleep string `json:"idleSleep,omitempty"`
}

// InspectorConfig contains inspector server configuration.
type InspectorConfig struct {
	// Enabled starts the inspector server.
	Enabled bool `json:"enabled,omitempty"`

	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`

	// Archive configures snapshot archival to S3.
	Archive ArchiveConfig `json:"archive,omitempty"`
}

// ArchiveConfig configures snapshot archival. Archival is off when Bucket is
// empty.
type ArchiveConfig struct {
	Bucket   string `json:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// MetricsConfig contains Prometheus configuration.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Scheduler: SchedulerConfig{
			EnoughTime: DefaultEnoughTime,
			Slice:      DefaultSlice,
			IdleSleep:  DefaultIdleSleep,
		},
		Inspector: InspectorConfig{
			Addr: DefaultInspectorAddr,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for weft.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E025").
				WithDetail("No weft.json found in " + filepath.Dir(path))
		}
		return nil, errors.New("E023").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E023").
			WithDetail("Failed to parse " + path + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("E024").WithDetail("no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E023").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E023").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from or saved to.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills fields a partial file left empty.
func (c *Config) applyDefaults() {
	d := New()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Scheduler.EnoughTime == "" {
		c.Scheduler.EnoughTime = d.Scheduler.EnoughTime
	}
	if c.Scheduler.Slice == "" {
		c.Scheduler.Slice = d.Scheduler.Slice
	}
	if c.Scheduler.IdleSleep == "" {
		c.Scheduler.IdleSleep = d.Scheduler.IdleSleep
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = d.Inspector.Addr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	for _, d := range []struct{ name, value string }{
		{"scheduler.enoughTime", c.Scheduler.EnoughTime},
		{"scheduler.slice", c.Scheduler.Slice},
		{"scheduler.idleSleep", c.Scheduler.IdleSleep},
	} {
		v, err := time.ParseDuration(d.value)
		if err != nil || v <= 0 {
			return errors.New("E024").
				WithDetailf("%s must be a positive duration, got %q", d.name, d.value)
		}
	}
	if c.EnoughTime() >= c.Slice() {
		return errors.New("E024").
			WithDetail("scheduler.enoughTime must be shorter than scheduler.slice")
	}
	if _, ok := levels[strings.ToLower(c.LogLevel)]; !ok {
		return errors.New("E024").
			WithDetailf("logLevel must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	if _, _, err := net.SplitHostPort(c.Inspector.Addr); err != nil {
		return errors.New("E024").
			WithDetailf("inspector.addr %q is not host:port", c.Inspector.Addr)
	}
	a := c.Inspector.Archive
	if a.Bucket == "" && (a.Region != "" || a.Endpoint != "" || a.Prefix != "") {
		return errors.New("E024").
			WithDetail("inspector.archive.bucket is required when archival is configured")
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Level returns the slog level for LogLevel. DevMode forces debug.
func (c *Config) Level() slog.Level {
	if c.DevMode {
		return slog.LevelDebug
	}
	if l, ok := levels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return slog.LevelInfo
}

func duration(s, fallback string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}

// EnoughTime returns the parsed scheduler.enoughTime.
func (c *Config) EnoughTime() time.Duration {
	return duration(c.Scheduler.EnoughTime, DefaultEnoughTime)
}

// Slice returns the parsed scheduler.slice.
func (c *Config) Slice() time.Duration {
	return duration(c.Scheduler.Slice, DefaultSlice)
}

// IdleSleep returns the parsed scheduler.idleSleep.
func (c *Config) IdleSleep() time.Duration {
	return duration(c.Scheduler.IdleSleep, DefaultIdleSleep)
}

// ArchiveEnabled reports whether snapshots are archived.
func (c *Config) ArchiveEnabled() bool {
	return c.Inspector.Archive.Bucket != ""
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing weft.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E025").
				WithDetail("No weft.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest weft.json at or
// above the working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
