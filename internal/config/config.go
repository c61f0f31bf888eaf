package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"editgrep/internal/domain"
	"editgrep/internal/eventbus"
)

// FileName is the per-directory config file looked up in the root directory
const FileName = ".editgrep.toml"

// Config represents the application configuration
type Config struct {
	Version  int             `toml:"version"`
	RootDir  string          `toml:"root_dir"`
	Search   SearchSettings  `toml:"search"`
	Index    IndexSettings   `toml:"index"`
	Entities []domain.Entity `toml:"entities"`
}

// SearchSettings tunes the find bar and the cross-collection panel
type SearchSettings struct {
	MinQueryLength int    `toml:"min_query_length"`
	EntityLimit    int    `toml:"entity_limit"`
	ScrollMarginPx int    `toml:"scroll_margin_px"`
	LineHeightPx   int    `toml:"line_height_px"`
	NoticeMs       int    `toml:"notice_ms"`
	HighlightMs    int    `toml:"highlight_ms"`
	CaseSensitive  bool   `toml:"case_sensitive"`
	WholeWord      bool   `toml:"whole_word"`
	UsePattern     bool   `toml:"use_pattern"`
	Include        string `toml:"include"`
	Exclude        string `toml:"exclude"`
}

// Options returns the default option toggles
func (s SearchSettings) Options() domain.SearchOptions {
	return domain.SearchOptions{
		CaseSensitive: s.CaseSensitive,
		WholeWord:     s.WholeWord,
		UsePattern:    s.UsePattern,
	}
}

// Filters returns the default include/exclude filters
func (s SearchSettings) Filters() domain.Filters {
	return domain.Filters{Include: s.Include, Exclude: s.Exclude}
}

// NoticeDuration is how long transient notices stay visible
func (s SearchSettings) NoticeDuration() time.Duration {
	return time.Duration(s.NoticeMs) * time.Millisecond
}

// HighlightDuration is how long an opened result line stays highlighted
func (s SearchSettings) HighlightDuration() time.Duration {
	return time.Duration(s.HighlightMs) * time.Millisecond
}

// IndexSettings configures the local content index
type IndexSettings struct {
	MaxLinesPerFile   int      `toml:"max_lines_per_file"`
	MaxResults        int      `toml:"max_results"`
	Workers           int      `toml:"workers"`
	AllowedExtensions []string `toml:"allowed_extensions"`
	AllowedFilenames  []string `toml:"allowed_filenames"`
	BinaryExtensions  []string `toml:"binary_extensions"`
	ExcludedDirs      []string `toml:"excluded_dirs"`
	ProtectedPaths    []string `toml:"protected_paths"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a new config service backed by the user config dir
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "editgrep", "config.toml"),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from the user config file
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cs.publishLoaded(cfg)
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}
	cs.publishLoaded(cfg)
	return cfg, nil
}

// Save saves the configuration to the user config file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigSavedEvent{})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (cs *configService) publishLoaded(cfg *Config) {
	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigLoadedEvent{RootDir: cfg.RootDir})
	}
}

// applyDefaults fills zero values left by a sparse config file
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.RootDir == "" {
		c.RootDir = d.RootDir
	}
	s := &c.Search
	if s.MinQueryLength <= 0 {
		s.MinQueryLength = d.Search.MinQueryLength
	}
	if s.EntityLimit <= 0 {
		s.EntityLimit = d.Search.EntityLimit
	}
	if s.ScrollMarginPx <= 0 {
		s.ScrollMarginPx = d.Search.ScrollMarginPx
	}
	if s.LineHeightPx <= 0 {
		s.LineHeightPx = d.Search.LineHeightPx
	}
	if s.NoticeMs <= 0 {
		s.NoticeMs = d.Search.NoticeMs
	}
	if s.HighlightMs <= 0 {
		s.HighlightMs = d.Search.HighlightMs
	}
	ix := &c.Index
	if ix.MaxLinesPerFile <= 0 {
		ix.MaxLinesPerFile = d.Index.MaxLinesPerFile
	}
	if ix.MaxResults <= 0 {
		ix.MaxResults = d.Index.MaxResults
	}
	if ix.Workers <= 0 {
		ix.Workers = d.Index.Workers
	}
	if ix.AllowedExtensions == nil {
		ix.AllowedExtensions = d.Index.AllowedExtensions
	}
	if ix.AllowedFilenames == nil {
		ix.AllowedFilenames = d.Index.AllowedFilenames
	}
	if ix.BinaryExtensions == nil {
		ix.BinaryExtensions = d.Index.BinaryExtensions
	}
	if ix.ExcludedDirs == nil {
		ix.ExcludedDirs = d.Index.ExcludedDirs
	}
	if ix.ProtectedPaths == nil {
		ix.ProtectedPaths = d.Index.ProtectedPaths
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	rootDir, err := os.Getwd()
	if err != nil {
		rootDir = "."
	}

	return &Config{
		Version: 1,
		RootDir: rootDir,
		Search: SearchSettings{
			MinQueryLength: 2,
			EntityLimit:    50,
			ScrollMarginPx: 20,
			LineHeightPx:   10,
			NoticeMs:       2000,
			HighlightMs:    3000,
		},
		Index: IndexSettings{
			MaxLinesPerFile: 100,
			MaxResults:      2000,
			Workers:         10,
			AllowedExtensions: []string{
				".yaml", ".yml", ".json", ".py", ".js", ".css", ".html", ".txt", ".csv",
				".md", ".conf", ".cfg", ".ini", ".sh", ".log", ".jinja", ".jinja2", ".j2",
				".go", ".toml", ".cpp", ".h", ".lock",
			},
			AllowedFilenames: []string{".gitignore"},
			BinaryExtensions: []string{
				".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".ico", ".pdf", ".zip",
				".db", ".sqlite", ".der", ".bin", ".ota", ".tar", ".gz",
				".mp4", ".webm", ".mov", ".avi", ".mkv", ".flv", ".wmv", ".m4v",
			},
			ExcludedDirs:   []string{"__pycache__", ".git", ".cache", "deps", "tts", "node_modules"},
			ProtectedPaths: []string{"secrets.yaml", ".storage"},
		},
	}
}
