package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	charmLog "github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Seed     SeedConfig     `toml:"seed"`
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
	TUI      TUIConfig      `toml:"tui"`
	Keys     KeyConfig      `toml:"keys"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// SeedConfig points at the board loaded on startup. Empty uses the database
// when it exists and the demo board otherwise.
type SeedConfig struct {
	Path string `toml:"path"`
}

type ServerConfig struct {
	HTTPBind    string `toml:"http_bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type TUIConfig struct {
	ConfirmDelete bool `toml:"confirm_delete"`
	ShowItemIDs   bool `toml:"show_item_ids"`
	CardWidth     int  `toml:"card_width"`
}

type KeyConfig struct {
	DeleteLane string `toml:"delete_lane"`
	RenameLane string `toml:"rename_lane"`
	CopyBoard  string `toml:"copy_board"`
}

const (
	minCardWidth = 12
	maxCardWidth = 60
)

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Server: ServerConfig{
			HTTPBind:    "127.0.0.1:5437",
			APIEndpoint: "/api/v1",
			MCPEndpoint: "/mcp",
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".laneboard/log",
			},
		},
		TUI: TUIConfig{
			ConfirmDelete: true,
			ShowItemIDs:   false,
			CardWidth:     24,
		},
		Keys: KeyConfig{
			DeleteLane: "d",
			RenameLane: "e",
			CopyBoard:  "y",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}

	if strings.TrimSpace(c.Server.HTTPBind) == "" {
		return errors.New("server.http_bind is required")
	}
	for name, endpoint := range map[string]string{
		"server.api_endpoint": c.Server.APIEndpoint,
		"server.mcp_endpoint": c.Server.MCPEndpoint,
	} {
		if !strings.HasPrefix(strings.TrimSpace(endpoint), "/") {
			return fmt.Errorf("%s must start with /: %q", name, endpoint)
		}
	}

	if _, err := charmLog.ParseLevel(strings.TrimSpace(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when enabled")
	}

	if c.TUI.CardWidth < minCardWidth || c.TUI.CardWidth > maxCardWidth {
		return fmt.Errorf("tui.card_width must be between %d and %d", minCardWidth, maxCardWidth)
	}

	seenKeys := map[string]string{}
	for name, binding := range map[string]string{
		"keys.delete_lane": c.Keys.DeleteLane,
		"keys.rename_lane": c.Keys.RenameLane,
		"keys.copy_board":  c.Keys.CopyBoard,
	} {
		binding = strings.TrimSpace(binding)
		if binding == "" {
			return fmt.Errorf("%s is required", name)
		}
		if other, ok := seenKeys[binding]; ok {
			return fmt.Errorf("%s duplicates %s: %q", name, other, binding)
		}
		seenKeys[binding] = name
	}

	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
