package platform

import (
	"path/filepath"
	"testing"
)

// TestPathsForPlatforms verifies config, seed and db locations per platform.
func TestPathsForPlatforms(t *testing.T) {
	cases := []struct {
		name       string
		goos       string
		env        map[string]string
		configDir  string
		dataDir    string
		wantConfig string
		wantData   string
	}{
		{
			name:       "linux xdg",
			goos:       "linux",
			env:        map[string]string{"XDG_CONFIG_HOME": "/xdg/config", "XDG_DATA_HOME": "/xdg/data"},
			configDir:  "/fallback/config",
			dataDir:    "/fallback/data",
			wantConfig: "/xdg/config",
			wantData:   "/xdg/data",
		},
		{
			name:       "linux fallback",
			goos:       "linux",
			env:        map[string]string{},
			configDir:  "/home/me/.config",
			dataDir:    "/home/me/.local/share",
			wantConfig: "/home/me/.config",
			wantData:   "/home/me/.local/share",
		},
		{
			name:       "windows",
			goos:       "windows",
			env:        map[string]string{"APPDATA": `C:\Roaming`, "LOCALAPPDATA": `C:\Local`},
			configDir:  `C:\fallback\config`,
			dataDir:    `C:\fallback\data`,
			wantConfig: `C:\Roaming`,
			wantData:   `C:\Local`,
		},
		{
			name:       "darwin ignores xdg",
			goos:       "darwin",
			env:        map[string]string{"XDG_CONFIG_HOME": "/ignored"},
			configDir:  "/Users/me/Library/Application Support",
			dataDir:    "/Users/me/Library/Application Support",
			wantConfig: "/Users/me/Library/Application Support",
			wantData:   "/Users/me/Library/Application Support",
		},
		{
			name:       "other",
			goos:       "freebsd",
			env:        nil,
			configDir:  "/cfg",
			dataDir:    "/data",
			wantConfig: "/cfg",
			wantData:   "/data",
		},
	}
	for _, tc := range cases {
		p, err := PathsFor(tc.goos, tc.env, tc.configDir, tc.dataDir, "laneboard")
		if err != nil {
			t.Fatalf("%s: PathsFor() error = %v", tc.name, err)
		}
		if want := filepath.Join(tc.wantConfig, "laneboard", "config.toml"); p.ConfigPath != want {
			t.Fatalf("%s: config path %q, want %q", tc.name, p.ConfigPath, want)
		}
		if want := filepath.Join(tc.wantConfig, "laneboard", "board.toml"); p.SeedPath != want {
			t.Fatalf("%s: seed path %q, want %q", tc.name, p.SeedPath, want)
		}
		if want := filepath.Join(tc.wantData, "laneboard", "laneboard.db"); p.DBPath != want {
			t.Fatalf("%s: db path %q, want %q", tc.name, p.DBPath, want)
		}
	}
}

// TestPathsForRejectsEmptyInputs verifies missing base dirs and names fail.
func TestPathsForRejectsEmptyInputs(t *testing.T) {
	if _, err := PathsFor("darwin", nil, "", "/tmp/data", "laneboard"); err == nil {
		t.Fatal("expected error for empty dirs")
	}
	if _, err := PathsFor("linux", nil, "/cfg", "/data", "  "); err == nil {
		t.Fatal("expected error for empty app name")
	}
}

// TestDefaultPathsWithOptions verifies the default name and dev suffix.
func TestDefaultPathsWithOptions(t *testing.T) {
	p, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths() error = %v", err)
	}
	if filepath.Base(p.DBPath) != "laneboard.db" {
		t.Fatalf("unexpected default db name %q", p.DBPath)
	}

	dev, err := DefaultPathsWithOptions(Options{DevMode: true})
	if err != nil {
		t.Fatalf("DefaultPathsWithOptions() error = %v", err)
	}
	if filepath.Base(filepath.Dir(dev.ConfigPath)) != "laneboard-dev" {
		t.Fatalf("expected dev config dir suffix, got %q", dev.ConfigPath)
	}
	if filepath.Base(dev.DBPath) != "laneboard-dev.db" {
		t.Fatalf("expected dev db name, got %q", dev.DBPath)
	}
}
