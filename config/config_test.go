package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clinuxrulz/flying-shooter/parameter"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}
	if c.InputDelay != parameter.DefaultInputDelay {
		t.Errorf("Expected input delay %d, got %d", parameter.DefaultInputDelay, c.InputDelay)
	}
	if c.RoomURL != parameter.DefaultRoomURL {
		t.Errorf("Expected room %s, got %s", parameter.DefaultRoomURL, c.RoomURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		want   error
	}{
		{"negative_delay", func(c *Config) { c.InputDelay = -1 }, ErrInputDelay},
		{"huge_delay", func(c *Config) { c.InputDelay = parameter.MaxInputDelay + 1 }, ErrInputDelay},
		{"zero_rollback", func(c *Config) { c.MaxRollback = 0 }, ErrMaxRollback},
		{"rollback_past_history", func(c *Config) { c.MaxRollback = parameter.MaxRollbackLimit + 1 }, ErrMaxRollback},
		{"rollback_at_limit", func(c *Config) { c.MaxRollback = parameter.MaxRollbackLimit }, nil},
		{"one_player", func(c *Config) { c.NumPlayers = 1 }, ErrNumPlayers},
		{"five_players", func(c *Config) { c.NumPlayers = 5 }, ErrNumPlayers},
		{"check_distance_at_rollback", func(c *Config) { c.SyncTest = true; c.CheckDistance = c.MaxRollback }, ErrCheckDistance},
		{"check_distance_zero", func(c *Config) { c.SyncTest = true; c.CheckDistance = 0 }, ErrCheckDistance},
		{"check_distance_ignored_online", func(c *Config) { c.CheckDistance = 0 }, nil},
		{"zero_interval", func(c *Config) { c.ChecksumInterval = 0 }, ErrChecksum},
		{"empty_room", func(c *Config) { c.RoomURL = "" }, ErrRoomURL},
		{"empty_room_synctest", func(c *Config) { c.RoomURL = ""; c.SyncTest = true }, nil},
		{"four_players", func(c *Config) { c.NumPlayers = 4 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)
			err := c.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "game.toml", `
input_delay = 3
max_rollback = 10
synctest = true
check_distance = 4
connect_timeout = "5s"
`)

	c := Default()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if c.InputDelay != 3 || c.MaxRollback != 10 || !c.SyncTest || c.CheckDistance != 4 {
		t.Errorf("Expected file values, got %s", c)
	}
	if c.ConnectTimeout != 5*time.Second {
		t.Errorf("Expected 5s connect timeout, got %v", c.ConnectTimeout)
	}
	if c.NumPlayers != 2 {
		t.Errorf("Expected unset keys to keep defaults, got %d players", c.NumPlayers)
	}
}

func TestLoadFileMissingAndUnknown(t *testing.T) {
	c := Default()
	if err := c.LoadFile(filepath.Join(t.TempDir(), "absent.toml")); err != nil {
		t.Errorf("Expected missing file to be ignored, got %v", err)
	}

	path := writeFile(t, "typo.toml", "input_dealy = 3\n")
	if err := c.LoadFile(path); err == nil {
		t.Error("Expected error for unknown key")
	}

	path = writeFile(t, "broken.toml", "input_delay = [\n")
	if err := c.LoadFile(path); err == nil {
		t.Error("Expected error for malformed file")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(EnvInputDelay, "4")
	t.Setenv(EnvSyncTest, "true")
	t.Setenv(EnvRoomURL, "ws://example.test/flying_shooter?next=3")
	t.Setenv(EnvConnectTimeout, "2s")

	c := Default()
	if err := c.LoadEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if c.InputDelay != 4 || !c.SyncTest {
		t.Errorf("Expected environment values, got %s", c)
	}
	if c.RoomURL != "ws://example.test/flying_shooter?next=3" {
		t.Errorf("Expected room from environment, got %s", c.RoomURL)
	}
	if c.ConnectTimeout != 2*time.Second {
		t.Errorf("Expected 2s, got %v", c.ConnectTimeout)
	}
}

func TestLoadEnvFileDoesNotOverrideProcess(t *testing.T) {
	t.Setenv(EnvInputDelay, "5")
	path := writeFile(t, "test.env", "FS_INPUT_DELAY=1\nFS_MAX_ROLLBACK=12\n")
	t.Cleanup(func() { os.Unsetenv(EnvMaxRollback) })

	c := Default()
	if err := c.LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if c.InputDelay != 5 {
		t.Errorf("Expected process environment to win, got %d", c.InputDelay)
	}
	if c.MaxRollback != 12 {
		t.Errorf("Expected max rollback 12 from env file, got %d", c.MaxRollback)
	}
}

func TestLoadEnvRejectsGarbage(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvMaxRollback, "eight"},
		{EnvMute, "perhaps"},
		{EnvConnectTimeout, "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			c := Default()
			if err := c.LoadEnv(filepath.Join(t.TempDir(), "absent.env")); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "game.toml", "input_delay = 3\nmute = true\n")

	c, err := Load(path, []string{"-delay", "1", "-players", "3"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.InputDelay != 1 {
		t.Errorf("Expected flag to win with delay 1, got %d", c.InputDelay)
	}
	if c.NumPlayers != 3 || !c.Mute {
		t.Errorf("Expected players 3 and mute from file, got %s mute=%v", c, c.Mute)
	}

	if _, err := Load(path, []string{"-players", "9"}); !errors.Is(err, ErrNumPlayers) {
		t.Errorf("Expected %v, got %v", ErrNumPlayers, err)
	}
}

func TestBindFlagsDefaults(t *testing.T) {
	c := Default()
	c.MaxRollback = 11

	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	c.BindFlags(flags)
	if f := flags.Lookup("max-rollback"); f == nil || f.DefValue != "11" {
		t.Errorf("Expected max-rollback default 11, got %v", f)
	}
	if err := flags.Parse([]string{"-synctest", "-check-distance", "5"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !c.SyncTest || c.CheckDistance != 5 || c.MaxRollback != 11 {
		t.Errorf("Expected parsed flags, got %s", c)
	}

	rb := c.Rollback()
	if rb.MaxRollback != 11 || rb.ChecksumInterval != c.ChecksumInterval {
		t.Errorf("Expected scheduler config to mirror settings, got %+v", rb)
	}
}
