package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/clinuxrulz/flying-shooter/parameter"
	"github.com/clinuxrulz/flying-shooter/rollback"
)

var (
	ErrInputDelay    = errors.New("input delay out of range")
	ErrMaxRollback   = errors.New("max rollback out of range")
	ErrNumPlayers    = errors.New("player count out of range")
	ErrCheckDistance = errors.New("check distance must be between 1 and max rollback - 1")
	ErrChecksum      = errors.New("checksum interval must be at least 1")
	ErrRoomURL       = errors.New("room url is empty")
)

// DefaultFile is the TOML file read when FS_CONFIG is unset
const DefaultFile = "flying-shooter.toml"

// Environment keys read by LoadEnv
const (
	EnvConfigFile       = "FS_CONFIG"
	EnvInputDelay       = "FS_INPUT_DELAY"
	EnvMaxRollback      = "FS_MAX_ROLLBACK"
	EnvNumPlayers       = "FS_NUM_PLAYERS"
	EnvSyncTest         = "FS_SYNCTEST"
	EnvCheckDistance    = "FS_CHECK_DISTANCE"
	EnvRoomURL          = "FS_ROOM_URL"
	EnvChecksumInterval = "FS_CHECKSUM_INTERVAL"
	EnvConnectTimeout   = "FS_CONNECT_TIMEOUT"
	EnvDebug            = "FS_DEBUG"
	EnvMute             = "FS_MUTE"
)

// Config holds the host settings for one run
type Config struct {
	InputDelay       int           `toml:"input_delay"`
	MaxRollback      int           `toml:"max_rollback"`
	NumPlayers       int           `toml:"num_players"`
	SyncTest         bool          `toml:"synctest"`
	CheckDistance    int           `toml:"check_distance"`
	RoomURL          string        `toml:"room_url"`
	ChecksumInterval int           `toml:"checksum_interval"`
	ConnectTimeout   time.Duration `toml:"connect_timeout"`
	Debug            bool          `toml:"debug"`
	Mute             bool          `toml:"mute"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		InputDelay:       parameter.DefaultInputDelay,
		MaxRollback:      parameter.DefaultMaxRollback,
		NumPlayers:       2,
		CheckDistance:    parameter.DefaultCheckDistance,
		RoomURL:          parameter.DefaultRoomURL,
		ChecksumInterval: parameter.DefaultChecksumInterval,
		ConnectTimeout:   30 * time.Second,
	}
}

// LoadFile overlays the TOML file at path; a missing file is not an error
func (c *Config) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	md, err := toml.DecodeFile(path, c)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config: %s: unknown keys %v", path, undecoded)
	}
	return nil
}

// LoadEnv reads the given .env files, then overlays FS_* environment variables
// Variables already set in the process environment win over .env entries
func (c *Config) LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: env file: %w", err)
	}

	ints := map[string]*int{
		EnvInputDelay:       &c.InputDelay,
		EnvMaxRollback:      &c.MaxRollback,
		EnvNumPlayers:       &c.NumPlayers,
		EnvCheckDistance:    &c.CheckDistance,
		EnvChecksumInterval: &c.ChecksumInterval,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		EnvSyncTest: &c.SyncTest,
		EnvDebug:    &c.Debug,
		EnvMute:     &c.Mute,
	}
	for key, dst := range bools {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = b
	}

	if v, ok := os.LookupEnv(EnvConnectTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvConnectTimeout, err)
		}
		c.ConnectTimeout = d
	}
	if v, ok := os.LookupEnv(EnvRoomURL); ok {
		c.RoomURL = v
	}
	return nil
}

// BindFlags registers command-line overrides on flags with the current values as defaults
func (c *Config) BindFlags(flags *flag.FlagSet) {
	flags.IntVar(&c.InputDelay, "delay", c.InputDelay, "Input delay in frames")
	flags.IntVar(&c.MaxRollback, "max-rollback", c.MaxRollback, fmt.Sprintf("Deepest rollback in frames (1-%d)", parameter.MaxRollbackLimit))
	flags.IntVar(&c.NumPlayers, "players", c.NumPlayers, "Players per match (2-4)")
	flags.BoolVar(&c.SyncTest, "synctest", c.SyncTest, "Run a local synctest session instead of joining a room")
	flags.IntVar(&c.CheckDistance, "check-distance", c.CheckDistance, "Frames re-simulated per synctest rollback")
	flags.StringVar(&c.RoomURL, "room", c.RoomURL, "Matchmaking room URL")
	flags.IntVar(&c.ChecksumInterval, "checksum-interval", c.ChecksumInterval, "Frames between desync checks")
	flags.DurationVar(&c.ConnectTimeout, "connect-timeout", c.ConnectTimeout, "Time to wait for the room to fill")
	flags.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging to logs/")
	flags.BoolVar(&c.Mute, "mute", c.Mute, "Start with audio muted")
}

// Validate rejects settings the session cannot run with
func (c *Config) Validate() error {
	if c.InputDelay < 0 || c.InputDelay > parameter.MaxInputDelay {
		return fmt.Errorf("config: %w: %d", ErrInputDelay, c.InputDelay)
	}
	if c.MaxRollback < 1 || c.MaxRollback > parameter.MaxRollbackLimit {
		return fmt.Errorf("config: %w: %d", ErrMaxRollback, c.MaxRollback)
	}
	if c.NumPlayers < 2 || c.NumPlayers > parameter.MaxPlayers {
		return fmt.Errorf("config: %w: %d", ErrNumPlayers, c.NumPlayers)
	}
	if c.SyncTest && (c.CheckDistance < 1 || c.CheckDistance >= c.MaxRollback) {
		return fmt.Errorf("config: %w: %d", ErrCheckDistance, c.CheckDistance)
	}
	if c.ChecksumInterval < 1 {
		return fmt.Errorf("config: %w: %d", ErrChecksum, c.ChecksumInterval)
	}
	if !c.SyncTest && c.RoomURL == "" {
		return ErrRoomURL
	}
	return nil
}

// Rollback returns the scheduler tunables
func (c *Config) Rollback() rollback.Config {
	return rollback.Config{
		MaxRollback:      c.MaxRollback,
		ChecksumInterval: c.ChecksumInterval,
	}
}

// String summarizes the settings for the log
func (c *Config) String() string {
	return fmt.Sprintf("delay=%d rollback=%d players=%d synctest=%v check=%d room=%s",
		c.InputDelay, c.MaxRollback, c.NumPlayers, c.SyncTest, c.CheckDistance, c.RoomURL)
}

// FilePath returns the config file named by FS_CONFIG, or DefaultFile
func FilePath() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	return DefaultFile
}

// Load builds the run configuration: defaults, then file, then environment, then args
func Load(path string, args []string) (*Config, error) {
	c := Default()
	if err := c.LoadFile(path); err != nil {
		return nil, err
	}
	if err := c.LoadEnv(); err != nil {
		return nil, err
	}

	flags := flag.NewFlagSet("flying-shooter", flag.ContinueOnError)
	c.BindFlags(flags)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
