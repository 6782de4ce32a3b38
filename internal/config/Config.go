package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

// Count is an inclusive range used for randomized object counts.
type Count struct {
	Minimum int `json:"minimum"`
	Maximum int `json:"maximum"`
}

// Duration reads "100ms" style strings from the config file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("duration must be a string like \"100ms\": %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("bad duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

type ServerConfig struct {
	Host                string `json:"host"`
	Port                string `json:"port"`
	HostKeyPath         string `json:"host_key_path"`
	MaxConnectionsPerIP int    `json:"max_connections_per_ip"`
	// Empty disables the HTTP API and live feed.
	HTTPAddress string `json:"http_address"`
}

type BoardConfig struct {
	Columns           int   `json:"columns"`
	Rows              int   `json:"rows"`
	WallCount         Count `json:"wall_count"`
	FoodCount         Count `json:"food_count"`
	FloorVariants     int   `json:"floor_variants"`
	WallVariants      int   `json:"wall_variants"`
	OuterWallVariants int   `json:"outer_wall_variants"`
}

type PlayerConfig struct {
	StartingFood  int `json:"starting_food"`
	PointsPerFood int `json:"points_per_food"`
	PointsPerSoda int `json:"points_per_soda"`
	WallDamage    int `json:"wall_damage"`
}

type EnemyType struct {
	Name   string `json:"name"`
	Damage int    `json:"damage"`
}

type TimingConfig struct {
	MoveTime          Duration `json:"move_time"`
	TurnDelay         Duration `json:"turn_delay"`
	LevelStartDelay   Duration `json:"level_start_delay"`
	RestartLevelDelay Duration `json:"restart_level_delay"`
}

type Config struct {
	Server        ServerConfig `json:"server"`
	Board         BoardConfig  `json:"board"`
	Player        PlayerConfig `json:"player"`
	WallHitPoints int          `json:"wall_hit_points"`
	Enemies       []EnemyType  `json:"enemies"`
	Timing        TimingConfig `json:"timing"`
	// Optional Lua file defining getNextDirection(enemy, target).
	EnemyScript string `json:"enemy_script"`
	HighScoreDB string `json:"high_score_db"`
	// Zero picks a time based seed per session.
	Seed     uint64 `json:"seed"`
	LogLevel string `json:"log_level"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                "6996",
			MaxConnectionsPerIP: 2,
			HTTPAddress:         ":8080",
		},
		Board: BoardConfig{
			Columns:           8,
			Rows:              8,
			WallCount:         Count{Minimum: 5, Maximum: 9},
			FoodCount:         Count{Minimum: 1, Maximum: 5},
			FloorVariants:     8,
			WallVariants:      8,
			OuterWallVariants: 3,
		},
		Player: PlayerConfig{
			StartingFood:  100,
			PointsPerFood: 10,
			PointsPerSoda: 20,
			WallDamage:    1,
		},
		WallHitPoints: 3,
		Enemies: []EnemyType{
			{Name: "Zombie", Damage: 10},
			{Name: "Vampire", Damage: 20},
		},
		Timing: TimingConfig{
			MoveTime:          Duration{100 * time.Millisecond},
			TurnDelay:         Duration{100 * time.Millisecond},
			LevelStartDelay:   Duration{2 * time.Second},
			RestartLevelDelay: Duration{1 * time.Second},
		},
		HighScoreDB: "highscores.db",
		LogLevel:    "info",
	}
}

// LoadConfig reads the JSON file at path on top of Default, applies
// environment overrides and validates the result. An empty path skips the
// file.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SSHROGUE_PRIVATE_KEY_PATH"); v != "" {
		c.Server.HostKeyPath = v
	}
	if v := os.Getenv("SSHROGUE_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SSHROGUE_PORT"); v != "" {
		c.Server.Port = v
	}
	if v, ok := os.LookupEnv("SSHROGUE_HTTP_ADDRESS"); ok {
		c.Server.HTTPAddress = v
	}
	if v := os.Getenv("SSHROGUE_DB_PATH"); v != "" {
		c.HighScoreDB = v
	}
	if v := os.Getenv("SSHROGUE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SSHROGUE_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SSHROGUE_SEED %q: %w", v, err)
		}
		c.Seed = seed
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Board.Columns < 3 || c.Board.Rows < 3 {
		return fmt.Errorf("%w: board must be at least 3x3, got %dx%d", ErrInvalidConfig, c.Board.Columns, c.Board.Rows)
	}
	if err := validateCount("wall_count", c.Board.WallCount); err != nil {
		return err
	}
	if err := validateCount("food_count", c.Board.FoodCount); err != nil {
		return err
	}
	interior := (c.Board.Columns - 2) * (c.Board.Rows - 2)
	if most := c.Board.WallCount.Maximum + c.Board.FoodCount.Maximum; most > interior {
		return fmt.Errorf("%w: up to %d walls and food do not fit in the %d interior cells of a %dx%d board",
			ErrInvalidConfig, most, interior, c.Board.Columns, c.Board.Rows)
	}
	if c.Board.FloorVariants < 1 || c.Board.WallVariants < 1 || c.Board.OuterWallVariants < 1 {
		return fmt.Errorf("%w: tile variant counts must be positive", ErrInvalidConfig)
	}
	if c.Player.StartingFood < 1 {
		return fmt.Errorf("%w: starting_food must be positive", ErrInvalidConfig)
	}
	if c.Player.PointsPerFood < 1 || c.Player.PointsPerSoda < 1 {
		return fmt.Errorf("%w: food points must be positive", ErrInvalidConfig)
	}
	if c.Player.WallDamage < 1 {
		return fmt.Errorf("%w: wall_damage must be positive", ErrInvalidConfig)
	}
	if c.WallHitPoints < 1 {
		return fmt.Errorf("%w: wall_hit_points must be positive", ErrInvalidConfig)
	}
	if len(c.Enemies) == 0 {
		return fmt.Errorf("%w: enemies list is empty", ErrInvalidConfig)
	}
	for _, e := range c.Enemies {
		if e.Name == "" {
			return fmt.Errorf("%w: enemy entry missing 'name'", ErrInvalidConfig)
		}
		if e.Damage < 0 {
			return fmt.Errorf("%w: enemy %s has negative damage", ErrInvalidConfig, e.Name)
		}
	}
	t := c.Timing
	if t.MoveTime.Duration < 0 || t.TurnDelay.Duration < 0 || t.LevelStartDelay.Duration < 0 || t.RestartLevelDelay.Duration < 0 {
		return fmt.Errorf("%w: timing values must not be negative", ErrInvalidConfig)
	}
	return nil
}

func validateCount(name string, c Count) error {
	if c.Minimum < 0 || c.Maximum < c.Minimum {
		return fmt.Errorf("%w: %s range [%d, %d]", ErrInvalidConfig, name, c.Minimum, c.Maximum)
	}
	return nil
}
