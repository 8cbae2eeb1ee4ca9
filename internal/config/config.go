package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"impostor-2d-be/internal/service/game"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DEFAULT_CONFIG_FILE = "app_config"
	ENV_PREFIX          = "IMPOSTOR"
)

type AppConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	// 静态前端目录，为空时不挂载
	StaticDir string `mapstructure:"static_dir"`

	Session SessionConfig `mapstructure:"session"`
	Game    GameConfig    `mapstructure:"game"`
}

type SessionConfig struct {
	TickHz              int `mapstructure:"tick_hz"`
	BroadcastEvery      int `mapstructure:"broadcast_every"`
	IdleTimeoutSeconds  int `mapstructure:"idle_timeout_seconds"`
	CleanupIntervalSecs int `mapstructure:"cleanup_interval_seconds"`
	MaxSessions         int `mapstructure:"max_sessions"`
}

type GameConfig struct {
	PlayerSpeed         float64 `mapstructure:"player_speed"`
	ImpostorRatio       float64 `mapstructure:"impostor_ratio"`
	MinPlayers          int     `mapstructure:"min_players"`
	MaxPlayers          int     `mapstructure:"max_players"`
	PlayerCount         int     `mapstructure:"player_count"`
	EliminationCooldown float64 `mapstructure:"elimination_cooldown"`
	MeetingCooldown     float64 `mapstructure:"meeting_cooldown"`
	VotingTime          float64 `mapstructure:"voting_time"`
	NumTasks            int     `mapstructure:"num_tasks"`
}

func (gc GameConfig) Settings() game.Settings {
	return game.Settings{
		PlayerSpeed:         gc.PlayerSpeed,
		ImpostorRatio:       gc.ImpostorRatio,
		MinPlayers:          gc.MinPlayers,
		MaxPlayers:          gc.MaxPlayers,
		PlayerCount:         gc.PlayerCount,
		EliminationCooldown: gc.EliminationCooldown,
		MeetingCooldown:     gc.MeetingCooldown,
		VotingTime:          gc.VotingTime,
		NumTasks:            gc.NumTasks,
	}
}

func (sc SessionConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(sc.TickHz)
}

func (sc SessionConfig) IdleTimeout() time.Duration {
	return time.Duration(sc.IdleTimeoutSeconds) * time.Second
}

func (sc SessionConfig) CleanupInterval() time.Duration {
	return time.Duration(sc.CleanupIntervalSecs) * time.Second
}

func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *AppConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("端口 %d 无效", c.Port)
	}

	if c.Session.TickHz <= 0 {
		return errors.New("tick_hz 必须大于 0")
	}

	if err := c.Game.Settings().Validate(); err != nil {
		return fmt.Errorf("游戏配置无效: %w", err)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	def := game.DefaultSettings()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("static_dir", "")

	v.SetDefault("session.tick_hz", 30)
	v.SetDefault("session.broadcast_every", 3)
	v.SetDefault("session.idle_timeout_seconds", 600)
	v.SetDefault("session.cleanup_interval_seconds", 60)
	v.SetDefault("session.max_sessions", 64)

	v.SetDefault("game.player_speed", def.PlayerSpeed)
	v.SetDefault("game.impostor_ratio", def.ImpostorRatio)
	v.SetDefault("game.min_players", def.MinPlayers)
	v.SetDefault("game.max_players", def.MaxPlayers)
	v.SetDefault("game.player_count", def.PlayerCount)
	v.SetDefault("game.elimination_cooldown", def.EliminationCooldown)
	v.SetDefault("game.meeting_cooldown", def.MeetingCooldown)
	v.SetDefault("game.voting_time", def.VotingTime)
	v.SetDefault("game.num_tasks", def.NumTasks)
}

// Load 读取配置：默认值 < 配置文件 < 环境变量（含 .env）。
// path 为空时使用工作目录下的 app_config，文件不存在时只使用默认值
func Load(path string) (*AppConfig, error) {
	// .env 是可选的
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("加载 .env 失败: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DEFAULT_CONFIG_FILE
	}

	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		missing := errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
		if explicit || !missing {
			return nil, fmt.Errorf("加载配置失败: %w", err)
		}
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
