package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat  string `yaml:"log-format" env:"LOG_FORMAT" env-default:"json"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	// SocketOrigins lists extra origin patterns allowed to open the websocket.
	SocketOrigins []string `yaml:"socket-origins" env:"SOCKET_ORIGINS" env-separator:","`

	Game  Game  `yaml:"game"`
	Redis Redis `yaml:"redis"`
}

type Game struct {
	Size          int           `yaml:"size" env:"GAME_SIZE" env-default:"3"`
	HumanPawn     string        `yaml:"human-pawn" env:"GAME_HUMAN_PAWN" env-default:"x"`
	ComputerDelay time.Duration `yaml:"computer-delay" env:"GAME_COMPUTER_DELAY" env-default:"300ms"`
}

type Redis struct {
	Enabled   bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host      string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port      string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	KeyPrefix string `yaml:"key-prefix" env:"REDIS_KEY_PREFIX" env-default:"tictactoe"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Config) Validate() error {
	if that.Game.Size < 1 {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidGameSize, that.Game.Size)
	}

	if _, err := entity.ParseMark(that.Game.HumanPawn); err != nil {
		return fmt.Errorf("game human-pawn: %w", err)
	}

	return nil
}

func (that *Game) Pawn() entity.Mark {
	mark, _ := entity.ParseMark(that.HumanPawn)
	return mark
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
