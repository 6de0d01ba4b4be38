package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	BackendLocal = "local"
	BackendMinio = "minio"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Storage    `yaml:"storage"`
	ImageStage `yaml:"image_stage"`
}

type HTTPServer struct {
	Address                 string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8085"`
	ReadTimeout             time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout            time.Duration `yaml:"write_timeout" env-default:"5s"`
	IdleTimeout             time.Duration `yaml:"idle_timeout" env-default:"60s"`
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout" env-default:"10s"`
	MaxBodySize             int64         `yaml:"max_body_size" env-default:"10485760"`
}

type Storage struct {
	DriverName   string        `yaml:"driver_name" env:"DB_DRIVER" env-default:"postgres"`
	Host         string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"DB_PORT" env-default:"5432"`
	Username     string        `yaml:"username" env:"DB_USER" env-default:"postgres"`
	DBname       string        `yaml:"db_name" env:"DB_NAME" env-default:"postgres"`
	SSLmode      string        `yaml:"ssl_mode" env-default:"disable"`
	SQLitePath   string        `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"banner.db"`
	MaxOpenConns int           `yaml:"max_open_conns" env-default:"100"`
	MaxIdleConns int           `yaml:"max_idle_conns" env-default:"2"`
	MaxLifetime  time.Duration `yaml:"max_lifetime" env-default:"1h"`
	Migrate      bool          `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
}

type ImageStage struct {
	Backend      string `yaml:"backend" env:"IMAGE_BACKEND" env-default:"local"`
	MaxImageSize int64  `yaml:"max_image_size" env-default:"2097152"`
	LocalDir     string `yaml:"local_dir" env:"IMAGE_LOCAL_DIR" env-default:"public/uploads"`
	PublicPath   string `yaml:"public_path" env-default:"/uploads"`
	Minio        Minio  `yaml:"minio"`
}

type Minio struct {
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY" env-default:"minioadmin"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"banners"`
	Region    string `yaml:"region" env-default:"us-east-1"`
	UseSSL    bool   `yaml:"use_ssl" env-default:"false"`
}

type Secret struct {
	PostgresPassword string `env:"DB_PASSWORD"`
	MinioSecretKey   string `env:"MINIO_SECRET_KEY"`
}

// Load reads the YAML file at configPath, applies env overrides and validates
// the combination of drivers and secrets.
func Load(configPath string) (*Config, *Secret, error) {
	const op = "config.Load"

	if configPath == "" {
		return nil, nil, fmt.Errorf("%s: config path is empty", op)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("%s: config file %s does not exist", op, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, nil, fmt.Errorf("%s: cannot read config: %w", op, err)
	}

	scr := &Secret{}
	if err := cleanenv.ReadEnv(scr); err != nil {
		return nil, nil, fmt.Errorf("%s: failed to get secret env: %w", op, err)
	}

	if err := cfg.validate(scr); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, scr, nil
}

func MustLoad() (*Config, *Secret) {
	configPath := fetchConfigPath()

	cfg, scr, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg, scr
}

func (c *Config) validate(scr *Secret) error {
	switch c.DriverName {
	case DriverPostgres:
		if scr.PostgresPassword == "" {
			return errors.New("DB_PASSWORD is required for the postgres driver")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.DriverName)
	}

	switch c.Backend {
	case BackendLocal:
	case BackendMinio:
		if scr.MinioSecretKey == "" {
			return errors.New("MINIO_SECRET_KEY is required for the minio backend")
		}
	default:
		return fmt.Errorf("unknown image stage backend %q", c.Backend)
	}

	if c.MaxImageSize <= 0 {
		return errors.New("max_image_size must be positive")
	}

	return nil
}

func fetchConfigPath() string {
	var configPath, envPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&envPath, "env", "", "path to env file")
	flag.Parse()

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			log.Fatalf("Env file %s does not exist", envPath)
		}
	} else {
		// .env is optional when no path was given explicitly
		_ = godotenv.Load()
	}

	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	return configPath
}
