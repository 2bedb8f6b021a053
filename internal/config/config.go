// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	RabbitConnectionString  string `yaml:"rabbit_connection_string"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Throttle                `yaml:"throttle"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	RateRPS     float64       `yaml:"rate_rps" env-default:"20"`
	RateBurst   int           `yaml:"rate_burst" env-default:"40"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	Addr        string        `yaml:"address"`
	Password    string        `yaml:"password"`
	User        string        `yaml:"user"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries" env-default:"3"`
	DialTimeout time.Duration `yaml:"dial_timeout" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeout" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Throttle структура с настройками квот и кулдаунов.
// Quotas задаёт дневные лимиты действий: тариф -> тип действия -> лимит,
// значение -1 означает безлимит.
type Throttle struct {
	CooldownTTL time.Duration             `yaml:"cooldown_ttl" env-default:"24h"`
	Quotas      map[string]map[string]int `yaml:"quotas"`
}

// DefaultQuotas возвращает лимиты по умолчанию, если секция quotas
// не задана в конфиге.
func DefaultQuotas() map[string]map[string]int {
	return map[string]map[string]int{
		"free": {
			"like":    50,
			"request": 10,
			"report":  20,
		},
		"premium": {
			"like":    -1,
			"request": 50,
			"report":  20,
		},
	}
}

// MustLoad функция для загрузки конфига, путь берётся из переменной
// окружения CONFIG_PATH. При ошибке процесс завершается.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if cfg.Throttle.Quotas == nil {
		cfg.Throttle.Quotas = DefaultQuotas()
	}
	return &cfg
}
