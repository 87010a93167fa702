// config предоставляет структуру конфигурации session-service и функции
// загрузки из файла/переменных окружения с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvProd — окружение, в котором cookie выставляются с флагом Secure.
const EnvProd = "prod"

// Config — корневая конфигурация сервиса.
// Источники значений (по убыванию приоритета):
//  1. явный путь через флаг --config;
//  2. путь в переменной окружения CONFIG_PATH;
//  3. файл local.yaml из рабочей директории;
//  4. переменные окружения (cleanenv).
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	GRPC     GRPCConfig    `yaml:"grpc"`
	Auth     AuthConfig    `yaml:"auth"`
	Cookies  CookieConfig  `yaml:"cookies"`
	DB       DBConfig      `yaml:"db"`
	Redis    RedisConfig   `yaml:"redis"`
	Limits   LimitsConfig  `yaml:"limits"`
	CORS     CORSConfig    `yaml:"cors"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// IsProduction сообщает, запущен ли сервис в prod (управляет флагом Secure у cookie).
func (c Config) IsProduction() bool {
	return c.Env == EnvProd
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
}

// HTTPConfig — сетевые настройки HTTP-сервера (API + health + metrics).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50090"`
}

// GRPCConfig — сетевые настройки gRPC-сервера (только health-check).
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50091"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// AuthConfig содержит параметры выпуска и валидации токенов.
//   - RefreshTokenTTL — срок refresh-токена без "запомнить меня";
//   - RememberTokenTTL — срок refresh-токена, если cookie admin_remember == "true";
//   - Leeway — допуск на рассинхрон часов при проверке exp (0 — точное сравнение).
type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	AccessTokenTTL   time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL  time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"168h"`
	RememberTokenTTL time.Duration `yaml:"remember_token_ttl" env:"REMEMBER_TOKEN_TTL" env-default:"720h"`
	Issuer           string        `yaml:"issuer" env:"ISSUER" env-default:"session-service"`
	Leeway           time.Duration `yaml:"leeway" env:"TOKEN_LEEWAY" env-default:"0s"`
}

// CookieConfig — имена cookie сессии администратора.
type CookieConfig struct {
	Access   string `yaml:"access" env:"COOKIE_ACCESS" env-default:"admin_token"`
	Refresh  string `yaml:"refresh" env:"COOKIE_REFRESH" env-default:"admin_refresh_token"`
	Remember string `yaml:"remember" env:"COOKIE_REMEMBER" env-default:"admin_remember"`
}

// DBConfig — настройки подключения к MongoDB (хранилище аккаунтов).
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
}

// RedisConfig — опциональный Redis для rate limit обновлений.
// Пустой URL отключает ограничение.
type RedisConfig struct {
	URL string `yaml:"url" env:"REDIS_URL"`
}

// LimitsConfig — ограничения на входящие запросы.
type LimitsConfig struct {
	// MaxBodyBytes — верхняя граница размера тела запроса (413 сверх неё).
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"MAX_BODY_BYTES" env-default:"1048576"`
	// RefreshPerWindow — число обновлений с одного клиента за RefreshWindow.
	RefreshPerWindow int           `yaml:"refresh_per_window" env:"REFRESH_PER_WINDOW" env-default:"30"`
	RefreshWindow    time.Duration `yaml:"refresh_window" env:"REFRESH_WINDOW" env-default:"1m"`
	// TrustProxy — доверять X-Forwarded-For при определении клиента.
	TrustProxy bool `yaml:"trust_proxy" env:"TRUST_PROXY" env-default:"false"`
}

// CORSConfig — разрешённые источники админского UI.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла ENV-переменные накладываются поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return &cfg, nil
}
