package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	Database Database `envPrefix:"DB_"`
	Cart     Cart     `envPrefix:"CART_"`
	Auth     Auth     `envPrefix:"AUTH_"`
	Notify   Notify   `envPrefix:"NOTIFY_"`
	SMTP     SMTP     `envPrefix:"SMTP_"`
	SNS      SNS      `envPrefix:"SNS_"`
	Reset    Reset    `envPrefix:"PASSWORD_RESET_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

func (e Environment) IsProduction() bool {
	return e.Name == "production"
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host            string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite, mysql, postgres
	URL    string `env:"URL" envDefault:"shop.db"`
}

type Cart struct {
	Driver   string        `env:"DRIVER" envDefault:"memory"` // memory, redis
	RedisURL string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	TTL      time.Duration `env:"TTL" envDefault:"24h"`
}

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

type Notify struct {
	Driver  string        `env:"DRIVER" envDefault:"log"` // log, smtp, sns
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type SMTP struct {
	Host     string `env:"HOST"`
	Port     string `env:"PORT" envDefault:"587"`
	Username string `env:"USER"`
	Password string `env:"PASS"`
	From     string `env:"FROM" envDefault:"webmaster@localhost"`
}

type SNS struct {
	TopicARN string `env:"TOPIC_ARN"`
}

type Reset struct {
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"30m"`
	RateLimit float64       `env:"RATE_LIMIT" envDefault:"0.2"` // requests per second per IP
	Burst     int           `env:"BURST" envDefault:"3"`
}
