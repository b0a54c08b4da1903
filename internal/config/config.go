package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	_ "github.com/joho/godotenv/autoload"
)

// Config is the full environment-driven configuration for the service.
type Config struct {
	Port      string        `env:"PORT,default=8080"`
	JWTSecret string        `env:"JWT_SECRET,default=supersecretkey"`
	UploadDir string        `env:"UPLOAD_DIR,default=static/uploads"`
	OTPTTL    time.Duration `env:"OTP_TTL,default=10m"`

	DB     DBConfig
	Mail   MailConfig
	Twilio TwilioConfig
}

type DBConfig struct {
	Host     string `env:"DB_HOST,default=localhost"`
	Port     string `env:"DB_PORT,default=5432"`
	User     string `env:"DB_USER,default=postgres"`
	Password string `env:"DB_PASSWORD,default="`
	Name     string `env:"DB_NAME,default=user_blog"`
	SSLMode  string `env:"DB_SSLMODE,default=disable"`
}

// DSN builds the postgres connection string the way the gorm driver expects.
func (d DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type MailConfig struct {
	Server   string `env:"MAIL_SERVER,default=smtp.gmail.com"`
	Port     int    `env:"MAIL_PORT,default=587"`
	UseTLS   bool   `env:"MAIL_USE_TLS,default=true"`
	Username string `env:"MAIL_USERNAME,default="`
	Password string `env:"MAIL_PASSWORD,default="`
}

// Configured reports whether the transport has enough settings to attempt a send.
func (m MailConfig) Configured() bool {
	return m.Server != "" && m.Username != ""
}

type TwilioConfig struct {
	AccountSID string `env:"TWILIO_ACCOUNT_SID,default="`
	AuthToken  string `env:"TWILIO_AUTH_TOKEN,default="`
	From       string `env:"TWILIO_FROM,default="`
}

func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.From != ""
}

// Load reads configuration from the environment (.env is auto-loaded).
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config from environment: %w", err)
	}
	return &cfg, nil
}
