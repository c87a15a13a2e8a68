package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is passed to envconfig when processing the environment.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv    = "SHAKYTAILS_APP_ENV"
	EnvPort      = "SHAKYTAILS_APP_PORT"
	EnvBaseURL   = "SHAKYTAILS_BASE_URL"
	EnvDBDSN     = "SHAKYTAILS_DB_DSN"
	EnvDBHost    = "SHAKYTAILS_DB_HOST"
	EnvDBUser    = "SHAKYTAILS_DB_USER"
	EnvDBName    = "SHAKYTAILS_DB_NAME"
	EnvRedisURL  = "SHAKYTAILS_REDIS_URL"
	EnvJWTSecret = "SHAKYTAILS_JWT_SECRET"
	EnvJWTIssuer = "SHAKYTAILS_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	QR            QRConfig
	Mail          MailConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHAKYTAILS_APP_ENV" required:"true"`
	Port         string `envconfig:"SHAKYTAILS_APP_PORT" default:"5000"`
	BaseURL      string `envconfig:"SHAKYTAILS_BASE_URL" default:"http://localhost:5000"`
	LogLevel     string `envconfig:"SHAKYTAILS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHAKYTAILS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"SHAKYTAILS_DB_DSN"`

	LegacyHost     string `envconfig:"SHAKYTAILS_DB_HOST"`
	LegacyPort     int    `envconfig:"SHAKYTAILS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHAKYTAILS_DB_USER"`
	LegacyPassword string `envconfig:"SHAKYTAILS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHAKYTAILS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHAKYTAILS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHAKYTAILS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHAKYTAILS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHAKYTAILS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHAKYTAILS_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"SHAKYTAILS_DB_AUTO_MIGRATE" default:"false"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: d.LegacyHost,
		EnvDBUser: d.LegacyUser,
		EnvDBName: d.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(d.LegacyUser)
	if d.LegacyPassword != "" {
		userInfo = url.UserPassword(d.LegacyUser, d.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}
	if d.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", d.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SHAKYTAILS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHAKYTAILS_REDIS_ADDR"`
	Password     string        `envconfig:"SHAKYTAILS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHAKYTAILS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHAKYTAILS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHAKYTAILS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHAKYTAILS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHAKYTAILS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHAKYTAILS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHAKYTAILS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHAKYTAILS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SHAKYTAILS_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"SHAKYTAILS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHAKYTAILS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHAKYTAILS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHAKYTAILS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHAKYTAILS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHAKYTAILS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHAKYTAILS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SHAKYTAILS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SHAKYTAILS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SHAKYTAILS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SHAKYTAILS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SHAKYTAILS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// QRConfig controls scannable-code rendering and artifact placement.
type QRConfig struct {
	OutputDir   string `envconfig:"SHAKYTAILS_QR_OUTPUT_DIR" default:"public/qrcodes"`
	PublicPath  string `envconfig:"SHAKYTAILS_QR_PUBLIC_PATH" default:"/qrcodes"`
	ImageWidth  int    `envconfig:"SHAKYTAILS_QR_IMAGE_WIDTH" default:"400"`
	InlineWidth int    `envconfig:"SHAKYTAILS_QR_INLINE_WIDTH" default:"300"`
}

type MailConfig struct {
	Host     string `envconfig:"SHAKYTAILS_SMTP_HOST"`
	Port     int    `envconfig:"SHAKYTAILS_SMTP_PORT" default:"587"`
	Username string `envconfig:"SHAKYTAILS_SMTP_USERNAME"`
	Password string `envconfig:"SHAKYTAILS_SMTP_PASSWORD"`
	From     string `envconfig:"SHAKYTAILS_MAIL_FROM" default:"no-reply@shakytails.com"`
	Enabled  bool   `envconfig:"SHAKYTAILS_MAIL_ENABLED" default:"true"`
}

type CronConfig struct {
	Interval          time.Duration `envconfig:"SHAKYTAILS_CRON_INTERVAL" default:"24h"`
	LockTTL           time.Duration `envconfig:"SHAKYTAILS_CRON_LOCK_TTL" default:"10m"`
	MetricsPort       string        `envconfig:"SHAKYTAILS_CRON_METRICS_PORT" default:"9100"`
	ReminderDueWindow time.Duration `envconfig:"SHAKYTAILS_CRON_REMINDER_DUE_WINDOW" default:"24h"`
}
