package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Session       SessionConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string   `envconfig:"MAZAO_APP_ENV" default:"dev"`
	Port         string   `envconfig:"MAZAO_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"MAZAO_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"MAZAO_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"MAZAO_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MAZAO_DB_DSN"`
	Driver string `envconfig:"MAZAO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MAZAO_DB_HOST"`
	LegacyPort     int    `envconfig:"MAZAO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MAZAO_DB_USER"`
	LegacyPassword string `envconfig:"MAZAO_DB_PASSWORD"`
	LegacyName     string `envconfig:"MAZAO_DB_NAME"`
	LegacySSLMode  string `envconfig:"MAZAO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MAZAO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MAZAO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MAZAO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MAZAO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Configured reports whether a backing database was supplied. When false the
// service runs in demo mode against fabricated in-memory data.
func (db DBConfig) Configured() bool {
	return db.DSN != "" || db.LegacyHost != ""
}

type RedisConfig struct {
	URL          string        `envconfig:"MAZAO_REDIS_URL"`
	Address      string        `envconfig:"MAZAO_REDIS_ADDR"`
	Password     string        `envconfig:"MAZAO_REDIS_PASSWORD"`
	DB           int           `envconfig:"MAZAO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MAZAO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MAZAO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MAZAO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MAZAO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MAZAO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether a redis endpoint was supplied.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"MAZAO_JWT_SECRET"`
	Issuer            string `envconfig:"MAZAO_JWT_ISSUER" default:"mazao-pos"`
	ExpirationMinutes int    `envconfig:"MAZAO_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MAZAO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MAZAO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MAZAO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MAZAO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MAZAO_ARGON_KEY_LEN" default:"32"`
}

type SessionConfig struct {
	IdleTimeout     time.Duration `envconfig:"MAZAO_SESSION_IDLE_TIMEOUT" default:"2m"`
	MaxPinAttempts  int           `envconfig:"MAZAO_SESSION_MAX_PIN_ATTEMPTS" default:"5"`
	CacheTTLMinutes int           `envconfig:"MAZAO_SESSION_CACHE_TTL_MINUTES" default:"43200"`
	SweepInterval   time.Duration `envconfig:"MAZAO_SESSION_SWEEP_INTERVAL" default:"1h"`
}

// CacheTTL returns the persisted session cache TTL configured in minutes.
func (s SessionConfig) CacheTTL() time.Duration {
	if s.CacheTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.CacheTTLMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"MAZAO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"MAZAO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"MAZAO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MAZAO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MAZAO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.LegacyHost == "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
