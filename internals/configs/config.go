package configs

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config dibaca dari ENV (setelah .env dimuat bila ada).
type Config struct {
	AppEnv   string `env:"APP_ENV,default=development"`
	AppDebug bool   `env:"APP_DEBUG,default=false"`
	Port     string `env:"PORT,default=3000"`
	TZName   string `env:"TZ_NAME,default=Asia/Jakarta"`

	CORSOrigins string `env:"CORS_ORIGINS,default=*"`
	// IP/CIDR proxy yang boleh mengisi X-Forwarded-For (comma separated).
	// Kosong = header diabaikan, IP diambil dari koneksi.
	TrustedProxies string `env:"TRUSTED_PROXIES"`

	DB       DBConfig
	JWT      JWTConfig
	Midtrans MidtransConfig
	Storage  StorageConfig
	Jobs     JobsConfig

	RedisURL       string `env:"REDIS_URL"`
	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`
}

type DBConfig struct {
	Host             string        `env:"DB_HOST,default=localhost"`
	Port             string        `env:"DB_PORT,default=5432"`
	User             string        `env:"DB_USER,default=postgres"`
	Password         string        `env:"DB_PASSWORD"`
	Name             string        `env:"DB_NAME,default=gymku"`
	SSLMode          string        `env:"DB_SSLMODE,default=disable"`
	StatementTimeout time.Duration `env:"DB_STATEMENT_TIMEOUT,default=5s"`
	MaxOpenConns     int           `env:"DB_MAX_OPEN_CONNS,default=20"`
	MaxIdleConns     int           `env:"DB_MAX_IDLE_CONNS,default=10"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET,required"`
	TTL    time.Duration `env:"JWT_TTL,default=24h"`
}

type MidtransConfig struct {
	ServerKey string `env:"MIDTRANS_SERVER_KEY"`
	UseProd   bool   `env:"MIDTRANS_USE_PROD,default=false"`
}

type StorageConfig struct {
	Driver     string `env:"STORAGE_DRIVER,default=local"` // local | oss
	LocalDir   string `env:"STORAGE_LOCAL_DIR,default=./public/uploads"`
	PublicBase string `env:"STORAGE_PUBLIC_BASE,default=/uploads"`

	OSSEndpoint  string `env:"ALI_OSS_ENDPOINT"`
	OSSAccessKey string `env:"ALI_OSS_ACCESS_KEY"`
	OSSSecretKey string `env:"ALI_OSS_SECRET_KEY"`
	OSSBucket    string `env:"ALI_OSS_BUCKET"`
	OSSPrefix    string `env:"ALI_OSS_PREFIX,default=gymku"`
	OSSPublicURL string `env:"ALI_OSS_PUBLIC_BASE"`
}

// JobsConfig jadwal cron (format 5 field, zona waktu TZ_NAME).
type JobsConfig struct {
	Enabled           bool   `env:"JOBS_ENABLED,default=true"`
	DailySchedule     string `env:"JOB_DAILY_SCHEDULE,default=5 0 * * *"`
	BlacklistSchedule string `env:"JOB_BLACKLIST_SCHEDULE,default=@hourly"`
}

// =======================
// ENV LOADER
// =======================

// LoadEnv memuat .env (opsional) lalu decode ke Config.
func LoadEnv() (*Config, error) {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Warn().Msg("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Info().Msg("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Info().Msg("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, fmt.Errorf("decode env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// ProxyList TRUSTED_PROXIES dipecah per koma, entri kosong dibuang.
func (c *Config) ProxyList() []string {
	out := []string{}
	for _, p := range strings.Split(c.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Location zona waktu bisnis (batas hari/bulan dashboard, job harian).
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TZName)
	if err != nil {
		log.Warn().Err(err).Str("tz", c.TZName).Msg("timezone tidak dikenal, fallback UTC")
		return time.UTC
	}
	return loc
}

// DSN postgres dengan statement_timeout (ms).
func (d DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC statement_timeout=%d",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.StatementTimeout.Milliseconds(),
	)
}
