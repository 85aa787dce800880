package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		AppName  string
		Debug    bool
		TestMode bool

		SecretKey        string
		DefaultFromEmail string
		SendgridAPIKey   string
		RollbarToken     string

		Server   ServerConfig
		Database DatabaseConfig
		Import   ImportConfig
	}

	ServerConfig struct {
		Host               string
		Port               string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		// Engine selects the canonical store implementation: postgres | mongodb | inmem.
		Engine     string
		Name       string
		User       string
		Password   string
		Host       string
		Port       string
		DisableTLS bool
	}

	ImportConfig struct {
		// Workers bounds concurrent reconciliations per batch, independent of batch size.
		Workers int
		// MaxUploadSize caps uploaded file payloads, in bytes.
		MaxUploadSize int64
		// ScopeTimeout bounds each remote scope call (device/course/location).
		ScopeTimeout time.Duration
		// RateLimit is the per-connector request rate (req/s) with burst RateBurst.
		RateLimit float64
		RateBurst int
		// NotifyActor emails the batch report summary to the importing actor.
		NotifyActor bool
	}
)

func (c ServerConfig) Address() string { return net.JoinHostPort(c.Host, c.Port) }

func (c DatabaseConfig) Address() string { return net.JoinHostPort(c.Host, c.Port) }

// NewConfig loads configuration from defaults, an optional config/.env.<env> file
// and environment variables (prefixed with the current ENV).
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("debug", true)
	v.SetDefault("appName", "Safal")
	v.SetDefault("secretKey", "x8w2@d(1l&9#u+qvno4_h^53pz!bj$yr7gm*ck6seft)ia%0-t")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.shutdownTimeout", 20*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.name", "safal")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.disableTLS", false)

	v.SetDefault("import.workers", 8)
	v.SetDefault("import.maxUploadSize", int64(10<<20))
	v.SetDefault("import.scopeTimeout", 30*time.Second)
	v.SetDefault("import.rateLimit", 10.0)
	v.SetDefault("import.rateBurst", 5)
	v.SetDefault("import.notifyActor", false)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:              env,
		AppName:          v.GetString("appName"),
		Debug:            v.GetBool("debug"),
		TestMode:         env == "TEST",
		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Port:               v.GetString("server.port"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Name:       v.GetString("database.name"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			Host:       v.GetString("database.host"),
			Port:       v.GetString("database.port"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Import: ImportConfig{
			Workers:       v.GetInt("import.workers"),
			MaxUploadSize: v.GetInt64("import.maxUploadSize"),
			ScopeTimeout:  v.GetDuration("import.scopeTimeout"),
			RateLimit:     v.GetFloat64("import.rateLimit"),
			RateBurst:     v.GetInt("import.rateBurst"),
			NotifyActor:   v.GetBool("import.notifyActor"),
		},
	}
}
