package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type ServerConfig struct {
	HTTPPort        string        `mapstructure:"HTTPPort"`
	Timeout         time.Duration `mapstructure:"HTTPTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	AllowedOrigins  []string      `mapstructure:"allowedOrigins"`
	// SearchRateLimit is the number of quota-consuming requests per minute per client IP.
	SearchRateLimit int `mapstructure:"searchRateLimit"`
}

type PlacesConfig struct {
	APIKey              string        `mapstructure:"apiKey"`
	BaseURL             string        `mapstructure:"baseURL"`
	Timeout             time.Duration `mapstructure:"timeout"`
	Language            string        `mapstructure:"language"`
	PlaceholderName     string        `mapstructure:"placeholderName"`
	PlaceholderAddress  string        `mapstructure:"placeholderAddress"`
	LiveOpenCheck       bool          `mapstructure:"liveOpenCheck"`
	ResolverConcurrency int           `mapstructure:"resolverConcurrency"`
}

type TravelConfig struct {
	APIKey   string        `mapstructure:"apiKey"`
	BaseURL  string        `mapstructure:"baseURL"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Language string        `mapstructure:"language"`
}

type SearchConfig struct {
	MaxCandidates            int     `mapstructure:"maxCandidates"`
	MaxResultsPerCall        int     `mapstructure:"maxResultsPerCall"`
	MaxTypesPerCall          int     `mapstructure:"maxTypesPerCall"`
	CornerOffsetFactor       float64 `mapstructure:"cornerOffsetFactor"`
	CornerMinRadius          float64 `mapstructure:"cornerMinRadius"`
	RankBy                   string  `mapstructure:"rankBy"`
	WalkSpeedMetersPerMinute float64 `mapstructure:"walkSpeedMetersPerMinute"`
	MinRadius                float64 `mapstructure:"minRadius"`
	MaxRadius                float64 `mapstructure:"maxRadius"`
	FallbackKeep             int     `mapstructure:"fallbackKeep"`
}

type DetailsConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweepInterval"`
}

type StoreConfig struct {
	// Backend is memory, postgres or redis.
	Backend string `mapstructure:"backend"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Password          string `mapstructure:"password"`
	Port              string `mapstructure:"port"`
	Username          string `mapstructure:"username"`
	DB                string `mapstructure:"db"`
	SSLMODE           string `mapstructure:"SSLMODE"`
	MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	Namespace string `mapstructure:"namespace"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwtSecret"`
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
}

type GeolocationConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	MaxAge  time.Duration `mapstructure:"maxAge"`
}

type SessionConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	ShareBaseURL string        `mapstructure:"shareBaseURL"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port      string `mapstructure:"port"`
			CertFile  string `mapstructure:"certFile"`
			KeyFile   string `mapstructure:"keyFile"`
			EnableTLS bool   `mapstructure:"enableTLS"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres PostgresConfig `mapstructure:"postgres"`
		Redis    RedisConfig    `mapstructure:"redis"`
	} `mapstructure:"repositories"`
	Server      ServerConfig      `mapstructure:"server"`
	Places      PlacesConfig      `mapstructure:"places"`
	Travel      TravelConfig      `mapstructure:"travel"`
	Search      SearchConfig      `mapstructure:"search"`
	Details     DetailsConfig     `mapstructure:"details"`
	Store       StoreConfig       `mapstructure:"store"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Geolocation GeolocationConfig `mapstructure:"geolocation"`
	Session     SessionConfig     `mapstructure:"session"`
}

// InitConfig loads config.yml from the usual paths, falling back to the
// embedded copy. Environment variables override keys with "." replaced by "_",
// e.g. PLACES_APIKEY or AUTH_JWTSECRET.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
