package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the service reads at process start.
type Config struct {
	AppName string
	Env     string
	Port    string

	DatabaseDriver string
	DatabaseDSN    string

	JWTSecret   string
	JWTTTL      time.Duration
	AdminAPIKey string

	RabbitMQURL string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RateLimitMax    int
	RateLimitWindow time.Duration
	ProductCacheTTL time.Duration

	ESAddresses     []string
	ESUsername      string
	ESPassword      string
	ESProductsIndex string

	GeminiAPIKey    string
	GeminiModel     string
	UpstreamTimeout time.Duration
	LookBackendURL  string

	OutfitStore   string
	MongoURI      string
	MongoDatabase string

	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string
	ShopName      string
}

// Load reads an optional .env file and then the environment through viper.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	// the look backend was historically configured as PYTHON_BACKEND_URL
	_ = v.BindEnv("LOOK_BACKEND_URL", "LOOK_BACKEND_URL", "PYTHON_BACKEND_URL")

	return &Config{
		AppName:         v.GetString("APP_NAME"),
		Env:             v.GetString("APP_ENV"),
		Port:            v.GetString("APP_PORT"),
		DatabaseDriver:  strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTTTL:          v.GetDuration("JWT_TTL"),
		AdminAPIKey:     v.GetString("ADMIN_API_KEY"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		RateLimitMax:    v.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow: v.GetDuration("RATE_LIMIT_WINDOW"),
		ProductCacheTTL: v.GetDuration("PRODUCT_CACHE_TTL"),
		ESAddresses:     splitList(v.GetString("ES_ADDRESSES")),
		ESUsername:      v.GetString("ES_USERNAME"),
		ESPassword:      v.GetString("ES_PASSWORD"),
		ESProductsIndex: v.GetString("ES_PRODUCTS_INDEX"),
		GeminiAPIKey:    v.GetString("GEMINI_API_KEY"),
		GeminiModel:     v.GetString("GEMINI_MODEL"),
		UpstreamTimeout: v.GetDuration("UPSTREAM_TIMEOUT"),
		LookBackendURL:  strings.TrimRight(v.GetString("LOOK_BACKEND_URL"), "/"),
		OutfitStore:     strings.ToLower(v.GetString("OUTFIT_STORE")),
		MongoURI:        v.GetString("MONGO_URI"),
		MongoDatabase:   v.GetString("MONGO_DATABASE"),
		MailgunDomain:   v.GetString("MAILGUN_DOMAIN"),
		MailgunAPIKey:   v.GetString("MAILGUN_API_KEY"),
		MailgunSender:   v.GetString("MAILGUN_SENDER"),
		ShopName:        v.GetString("SHOP_NAME"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "styleshop")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("ADMIN_API_KEY", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_MAX", 30)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("PRODUCT_CACHE_TTL", 5*time.Minute)
	v.SetDefault("ES_ADDRESSES", "")
	v.SetDefault("ES_USERNAME", "")
	v.SetDefault("ES_PASSWORD", "")
	v.SetDefault("ES_PRODUCTS_INDEX", "products")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("UPSTREAM_TIMEOUT", 20*time.Second)
	v.SetDefault("OUTFIT_STORE", "sql")
	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DATABASE", "styleshop")
	v.SetDefault("MAILGUN_DOMAIN", "")
	v.SetDefault("MAILGUN_API_KEY", "")
	v.SetDefault("MAILGUN_SENDER", "")
	v.SetDefault("SHOP_NAME", "StyleShop")
}

// Validate reports settings without which the API cannot serve requests.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DatabaseDriver != "postgres" && c.DatabaseDriver != "sqlite" {
		errs = append(errs, errors.New("DATABASE_DRIVER must be postgres or sqlite"))
	}
	if c.OutfitStore == "mongo" && c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required when OUTFIT_STORE=mongo"))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether verbose, human-readable logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
