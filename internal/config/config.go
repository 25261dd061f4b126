package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	AppPort    string
	AppEnv     string

	JWTSecret         string
	InternalSecretKey string
	AllowedOrigins    []string

	EmailWebhookURL   string
	EmailWebhookToken string
	EmailFrom         string

	StrictOrderTransitions bool
	CompanyProfileFile     string
}

// CompanyProfile is the default billing identity used to seed the settings store.
type CompanyProfile struct {
	Logo      string `mapstructure:"logo"`
	Name      string `mapstructure:"name"`
	GSTNumber string `mapstructure:"gst_number"`
	Address   string `mapstructure:"address"`
	Phone     string `mapstructure:"phone"`
	Email     string `mapstructure:"email"`
	Website   string `mapstructure:"website"`
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		DBSSLMode:  os.Getenv("DB_SSLMODE"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		InternalSecretKey: os.Getenv("INTERNAL_SECRET_KEY"),
		AllowedOrigins:    splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		EmailWebhookURL:   os.Getenv("EMAIL_WEBHOOK_URL"),
		EmailWebhookToken: os.Getenv("EMAIL_WEBHOOK_TOKEN"),
		EmailFrom:         os.Getenv("EMAIL_FROM"),

		StrictOrderTransitions: os.Getenv("ORDER_STRICT_TRANSITIONS") == "true",
		CompanyProfileFile:     os.Getenv("COMPANY_PROFILE_FILE"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable"
	}
	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}
	if cfg.CompanyProfileFile == "" {
		cfg.CompanyProfileFile = "config/company.toml"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}

	return cfg
}

// LoadCompanyProfile reads the [company] table of a TOML file. A missing or
// unreadable file yields an empty profile and an error the caller may log.
func LoadCompanyProfile(path string) (CompanyProfile, error) {
	var profile CompanyProfile

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return profile, err
	}

	if err := v.UnmarshalKey("company", &profile); err != nil {
		return profile, err
	}

	return profile, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
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
