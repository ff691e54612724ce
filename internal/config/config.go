package config

import (
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Store  StoreConfig
}

type ServerConfig struct {
	Port               string `mapstructure:"port"`
	DBDSN              string `mapstructure:"db_dsn"`
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	BaseURL            string `mapstructure:"base_url"`
	AllowRegistration  bool   `mapstructure:"allow_registration"`
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
}

type StoreConfig struct {
	Name           string  `mapstructure:"store_name"`
	Address        string  `mapstructure:"store_address"`
	Currency       string  `mapstructure:"store_currency"`
	TaxRatePercent float64 `mapstructure:"tax_rate_percent"`
}

var AppConfig *Config

// TaxRate returns the configured tax rate as a decimal percentage (e.g. 7.5).
// Checkout reads this at settlement time, so a rate change applies to the
// next sale, not to carts already rung up.
func TaxRate() decimal.Decimal {
	return decimal.NewFromFloat(AppConfig.Store.TaxRatePercent)
}

func Load() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, falling back to environment variables: %v", err)
	}

	// OS environment always wins over the file
	viper.AutomaticEnv()

	viper.SetDefault("port", "8080")
	viper.SetDefault("base_url", "http://localhost:8080")
	viper.SetDefault("jwt_expiration_hours", 24)
	viper.SetDefault("store_name", "My Store")
	viper.SetDefault("store_currency", "USD")
	viper.SetDefault("tax_rate_percent", 0.0)

	AppConfig = &Config{
		Server: ServerConfig{
			Port:               viper.GetString("port"),
			DBDSN:              viper.GetString("db_dsn"),
			JWTSecret:          viper.GetString("jwt_secret"),
			JWTExpirationHours: viper.GetInt("jwt_expiration_hours"),
			BaseURL:            viper.GetString("base_url"),
			AllowRegistration:  viper.GetBool("allow_registration"),
			GeminiAPIKey:       viper.GetString("gemini_api_key"),
		},
		Store: StoreConfig{
			Name:           viper.GetString("store_name"),
			Address:        viper.GetString("store_address"),
			Currency:       viper.GetString("store_currency"),
			TaxRatePercent: viper.GetFloat64("tax_rate_percent"),
		},
	}

	if AppConfig.Server.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET not set, using an insecure development default")
		AppConfig.Server.JWTSecret = "dev-only-secret-change-me"
	}
}
