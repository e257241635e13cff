package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime settings, sourced from the environment.
type Config struct {
	AppPort     string
	BaseURL     string
	DatabaseURL string
	SecretKey   string
	StaticDir   string

	MailServer   string
	MailPort     int
	MailUsername string
	MailPassword string
	MailSender   string

	RabbitMQURL string
}

// Load reads configuration from a .env file (if present) and the process
// environment, applying defaults for anything unset.
func Load() Config {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("DATABASE_URL", "site.db")
	viper.SetDefault("SECRET_KEY", "")
	viper.SetDefault("STATIC_DIR", "./static")
	viper.SetDefault("MAIL_SERVER", "smtp.googlemail.com")
	viper.SetDefault("MAIL_PORT", 587)
	viper.SetDefault("MAIL_USERNAME", "")
	viper.SetDefault("MAIL_PASSWORD", "")
	viper.SetDefault("MAIL_SENDER", "noreply@blogapp.local")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	return Config{
		AppPort:      viper.GetString("APP_PORT"),
		BaseURL:      viper.GetString("BASE_URL"),
		DatabaseURL:  viper.GetString("DATABASE_URL"),
		SecretKey:    viper.GetString("SECRET_KEY"),
		StaticDir:    viper.GetString("STATIC_DIR"),
		MailServer:   viper.GetString("MAIL_SERVER"),
		MailPort:     viper.GetInt("MAIL_PORT"),
		MailUsername: viper.GetString("MAIL_USERNAME"),
		MailPassword: viper.GetString("MAIL_PASSWORD"),
		MailSender:   viper.GetString("MAIL_SENDER"),
		RabbitMQURL:  viper.GetString("RABBITMQ_URL"),
	}
}
