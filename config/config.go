package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string
	MongoURI         string
	MongoDB          string
	JWTSecret        string
	JWTExpiry        int // hours
	OtpTTL           int // minutes
	MaxMessageLength int

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from the environment, with a .env file as a
// convenience for local development.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "stayfinder")
	v.SetDefault("JWT_SECRET", "dev-super-secret-change-me")
	v.SetDefault("JWT_EXPIRY", 24)
	v.SetDefault("OTP_TTL", 10)
	v.SetDefault("MAX_MESSAGE_LENGTH", 1000)
	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASS", "")
	v.SetDefault("MAIL_FROM", "no-reply@stayfinder.local")
	v.SetDefault("CLOUDINARY_CLOUD", "")
	v.SetDefault("CLOUDINARY_KEY", "")
	v.SetDefault("CLOUDINARY_SECRET", "")
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	return Config{
		Port:             v.GetString("PORT"),
		MongoURI:         v.GetString("MONGO_URI"),
		MongoDB:          v.GetString("MONGO_DB"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTExpiry:        v.GetInt("JWT_EXPIRY"),
		OtpTTL:           v.GetInt("OTP_TTL"),
		MaxMessageLength: v.GetInt("MAX_MESSAGE_LENGTH"),
		SMTPHost:         v.GetString("SMTP_HOST"),
		SMTPPort:         v.GetInt("SMTP_PORT"),
		SMTPUser:         v.GetString("SMTP_USER"),
		SMTPPass:         v.GetString("SMTP_PASS"),
		MailFrom:         v.GetString("MAIL_FROM"),
		CloudinaryCloud:  v.GetString("CLOUDINARY_CLOUD"),
		CloudinaryKey:    v.GetString("CLOUDINARY_KEY"),
		CloudinarySecret: v.GetString("CLOUDINARY_SECRET"),
		RateLimitRPS:     v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:   v.GetInt("RATE_LIMIT_BURST"),
	}
}
