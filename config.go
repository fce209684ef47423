package main

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all environment variables for the service.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	RedisURL      string

	JWTSecret           string
	StripeSecretKey     string
	StripeWebhookSecret string
	// CallbackSecret signs the success-callback URLs handed to the gateway.
	CallbackSecret string

	// PublicBaseURL is where the gateway can reach this service;
	// FrontendURL is where browsers get redirected after payment.
	PublicBaseURL string
	FrontendURL   string

	CookieDomain   string
	CookieSecure   bool
	AllowedOrigins []string
}

// LoadConfig loads environment variables into a Config and validates them.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                os.Getenv("PORT"),
		MongoURI:            os.Getenv("MONGODB_URI"),
		MongoDatabase:       os.Getenv("MONGODB_DATABASE"),
		RedisURL:            os.Getenv("REDIS_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		StripeSecretKey:     os.Getenv("PAYMENT_GATEWAY_SECRET"),
		StripeWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		CallbackSecret:      os.Getenv("PAYMENT_CALLBACK_SECRET"),
		PublicBaseURL:       os.Getenv("PUBLIC_BASE_URL"),
		FrontendURL:         os.Getenv("FRONTEND_URL"),
		CookieDomain:        os.Getenv("COOKIE_DOMAIN"),
		CookieSecure:        os.Getenv("COOKIE_SECURE") != "false",
	}

	if cfg.Port == "" {
		cfg.Port = "3001"
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "thread"
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.Port
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}
	if cfg.CallbackSecret == "" {
		cfg.CallbackSecret = cfg.JWTSecret
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{cfg.FrontendURL}
	}

	// Validate required fields
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("PAYMENT_GATEWAY_SECRET is required")
	}

	return cfg, nil
}
