// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	pruneNow       = pflag.Bool("prune-now", false, "Prunes expired session and verification tokens on startup")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDBDrivers = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// PruneOnStartup reports whether the --prune-now flag was passed.
func PruneOnStartup() bool {
	return *pruneNow
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")

	v.BindEnv("front_app.host", "front_app_host")

	v.BindEnv("jwt.secret", "jwt_secret")
	v.BindEnv("jwt.ttl_hours", "jwt_ttl_hours")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender", "mail_sender_address")
	v.BindEnv("mail.password", "mail_password")
	v.BindEnv("mail.workers", "mail_workers")
	v.BindEnv("mail.queue_size", "mail_queue_size")

	v.BindEnv("verification.ttl_minutes", "verification_ttl_minutes")

	v.BindEnv("rate_limit.requests_per_second", "rate_limit_requests_per_second")
	v.BindEnv("rate_limit.burst", "rate_limit_burst")

	v.BindEnv("cloudflare.turnstile.enabled", "cloudflare_turnstile_enabled")
	v.BindEnv("cloudflare.turnstile.secret_token", "cloudflare_turnstile_secret_token")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("jwt.ttl_hours", 24)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "database.db")

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.workers", 2)
	v.SetDefault("mail.queue_size", 64)

	v.SetDefault("verification.ttl_minutes", 30)

	v.SetDefault("rate_limit.requests_per_second", 5)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("cloudflare.turnstile.enabled", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if v.GetInt("jwt.ttl_hours") <= 0 {
		return errors.New("jwt.ttl_hours must be bigger than 0")
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid db driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("db.dsn can't be empty")
	}

	if v.GetString("front_app.host") == "" {
		return errors.New("front_app.host can't be empty, email verification has nowhere to redirect")
	}

	if v.GetString("mail.host") == "" || v.GetString("mail.sender") == "" {
		fmt.Println("[WARNING]: Mail delivery is not configured. Verification emails will be dropped")
	}

	if v.GetInt("verification.ttl_minutes") <= 0 {
		return errors.New("verification.ttl_minutes must be bigger than 0")
	}

	if v.GetBool("cloudflare.turnstile.enabled") {
		if v.GetString("cloudflare.turnstile.secret_token") == "" {
			return errors.New("turnstile secret token is missing")
		}
	} else {
		fmt.Println("[WARNING]: Cloudflare's turnstile is disabled. Sign-up won't be guarded against bots")
	}

	return nil
}
