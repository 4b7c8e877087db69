// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	skipMigrations = pflag.Bool("skip-migrations", false, "Skips database automigrations")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// SkipMigrations reports whether the --skip-migrations flag was set.
func SkipMigrations() bool {
	return *skipMigrations
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
	v.BindEnv("host.base_url", "host_base_url")
	v.BindEnv("host.cors", "host_cors")
	v.BindEnv("host.verify_redirect", "host_verify_redirect")

	v.BindEnv("auth.access_secret", "auth_access_secret")
	v.BindEnv("auth.access_expiry", "auth_access_expiry")
	v.BindEnv("auth.refresh_secret", "auth_refresh_secret")
	v.BindEnv("auth.refresh_expiry", "auth_refresh_expiry")
	v.BindEnv("auth.verify_secret", "auth_verify_secret")
	v.BindEnv("auth.verify_expiry", "auth_verify_expiry")

	v.BindEnv("security.rate_limit", "security_rate_limit")

	v.BindEnv("storage.driver", "storage_driver")
	v.BindEnv("storage.dsn", "storage_dsn")

	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender", "mail_sender")
	v.BindEnv("mail.password", "mail_password")

	v.BindEnv("redis.enabled", "redis_enabled")
	v.BindEnv("redis.address", "redis_address")

	v.BindEnv("avatars.enabled", "avatars_enabled")
	v.BindEnv("avatars.account_id", "avatars_account_id")
	v.BindEnv("avatars.access_key_id", "avatars_access_key_id")
	v.BindEnv("avatars.secret_access_key", "avatars_secret_access_key")
	v.BindEnv("avatars.bucket", "avatars_bucket")
	v.BindEnv("avatars.public_url", "avatars_public_url")

	v.BindEnv("cloudflare.turnstile.enabled", "cloudflare_turnstile_enabled")
	v.BindEnv("cloudflare.turnstile.secret_token", "cloudflare_turnstile_secret_token")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.base_url", "http://localhost:8080")
	v.SetDefault("host.cors", "http://localhost:3000")

	v.SetDefault("auth.access_expiry", time.Minute*15)
	v.SetDefault("auth.refresh_expiry", time.Hour*24*30)
	v.SetDefault("auth.verify_expiry", time.Hour)

	v.SetDefault("security.rate_limit", 20)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "database.db")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("avatars.enabled", false)
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

	for _, class := range []string{"access", "refresh", "verify"} {
		if v.GetString("auth."+class+"_secret") == "" {
			return fmt.Errorf("no auth.%s_secret set. Here's a fresh one if you need it:\n\n%s\n\nPaste it into your config.toml file", class, genSecret())
		}

		if v.GetDuration("auth."+class+"_expiry") <= 0 {
			return fmt.Errorf("auth.%s_expiry must be a positive duration", class)
		}
	}

	if !slices.Contains(validDrivers, v.GetString("storage.driver")) {
		return errors.New("invalid storage driver provided")
	}

	if v.GetString("storage.dsn") == "" {
		return errors.New("storage.dsn can't be empty")
	}

	if v.GetString("mail.host") == "" || v.GetString("mail.sender") == "" {
		return errors.New("mail.host and mail.sender are required to send verification mails")
	}

	if v.GetInt("mail.port") <= 0 {
		return errors.New("invalid mail port provided")
	}

	if v.GetInt("security.rate_limit") <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if v.GetBool("redis.enabled") && v.GetString("redis.address") == "" {
		return errors.New("redis.address can't be empty when redis is enabled")
	}

	if v.GetBool("avatars.enabled") {
		if v.GetString("avatars.account_id") == "" {
			return errors.New("account id can't be empty")
		}
		if v.GetString("avatars.access_key_id") == "" {
			return errors.New("account access id can't be empty")
		}
		if v.GetString("avatars.secret_access_key") == "" {
			return errors.New("secret access key can't be empty")
		}
		if v.GetString("avatars.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
	}

	if !v.GetBool("cloudflare.turnstile.enabled") {
		zap.L().Warn("Cloudflare's turnstile is disabled. Some public endpoints won't be guarded against bots")
	} else if v.GetString("cloudflare.turnstile.secret_token") == "" {
		return errors.New("turnstile secret token is missing")
	}

	return nil
}
