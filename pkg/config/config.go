package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ebanklabs/ebank_backend/internal/utils"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// FraudConfig holds the tunables of the fraud detection rules. Defaults follow
// the documented rule set: 5+ transactions inside a 2 minute window, wallet
// withdrawals of 100000 or more, and 3+ failed logins inside a 5 minute window.
type FraudConfig struct {
	FrequencyWindow          time.Duration
	FrequencyThreshold       int
	LargeWithdrawalThreshold decimal.Decimal
	BruteForceWindow         time.Duration
	BruteForceThreshold      int
	ZScoreMinSamples         int
	ZScoreThreshold          float64
}

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Operator credential, injected rather than hardcoded. The fraud detector
	// only ever learns "this identifier is the operator" from login attempts.
	OperatorUsername     string
	OperatorPasswordHash string

	// Bounded wait for ledger lock acquisition before an operation fails with
	// a retryable conflict.
	LockAcquireTimeout time.Duration

	// Rate limit applied to the login routes, in ulule/limiter notation.
	LoginRateLimit string

	Fraud FraudConfig
}

// LoadConfig loads configuration from environment variables and a .env file if
// present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "ebank-backend")
	viper.SetDefault("OPERATOR_USERNAME", "admin")
	viper.SetDefault("OPERATOR_PASSWORD", "")
	viper.SetDefault("OPERATOR_PASSWORD_HASH", "")
	viper.SetDefault("LOCK_ACQUIRE_TIMEOUT", "3s")
	viper.SetDefault("LOGIN_RATE_LIMIT", "10-M")
	viper.SetDefault("FRAUD_FREQUENCY_WINDOW", "2m")
	viper.SetDefault("FRAUD_FREQUENCY_THRESHOLD", 5)
	viper.SetDefault("FRAUD_LARGE_WITHDRAWAL_THRESHOLD", "100000")
	viper.SetDefault("FRAUD_BRUTE_FORCE_WINDOW", "5m")
	viper.SetDefault("FRAUD_BRUTE_FORCE_THRESHOLD", 3)
	viper.SetDefault("FRAUD_ZSCORE_MIN_SAMPLES", 5)
	viper.SetDefault("FRAUD_ZSCORE_THRESHOLD", 3.0)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION. Defaulting to %s.\n", jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	cfg.OperatorUsername = viper.GetString("OPERATOR_USERNAME")
	cfg.OperatorPasswordHash = viper.GetString("OPERATOR_PASSWORD_HASH")
	if cfg.OperatorPasswordHash == "" {
		// Accept a plaintext password for local development and hash it on load.
		plain := viper.GetString("OPERATOR_PASSWORD")
		if plain == "" {
			return nil, fmt.Errorf("neither OPERATOR_PASSWORD_HASH nor OPERATOR_PASSWORD is set")
		}
		hash, err := utils.HashPIN(plain)
		if err != nil {
			return nil, fmt.Errorf("failed to hash OPERATOR_PASSWORD: %w", err)
		}
		cfg.OperatorPasswordHash = hash
		log.Println("Warning: OPERATOR_PASSWORD_HASH not set. Hashed OPERATOR_PASSWORD at startup; not for production.")
	}

	lockTimeout, err := time.ParseDuration(viper.GetString("LOCK_ACQUIRE_TIMEOUT"))
	if err != nil {
		lockTimeout = 3 * time.Second
		log.Printf("Warning: Invalid LOCK_ACQUIRE_TIMEOUT. Defaulting to %s.\n", lockTimeout)
	}
	cfg.LockAcquireTimeout = lockTimeout

	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	fraud, err := loadFraudConfig()
	if err != nil {
		return nil, err
	}
	cfg.Fraud = *fraud

	return cfg, nil
}

func loadFraudConfig() (*FraudConfig, error) {
	fc := &FraudConfig{}

	freqWindow, err := time.ParseDuration(viper.GetString("FRAUD_FREQUENCY_WINDOW"))
	if err != nil {
		return nil, fmt.Errorf("invalid FRAUD_FREQUENCY_WINDOW: %w", err)
	}
	fc.FrequencyWindow = freqWindow
	fc.FrequencyThreshold = viper.GetInt("FRAUD_FREQUENCY_THRESHOLD")

	threshold, err := decimal.NewFromString(viper.GetString("FRAUD_LARGE_WITHDRAWAL_THRESHOLD"))
	if err != nil {
		return nil, fmt.Errorf("invalid FRAUD_LARGE_WITHDRAWAL_THRESHOLD: %w", err)
	}
	fc.LargeWithdrawalThreshold = threshold

	bruteWindow, err := time.ParseDuration(viper.GetString("FRAUD_BRUTE_FORCE_WINDOW"))
	if err != nil {
		return nil, fmt.Errorf("invalid FRAUD_BRUTE_FORCE_WINDOW: %w", err)
	}
	fc.BruteForceWindow = bruteWindow
	fc.BruteForceThreshold = viper.GetInt("FRAUD_BRUTE_FORCE_THRESHOLD")

	fc.ZScoreMinSamples = viper.GetInt("FRAUD_ZSCORE_MIN_SAMPLES")
	fc.ZScoreThreshold = viper.GetFloat64("FRAUD_ZSCORE_THRESHOLD")

	return fc, nil
}
