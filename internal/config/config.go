package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // 指定があればこちらを優先
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	JWTSecret string // JWT署名シークレット

	// 空ならメモリ実装のカートストアを使う
	RedisAddr string
	CartTTL   time.Duration

	// リモート1呼び出しあたりのタイムアウト
	CheckoutStepTimeout time.Duration

	// レシートに印字する店舗情報
	StoreName     string
	StoreAddress  string
	StorePhone    string
	ReceiptFooter string

	GoEnv string // dev/prod
}

// Loadは環境変数から設定を読む
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "pos"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		StoreName:     getenv("STORE_NAME", "Your Store Name"),
		StoreAddress:  getenv("STORE_ADDRESS", "123 Store Street, City, Country"),
		StorePhone:    getenv("STORE_PHONE", "(123) 456-7890"),
		ReceiptFooter: getenv("RECEIPT_FOOTER", "Thank you for your purchase!"),

		GoEnv: getenv("GO_ENV", "dev"),
	}

	pgPort, err := atoiEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	cfg.PostgresPort = pgPort

	cartTTL, err := durationEnv("CART_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.CartTTL = cartTTL

	stepTimeout, err := durationEnv("CHECKOUT_STEP_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.CheckoutStepTimeout = stepTimeout

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
