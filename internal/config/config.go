package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/facilpersianas/blindquote/internal/domain"
)

// Catalog sources
const (
	SourceWebhook = "webhook"
	SourceShopify = "shopify"
)

// DefaultSellers is used when SELLERS is not set
const DefaultSellers = "bruna:BRUNA T.,aline:ALINE B.,jaissa:JAISSA R.,outros:OUTROS"

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Catalog     CatalogConfig
	Shopify     ShopifyConfig
	OrderDraft  OrderDraftConfig
	Pricing     PricingConfig
	Sellers     []domain.Seller
	Database    DatabaseConfig
}

// CatalogConfig selects and tunes the catalog source
type CatalogConfig struct {
	Source          string // CATALOG_SOURCE: webhook or shopify
	VariantsURL     string // POST {"ids": [...]} -> families with variants
	ProductsURL     string // GET -> family product nodes
	Timeout         time.Duration
	CacheTTL        time.Duration
	RefreshInterval time.Duration // 0 disables the background refresh
}

type ShopifyConfig struct {
	ShopDomain         string
	AccessToken        string
	APIVersion         string
	MetafieldNamespace string // namespace of the size metafields
	ProductQuery       string // search filter for family products, e.g. product_type:Persiana
}

// OrderDraftConfig points at the order system receiving submitted carts
type OrderDraftConfig struct {
	WebhookURL string
	AdminURL   string // draft order admin page; the numeric draft id is appended
	Timeout    time.Duration
}

type PricingConfig struct {
	Workers        int
	CordSideLabels domain.CordSideLabels
}

// DatabaseConfig is optional; an empty Host disables the snapshot store
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	catalogTimeout, err := getDuration("CATALOG_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getDuration("CATALOG_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	refreshInterval, err := getDuration("CATALOG_REFRESH_INTERVAL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	draftTimeout, err := getDuration("ORDER_DRAFT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	workers, err := strconv.Atoi(getEnvOrViper("PRICING_WORKERS", "8"))
	if err != nil || workers < 1 {
		return nil, fmt.Errorf("PRICING_WORKERS must be a positive integer")
	}
	sellers, err := ParseSellers(getEnvOrViper("SELLERS", DefaultSellers))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Catalog: CatalogConfig{
			Source:          strings.ToLower(strings.TrimSpace(getEnvOrViper("CATALOG_SOURCE", SourceWebhook))),
			VariantsURL:     strings.TrimSpace(getEnvOrViper("CATALOG_VARIANTS_URL", "")),
			ProductsURL:     strings.TrimSpace(getEnvOrViper("CATALOG_PRODUCTS_URL", "")),
			Timeout:         catalogTimeout,
			CacheTTL:        cacheTTL,
			RefreshInterval: refreshInterval,
		},
		Shopify: ShopifyConfig{
			ShopDomain:         strings.TrimSpace(getEnvOrViper("SHOPIFY_SHOP_DOMAIN", "")),
			AccessToken:        strings.TrimSpace(getEnvOrViper("SHOPIFY_ACCESS_TOKEN", "")),
			APIVersion:         getEnvOrViper("SHOPIFY_API_VERSION", "2026-01"),
			MetafieldNamespace: getEnvOrViper("SHOPIFY_METAFIELD_NAMESPACE", "custom"),
			ProductQuery:       getEnvOrViper("SHOPIFY_PRODUCT_QUERY", ""),
		},
		OrderDraft: OrderDraftConfig{
			WebhookURL: strings.TrimSpace(getEnvOrViper("ORDER_DRAFT_WEBHOOK_URL", "")),
			AdminURL:   strings.TrimSpace(getEnvOrViper("ORDER_DRAFT_ADMIN_URL", "")),
			Timeout:    draftTimeout,
		},
		Pricing: PricingConfig{
			Workers: workers,
			CordSideLabels: domain.CordSideLabels{
				Left:  getEnvOrViper("CORD_LABEL_LEFT", domain.DefaultCordSideLabels.Left),
				Right: getEnvOrViper("CORD_LABEL_RIGHT", domain.DefaultCordSideLabels.Right),
			},
		},
		Sellers: sellers,
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", ""),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "blindquote"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields required by the selected catalog source
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case SourceWebhook:
		if c.Catalog.VariantsURL == "" {
			return fmt.Errorf("CATALOG_VARIANTS_URL is required")
		}
		if c.Catalog.ProductsURL == "" {
			return fmt.Errorf("CATALOG_PRODUCTS_URL is required")
		}
	case SourceShopify:
		if c.Shopify.ShopDomain == "" {
			return fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required")
		}
		if c.Shopify.AccessToken == "" {
			return fmt.Errorf("SHOPIFY_ACCESS_TOKEN is required")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", SourceWebhook, SourceShopify, c.Catalog.Source)
	}
	return nil
}

// ParseSellers parses "value:LABEL,value:LABEL"
func ParseSellers(s string) ([]domain.Seller, error) {
	var sellers []domain.Seller
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		value, label, ok := strings.Cut(entry, ":")
		value, label = strings.TrimSpace(value), strings.TrimSpace(label)
		if !ok || value == "" || label == "" {
			return nil, fmt.Errorf("SELLERS: invalid entry %q, want value:LABEL", entry)
		}
		sellers = append(sellers, domain.Seller{Value: value, Label: label})
	}
	if len(sellers) == 0 {
		return nil, fmt.Errorf("SELLERS must list at least one seller")
	}
	return sellers, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnvOrViper(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s must be a non-negative duration such as 30s: %q", key, raw)
	}
	return d, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
