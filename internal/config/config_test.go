package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/facilpersianas/blindquote/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CATALOG_VARIANTS_URL", "https://hooks.example.com/variants")
	t.Setenv("CATALOG_PRODUCTS_URL", "https://hooks.example.com/products")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Catalog.Source != SourceWebhook {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Catalog.Timeout != 30*time.Second || cfg.Catalog.CacheTTL != 10*time.Minute || cfg.Catalog.RefreshInterval != 10*time.Minute {
		t.Errorf("catalog durations = %+v", cfg.Catalog)
	}
	if cfg.Pricing.Workers != 8 || cfg.Pricing.CordSideLabels != domain.DefaultCordSideLabels {
		t.Errorf("pricing = %+v", cfg.Pricing)
	}
	if len(cfg.Sellers) != 4 || cfg.Sellers[0] != (domain.Seller{Value: "bruna", Label: "BRUNA T."}) {
		t.Errorf("sellers = %+v", cfg.Sellers)
	}
	if cfg.Database.Enabled() {
		t.Error("database must be disabled without DB_HOST")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "Shopify")
	t.Setenv("SHOPIFY_SHOP_DOMAIN", "loja.myshopify.com")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_x")
	t.Setenv("CATALOG_CACHE_TTL", "1m")
	t.Setenv("CATALOG_REFRESH_INTERVAL", "0s")
	t.Setenv("PRICING_WORKERS", "2")
	t.Setenv("SELLERS", "ana:ANA,rui:RUI")
	t.Setenv("DB_HOST", "db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.Source != SourceShopify || cfg.Catalog.CacheTTL != time.Minute || cfg.Catalog.RefreshInterval != 0 {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if cfg.Pricing.Workers != 2 || len(cfg.Sellers) != 2 || !cfg.Database.Enabled() {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"webhook without urls", map[string]string{"CATALOG_SOURCE": "webhook"}},
		{"shopify without token", map[string]string{"CATALOG_SOURCE": "shopify", "SHOPIFY_SHOP_DOMAIN": "x.myshopify.com"}},
		{"unknown source", map[string]string{"CATALOG_SOURCE": "ftp"}},
		{"bad duration", map[string]string{"CATALOG_TIMEOUT": "soon"}},
		{"bad workers", map[string]string{"PRICING_WORKERS": "0"}},
		{"bad sellers", map[string]string{"SELLERS": "ana"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env["CATALOG_SOURCE"] == "" {
				t.Setenv("CATALOG_VARIANTS_URL", "https://hooks.example.com/variants")
				t.Setenv("CATALOG_PRODUCTS_URL", "https://hooks.example.com/products")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseSellers(t *testing.T) {
	got, err := ParseSellers(" bruna : BRUNA T. , ,outros:OUTROS")
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.Seller{{Value: "bruna", Label: "BRUNA T."}, {Value: "outros", Label: "OUTROS"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseSellers = %+v, want %+v", got, want)
	}
	if _, err := ParseSellers(""); err == nil {
		t.Error("empty list must fail")
	}
}
