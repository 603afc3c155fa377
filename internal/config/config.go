// Package config содержит логику чтения конфигурации витрины.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// DefaultCheckoutEndpoint — адрес внешнего сервиса приёма форм заказа.
const DefaultCheckoutEndpoint = "https://api.web3forms.com/submit"

// Config содержит параметры конфигурации витрины. SiteBase вычисляется
// один раз и передаётся всем компонентам, работающим с путями ресурсов.
type Config struct {
	RunAddress       string `env:"RUN_ADDRESS"`
	DataBase         string `env:"DATA_BASE"`
	CheckoutEndpoint string `env:"CHECKOUT_ENDPOINT"`

	SiteBase      string `env:"SITE_BASE" envDefault:"/"`
	AccessKey     string `env:"ACCESS_KEY"`
	PayeeVPA      string `env:"PAYEE_VPA" envDefault:"improvet@ptaxis"`
	PayeeName     string `env:"PAYEE_NAME" envDefault:"ImproveTogether"`
	SessionSecret string `env:"SESSION_SECRET"`

	DebounceMS     int `env:"DEBOUNCE_MS" envDefault:"300"`
	LazyMarginPx   int `env:"LAZY_MARGIN_PX" envDefault:"50"`
	DragMultiplier int `env:"DRAG_MULTIPLIER" envDefault:"2"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDataBase := cfg.DataBase
	envCheckoutEndpoint := cfg.CheckoutEndpoint

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DataBase, "d", "data", "directory or base URL with products.json and coupons.json")
	flag.StringVar(&cfg.CheckoutEndpoint, "c", DefaultCheckoutEndpoint, "checkout form submission endpoint")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDataBase != "" {
		cfg.DataBase = envDataBase
	}
	if envCheckoutEndpoint != "" {
		cfg.CheckoutEndpoint = envCheckoutEndpoint
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.SiteBase == "" {
		cfg.SiteBase = "/"
	}

	return cfg, nil
}
