package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		runAddress       string
		dataBase         string
		checkoutEndpoint string
		siteBase         string
		debounceMS       int
		lazyMarginPx     int
		dragMultiplier   int
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				runAddress:       "localhost:8080",
				dataBase:         "data",
				checkoutEndpoint: DefaultCheckoutEndpoint,
				siteBase:         "/",
				debounceMS:       300,
				lazyMarginPx:     50,
				dragMultiplier:   2,
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"RUN_ADDRESS":       "localhost:9999",
				"DATA_BASE":         "http://localhost:5500/data",
				"CHECKOUT_ENDPOINT": "http://localhost:7070/submit",
				"SITE_BASE":         "/site/",
				"DEBOUNCE_MS":       "150",
			},
			flags: []string{},
			want: want{
				runAddress:       "localhost:9999",
				dataBase:         "http://localhost:5500/data",
				checkoutEndpoint: "http://localhost:7070/submit",
				siteBase:         "/site/",
				debounceMS:       150,
				lazyMarginPx:     50,
				dragMultiplier:   2,
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "localhost:7777",
				"-d", "/var/lib/storefront/data",
				"-c", "http://forms.local/submit",
			},
			want: want{
				runAddress:       "localhost:7777",
				dataBase:         "/var/lib/storefront/data",
				checkoutEndpoint: "http://forms.local/submit",
				siteBase:         "/",
				debounceMS:       300,
				lazyMarginPx:     50,
				dragMultiplier:   2,
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"RUN_ADDRESS":       "env:9000",
				"DATA_BASE":         "http://env-host/data",
				"CHECKOUT_ENDPOINT": "http://env-host/submit",
			},
			flags: []string{
				"-a", "flag:8000",
				"-d", "flagdata",
				"-c", "http://flag-host/submit",
			},
			want: want{
				runAddress:       "env:9000",
				dataBase:         "http://env-host/data",
				checkoutEndpoint: "http://env-host/submit",
				siteBase:         "/",
				debounceMS:       300,
				lazyMarginPx:     50,
				dragMultiplier:   2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.runAddress, cfg.RunAddress)
			assert.Equal(t, tt.want.dataBase, cfg.DataBase)
			assert.Equal(t, tt.want.checkoutEndpoint, cfg.CheckoutEndpoint)
			assert.Equal(t, tt.want.siteBase, cfg.SiteBase)
			assert.Equal(t, tt.want.debounceMS, cfg.DebounceMS)
			assert.Equal(t, tt.want.lazyMarginPx, cfg.LazyMarginPx)
			assert.Equal(t, tt.want.dragMultiplier, cfg.DragMultiplier)
		})
	}
}
