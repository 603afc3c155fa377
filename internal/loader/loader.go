// Package loader загружает статические данные каталога и купонов.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/devabrarkhan/improve-together/internal/model"
)

// Имена файлов данных относительно базового адреса.
const (
	ProductsFile = "products.json"
	CouponsFile  = "coupons.json"
)

// ErrLoad возвращается при любой ошибке получения или разбора данных.
var ErrLoad = errors.New("load data")

// Loader читает файлы данных из каталога файловой системы либо по HTTP,
// если базовый адрес начинается с http:// или https://.
type Loader struct {
	base       string
	httpClient *retryablehttp.Client
}

// New создаёт загрузчик данных для указанного базового адреса.
func New(base string) *Loader {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 5 * time.Second
	client.Logger = nil

	return &Loader{
		base:       strings.TrimRight(base, "/"),
		httpClient: client,
	}
}

type productsEnvelope struct {
	Products []model.Product `json:"products"`
}

type couponsEnvelope struct {
	Coupons []model.Coupon `json:"coupons"`
}

// Products загружает и разбирает каталог товаров.
func (l *Loader) Products(ctx context.Context) ([]model.Product, error) {
	data, err := l.fetch(ctx, ProductsFile)
	if err != nil {
		return nil, err
	}

	var envelope productsEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrLoad, ProductsFile, err)
	}

	return envelope.Products, nil
}

// Coupons загружает и разбирает список купонов.
func (l *Loader) Coupons(ctx context.Context) ([]model.Coupon, error) {
	data, err := l.fetch(ctx, CouponsFile)
	if err != nil {
		return nil, err
	}

	var envelope couponsEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrLoad, CouponsFile, err)
	}

	return envelope.Coupons, nil
}

func (l *Loader) fetch(ctx context.Context, name string) ([]byte, error) {
	if strings.HasPrefix(l.base, "http://") || strings.HasPrefix(l.base, "https://") {
		return l.fetchHTTP(ctx, name)
	}

	data, err := os.ReadFile(filepath.Join(l.base, name))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLoad, name, err)
	}
	return data, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, name string) ([]byte, error) {
	url := l.base + "/" + name

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrLoad, err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrLoad, name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: unexpected status %d", ErrLoad, name, resp.StatusCode)
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLoad, name, err)
	}
	return buf, nil
}
