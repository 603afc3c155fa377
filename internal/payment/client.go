// Package payment отправляет заказ во внешний сервис приёма форм и
// формирует платёжную UPI-ссылку.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/devabrarkhan/improve-together/internal/model"
)

// Ошибки отправки заказа.
var (
	// ErrConfig возвращается, если ключ доступа не задан. Проверяется до
	// любого сетевого обращения и не устраняется повторной попыткой.
	ErrConfig = errors.New("checkout form is not configured")
	// ErrSubmission возвращается при сетевой ошибке или отказе сервиса форм.
	// Пользователь может повторить отправку.
	ErrSubmission = errors.New("order submission failed")
)

// Order содержит поля заказа, отправляемые в сервис форм.
type Order struct {
	ProductTitle string
	Amount       int64
	CouponCode   string
	Attribution  *model.Attribution
}

// Client инкапсулирует HTTP-взаимодействие с сервисом приёма форм.
type Client struct {
	endpoint   string
	accessKey  string
	httpClient *http.Client
}

// NewClient создаёт клиент сервиса форм с указанным адресом и ключом доступа.
func NewClient(endpoint, accessKey string) *Client {
	return &Client{
		endpoint:  endpoint,
		accessKey: accessKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit отправляет заказ одним multipart-запросом. Автоматических
// повторов нет: неуспех возвращается пользователю на повторную попытку.
func (c *Client) Submit(ctx context.Context, order Order) error {
	if c.accessKey == "" {
		return ErrConfig
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	fields := map[string]string{
		"access_key": c.accessKey,
		"product":    order.ProductTitle,
		"amount":     strconv.FormatInt(order.Amount, 10),
		"coupon":     order.CouponCode,
	}
	if order.Attribution != nil {
		fields["creator"] = order.Attribution.Creator
		fields["commission_percent"] = strconv.FormatFloat(order.Attribution.CommissionPercent, 'f', -1, 64)
	}

	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return fmt.Errorf("write form field %s: %w", name, err)
		}
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrSubmission, resp.StatusCode)
	}

	var result submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrSubmission, err)
	}
	if !result.Success {
		return fmt.Errorf("%w: endpoint rejected the order", ErrSubmission)
	}

	return nil
}

// Payee содержит реквизиты получателя платежа.
type Payee struct {
	VPA  string
	Name string
}

// UPILink строит платёжную ссылку с суммой и названием товара.
// Имя получателя и примечание кодируются по правилам URL; порядок
// параметров фиксирован контрактом платёжных приложений.
func UPILink(p Payee, amount int64, note string) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%d&cu=INR&tn=%s",
		p.VPA,
		url.QueryEscape(p.Name),
		amount,
		url.QueryEscape(note),
	)
}
