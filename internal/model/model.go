// Package model содержит доменные сущности витрины Improve.Together.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Product описывает позицию каталога. Набор товаров неизменяем в течение
// сессии и целиком заменяется при перезагрузке данных.
type Product struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Price    int64  `json:"price"`
	Featured bool   `json:"featured"`
}

// CouponScope описывает область действия купона: либо все товары,
// либо явный список названий.
type CouponScope struct {
	All    bool
	Titles []string
}

// UnmarshalJSON принимает строку "all" или массив названий товаров.
func (s *CouponScope) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		s.All = true
		s.Titles = nil
		return nil
	}

	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		if v != "all" {
			return fmt.Errorf("unknown coupon scope %q", v)
		}
		s.All = true
		s.Titles = nil
		return nil
	}

	var titles []string
	if err := json.Unmarshal(data, &titles); err != nil {
		return err
	}
	s.All = false
	s.Titles = titles
	return nil
}

// Allows сообщает, распространяется ли купон на товар с указанным названием.
func (s CouponScope) Allows(title string) bool {
	if s.All {
		return true
	}
	for _, t := range s.Titles {
		if t == title {
			return true
		}
	}
	return false
}

// ExpiryDate принимает дату в формате RFC3339 либо YYYY-MM-DD.
type ExpiryDate struct {
	time.Time
}

// UnmarshalJSON разбирает дату истечения купона; пустая строка означает
// бессрочный купон.
func (d *ExpiryDate) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return fmt.Errorf("parse expiry date %q: %w", v, err)
	}
	d.Time = t
	return nil
}

// Coupon описывает правило скидки с ограничениями применимости.
type Coupon struct {
	Code              string      `json:"code"`
	Active            bool        `json:"active"`
	Expires           *ExpiryDate `json:"expires,omitempty"`
	MinAmount         int64       `json:"min_amount,omitempty"`
	Products          CouponScope `json:"products"`
	Type              string      `json:"type"`
	Value             float64     `json:"value"`
	Creator           string      `json:"creator,omitempty"`
	CommissionPercent float64     `json:"commission_percent,omitempty"`
}

// Типы купонов, известные движку ценообразования.
const (
	CouponTypePercentage = "percentage"
	CouponTypeFlat       = "flat"
)

// Attribution содержит реквизиты автора купона, передаваемые в форму заказа.
type Attribution struct {
	Creator           string
	CommissionPercent float64
}

// OrderDraft хранит состояние оформления заказа для открытой карточки товара.
// BaseAmount фиксируется в момент выбора товара и далее не пересчитывается.
type OrderDraft struct {
	ProductTitle      string
	BaseAmount        int64
	AppliedCouponCode string
	FinalAmount       int64
	Attribution       *Attribution
}

// NewOrderDraft создаёт черновик заказа для выбранного товара.
func NewOrderDraft(p Product) OrderDraft {
	return OrderDraft{
		ProductTitle: p.Title,
		BaseAmount:   p.Price,
		FinalAmount:  p.Price,
	}
}

// ModalView содержит данные для наполнения модального окна товара.
type ModalView struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle"`
	Image          string `json:"image"`
	BaseAmount     int64  `json:"baseAmount"`
	OriginalAmount int64  `json:"originalAmount"`
	FinalAmount    int64  `json:"finalAmount"`
}

// UIConfig содержит настройки клиентского поведения, вычисляемые один раз
// при запуске и отдаваемые разметке как единый источник значений.
type UIConfig struct {
	SiteBase       string `json:"siteBase"`
	DebounceMS     int    `json:"debounceMs"`
	LazyMarginPx   int    `json:"lazyMarginPx"`
	DragMultiplier int    `json:"dragMultiplier"`
}
