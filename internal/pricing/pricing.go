// Package pricing реализует проверку купонов и расчёт итоговой суммы заказа.
package pricing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/devabrarkhan/improve-together/internal/model"
)

// RuleError описывает нарушение правила купона. Message показывается
// пользователю как есть, поэтому формулировки фиксированы.
type RuleError struct {
	Message string
}

// Error возвращает текст нарушенного правила.
func (e *RuleError) Error() string {
	return e.Message
}

// Ошибки правил в порядке проверки. Первое нарушенное правило выигрывает.
var (
	ErrInvalidCode     = &RuleError{Message: "Invalid coupon code"}
	ErrInactive        = &RuleError{Message: "Coupon is inactive"}
	ErrExpired         = &RuleError{Message: "Coupon expired"}
	ErrNotEligible     = &RuleError{Message: "Coupon not valid for this product"}
	ErrUnsupportedType = &RuleError{Message: "Unsupported coupon type"}
)

func minAmountError(min int64) *RuleError {
	return &RuleError{Message: fmt.Sprintf("Minimum order ₹%d required", min)}
}

// Vault хранит загруженный набор купонов с поиском по коду без учёта
// регистра. Набор неизменяем и целиком заменяется при перезагрузке данных.
type Vault struct {
	byCode map[string]model.Coupon
	now    func() time.Time
}

// NewVault строит хранилище купонов. При дублировании кода действует
// первый по порядку загрузки.
func NewVault(coupons []model.Coupon) *Vault {
	byCode := make(map[string]model.Coupon, len(coupons))
	for _, c := range coupons {
		key := strings.ToUpper(c.Code)
		if _, ok := byCode[key]; !ok {
			byCode[key] = c
		}
	}
	return &Vault{
		byCode: byCode,
		now:    time.Now,
	}
}

// Len возвращает количество загруженных купонов.
func (v *Vault) Len() int {
	return len(v.byCode)
}

// Apply проверяет купон и пересчитывает итоговую сумму черновика.
// Правила проверяются по порядку с коротким замыканием; при нарушении
// черновик возвращается без изменений. Успешное применение всегда
// пересчитывает сумму от BaseAmount: купоны не суммируются.
func (v *Vault) Apply(code string, draft model.OrderDraft) (model.OrderDraft, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	c, ok := v.byCode[normalized]
	if !ok {
		return draft, ErrInvalidCode
	}

	if !c.Active {
		return draft, ErrInactive
	}

	if c.Expires != nil && !c.Expires.IsZero() && c.Expires.Before(v.now()) {
		return draft, ErrExpired
	}

	if c.MinAmount > 0 && draft.BaseAmount < c.MinAmount {
		return draft, minAmountError(c.MinAmount)
	}

	if !c.Products.Allows(draft.ProductTitle) {
		return draft, ErrNotEligible
	}

	var final int64
	switch c.Type {
	case model.CouponTypePercentage:
		// Округление половины от нуля.
		final = int64(math.Round(float64(draft.BaseAmount) - float64(draft.BaseAmount)*c.Value/100))
	case model.CouponTypeFlat:
		final = draft.BaseAmount - int64(math.Round(c.Value))
		if final < 0 {
			final = 0
		}
	default:
		return draft, ErrUnsupportedType
	}

	draft.AppliedCouponCode = c.Code
	draft.FinalAmount = final
	if c.Creator != "" {
		draft.Attribution = &model.Attribution{
			Creator:           c.Creator,
			CommissionPercent: c.CommissionPercent,
		}
	} else {
		draft.Attribution = nil
	}

	return draft, nil
}
