package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCouponScopeUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantAll bool
		titles  []string
		wantErr bool
	}{
		{
			name:    "literal all",
			input:   `"all"`,
			wantAll: true,
		},
		{
			name:   "explicit list",
			input:  `["Focus Planner","Habit Tracker"]`,
			titles: []string{"Focus Planner", "Habit Tracker"},
		},
		{
			name:    "missing value",
			input:   `null`,
			wantAll: true,
		},
		{
			name:    "unknown literal",
			input:   `"some"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s CouponScope
			err := json.Unmarshal([]byte(tt.input), &s)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal %s: %v", tt.input, err)
			}
			if s.All != tt.wantAll {
				t.Fatalf("All = %v, want %v", s.All, tt.wantAll)
			}
			if len(s.Titles) != len(tt.titles) {
				t.Fatalf("Titles = %v, want %v", s.Titles, tt.titles)
			}
		})
	}
}

func TestCouponScopeAllows(t *testing.T) {
	all := CouponScope{All: true}
	if !all.Allows("Anything") {
		t.Fatalf("scope \"all\" must allow every product")
	}

	limited := CouponScope{Titles: []string{"Focus Planner"}}
	if !limited.Allows("Focus Planner") {
		t.Fatalf("listed product must be allowed")
	}
	if limited.Allows("Habit Tracker") {
		t.Fatalf("unlisted product must not be allowed")
	}
}

func TestExpiryDateFormats(t *testing.T) {
	var d ExpiryDate
	if err := json.Unmarshal([]byte(`"2026-01-31"`), &d); err != nil {
		t.Fatalf("date-only format: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.January || d.Day() != 31 {
		t.Fatalf("unexpected date: %v", d.Time)
	}

	if err := json.Unmarshal([]byte(`"2026-01-31T10:00:00Z"`), &d); err != nil {
		t.Fatalf("RFC3339 format: %v", err)
	}

	if err := json.Unmarshal([]byte(`"31/01/2026"`), &d); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestCouponUnmarshal(t *testing.T) {
	raw := `{
		"code": "SAVE20",
		"active": true,
		"expires": "2026-12-31",
		"min_amount": 100,
		"products": "all",
		"type": "percentage",
		"value": 20,
		"creator": "asha",
		"commission_percent": 10
	}`

	var c Coupon
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal coupon: %v", err)
	}
	if c.Code != "SAVE20" || !c.Active || c.MinAmount != 100 {
		t.Fatalf("unexpected coupon: %+v", c)
	}
	if c.Expires == nil || c.Expires.IsZero() {
		t.Fatalf("expires must be parsed")
	}
	if !c.Products.All {
		t.Fatalf("products scope must be all")
	}
}

func TestNewOrderDraftFreezesPrice(t *testing.T) {
	p := Product{ID: "p1", Title: "Focus Planner", Price: 500}
	d := NewOrderDraft(p)

	p.Price = 9000

	if d.BaseAmount != 500 || d.FinalAmount != 500 {
		t.Fatalf("draft amounts must be frozen at selection time: %+v", d)
	}
	if d.AppliedCouponCode != "" || d.Attribution != nil {
		t.Fatalf("new draft must start without a coupon: %+v", d)
	}
}
