package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/devabrarkhan/improve-together/internal/model"
)

func TestSubmit_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("access_key"); got != "key-123" {
			t.Fatalf("access_key = %q", got)
		}
		if got := r.FormValue("product"); got != "Focus Planner" {
			t.Fatalf("product = %q", got)
		}
		if got := r.FormValue("amount"); got != "200" {
			t.Fatalf("amount = %q", got)
		}
		if got := r.FormValue("coupon"); got != "SAVE20" {
			t.Fatalf("coupon = %q", got)
		}
		if got := r.FormValue("creator"); got != "asha" {
			t.Fatalf("creator = %q", got)
		}
		if got := r.FormValue("commission_percent"); got != "15" {
			t.Fatalf("commission_percent = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "key-123")

	err := c.Submit(context.Background(), Order{
		ProductTitle: "Focus Planner",
		Amount:       200,
		CouponCode:   "SAVE20",
		Attribution:  &model.Attribution{Creator: "asha", CommissionPercent: 15},
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
}

func TestSubmit_MissingAccessKeySkipsNetwork(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "")

	err := c.Submit(context.Background(), Order{ProductTitle: "Focus Planner", Amount: 100})
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
	if requests.Load() != 0 {
		t.Fatalf("missing access key must not issue a network request")
	}
}

func TestSubmit_FailurePaths(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
		},
		{
			name: "success false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success": false, "message": "rejected"}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			c := NewClient(ts.URL, "key-123")

			err := c.Submit(context.Background(), Order{ProductTitle: "Focus Planner", Amount: 100})
			if !errors.Is(err, ErrSubmission) {
				t.Fatalf("err = %v, want ErrSubmission", err)
			}
		})
	}
}

func TestSubmit_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	c := NewClient(ts.URL, "key-123")

	err := c.Submit(context.Background(), Order{ProductTitle: "Focus Planner", Amount: 100})
	if !errors.Is(err, ErrSubmission) {
		t.Fatalf("err = %v, want ErrSubmission", err)
	}
}

func TestUPILink(t *testing.T) {
	p := Payee{VPA: "improvet@ptaxis", Name: "ImproveTogether"}

	got := UPILink(p, 200, "Focus Planner")
	want := "upi://pay?pa=improvet@ptaxis&pn=ImproveTogether&am=200&cu=INR&tn=Focus+Planner"
	if got != want {
		t.Fatalf("UPILink = %q, want %q", got, want)
	}

	if !strings.HasPrefix(got, "upi://pay?pa=") {
		t.Fatalf("link must start with the upi scheme")
	}
}

func TestUPILinkEncodesVariableFields(t *testing.T) {
	p := Payee{VPA: "improvet@ptaxis", Name: "Improve & Together"}

	got := UPILink(p, 499, "Deep Work Guide (PDF)")
	if !strings.Contains(got, "pn=Improve+%26+Together") {
		t.Fatalf("payee name must be percent-encoded: %q", got)
	}
	if !strings.Contains(got, "tn=Deep+Work+Guide+%28PDF%29") {
		t.Fatalf("note must be percent-encoded: %q", got)
	}
}
