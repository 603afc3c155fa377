package render

import (
	"strings"
	"testing"

	"github.com/devabrarkhan/improve-together/internal/model"
)

func testProducts() []model.Product {
	return []model.Product{
		{ID: "p1", Title: "Focus Planner", Subtitle: "Daily planning kit", Category: "Productivity", Image: "assets/img/planner.webp", Price: 499, Featured: true},
		{ID: "p2", Title: "Habit Tracker", Subtitle: "30-day tracker", Category: "Habits", Image: "assets/img/tracker.webp", Price: 299},
	}
}

func TestCardsPreserveOrderAndAssociation(t *testing.T) {
	r := New("/", 50, 2)

	out, err := r.Cards(testProducts())
	if err != nil {
		t.Fatalf("Cards error: %v", err)
	}

	first := strings.Index(out, `data-product-id="p1"`)
	second := strings.Index(out, `data-product-id="p2"`)
	if first == -1 || second == -1 {
		t.Fatalf("cards must carry product ids:\n%s", out)
	}
	if first > second {
		t.Fatalf("card order must follow input order")
	}
}

func TestCardsLazyImages(t *testing.T) {
	r := New("/", 50, 2)

	out, err := r.Cards(testProducts())
	if err != nil {
		t.Fatalf("Cards error: %v", err)
	}

	if !strings.Contains(out, `data-src="/assets/img/planner.webp"`) {
		t.Fatalf("grid images must use data-src for lazy loading:\n%s", out)
	}
	if !strings.Contains(out, `class="lazy-load"`) {
		t.Fatalf("grid images must carry the lazy-load class")
	}
	if !strings.Contains(out, `data-lazy-margin="50"`) {
		t.Fatalf("grid must export the configured lazy margin")
	}
}

func TestCardsEmptyPlaceholder(t *testing.T) {
	r := New("/", 50, 2)

	out, err := r.Cards(nil)
	if err != nil {
		t.Fatalf("Cards error: %v", err)
	}
	if !strings.Contains(out, "No resources match your search criteria.") {
		t.Fatalf("empty input must render the no-matches placeholder:\n%s", out)
	}
	if strings.Contains(out, "card-wrapper") {
		t.Fatalf("placeholder must not contain cards")
	}
}

func TestCardsEscapeProductFields(t *testing.T) {
	r := New("/", 50, 2)

	out, err := r.Cards([]model.Product{
		{ID: "x", Title: `<script>alert(1)</script>`, Subtitle: "s", Category: "c", Image: "i.webp"},
	})
	if err != nil {
		t.Fatalf("Cards error: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("product fields must be escaped:\n%s", out)
	}
}

func TestFeaturedEagerAndFiltered(t *testing.T) {
	r := New("/", 50, 2)

	out, err := r.Featured(testProducts())
	if err != nil {
		t.Fatalf("Featured error: %v", err)
	}

	if !strings.Contains(out, `data-product-id="p1"`) {
		t.Fatalf("featured product missing:\n%s", out)
	}
	if strings.Contains(out, `data-product-id="p2"`) {
		t.Fatalf("non-featured product must be excluded")
	}
	if !strings.Contains(out, `src="/assets/img/planner.webp"`) || strings.Contains(out, "data-src") {
		t.Fatalf("featured images must load eagerly:\n%s", out)
	}
	if !strings.Contains(out, `data-drag-multiplier="2"`) {
		t.Fatalf("featured strip must export the drag multiplier")
	}
}

func TestFeaturedSkippedWhenEmpty(t *testing.T) {
	r := New("/", 50, 2)

	out, err := r.Featured([]model.Product{{ID: "p2", Title: "Habit Tracker"}})
	if err != nil {
		t.Fatalf("Featured error: %v", err)
	}
	if out != "" {
		t.Fatalf("featured strip must be skipped entirely with zero matches, got:\n%s", out)
	}
}

func TestImagePathSiteBase(t *testing.T) {
	tests := []struct {
		name     string
		siteBase string
		rel      string
		want     string
	}{
		{name: "root", siteBase: "/", rel: "assets/img/a.webp", want: "/assets/img/a.webp"},
		{name: "nested", siteBase: "/site/", rel: "assets/img/a.webp", want: "/site/assets/img/a.webp"},
		{name: "no trailing slash", siteBase: "/site", rel: "assets/img/a.webp", want: "/site/assets/img/a.webp"},
		{name: "leading slash on asset", siteBase: "/", rel: "/assets/a.webp", want: "/assets/a.webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.siteBase, 50, 2)
			if got := r.ImagePath(tt.rel); got != tt.want {
				t.Fatalf("ImagePath(%q) = %q, want %q", tt.rel, got, tt.want)
			}
		})
	}
}

func TestUnavailablePlaceholder(t *testing.T) {
	r := New("/", 50, 2)
	if !strings.Contains(r.Unavailable(), "Unable to load resources") {
		t.Fatalf("unexpected placeholder: %s", r.Unavailable())
	}
}
