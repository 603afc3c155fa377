// Package render формирует HTML-фрагменты карточек каталога.
//
// Фрагменты целиком заменяют содержимое соответствующих контейнеров,
// поэтому «очистка предыдущего вывода» получается сама собой. Контракт
// классов и data-атрибутов (card, card-wrapper, lazy-load, data-product-id)
// закреплён за внешним слоем разметки.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/devabrarkhan/improve-together/internal/model"
)

const cardsTemplate = `{{- if not .Products -}}
<div class="grid-empty">
    <p>No resources match your search criteria.</p>
</div>
{{- else -}}
<div class="grid-cards" data-lazy-margin="{{ .LazyMarginPx }}">
{{- range .Products }}
    <div class="card-wrapper">
        <div class="card" data-product-id="{{ .ID }}">
            <div class="card-inner">
                <div class="card-image-container">
                    <img data-src="{{ .ImagePath }}" alt="{{ .Title }}" class="lazy-load">
                </div>
                <span class="card-tag">{{ .Category }}</span>
                <h3 class="card-title">{{ .Title }}</h3>
                <p class="card-desc">{{ .Subtitle }}</p>
            </div>
        </div>
    </div>
{{- end }}
</div>
{{- end -}}`

const featuredTemplate = `<div class="featured-cards" data-drag-multiplier="{{ .DragMultiplier }}">
{{- range .Products }}
    <div class="card-wrapper">
        <div class="card" data-product-id="{{ .ID }}">
            <div class="card-inner">
                <div class="card-image-container">
                    <img src="{{ .ImagePath }}" alt="{{ .Title }}">
                </div>
                <span class="card-tag">{{ .Category }}</span>
                <h3 class="card-title">{{ .Title }}</h3>
                <p class="card-desc">{{ .Subtitle }}</p>
            </div>
        </div>
    </div>
{{- end }}
</div>`

const unavailableFragment = `<div class="grid-empty">
    <p>Unable to load resources. Please try again later.</p>
</div>`

// Renderer превращает список товаров в HTML-фрагменты. Пути изображений
// разрешаются относительно siteBase, вычисленного один раз при запуске.
type Renderer struct {
	siteBase       string
	lazyMarginPx   int
	dragMultiplier int
	cards          *template.Template
	featured       *template.Template
}

// New создаёт Renderer с указанной базой сайта и настройками клиентского
// поведения.
func New(siteBase string, lazyMarginPx, dragMultiplier int) *Renderer {
	return &Renderer{
		siteBase:       siteBase,
		lazyMarginPx:   lazyMarginPx,
		dragMultiplier: dragMultiplier,
		cards:          template.Must(template.New("cards").Parse(cardsTemplate)),
		featured:       template.Must(template.New("featured").Parse(featuredTemplate)),
	}
}

type cardView struct {
	ID        string
	Title     string
	Subtitle  string
	Category  string
	ImagePath string
}

// ImagePath разрешает относительный путь изображения против базы сайта.
func (r *Renderer) ImagePath(rel string) string {
	base := r.siteBase
	if base == "" {
		base = "/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + strings.TrimPrefix(rel, "/")
}

func (r *Renderer) cardViews(products []model.Product) []cardView {
	views := make([]cardView, 0, len(products))
	for _, p := range products {
		views = append(views, cardView{
			ID:        p.ID,
			Title:     p.Title,
			Subtitle:  p.Subtitle,
			Category:  p.Category,
			ImagePath: r.ImagePath(p.Image),
		})
	}
	return views
}

// Cards рендерит решётку карточек. Пустой вход даёт заглушку
// «ничего не найдено», порядок товаров сохраняется.
func (r *Renderer) Cards(products []model.Product) (string, error) {
	var sb strings.Builder
	err := r.cards.Execute(&sb, struct {
		Products     []cardView
		LazyMarginPx int
	}{
		Products:     r.cardViews(products),
		LazyMarginPx: r.lazyMarginPx,
	})
	if err != nil {
		return "", fmt.Errorf("render cards: %w", err)
	}
	return sb.String(), nil
}

// Featured рендерит горизонтальную ленту избранных товаров. Отбор по
// признаку featured выполняется здесь; при нуле совпадений лента
// пропускается целиком (пустой фрагмент). Изображения загружаются сразу.
func (r *Renderer) Featured(products []model.Product) (string, error) {
	var featured []model.Product
	for _, p := range products {
		if p.Featured {
			featured = append(featured, p)
		}
	}

	if len(featured) == 0 {
		return "", nil
	}

	var sb strings.Builder
	err := r.featured.Execute(&sb, struct {
		Products       []cardView
		DragMultiplier int
	}{
		Products:       r.cardViews(featured),
		DragMultiplier: r.dragMultiplier,
	})
	if err != nil {
		return "", fmt.Errorf("render featured: %w", err)
	}
	return sb.String(), nil
}

// Unavailable возвращает заглушку, показываемую вместо решётки
// при недоступном каталоге.
func (r *Renderer) Unavailable() string {
	return unavailableFragment
}
