// Package service реализует бизнес-логику витрины.
package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/devabrarkhan/improve-together/internal/catalog"
	"github.com/devabrarkhan/improve-together/internal/debounce"
	"github.com/devabrarkhan/improve-together/internal/modal"
	"github.com/devabrarkhan/improve-together/internal/model"
	"github.com/devabrarkhan/improve-together/internal/payment"
	"github.com/devabrarkhan/improve-together/internal/pricing"
	"github.com/devabrarkhan/improve-together/internal/render"
	"github.com/devabrarkhan/improve-together/internal/session"
)

// Loader описывает контракт загрузки данных, используемый сервисом.
type Loader interface {
	Products(ctx context.Context) ([]model.Product, error)
	Coupons(ctx context.Context) ([]model.Coupon, error)
}

// Submitter описывает контракт отправки заказа во внешний сервис форм.
type Submitter interface {
	Submit(ctx context.Context, order payment.Order) error
}

// Ошибки бизнес-логики.
var (
	// ErrCatalogUnavailable возвращается, пока каталог не загружен.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrProductNotFound возвращается для неизвестного идентификатора товара.
	ErrProductNotFound = errors.New("product not found")
	// ErrNoDraft возвращается, если операция требует открытого черновика заказа.
	ErrNoDraft = errors.New("no order draft")
	// ErrSubmitInFlight возвращается при повторной отправке во время текущей.
	ErrSubmitInFlight = errors.New("submission already in progress")
)

// Коэффициент зачёркнутой «исходной» цены в модальном окне.
const originalPriceFactor = 1.3

// Service содержит бизнес-логику витрины.
type Service struct {
	loader    Loader
	submitter Submitter
	store     *catalog.Store
	renderer  *render.Renderer
	payee     payment.Payee
	ui        model.UIConfig
	logger    *zap.Logger

	mu       sync.RWMutex
	vault    *pricing.Vault
	degraded bool

	reload *debounce.Debouncer
}

// New создаёт сервис витрины. До первой успешной загрузки каталог
// считается недоступным.
func New(loader Loader, submitter Submitter, renderer *render.Renderer, payee payment.Payee, ui model.UIConfig, logger *zap.Logger) *Service {
	s := &Service{
		loader:    loader,
		submitter: submitter,
		store:     catalog.NewStore(nil),
		renderer:  renderer,
		payee:     payee,
		ui:        ui,
		logger:    logger,
		vault:     pricing.NewVault(nil),
		degraded:  true,
	}

	wait := time.Duration(ui.DebounceMS) * time.Millisecond
	s.reload = debounce.New(wait, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.reloadNow(ctx)
	})

	return s
}

// Close останавливает отложенные перезагрузки.
func (s *Service) Close() {
	s.reload.Stop()
}

// Bootstrap выполняет первоначальную загрузку данных. Загрузка каталога
// повторяется с нарастающей задержкой: файловый хост может подниматься
// позже сервиса. Недоступный каталог не фатален — витрина стартует в
// деградированном режиме и показывает заглушку вместо решётки.
// Недоступные купоны деградируют молча до пустого набора.
func (s *Service) Bootstrap(ctx context.Context) error {
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(1*time.Second))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		products, err := s.loader.Products(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		s.store.Replace(products)
		s.setDegraded(false)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Error("catalog load failed", zap.Error(err))
	}

	s.loadCoupons(ctx)
	return nil
}

func (s *Service) loadCoupons(ctx context.Context) {
	coupons, err := s.loader.Coupons(ctx)
	if err != nil {
		s.logger.Warn("coupons unavailable", zap.Error(err))
		coupons = nil
	}

	s.mu.Lock()
	s.vault = pricing.NewVault(coupons)
	s.mu.Unlock()
}

func (s *Service) setDegraded(v bool) {
	s.mu.Lock()
	s.degraded = v
	s.mu.Unlock()
}

// Degraded сообщает, доступен ли каталог.
func (s *Service) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.degraded
}

func (s *Service) currentVault() *pricing.Vault {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.vault
}

// RequestReload планирует полную перезагрузку данных. Частые запросы
// подряд сворачиваются в одну перезагрузку после периода тишины.
func (s *Service) RequestReload() {
	s.reload.Trigger()
}

func (s *Service) reloadNow(ctx context.Context) {
	products, err := s.loader.Products(ctx)
	if err != nil {
		s.logger.Error("catalog reload failed", zap.Error(err))
		s.setDegraded(true)
	} else {
		s.store.Replace(products)
		s.setDegraded(false)
		s.logger.Info("catalog reloaded", zap.Int("products", s.store.Len()))
	}

	s.loadCoupons(ctx)
}

// Products возвращает отфильтрованный список товаров.
func (s *Service) Products(query, category string) ([]model.Product, error) {
	if s.Degraded() {
		return nil, ErrCatalogUnavailable
	}
	return s.store.Filter(query, category), nil
}

// ProductByID возвращает товар по идентификатору.
func (s *Service) ProductByID(id string) (model.Product, error) {
	if s.Degraded() {
		return model.Product{}, ErrCatalogUnavailable
	}
	p, ok := s.store.ByID(id)
	if !ok {
		return model.Product{}, ErrProductNotFound
	}
	return p, nil
}

// CardsFragment возвращает решётку карточек для текущего фильтра.
// При недоступном каталоге вместо решётки отдаётся видимая заглушка.
func (s *Service) CardsFragment(query, category string) (string, error) {
	if s.Degraded() {
		return s.renderer.Unavailable(), nil
	}
	return s.renderer.Cards(s.store.Filter(query, category))
}

// FeaturedFragment возвращает ленту избранных товаров; пустая строка
// означает, что лента пропускается.
func (s *Service) FeaturedFragment() (string, error) {
	if s.Degraded() {
		return "", nil
	}
	return s.renderer.Featured(s.store.All())
}

// UIConfig возвращает настройки клиентского поведения.
func (s *Service) UIConfig() model.UIConfig {
	return s.ui
}

// SelectProduct создаёт черновик заказа для товара, открывает карточку и
// возвращает данные для наполнения модального окна.
func (s *Service) SelectProduct(sess *session.Session, id string) (model.ModalView, error) {
	p, err := s.ProductByID(id)
	if err != nil {
		return model.ModalView{}, err
	}

	draft := sess.SelectProduct(p)

	return model.ModalView{
		ID:             p.ID,
		Title:          p.Title,
		Subtitle:       p.Subtitle,
		Image:          s.renderer.ImagePath(p.Image),
		BaseAmount:     draft.BaseAmount,
		OriginalAmount: int64(math.Round(float64(p.Price) * originalPriceFactor)),
		FinalAmount:    draft.FinalAmount,
	}, nil
}

// ApplyCoupon применяет купон к черновику заказа текущей сессии.
// Ошибки правил (*pricing.RuleError) возвращаются как есть для показа
// пользователю; черновик при этом не меняется.
func (s *Service) ApplyCoupon(sess *session.Session, code string) (model.OrderDraft, error) {
	draft, ok := sess.Draft()
	if !ok {
		return model.OrderDraft{}, ErrNoDraft
	}

	updated, err := s.currentVault().Apply(code, draft)
	if err != nil {
		return draft, err
	}

	sess.SetDraft(updated)
	return updated, nil
}

// Checkout отправляет черновик заказа во внешний сервис форм и возвращает
// платёжную UPI-ссылку. Повторная отправка во время текущей отклоняется.
func (s *Service) Checkout(ctx context.Context, sess *session.Session) (string, error) {
	draft, ok := sess.Draft()
	if !ok {
		return "", ErrNoDraft
	}

	if !sess.BeginSubmit() {
		return "", ErrSubmitInFlight
	}
	defer sess.EndSubmit()

	err := s.submitter.Submit(ctx, payment.Order{
		ProductTitle: draft.ProductTitle,
		Amount:       draft.FinalAmount,
		CouponCode:   draft.AppliedCouponCode,
		Attribution:  draft.Attribution,
	})
	if err != nil {
		return "", err
	}

	sess.MarkOrderPending()

	return payment.UPILink(s.payee, draft.FinalAmount, draft.ProductTitle), nil
}

// ModalState возвращает состояние модального слоя сессии, потребляя флаг
// ожидающего заказа при первом запросе в закрытом состоянии.
func (s *Service) ModalState(sess *session.Session) (modal.State, bool) {
	return sess.ModalState()
}

// CurrentState возвращает состояние модального слоя без побочных эффектов.
func (s *Service) CurrentState(sess *session.Session) (modal.State, bool) {
	return sess.CurrentState()
}

// CloseModal закрывает карточку товара.
func (s *Service) CloseModal(sess *session.Session) {
	sess.CloseProduct()
}

// CloseVerification закрывает уведомление о проверке заказа.
func (s *Service) CloseVerification(sess *session.Session) {
	sess.CloseVerification()
}

// EscapeModal обрабатывает клавишу Escape.
func (s *Service) EscapeModal(sess *session.Session) modal.State {
	return sess.Escape()
}
