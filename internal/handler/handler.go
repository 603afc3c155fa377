// Package handler содержит HTTP-обработчики API витрины.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/devabrarkhan/improve-together/internal/modal"
	"github.com/devabrarkhan/improve-together/internal/model"
	"github.com/devabrarkhan/improve-together/internal/payment"
	"github.com/devabrarkhan/improve-together/internal/pricing"
	"github.com/devabrarkhan/improve-together/internal/service"
	"github.com/devabrarkhan/improve-together/internal/session"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Products(query, category string) ([]model.Product, error)
	ProductByID(id string) (model.Product, error)
	CardsFragment(query, category string) (string, error)
	FeaturedFragment() (string, error)
	UIConfig() model.UIConfig
	SelectProduct(sess *session.Session, id string) (model.ModalView, error)
	ApplyCoupon(sess *session.Session, code string) (model.OrderDraft, error)
	Checkout(ctx context.Context, sess *session.Session) (string, error)
	ModalState(sess *session.Session) (modal.State, bool)
	CurrentState(sess *session.Session) (modal.State, bool)
	CloseModal(sess *session.Session)
	CloseVerification(sess *session.Session)
	EscapeModal(sess *session.Session) modal.State
}

// Handler реализует HTTP-обработчики API витрины.
type Handler struct {
	service  Service
	logger   *zap.Logger
	sessions *session.Manager
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, sessions *session.Manager) *Handler {
	return &Handler{
		service:  s,
		logger:   logger,
		sessions: sessions,
	}
}

// Сообщения об ошибках, показываемые пользователю в форме заказа.
const (
	msgConfigError     = "Form configuration error."
	msgSubmissionError = "Something went wrong. Please try again."
)

type errorResponse struct {
	OK      bool   `json:"ok"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write response error", zap.Error(err))
	}
}

func (h *Handler) writeFragment(w http.ResponseWriter, fragment string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(fragment)); err != nil {
		h.logger.Error("write fragment error", zap.Error(err))
	}
}

func (h *Handler) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		h.logger.Error("session missing in request context")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

// GetProducts возвращает отфильтрованный список товаров.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Products(r.URL.Query().Get("q"), r.URL.Query().Get("category"))
	if err != nil {
		if errors.Is(err, service.ErrCatalogUnavailable) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		h.logger.Error("get products error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, products)
}

// GetProduct возвращает товар по идентификатору.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.service.ProductByID(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		case errors.Is(err, service.ErrCatalogUnavailable):
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		default:
			h.logger.Error("get product error", zap.Error(err), zap.String("id", id))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, p)
}

// GetCardsFragment возвращает HTML-фрагмент решётки карточек. При
// недоступном каталоге фрагмент содержит видимую заглушку, статус при
// этом остаётся 200: разметка вставляется в страницу как есть.
func (h *Handler) GetCardsFragment(w http.ResponseWriter, r *http.Request) {
	fragment, err := h.service.CardsFragment(r.URL.Query().Get("q"), r.URL.Query().Get("category"))
	if err != nil {
		h.logger.Error("render cards error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeFragment(w, fragment)
}

// GetFeaturedFragment возвращает HTML-фрагмент ленты избранных товаров.
// Пустое тело означает, что лента не показывается.
func (h *Handler) GetFeaturedFragment(w http.ResponseWriter, r *http.Request) {
	fragment, err := h.service.FeaturedFragment()
	if err != nil {
		h.logger.Error("render featured error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeFragment(w, fragment)
}

// GetUIConfig возвращает настройки клиентского поведения.
func (h *Handler) GetUIConfig(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.UIConfig())
}

type selectRequest struct {
	ID string `json:"id"`
}

// SelectProduct открывает карточку товара и возвращает данные для
// наполнения модального окна.
func (h *Handler) SelectProduct(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	view, err := h.service.SelectProduct(sess, req.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		case errors.Is(err, service.ErrCatalogUnavailable):
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		default:
			h.logger.Error("select product error", zap.Error(err), zap.String("id", req.ID))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

type couponRequest struct {
	Code string `json:"code"`
}

type couponResponse struct {
	OK          bool   `json:"ok"`
	Message     string `json:"message,omitempty"`
	Code        string `json:"code,omitempty"`
	BaseAmount  int64  `json:"baseAmount"`
	FinalAmount int64  `json:"finalAmount"`
}

// ApplyCoupon применяет купон к черновику заказа. Нарушение правила купона
// не является ошибкой транспорта: ответ остаётся 200, сообщение правила
// показывается пользователю, цены соответствуют неизменённому черновику.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req couponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	draft, err := h.service.ApplyCoupon(sess, req.Code)
	if err != nil {
		var ruleErr *pricing.RuleError
		switch {
		case errors.As(err, &ruleErr):
			h.writeJSON(w, http.StatusOK, couponResponse{
				OK:          false,
				Message:     ruleErr.Message,
				Code:        draft.AppliedCouponCode,
				BaseAmount:  draft.BaseAmount,
				FinalAmount: draft.FinalAmount,
			})
		case errors.Is(err, service.ErrNoDraft):
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
		default:
			h.logger.Error("apply coupon error", zap.Error(err), zap.String("code", req.Code))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, couponResponse{
		OK:          true,
		Code:        draft.AppliedCouponCode,
		BaseAmount:  draft.BaseAmount,
		FinalAmount: draft.FinalAmount,
	})
}

type checkoutResponse struct {
	OK      bool   `json:"ok"`
	UPILink string `json:"upiLink"`
}

// Checkout отправляет заказ во внешний сервис форм и возвращает UPI-ссылку
// для оплаты. Ошибки конфигурации и отправки различаются: первая указывает
// на проблему развёртывания, вторая — на сбой внешнего сервиса.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	link, err := h.service.Checkout(r.Context(), sess)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoDraft), errors.Is(err, service.ErrSubmitInFlight):
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
		case errors.Is(err, payment.ErrConfig):
			h.logger.Error("checkout config error", zap.Error(err))
			h.writeJSON(w, http.StatusInternalServerError, errorResponse{Kind: "config", Message: msgConfigError})
		case errors.Is(err, payment.ErrSubmission):
			h.logger.Error("checkout submission error", zap.Error(err))
			h.writeJSON(w, http.StatusBadGateway, errorResponse{Kind: "submission", Message: msgSubmissionError})
		default:
			h.logger.Error("checkout error", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, checkoutResponse{OK: true, UPILink: link})
}

type modalStateResponse struct {
	State        string `json:"state"`
	ScrollLocked bool   `json:"scrollLocked"`
}

// GetModalState возвращает состояние модального слоя сессии. Первый запрос
// в закрытом состоянии после успешной отправки заказа переводит слой в
// уведомление о проверке.
func (h *Handler) GetModalState(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	state, locked := h.service.ModalState(sess)
	h.writeJSON(w, http.StatusOK, modalStateResponse{State: state.String(), ScrollLocked: locked})
}

// CloseModal закрывает карточку товара и отбрасывает черновик заказа.
func (h *Handler) CloseModal(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	h.service.CloseModal(sess)

	state, locked := h.service.CurrentState(sess)
	h.writeJSON(w, http.StatusOK, modalStateResponse{State: state.String(), ScrollLocked: locked})
}

// CloseVerification закрывает уведомление о проверке заказа.
func (h *Handler) CloseVerification(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	h.service.CloseVerification(sess)

	state, locked := h.service.CurrentState(sess)
	h.writeJSON(w, http.StatusOK, modalStateResponse{State: state.String(), ScrollLocked: locked})
}

// EscapeModal обрабатывает клавишу Escape: закрывает верхний открытый слой.
func (h *Handler) EscapeModal(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	state := h.service.EscapeModal(sess)
	_, locked := h.service.CurrentState(sess)
	h.writeJSON(w, http.StatusOK, modalStateResponse{State: state.String(), ScrollLocked: locked})
}
