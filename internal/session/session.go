// Package session хранит состояние браузерной сессии витрины: черновик
// заказа, автомат модальных окон и флаг ожидающего проверки заказа.
package session

import (
	"sync"
	"time"

	"github.com/devabrarkhan/improve-together/internal/modal"
	"github.com/devabrarkhan/improve-together/internal/model"
)

// Session содержит изменяемое состояние одного браузера. События одной
// сессии приходят последовательно, но разные запросы могут пересекаться,
// поэтому доступ защищён мьютексом.
type Session struct {
	ID string

	mu           sync.Mutex
	machine      *modal.Machine
	draft        *model.OrderDraft
	orderPending bool
	submitting   bool
	lastSeen     time.Time
}

// New создаёт пустую сессию с указанным идентификатором.
func New(id string) *Session {
	return &Session{
		ID:       id,
		machine:  modal.NewMachine(),
		lastSeen: time.Now(),
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// SelectProduct создаёт черновик заказа для товара и открывает карточку.
// Предыдущий неотправленный черновик перезаписывается.
func (s *Session) SelectProduct(p model.Product) model.OrderDraft {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := model.NewOrderDraft(p)
	s.draft = &draft
	s.machine.OpenProduct()
	return draft
}

// Draft возвращает копию текущего черновика заказа.
func (s *Session) Draft() (model.OrderDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return model.OrderDraft{}, false
	}
	return *s.draft, true
}

// SetDraft сохраняет пересчитанный черновик заказа.
func (s *Session) SetDraft(d model.OrderDraft) {
	s.mu.Lock()
	s.draft = &d
	s.mu.Unlock()
}

// CloseProduct закрывает карточку товара и уничтожает черновик.
func (s *Session) CloseProduct() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.machine.CloseProduct()
	s.draft = nil
}

// CloseVerification закрывает уведомление о проверке заказа.
func (s *Session) CloseVerification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.machine.CloseVerification()
}

// Escape закрывает открытые оверлеи; с карточкой товара уходит и черновик.
func (s *Session) Escape() modal.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.machine.Escape()
	s.draft = nil
	return state
}

// ModalState возвращает состояние модального слоя. Если слой закрыт и есть
// ожидающий заказ, флаг потребляется ровно один раз и открывается
// уведомление о проверке.
func (s *Session) ModalState() (modal.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machine.State() == modal.Closed && s.orderPending {
		s.orderPending = false
		s.machine.OpenVerification()
	}
	return s.machine.State(), s.machine.ScrollLocked()
}

// CurrentState возвращает состояние модального слоя без побочных эффектов.
func (s *Session) CurrentState() (modal.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.machine.State(), s.machine.ScrollLocked()
}

// MarkOrderPending устанавливает флаг ожидающего проверки заказа.
func (s *Session) MarkOrderPending() {
	s.mu.Lock()
	s.orderPending = true
	s.mu.Unlock()
}

// BeginSubmit захватывает право на отправку заказа. Возвращает false,
// если отправка уже идёт: повторные клики игнорируются.
func (s *Session) BeginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

// EndSubmit освобождает право на отправку заказа.
func (s *Session) EndSubmit() {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
}
