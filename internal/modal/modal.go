// Package modal реализует конечный автомат модальных окон витрины.
//
// Два оверлея — карточка товара и уведомление о проверке заказа — делят
// блокировку прокрутки страницы. Блокировка считается по числу открытых
// оверлеев, поэтому закрытие одного не снимает блокировку, пока открыт
// другой.
package modal

// State описывает состояние модального слоя.
type State int

// Возможные состояния модального слоя.
const (
	Closed State = iota
	ProductOpen
	VerificationOpen
)

// String возвращает имя состояния для логов и ответов API.
func (s State) String() string {
	switch s {
	case ProductOpen:
		return "product"
	case VerificationOpen:
		return "verification"
	default:
		return "closed"
	}
}

// Machine отслеживает открытые оверлеи одной сессии. Доступ сериализуется
// владельцем (сессией), самостоятельной синхронизации нет: события одной
// сессии обрабатываются по одному.
type Machine struct {
	productOpen      bool
	verificationOpen bool
	scrollLocks      int
}

// NewMachine создаёт автомат в закрытом состоянии.
func NewMachine() *Machine {
	return &Machine{}
}

// State возвращает текущее состояние. Если оба оверлея оказались открыты,
// приоритет у карточки товара.
func (m *Machine) State() State {
	switch {
	case m.productOpen:
		return ProductOpen
	case m.verificationOpen:
		return VerificationOpen
	default:
		return Closed
	}
}

// ScrollLocked сообщает, заблокирована ли прокрутка страницы.
func (m *Machine) ScrollLocked() bool {
	return m.scrollLocks > 0
}

func (m *Machine) lock() {
	m.scrollLocks++
}

func (m *Machine) unlock() {
	if m.scrollLocks > 0 {
		m.scrollLocks--
	}
}

// OpenProduct открывает карточку товара и блокирует прокрутку.
// Повторное открытие уже открытой карточки не накапливает блокировку.
func (m *Machine) OpenProduct() {
	if m.productOpen {
		return
	}
	m.productOpen = true
	m.lock()
}

// CloseProduct закрывает карточку товара и возвращает одну блокировку.
func (m *Machine) CloseProduct() {
	if !m.productOpen {
		return
	}
	m.productOpen = false
	m.unlock()
}

// OpenVerification открывает уведомление о проверке заказа.
func (m *Machine) OpenVerification() {
	if m.verificationOpen {
		return
	}
	m.verificationOpen = true
	m.lock()
}

// CloseVerification закрывает уведомление о проверке заказа.
func (m *Machine) CloseVerification() {
	if !m.verificationOpen {
		return
	}
	m.verificationOpen = false
	m.unlock()
}

// Escape обрабатывает клавишу Escape: закрывает оба оверлея, если они
// открыты, каждый проверяется независимо. Возвращает новое состояние.
func (m *Machine) Escape() State {
	m.CloseProduct()
	m.CloseVerification()
	return m.State()
}
