package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const sessionKey contextKey = "session"

const (
	cookieName = "storefront_session"
	cookieTTL  = 24 * time.Hour
)

// Manager выдаёт и проверяет сессионные cookie и хранит сессии в памяти.
// Идентификатор сессии подписывается HMAC, чтобы клиент не мог подставить
// чужой: состояние сессии держит черновик заказа и флаг оплаты.
type Manager struct {
	secretKey []byte
	ttl       time.Duration

	mu       sync.Mutex
	sessions map[string]*Session

	now func() time.Time
}

// NewManager создаёт менеджер сессий с указанным секретом и временем
// жизни неактивной сессии.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secretKey: []byte(secret),
		ttl:       ttl,
		sessions:  make(map[string]*Session),
		now:       time.Now,
	}
}

// Middleware достаёт сессию из cookie либо создаёт новую и кладёт её
// в контекст запроса.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *Session

		if cookie, err := r.Cookie(cookieName); err == nil {
			if id, ok := m.parseCookie(cookie.Value); ok {
				sess = m.lookup(id)
			}
		}

		if sess == nil {
			sess = m.create()
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    m.sign(sess.ID),
				Path:     "/",
				Expires:  m.now().Add(cookieTTL),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		sess.touch(m.now())

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext извлекает сессию из контекста запроса.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*Session)
	return sess, ok
}

// StartCleanup запускает фоновую чистку простаивающих сессий.
func (m *Manager) StartCleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.prune()
		}
	}
}

// Len возвращает количество живых сессий.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

func (m *Manager) create() *Session {
	sess := New(uuid.NewString())
	sess.touch(m.now())

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	return sess
}

func (m *Manager) lookup(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sessions[id]
}

func (m *Manager) prune() {
	deadline := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, sess := range m.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(deadline)
		sess.mu.Unlock()

		if idle {
			delete(m.sessions, id)
		}
	}
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secretKey)
	mac.Write([]byte(id))
	return id + "." + hex.EncodeToString(mac.Sum(nil))
}

func (m *Manager) parseCookie(value string) (string, bool) {
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return "", false
	}

	id := parts[0]
	signature := parts[1]

	mac := hmac.New(sha256.New, m.secretKey)
	mac.Write([]byte(id))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return "", false
	}

	return id, true
}
