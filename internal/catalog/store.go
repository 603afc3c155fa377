// Package catalog содержит хранилище каталога товаров в памяти.
package catalog

import (
	"strings"
	"sync"

	"github.com/devabrarkhan/improve-together/internal/model"
)

// CategoryAll — значение фильтра категорий, пропускающее все товары.
const CategoryAll = "All"

// Store хранит загруженный набор товаров. Порядок следования совпадает
// с порядком загрузки; поиск по идентификатору выполняется за O(1).
type Store struct {
	mu    sync.RWMutex
	items []model.Product
	byID  map[string]model.Product
}

// NewStore создаёт хранилище с указанным набором товаров.
func NewStore(products []model.Product) *Store {
	s := &Store{}
	s.Replace(products)
	return s
}

// Replace целиком заменяет набор товаров. Используется при перезагрузке данных.
func (s *Store) Replace(products []model.Product) {
	items := make([]model.Product, len(products))
	copy(items, products)

	byID := make(map[string]model.Product, len(items))
	for _, p := range items {
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
		}
	}

	s.mu.Lock()
	s.items = items
	s.byID = byID
	s.mu.Unlock()
}

// All возвращает товары в порядке загрузки.
func (s *Store) All() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Product, len(s.items))
	copy(out, s.items)
	return out
}

// ByID возвращает товар по идентификатору.
func (s *Store) ByID(id string) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	return p, ok
}

// Len возвращает количество товаров в каталоге.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Featured возвращает подмножество товаров с признаком featured,
// сохраняя порядок загрузки.
func (s *Store) Featured() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Product
	for _, p := range s.items {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Filter возвращает товары, у которых название или подзаголовок содержит
// query без учёта регистра (пустая строка совпадает со всеми), и категория
// совпадает с указанной (CategoryAll пропускает все). Порядок сохраняется.
func (s *Store) Filter(query, category string) []model.Product {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Product, 0, len(s.items))
	for _, p := range s.items {
		matchesQuery := q == "" ||
			strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Subtitle), q)
		matchesCategory := category == CategoryAll || category == "" || p.Category == category

		if matchesQuery && matchesCategory {
			out = append(out, p)
		}
	}
	return out
}
