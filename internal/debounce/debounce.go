// Package debounce реализует отложенный запуск функции: каждый новый вызов
// отменяет ещё не сработавший таймер предыдущего.
package debounce

import (
	"sync"
	"time"
)

// Debouncer откладывает выполнение функции до тех пор, пока вызовы Trigger
// не прекратятся на заданный интервал.
type Debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	fn    func()
	timer *time.Timer
}

// New создаёт Debouncer с указанным интервалом ожидания и функцией.
func New(wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{
		wait: wait,
		fn:   fn,
	}
}

// Trigger планирует выполнение функции через интервал ожидания,
// отменяя предыдущий незавершённый запуск.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fn)
}

// Stop отменяет запланированный запуск, если он есть.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
