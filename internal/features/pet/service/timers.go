package service

import (
	"sync"
	"time"
)

// Timers — реестр отложенных срабатываний по питомцам. На каждого питомца
// не больше одного таймера; повторное планирование заменяет прежний.
// Таймеры живут только в памяти процесса, источник истины — дедлайн в Redis,
// поэтому после рестарта реестр восстанавливается из хранилища.
type Timers struct {
	mu     sync.Mutex
	active map[int64]*time.Timer
}

func NewTimers() *Timers {
	return &Timers{active: make(map[int64]*time.Timer)}
}

// Schedule взводит таймер для питомца, отменяя предыдущий, если тот был.
func (t *Timers) Schedule(userID int64, d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.active[userID]; ok {
		prev.Stop()
	}
	t.active[userID] = time.AfterFunc(d, func() {
		t.forget(userID)
		fn()
	})
}

// Cancel снимает таймер питомца, если он взведён.
func (t *Timers) Cancel(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.active[userID]; ok {
		prev.Stop()
		delete(t.active, userID)
	}
}

// Shutdown останавливает все таймеры. Вызывается при завершении процесса.
func (t *Timers) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, timer := range t.active {
		timer.Stop()
		delete(t.active, id)
	}
}

func (t *Timers) forget(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.active, userID)
}
