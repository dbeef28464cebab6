package store

import (
	"sync"
	"time"
)

// DefaultAutosaveDelay is the debounce window for persistence. Every
// state-affecting call restarts the timer; only the last schedule within the
// window actually writes.
const DefaultAutosaveDelay = 500 * time.Millisecond

// autosaver debounces calls to save. The state written is assembled by save
// at fire time, not at schedule time: last write wins.
type autosaver struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	save  func()
}

func newAutosaver(delay time.Duration, save func()) *autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &autosaver{delay: delay, save: save}
}

// Schedule (re)starts the debounce timer. A newer schedule supersedes an
// older, unfired one.
func (a *autosaver) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.save)
}

// Flush cancels any pending timer and saves immediately. Used on shutdown
// and by tests.
func (a *autosaver) Flush() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	a.save()
}

// Stop cancels any pending save without writing.
func (a *autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
