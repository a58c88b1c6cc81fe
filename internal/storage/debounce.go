package storage

import (
	"strings"
	"sync"
	"time"

	"github.com/echo-cqy/codeling/internal/models"
)

const defaultDebounceWindow = 600 * time.Millisecond

// draftDebouncer coalesces rapid draft edits per (question, framework) slot.
// Each Schedule resets the slot's timer with the latest code; when the idle
// window elapses only that last payload is flushed.
type draftDebouncer struct {
	window time.Duration
	flush  func(questionID string, framework models.Framework, code string) error

	mu    sync.Mutex
	slots map[string]*pendingDraft
}

type pendingDraft struct {
	timer      *time.Timer
	questionID string
	framework  models.Framework
	code       string
}

func newDraftDebouncer(window time.Duration, flush func(string, models.Framework, string) error) *draftDebouncer {
	if window <= 0 {
		window = defaultDebounceWindow
	}
	return &draftDebouncer{
		window: window,
		flush:  flush,
		slots:  make(map[string]*pendingDraft),
	}
}

func slotKey(questionID string, framework models.Framework) string {
	return questionID + "|" + string(framework)
}

// Schedule records the latest edit for a slot, replacing any pending one.
func (d *draftDebouncer) Schedule(questionID string, framework models.Framework, code string) {
	key := slotKey(questionID, framework)

	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.slots[key]; ok {
		p.timer.Stop()
	}
	p := &pendingDraft{questionID: questionID, framework: framework, code: code}
	p.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		current, ok := d.slots[key]
		if ok && current == p {
			delete(d.slots, key)
		}
		d.mu.Unlock()
		if !ok || current != p {
			return
		}
		// Flushes through the facade's normal draft path, so the remote
		// mirror fires too. Errors are logged there.
		d.flush(p.questionID, p.framework, p.code)
	})
	d.slots[key] = p
}

// DropSlot cancels a pending write for one slot without flushing it. Used
// when a save-attempt or clear just superseded the buffer.
func (d *draftDebouncer) DropSlot(questionID string, framework models.Framework) {
	key := slotKey(questionID, framework)

	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.slots[key]; ok {
		p.timer.Stop()
		delete(d.slots, key)
	}
}

// Drop cancels pending writes for every framework slot of a question.
func (d *draftDebouncer) Drop(questionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, p := range d.slots {
		if strings.HasPrefix(key, questionID+"|") {
			p.timer.Stop()
			delete(d.slots, key)
		}
	}
}

// DropAll cancels everything pending. Used by the hard reset.
func (d *draftDebouncer) DropAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, p := range d.slots {
		p.timer.Stop()
		delete(d.slots, key)
	}
}

// Flush persists every pending edit immediately. Called at shutdown so the
// last keystrokes survive into the next session.
func (d *draftDebouncer) Flush() {
	d.mu.Lock()
	pending := make([]*pendingDraft, 0, len(d.slots))
	for key, p := range d.slots {
		p.timer.Stop()
		delete(d.slots, key)
		pending = append(pending, p)
	}
	d.mu.Unlock()

	for _, p := range pending {
		d.flush(p.questionID, p.framework, p.code)
	}
}
