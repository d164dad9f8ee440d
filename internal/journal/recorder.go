package journal

import (
	"context"

	"blockrooms-client/internal/store"
	"blockrooms-client/pkg/logger"
)

// Appender принимает записи журнала. Реализуется Writer'ом.
type Appender interface {
	Append(ev store.Event) error
}

// Recorder хвостом идет за кольцом событий стора и дописывает новые
// записи в журнал. Если кольцо успело провернуться между пробуждениями,
// потерянные события просто не попадают в файл.
type Recorder struct {
	w  Appender
	st *store.Store

	seen int // событий стора, уже записанных либо пропущенных
}

func NewRecorder(w Appender, st *store.Store) *Recorder {
	return &Recorder{w: w, st: st}
}

// Run пишет журнал до отмены контекста.
func (r *Recorder) Run(ctx context.Context) {
	changes := r.st.Subscribe("journal")
	defer r.st.Unsubscribe("journal")

	for {
		select {
		case <-ctx.Done():
			r.flush()
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			r.flush()
		}
	}
}

func (r *Recorder) flush() {
	snap := r.st.Snapshot()

	// Сброс сессии начинает счет заново.
	if snap.TotalEvents < r.seen {
		r.seen = 0
	}

	fresh := snap.TotalEvents - r.seen
	if fresh <= 0 {
		return
	}
	if lost := fresh - len(snap.Events); lost > 0 {
		logger.Log.WithField("lost", lost).Warn("journal fell behind event ring")
		fresh = len(snap.Events)
	}

	// seen двигается только на записанное: событие, не попавшее в файл
	// из-за ошибки, остается невиданным и уходит со следующим flush.
	wrote := 0
	for _, ev := range snap.Events[len(snap.Events)-fresh:] {
		if err := r.w.Append(ev); err != nil {
			logger.Log.WithError(err).Warn("journal append failed")
			break
		}
		wrote++
	}
	r.seen = snap.TotalEvents - (fresh - wrote)
}
