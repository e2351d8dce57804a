package upload

import (
	"sync"
	"time"

	"github.com/loaniq/loaniq-go/types"
)

// progressTicker bumps an uploading item's progress until stopped.
// Stop returns only after the ticking goroutine has exited.
type progressTicker struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func (s *Session) startProgressTicker(it *item) *progressTicker {
	t := &progressTicker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	interval, step, limit := s.opts.ProgressInterval, s.opts.ProgressStep, s.opts.ProgressCap

	go func() {
		defer close(t.done)
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-tk.C:
				s.mutate(it, func() bool {
					if it.status != types.StatusUploading || it.progress >= limit {
						return false
					}
					it.progress = min(it.progress+step, limit)
					return true
				})
			}
		}
	}()
	return t
}

func (t *progressTicker) Stop() {
	t.once.Do(func() { close(t.stop) })
	<-t.done
}
