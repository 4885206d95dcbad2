package state

import (
	"context"
	"sync"

	"github.com/julianstephens/eternalglow/internal/logger"
	"github.com/julianstephens/eternalglow/internal/models"
)

// persister writes snapshots on a single goroutine. Snapshots are written in
// submission order; a burst of submissions collapses to the latest one.
type persister struct {
	save func(models.State) error

	mu       sync.Mutex
	pending  *models.State
	seq      uint64
	written  uint64
	lastErr  error
	progress chan struct{}

	wake     chan struct{}
	stop     chan struct{}
	finished chan struct{}
}

func newPersister(save func(models.State) error) *persister {
	p := &persister{
		save:     save,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *persister) submit(s models.State) {
	p.mu.Lock()
	p.pending = &s
	p.seq++
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.wake:
			p.drain()
		case <-p.stop:
			p.drain()
			return
		}
	}
}

func (p *persister) drain() {
	for {
		p.mu.Lock()
		if p.pending == nil {
			p.mu.Unlock()
			return
		}
		snapshot := *p.pending
		target := p.seq
		p.pending = nil
		p.mu.Unlock()

		err := p.save(snapshot)
		if err != nil {
			logger.Error("Failed to persist state", "error", err)
		}

		p.mu.Lock()
		p.written = target
		p.lastErr = err
		close(p.progress)
		p.progress = make(chan struct{})
		p.mu.Unlock()
	}
}

// flush blocks until every snapshot submitted before the call is written.
func (p *persister) flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.seq
	p.mu.Unlock()

	for {
		p.mu.Lock()
		if p.written >= target {
			p.mu.Unlock()
			return nil
		}
		progress := p.progress
		p.mu.Unlock()

		select {
		case <-progress:
		case <-p.finished:
			p.mu.Lock()
			done := p.written >= target
			p.mu.Unlock()
			if done {
				return nil
			}
			return ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *persister) err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *persister) close() {
	select {
	case <-p.stop:
	default:
		close(p.stop)
	}
	<-p.finished
}
