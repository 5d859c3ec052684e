// Package worker provides a fixed-size goroutine pool for per-song jobs.
package worker

import (
	"context"
	"sync"

	"github.com/ewilliams-labs/trackmap/internal/core/domain"
	"github.com/rs/zerolog/log"
)

// Handler processes one song. It must be safe for concurrent use.
type Handler func(ctx context.Context, song domain.PlayedSong)

// Pool manages background workers for song jobs.
type Pool struct {
	handler Handler
	jobs    chan domain.PlayedSong
	wg      sync.WaitGroup
}

// NewPool creates a pool that feeds queued songs to handler.
func NewPool(handler Handler, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{handler: handler, jobs: make(chan domain.PlayedSong, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(ctx context.Context, workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for song := range p.jobs {
				if ctx.Err() != nil {
					log.Debug().Int("worker", id).Int64("external_id", song.ExternalID).Msg("worker: skipping job after cancellation")
					continue
				}
				p.handler(ctx, song)
			}
		}(i)
	}
}

// Submit queues a song, blocking while the queue is full. It returns the
// context error if ctx ends first.
func (p *Pool) Submit(ctx context.Context, song domain.PlayedSong) error {
	select {
	case p.jobs <- song:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
