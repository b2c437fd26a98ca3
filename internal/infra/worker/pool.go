// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

type Task func(ctx context.Context) error

// ShardedPool runs tasks on a fixed set of workers, routing each task by a
// key so tasks sharing a key execute sequentially in submission order.
// Tasks with different keys run in parallel, which is exactly the per-user
// ordering guarantee the conversation state machine relies on.
type ShardedPool struct {
	wg     sync.WaitGroup
	shards []chan Task
	log    *zerolog.Logger
}

func NewShardedPool(workers int, logger *zerolog.Logger) *ShardedPool {
	if workers <= 0 {
		workers = 8
	}
	shards := make([]chan Task, workers)
	for i := range shards {
		shards[i] = make(chan Task, 32)
	}
	return &ShardedPool{shards: shards, log: logger}
}

func (p *ShardedPool) Start(ctx context.Context) {
	for i, jobs := range p.shards {
		p.wg.Add(1)
		go func(id int, jobs <-chan Task) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task, ok := <-jobs:
					if !ok {
						return
					}
					if err := task(ctx); err != nil {
						p.log.Error().Err(err).Int("worker", id).Msg("task error")
					}
				}
			}
		}(i, jobs)
	}
}

// Stop closes all shards and waits for in-flight tasks to drain. Callers
// must have stopped submitting first.
func (p *ShardedPool) Stop() {
	for _, jobs := range p.shards {
		close(jobs)
	}
	p.wg.Wait()
}

// Submit enqueues a task on the shard owning key. It blocks when that
// user's shard is full rather than reordering or dropping.
func (p *ShardedPool) Submit(ctx context.Context, key int64, task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	shard := p.shards[int(uint64(key)%uint64(len(p.shards)))]
	select {
	case shard <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
