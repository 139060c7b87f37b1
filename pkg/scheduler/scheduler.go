// Package scheduler runs the billing pipeline's recurring tasks in-process.
// Task bodies are plain funcs so tests invoke them directly with controlled
// inputs instead of waiting on wall-clock triggers.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron"
	"go.uber.org/zap"
)

// Task is one recurring unit of pipeline work.
type Task struct {
	Name string
	// Spec is a cron expression (seconds field included) or an @every duration.
	Spec string
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	c       *cron.Cron
	timeout time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(taskTimeout time.Duration) *Scheduler {
	return &Scheduler{
		c:       cron.New(),
		timeout: taskTimeout,
		locks:   map[string]*sync.Mutex{},
	}
}

// Register wires a task into the cron loop. Ticks of the same task are
// serialized: if a run outlives its interval the next tick is skipped rather
// than aggregating the same streams twice concurrently. Different tasks still
// overlap freely.
func (s *Scheduler) Register(t Task) error {
	s.mu.Lock()
	lock, ok := s.locks[t.Name]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[t.Name] = lock
	}
	s.mu.Unlock()

	return s.c.AddFunc(t.Spec, func() {
		if !lock.TryLock() {
			zap.L().Warn("previous run still in progress, skipping tick", zap.String("task", t.Name))
			return
		}
		defer lock.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		if err := t.Run(ctx); err != nil {
			zap.L().Error("t.Run (Register) (Scheduler)", zap.Error(err), zap.String("task", t.Name))
			return
		}
		zap.L().Info("task finished", zap.String("task", t.Name), zap.Duration("took", time.Since(start)))
	})
}

func (s *Scheduler) Start() {
	s.c.Start()
}

func (s *Scheduler) Stop() {
	s.c.Stop()
}
