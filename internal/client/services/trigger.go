package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/daybook/internal/client/syncer"
	"github.com/dmitrijs2005/daybook/internal/logging"
)

// SyncRunner is what Trigger drives; *syncer.Engine implements it.
type SyncRunner interface {
	Run(ctx context.Context, progress chan<- syncer.Progress) (*syncer.Result, error)
}

// Kicker starts a background sync without waiting for it.
type Kicker interface {
	Kick()
}

// Trigger runs sync cycles in the background. Kicks that arrive while a
// cycle is running are dropped by the engine's single-flight guard.
type Trigger struct {
	ctx    context.Context
	runner SyncRunner
	log    logging.Logger
	wg     sync.WaitGroup
}

// NewTrigger binds background cycles to ctx: cancelling it cancels any
// in-flight cycle.
func NewTrigger(ctx context.Context, runner SyncRunner, log logging.Logger) *Trigger {
	if log == nil {
		log = logging.Nop{}
	}
	return &Trigger{ctx: ctx, runner: runner, log: log}
}

func (t *Trigger) Kick() {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		res, err := t.runner.Run(t.ctx, nil)
		switch {
		case errors.Is(err, syncer.ErrSyncInProgress), errors.Is(err, syncer.ErrNotConfigured):
			t.log.Debug(t.ctx, "background sync skipped", "reason", err)
		case err != nil:
			t.log.Warn(t.ctx, "background sync failed", "error", err)
		default:
			t.log.Info(t.ctx, syncer.Summary(res))
		}
	}()
}

// Wait blocks until every kicked cycle has returned.
func (t *Trigger) Wait() {
	t.wg.Wait()
}
