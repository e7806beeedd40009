// Package badger contains convenience helpers for integrating BadgerDB.
package badger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/nupic-community/seedrand/common/logging"
)

const (
	// DefaultGCInterval is the default interval between value log GC runs.
	DefaultGCInterval = 5 * time.Minute

	gcDiscardRatio = 0.5
)

// NewLogAdapter returns a badger.Logger backed by a module logger.
func NewLogAdapter(logger *logging.Logger) badger.Logger {
	return &badgerLogger{
		logger: logger,
	}
}

type badgerLogger struct {
	logger *logging.Logger
}

func (l *badgerLogger) Errorf(format string, a ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, a...)))
}

func (l *badgerLogger) Warningf(format string, a ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, a...)))
}

func (l *badgerLogger) Infof(format string, a ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, a...)))
}

func (l *badgerLogger) Debugf(format string, a ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, a...)))
}

// GCWorker is a BadgerDB value log GC worker.
type GCWorker struct {
	logger *logging.Logger

	db       *badger.DB
	interval time.Duration

	closeOnce sync.Once
	closeCh   chan struct{}
	closedCh  chan struct{}
}

// Close halts the GC worker and waits for it to exit.
func (gc *GCWorker) Close() {
	gc.closeOnce.Do(func() {
		close(gc.closeCh)
		<-gc.closedCh
	})
}

func (gc *GCWorker) worker() {
	defer close(gc.closedCh)

	ticker := time.NewTicker(gc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-gc.closeCh:
			return
		case <-ticker.C:
		}

		if err := gc.runOnce(); err != nil {
			gc.logger.Error("failed to GC value log",
				"err", err,
			)
		}
	}
}

// runOnce rewrites value log files until there is nothing left to collect.
func (gc *GCWorker) runOnce() error {
	for {
		switch err := gc.db.RunValueLogGC(gcDiscardRatio); err {
		case nil:
		case badger.ErrNoRewrite, badger.ErrRejected, badger.ErrGCInMemoryMode:
			return nil
		default:
			return err
		}
	}
}

// NewGCWorker creates a new BadgerDB value log GC worker for the provided
// db, logging to the specified logger. A non-positive interval selects
// DefaultGCInterval.
func NewGCWorker(logger *logging.Logger, db *badger.DB, interval time.Duration) *GCWorker {
	if interval <= 0 {
		interval = DefaultGCInterval
	}

	gc := &GCWorker{
		logger:   logger,
		db:       db,
		interval: interval,
		closeCh:  make(chan struct{}),
		closedCh: make(chan struct{}),
	}

	go gc.worker()

	return gc
}
