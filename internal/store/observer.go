package store

import (
	"log/slog"

	"txboard/internal/core"
	applog "txboard/internal/log"
)

// Observer receives the store's state changes. Callbacks run after the store
// lock is released and must not block for long.
type Observer interface {
	Loaded(stats core.Stats)
	LoadFailed(err error)
	ViewChanged(view []core.Transaction)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnLoaded      func(stats core.Stats)
	OnLoadFailed  func(err error)
	OnViewChanged func(view []core.Transaction)
}

func (o ObserverFuncs) Loaded(stats core.Stats) {
	if o.OnLoaded != nil {
		o.OnLoaded(stats)
	}
}

func (o ObserverFuncs) LoadFailed(err error) {
	if o.OnLoadFailed != nil {
		o.OnLoadFailed(err)
	}
}

func (o ObserverFuncs) ViewChanged(view []core.Transaction) {
	if o.OnViewChanged != nil {
		o.OnViewChanged(view)
	}
}

// LogObserver reports load outcomes to the diagnostic log.
func LogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return ObserverFuncs{
		OnLoaded: func(stats core.Stats) {
			fields := applog.NewFields().
				WithComponent(applog.ComponentStore).
				WithOperation(applog.OpLoad).
				WithDataset(stats.Source, stats.Customers, stats.Transactions, stats.Orphans)
			logger.Info("Dataset loaded", fields.ToSlice()...)
		},
		OnLoadFailed: func(err error) {
			fields := applog.NewFields().
				WithComponent(applog.ComponentStore).
				WithOperation(applog.OpLoad).
				WithError(err)
			logger.Error("Error fetching data", fields.ToSlice()...)
		},
	}
}
