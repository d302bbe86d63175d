package app

import (
	"fmt"

	"github.com/corey/acscan/internal/ports"
)

// Runs lists stored runs, newest first. limit <= 0 means all.
func (a *App) Runs(limit int) ([]ports.RunInfo, error) {
	if a.Store == nil {
		return nil, ErrNoHistory
	}
	return a.Store.ListRuns(limit)
}

// Run loads one stored run.
func (a *App) Run(id uint64) (*ports.Run, error) {
	if a.Store == nil {
		return nil, ErrNoHistory
	}
	run, err := a.Store.LoadRun(id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return run, nil
}

// LatestRun loads the most recent run.
func (a *App) LatestRun() (*ports.Run, error) {
	if a.Store == nil {
		return nil, ErrNoHistory
	}
	run, err := a.Store.LatestRun()
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("%w: history is empty", ErrRunNotFound)
	}
	return run, nil
}

// DeleteRun removes a stored run. Unlike the store, deleting an unknown
// run is reported.
func (a *App) DeleteRun(id uint64) error {
	if _, err := a.Run(id); err != nil {
		return err
	}
	return a.Store.DeleteRun(id)
}
