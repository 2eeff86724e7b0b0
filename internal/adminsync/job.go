package adminsync

import (
	"context"
	"errors"
)

// SyncJob runs an import on every cron tick.
type SyncJob struct {
	syncer *Syncer
}

// NewSyncJob wraps syncer as a scheduled job.
func NewSyncJob(syncer *Syncer) (*SyncJob, error) {
	if syncer == nil {
		return nil, errors.New("syncer required")
	}
	return &SyncJob{syncer: syncer}, nil
}

func (j *SyncJob) Name() string { return "admin-sync" }

// Run imports once under a fresh session, so an admin API that answered 404
// on an earlier tick is tried again. An empty backend is not a failure.
func (j *SyncJob) Run(ctx context.Context) error {
	j.syncer.Session().Reset()
	_, err := j.syncer.Import(ctx)
	if errors.Is(err, ErrNoBusinesses) {
		j.syncer.logg.Info(ctx, "backend reachable but lists no businesses")
		return nil
	}
	return err
}
