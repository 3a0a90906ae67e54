package groupsync

import (
	"context"
	"errors"
	"sync"

	"group-sync/core/directory"
	"group-sync/core/reconcile"
	"group-sync/core/report"

	"go.uber.org/zap"
)

// ErrNoRoles is recorded for users without any role in the roster.
var ErrNoRoles = errors.New("no roles found")

// Synchronizer places users in the directory groups of their roles.
type Synchronizer struct {
	dir      directory.Directory
	recorder report.Recorder
	logger   *zap.Logger
}

// NewSynchronizer creates a synchronizer writing outcomes to recorder.
func NewSynchronizer(dir directory.Directory, recorder report.Recorder, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{dir: dir, recorder: recorder, logger: logger}
}

// Sync adds userID to the group of every role, concurrently, and records one
// outcome per attempt. A user without roles is recorded once with ErrNoRoles
// and the directory is not called. Failures are recorded, never retried.
func (s *Synchronizer) Sync(ctx context.Context, userID string, roles []string) reconcile.SyncResult {
	// Outcomes keep their own copy of the role list.
	recorded := append([]string(nil), roles...)

	if len(recorded) == 0 {
		s.logger.Warn("User has no roles associated on database", zap.String("username", userID))
		s.recorder.Append(report.Outcome{Username: userID, Roles: recorded, Err: ErrNoRoles})
		return reconcile.SyncResult{Outcomes: 1, NoRoles: true}
	}

	s.logger.Info("Patching user", zap.String("username", userID), zap.Strings("roles", recorded))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	for _, role := range recorded {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.dir.AddUserToGroup(ctx, userID, role)
			if err != nil {
				s.logger.Error("Group assignment failed",
					zap.String("username", userID),
					zap.String("group", role),
					zap.Error(err),
				)
				mu.Lock()
				failures++
				mu.Unlock()
			}
			s.recorder.Append(report.Outcome{Username: userID, Roles: recorded, Err: err})
		}()
	}
	wg.Wait()

	return reconcile.SyncResult{Outcomes: len(recorded), Failures: failures}
}
