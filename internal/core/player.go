package core

import "context"

// Source produces snapshots of the current playback sessions.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}
