package domain

// SyncState is the phase of one analytics sync cycle.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncSyncing
	SyncSuccess
	SyncFailed
)

// String returns a human-readable representation of the sync state
func (s SyncState) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncSyncing:
		return "syncing"
	case SyncSuccess:
		return "synced"
	case SyncFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SyncProgress reports a state transition of a sync cycle.
// Stats is the data currently on display: on failure it is the previous
// successful result (nil if there never was one).
type SyncProgress struct {
	Version uint64 // LikedSet version that triggered the cycle
	State   SyncState
	Attempt int
	Stats   *Stats
	Error   error
}

// SyncObserver receives progress updates during sync cycles.
type SyncObserver interface {
	OnProgress(progress SyncProgress)
}

// NoOpObserver discards progress updates (for testing/batch operations).
type NoOpObserver struct{}

func (NoOpObserver) OnProgress(SyncProgress) {}
