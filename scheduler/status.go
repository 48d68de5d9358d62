package scheduler

// JobState is the scheduler-agnostic job state vocabulary. Each variant owns
// a total mapping from its native codes into these values; codes a table does
// not know degrade to StateUnknown rather than failing, so a scheduler
// upgrade that introduces new codes cannot break callers.
type JobState string

const (
	StateQueued    JobState = "QUEUED"
	StateRunning   JobState = "RUNNING"
	StateHeld      JobState = "HELD"
	StateSuspended JobState = "SUSPENDED"
	StateWaiting   JobState = "WAITING"
	StateExiting   JobState = "EXITING"
	StateCompleted JobState = "COMPLETED"
	StateFailed    JobState = "FAILED"
	StateUnknown   JobState = "UNKNOWN"
)

// String returns the string form of the state.
func (s JobState) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are expected. StateUnknown
// is terminal in practice: it means the scheduler has purged the job.
func (s JobState) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateUnknown:
		return true
	}
	return false
}

// pbsStates maps qstat single-letter job_state codes.
var pbsStates = map[string]JobState{
	"B": StateRunning, // array job with at least one running subjob
	"E": StateExiting,
	"F": StateCompleted,
	"H": StateHeld,
	"M": StateUnknown, // moved to another server; no longer queryable here
	"Q": StateQueued,
	"R": StateRunning,
	"S": StateSuspended,
	"T": StateQueued, // in transit to a new location
	"U": StateSuspended, // cycle-harvesting job suspended by keyboard activity
	"W": StateWaiting,
	"X": StateCompleted, // subjob finished or deleted
}

// slurmStates maps the long job_state names emitted by squeue --json.
var slurmStates = map[string]JobState{
	"BOOT_FAIL":     StateFailed,
	"CANCELLED":     StateFailed,
	"COMPLETED":     StateCompleted,
	"COMPLETING":    StateRunning,
	"CONFIGURING":   StateQueued,
	"DEADLINE":      StateFailed,
	"FAILED":        StateFailed,
	"NODE_FAIL":     StateFailed,
	"OUT_OF_MEMORY": StateFailed,
	"PENDING":       StateQueued,
	"PREEMPTED":     StateFailed,
	"REQUEUED":      StateQueued,
	"REQUEUE_FED":   StateQueued,
	"REQUEUE_HOLD":  StateHeld,
	"RESV_DEL_HOLD": StateHeld,
	"RESIZING":      StateRunning,
	"REVOKED":       StateFailed,
	"RUNNING":       StateRunning,
	"SIGNALING":     StateRunning,
	"SPECIAL_EXIT":  StateFailed,
	"STAGE_OUT":     StateRunning,
	"STOPPED":       StateSuspended,
	"SUSPENDED":     StateSuspended,
	"TIMEOUT":       StateFailed,
}

func normalize(table map[string]JobState, native string) JobState {
	if s, ok := table[native]; ok {
		return s
	}
	return StateUnknown
}
