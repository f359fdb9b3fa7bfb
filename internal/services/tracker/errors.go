package tracker

// TrackerError is a custom error type for session-tracking errors
type TrackerError string

// Error implements the error interface
func (e TrackerError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound     TrackerError = "session not found"
	ErrInvalidSessionState TrackerError = "operation not allowed in the session's current state"
	ErrInvalidDescription  TrackerError = "description must be 8-180 characters and contain no technical names"
	ErrInvalidActivityType TrackerError = "invalid activity type"
	ErrMissingUserID       TrackerError = "user ID is required"
	ErrNilConfig           TrackerError = "config cannot be nil"
	ErrNilSessionRepo      TrackerError = "session repository cannot be nil"
	ErrNilMonitor          TrackerError = "heartbeat monitor cannot be nil"
	ErrNilAggregator       TrackerError = "stats aggregator cannot be nil"
	ErrNilBillingGate      TrackerError = "billing gate cannot be nil"
	ErrNilClock            TrackerError = "clock cannot be nil"
	ErrNilUUIDGenerator    TrackerError = "UUID generator cannot be nil"
)
