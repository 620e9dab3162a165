// internal/app/system/limits/limits.go
package limits

// Request size limits. These keep a single request from exhausting memory
// or producing an unbounded Mongo $in filter.
const (
	// MaxJSONBody is the maximum size of a JSON request body.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxBatchVolunteers is the most volunteer ids accepted in one
	// assign, unassign or reconcile request.
	MaxBatchVolunteers = 500

	// MaxNotifications is the most notifications returned by one list call.
	MaxNotifications = 200
)
