// Package types contains common types used across the application
package types

// RecomputeResult reports what happened to a recompute request.
type RecomputeResult struct {
	// JobID is empty when the request was coalesced into a pending job.
	JobID     string `json:"job_id,omitempty"`
	Key       string `json:"key"`
	Duplicate bool   `json:"duplicate"`
}

// Status returns the acknowledgement status shown to callers.
func (r RecomputeResult) Status() string {
	if r.Duplicate {
		return "duplicate"
	}
	return "accepted"
}
