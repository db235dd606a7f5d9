package model

import (
	"fmt"
	"time"
)

// JobStatus is the coarse lifecycle state of an in-flight analysis.
type JobStatus string

// Job statuses, in pipeline order. Error is reachable from any
// non-terminal state.
const (
	StatusQueued                JobStatus = "queued"
	StatusCheckingRecent        JobStatus = "checking_recent"
	StatusGettingSiteInfo       JobStatus = "getting_site_info"
	StatusReadingPolicies       JobStatus = "reading_policies"
	StatusCategorizingScoring   JobStatus = "categorizing_and_scoring"
	StatusComputingOverallScore JobStatus = "computing_overall_score"
	StatusFinalizing            JobStatus = "finalizing"
	StatusComplete              JobStatus = "complete"
	StatusError                 JobStatus = "error"
)

// jobTransitions maps each status to the statuses it may advance to.
// The pipeline is linear except for the cache-hit short circuit
// (checking_recent -> finalizing) and the error branch.
var jobTransitions = map[JobStatus][]JobStatus{
	StatusQueued:                {StatusCheckingRecent, StatusError},
	StatusCheckingRecent:        {StatusGettingSiteInfo, StatusFinalizing, StatusError},
	StatusGettingSiteInfo:       {StatusReadingPolicies, StatusError},
	StatusReadingPolicies:       {StatusCategorizingScoring, StatusError},
	StatusCategorizingScoring:   {StatusComputingOverallScore, StatusError},
	StatusComputingOverallScore: {StatusFinalizing, StatusError},
	StatusFinalizing:            {StatusComplete, StatusError},
	StatusComplete:              {},
	StatusError:                 {},
}

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	_, ok := jobTransitions[s]
	return ok
}

// Terminal reports whether the status ends the job's lifecycle.
func (s JobStatus) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// CanTransitionTo reports whether the state machine permits moving
// from s to next.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AnalysisJob tracks one user-triggered analysis attempt. Jobs are
// created at pipeline start, updated at each phase transition, and
// never deleted by the core.
type AnalysisJob struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	SiteInput string    `json:"site_input"`
	Status    JobStatus `json:"status"`
}

// Validate checks that the job has an identity, input, and a known status.
func (j *AnalysisJob) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("job ID is required")
	}
	if j.SiteInput == "" {
		return fmt.Errorf("job site input is required")
	}
	if !j.Status.Valid() {
		return fmt.Errorf("unknown job status: %s", j.Status)
	}
	return nil
}
