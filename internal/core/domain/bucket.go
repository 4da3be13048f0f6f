package domain

import "time"

// Bucket is a named budget allocation envelope under a campaign version.
// Target is the planned amount; Actual is derived as the sum of client
// budgets of tactics currently assigned to the bucket and is never stored.
type Bucket struct {
	ID         string
	VersionID  string
	Name       string
	Target     float64
	Actual     float64
	Color      string
	Publishers []string
	CreatedAt  time.Time
}
