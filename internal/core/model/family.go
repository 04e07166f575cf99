package model

import "time"

// Family is the account-level grouping of parent/child participants
// sharing conversation data. Membership management lives in a separate
// service; the pipeline only needs existence and identity.
type Family struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
