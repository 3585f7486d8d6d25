package subscription

import "time"

// StateChangeEvent records one accepted state change. Creation emits one with
// OldState == NewState == StateActive.
type StateChangeEvent struct {
	SubscriptionID string    `json:"subscription_id"`
	Operation      Operation `json:"operation"`
	OldState       State     `json:"old_state"`
	NewState       State     `json:"new_state"`
	Timestamp      time.Time `json:"timestamp"`
}
