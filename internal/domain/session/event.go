package session

import (
	"time"

	"bookeasy/internal/domain/identity"
)

type Kind string

const (
	KindSignedIn       Kind = "signed_in"
	KindSignedOut      Kind = "signed_out"
	KindTokenRefreshed Kind = "token_refreshed"
)

// Event is a session state change as reported by the identity provider.
// Seq orders events per principal; higher wins.
type Event struct {
	Kind        Kind                `json:"kind"`
	PrincipalID string              `json:"principal_id"`
	Principal   *identity.Principal `json:"principal,omitempty"`
	Seq         int64               `json:"seq"`
	At          time.Time           `json:"at"`
}

// Snapshot is the resolved session of one principal after the latest event.
type Snapshot struct {
	PrincipalID   string              `json:"principal_id"`
	Authenticated bool                `json:"authenticated"`
	Principal     *identity.Principal `json:"principal,omitempty"`
	Role          identity.Role       `json:"role,omitempty"`
	HomePath      string              `json:"home_path"`
	Seq           int64               `json:"seq"`
}
