package domain

import (
	"errors"
	"time"
)

// ErrAccessRequestNotFound indicates that the access request is not found.
var ErrAccessRequestNotFound = errors.New("access request not found")

// AccessRequestStatus is the lifecycle state of an access request.
type AccessRequestStatus string

// Access request states. Approved and rejected are terminal.
const (
	AccessPending  AccessRequestStatus = "pending"
	AccessApproved AccessRequestStatus = "approved"
	AccessRejected AccessRequestStatus = "rejected"
)

// Terminal reports whether no further transitions are allowed from s.
func (s AccessRequestStatus) Terminal() bool {
	return s == AccessApproved || s == AccessRejected
}

// CanTransitionTo reports whether s may move to next.
func (s AccessRequestStatus) CanTransitionTo(next AccessRequestStatus) bool {
	return s == AccessPending && next.Terminal()
}

// AccessRequest holds a request of an identity to be approved.
type AccessRequest struct {
	ID        int64               `json:"id"`
	Identity  string              `json:"identity"`
	Profile   Profile             `json:"profile"`
	Status    AccessRequestStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}
