package models

import (
	"time"

	"github.com/google/uuid"
)

// MembershipRequestStatus is the state of a club-join request.
// Transitions are one-way and terminal: pending -> approved or
// pending -> rejected. Approved and rejected requests are immutable.
type MembershipRequestStatus string

const (
	MembershipPending  MembershipRequestStatus = "pending"
	MembershipApproved MembershipRequestStatus = "approved"
	MembershipRejected MembershipRequestStatus = "rejected"
)

// ReviewAction is a reviewer's decision on a pending request.
type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

// Valid reports whether the action is one of the two known review actions.
func (a ReviewAction) Valid() bool {
	return a == ReviewApprove || a == ReviewReject
}

// Status returns the terminal status the action transitions a request into.
func (a ReviewAction) Status() MembershipRequestStatus {
	if a == ReviewApprove {
		return MembershipApproved
	}
	return MembershipRejected
}

// MembershipRequest is a principal's request to join a club. Requests are
// never physically deleted; the most recent approved one is authoritative
// for deriving a principal's displayed club.
type MembershipRequest struct {
	ID          uuid.UUID               `json:"id"`
	UserID      uuid.UUID               `json:"user_id"`
	ClubID      uuid.UUID               `json:"club_id"`
	Status      MembershipRequestStatus `json:"status"`
	RequestedAt time.Time               `json:"requested_at"`
	ReviewedAt  *time.Time              `json:"reviewed_at,omitempty"`
	ReviewedBy  *uuid.UUID              `json:"reviewed_by,omitempty"`
}
