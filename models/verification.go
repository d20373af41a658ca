package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationInReview VerificationStatus = "in_review"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

var ErrInvalidTransition = errors.New("invalid verification transition")

var verificationTransitions = map[VerificationStatus][]VerificationStatus{
	VerificationPending:  {VerificationInReview},
	VerificationInReview: {VerificationVerified, VerificationRejected},
}

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationInReview, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// Terminal states accept no further transitions.
func (s VerificationStatus) Terminal() bool {
	return s == VerificationVerified || s == VerificationRejected
}

func CanTransition(from, to VerificationStatus) bool {
	for _, next := range verificationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type VerificationRequest struct {
	Status VerificationStatus `json:"status" validate:"required"`
}

// Transition moves p to the requested moderation state, stamping the verifier
// when the listing becomes verified.
func (p *Property) Transition(to VerificationStatus, verifier primitive.ObjectID, now time.Time) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(p.VerificationStatus, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.VerificationStatus, to)
	}
	p.VerificationStatus = to
	switch to {
	case VerificationVerified:
		p.IsVerified = true
		p.VerifiedBy = &verifier
		p.VerifiedAt = &now
	case VerificationRejected:
		p.IsVerified = false
		p.VerifiedBy = &verifier
		p.VerifiedAt = &now
	}
	p.UpdatedAt = now
	return nil
}

// VerificationPaths lists the document paths a moderation action writes.
var VerificationPaths = []string{"verificationStatus", "isVerified", "verifiedBy", "verifiedAt", "updatedAt"}
