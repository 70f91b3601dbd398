package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
)

// ErrInvitationNotPending is returned by transition methods when the
// invitation has already reached a terminal state.
var ErrInvitationNotPending = errors.New("invitation is not pending")

type Invitation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"`
	Speciality string             `bson:"speciality" json:"speciality"`
	Status     InvitationStatus   `bson:"status" json:"status"`
	InvitedBy  primitive.ObjectID `bson:"invitedBy" json:"invitedBy"`
	Token      string             `bson:"token" json:"token"`
	ExpiresAt  time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExpiredBy reports whether the invitation deadline has passed. Expiry is
// only acted on lazily, when the invitation is read on verify or accept.
func (i *Invitation) ExpiredBy(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// MarkExpired transitions pending -> expired. Accepted and expired are
// terminal.
func (i *Invitation) MarkExpired() error {
	if i.Status != InvitationPending {
		return ErrInvitationNotPending
	}
	i.Status = InvitationExpired
	return nil
}

// MarkAccepted transitions pending -> accepted, refusing the transition if
// the deadline has already passed.
func (i *Invitation) MarkAccepted(now time.Time) error {
	if i.Status != InvitationPending {
		return ErrInvitationNotPending
	}
	if i.ExpiredBy(now) {
		i.Status = InvitationExpired
		return ErrInvitationNotPending
	}
	i.Status = InvitationAccepted
	return nil
}
