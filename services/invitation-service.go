package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"task-manager/backend/logging"
	"task-manager/backend/models"
	"task-manager/backend/utils"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type InvitationService struct {
	invitationsCollection *mongo.Collection
	usersCollection       *mongo.Collection
	jwtService            *JWTService
	emailBreaker          *gobreaker.CircuitBreaker
	blackList             map[string]bool
	frontendURL           string
}

func NewInvitationService(
	invitationsCollection *mongo.Collection,
	usersCollection *mongo.Collection,
	jwtService *JWTService,
	emailBreaker *gobreaker.CircuitBreaker,
	blackList map[string]bool,
	frontendURL string,
) *InvitationService {
	return &InvitationService{
		invitationsCollection: invitationsCollection,
		usersCollection:       usersCollection,
		jwtService:            jwtService,
		emailBreaker:          emailBreaker,
		blackList:             blackList,
		frontendURL:           frontendURL,
	}
}

// SendInvitation creates a pending invitation for the email and delivers
// the accept link. Rejected when a user or an active invitation for that
// email already exists. The record is inserted before the SMTP send, so a
// delivery failure leaves a pending invitation behind; it blocks
// re-inviting that email until its expiresAt passes and a verify or
// accept lazily expires it.
func (s *InvitationService) SendInvitation(ctx context.Context, email, speciality, invitedBy string) (*models.Invitation, error) {
	if email == "" || speciality == "" {
		return nil, fmt.Errorf("email and speciality are required: %w", ErrValidation)
	}
	email = NormalizeEmail(email)

	admin, err := primitive.ObjectIDFromHex(invitedBy)
	if err != nil {
		return nil, fmt.Errorf("invalid admin ID format: %w", ErrValidation)
	}

	var existingUser models.User
	if err := s.usersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&existingUser); err == nil {
		return nil, fmt.Errorf("user with this email already exists: %w", ErrConflict)
	}

	var existingInvite models.Invitation
	err = s.invitationsCollection.FindOne(ctx, bson.M{
		"email":  email,
		"status": models.InvitationPending,
	}).Decode(&existingInvite)
	if err == nil {
		return nil, fmt.Errorf("an active invitation already exists for this email: %w", ErrConflict)
	}

	token, err := s.jwtService.GenerateInviteToken(email, speciality)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %v", err)
	}

	now := time.Now()
	invitation := models.Invitation{
		Email:      email,
		Speciality: speciality,
		Status:     models.InvitationPending,
		InvitedBy:  admin,
		Token:      token,
		ExpiresAt:  now.Add(inviteTokenTTL),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result, err := s.invitationsCollection.InsertOne(ctx, invitation)
	if err != nil {
		return nil, fmt.Errorf("failed to save invitation: %v", err)
	}
	invitation.ID = result.InsertedID.(primitive.ObjectID)

	if err := s.sendInviteEmail(email, speciality, token); err != nil {
		return nil, fmt.Errorf("failed to send invitation email: %v", err)
	}

	logging.Logger.Infof("Event ID: INVITATION_SENT, Description: Invitation sent to %s by admin %s", email, invitedBy)
	return &invitation, nil
}

// VerifyInvitation checks an invitation token and returns its payload. A
// pending invitation whose deadline has passed is transitioned to expired
// as a side effect of the read, and the call fails.
func (s *InvitationService) VerifyInvitation(ctx context.Context, token string) (*models.Invitation, error) {
	invitation, err := s.freshInvitation(ctx, token)
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

type AcceptInvitationInput struct {
	Token        string `json:"token"`
	Name         string `json:"name"`
	Password     string `json:"password"`
	ProfileImage string `json:"profileImage"`
}

// AcceptInvitation redeems an invitation: it creates the user record first
// and only then marks the invitation accepted, so a failed user insert
// leaves the invitation pending.
func (s *InvitationService) AcceptInvitation(ctx context.Context, input AcceptInvitationInput) (*models.User, error) {
	if input.Token == "" || input.Name == "" || input.Password == "" {
		return nil, fmt.Errorf("all fields are required: %w", ErrValidation)
	}

	invitation, err := s.freshInvitation(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	var existingUser models.User
	if err := s.usersCollection.FindOne(ctx, bson.M{"email": invitation.Email}).Decode(&existingUser); err == nil {
		return nil, fmt.Errorf("user with this email already exists: %w", ErrConflict)
	}

	if err := ValidatePassword(input.Password, s.blackList); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	now := time.Now()
	user := models.User{
		Name:         html.EscapeString(input.Name),
		Email:        invitation.Email,
		Password:     string(hashedPassword),
		ProfileImage: html.EscapeString(input.ProfileImage),
		Speciality:   invitation.Speciality,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := s.usersCollection.InsertOne(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %v", err)
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	if err := invitation.MarkAccepted(now); err != nil {
		return nil, fmt.Errorf("invitation is no longer valid: %w", ErrValidation)
	}
	if err := s.updateStatus(ctx, invitation); err != nil {
		return nil, err
	}

	user.Password = ""
	logging.Logger.Infof("Event ID: INVITATION_ACCEPTED, Description: Invitation for %s accepted", invitation.Email)
	return &user, nil
}

// GetAllInvitations lists every invitation, newest first.
func (s *InvitationService) GetAllInvitations(ctx context.Context) ([]models.Invitation, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.invitationsCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invitations: %v", err)
	}
	defer cursor.Close(ctx)

	var invitations []models.Invitation
	if err := cursor.All(ctx, &invitations); err != nil {
		return nil, fmt.Errorf("failed to decode invitations: %v", err)
	}
	return invitations, nil
}

// freshInvitation loads a pending, unexpired invitation by token. Expiry
// is checked lazily here against the record's expiresAt (the token's own
// exp claim is not enforced); a stale pending invitation is transitioned
// to expired as part of the read. There is no background sweep.
func (s *InvitationService) freshInvitation(ctx context.Context, token string) (*models.Invitation, error) {
	claims, err := s.jwtService.ValidateInviteToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired invitation token: %w", ErrValidation)
	}

	var invitation models.Invitation
	err = s.invitationsCollection.FindOne(ctx, bson.M{"email": claims.Email, "token": token}).Decode(&invitation)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired invitation: %w", ErrValidation)
	}

	if invitation.Status != models.InvitationPending {
		return nil, fmt.Errorf("invalid or expired invitation: %w", ErrValidation)
	}

	if invitation.ExpiredBy(time.Now()) {
		if err := invitation.MarkExpired(); err == nil {
			if err := s.updateStatus(ctx, &invitation); err != nil {
				return nil, err
			}
		}
		return nil, fmt.Errorf("invitation expired: %w", ErrValidation)
	}

	return &invitation, nil
}

func (s *InvitationService) updateStatus(ctx context.Context, invitation *models.Invitation) error {
	invitation.UpdatedAt = time.Now()
	_, err := s.invitationsCollection.UpdateOne(ctx,
		bson.M{"_id": invitation.ID},
		bson.M{"$set": bson.M{"status": invitation.Status, "updatedAt": invitation.UpdatedAt}},
	)
	if err != nil {
		return fmt.Errorf("failed to update invitation status: %v", err)
	}
	return nil
}

func (s *InvitationService) sendInviteEmail(email, speciality, token string) error {
	inviteLink := fmt.Sprintf("%s/invite?token=%s", s.frontendURL, token)
	body := fmt.Sprintf(`
		<div style="font-family:sans-serif;max-width:500px;margin:auto;border:1px solid #ddd;padding:20px;border-radius:10px;">
			<h2>You've Been Invited</h2>
			<p>You have been invited to join <strong>Task Manager</strong> as a <strong>%s</strong>.</p>
			<p>Please click the link below to accept your invitation. This link is valid for 48 hours.</p>
			<a href="%s" style="display:inline-block;margin-top:10px;padding:10px 20px;background:#556B2F;color:white;border-radius:5px;text-decoration:none;">Accept Invitation</a>
			<p style="margin-top:20px;color:#777;font-size:12px;">If you did not expect this invitation, you can safely ignore this email.</p>
		</div>`, html.EscapeString(speciality), inviteLink)

	_, err := s.emailBreaker.Execute(func() (interface{}, error) {
		return nil, utils.SendEmail(email, "You're invited to Task Manager!", body)
	})
	return err
}
