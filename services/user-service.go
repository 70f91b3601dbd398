package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"task-manager/backend/logging"
	"task-manager/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	usersCollection *mongo.Collection
	tasksCollection *mongo.Collection
	jwtService      *JWTService
	blackList       map[string]bool
	adminJoinCode   string
}

func NewUserService(
	usersCollection *mongo.Collection,
	tasksCollection *mongo.Collection,
	jwtService *JWTService,
	blackList map[string]bool,
	adminJoinCode string,
) *UserService {
	return &UserService{
		usersCollection: usersCollection,
		tasksCollection: tasksCollection,
		jwtService:      jwtService,
		blackList:       blackList,
		adminJoinCode:   adminJoinCode,
	}
}

type RegisterInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ProfileImage  string `json:"profileImage"`
	AdminJoinCode string `json:"admin_JOIN_Code"`
}

// RegisterUser creates an account. A matching admin join code grants the
// admin role, otherwise the account is a regular user.
func (s *UserService) RegisterUser(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" || input.ProfileImage == "" {
		return nil, fmt.Errorf("all fields are required: %w", ErrValidation)
	}

	email := NormalizeEmail(input.Email)

	var existing models.User
	if err := s.usersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&existing); err == nil {
		return nil, fmt.Errorf("user with this email already exists: %w", ErrConflict)
	}

	if err := ValidatePassword(input.Password, s.blackList); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	role := models.RoleUser
	if input.AdminJoinCode != "" && s.adminJoinCode != "" && input.AdminJoinCode == s.adminJoinCode {
		role = models.RoleAdmin
	}

	now := time.Now()
	user := models.User{
		Name:         html.EscapeString(input.Name),
		Email:        email,
		Password:     string(hashedPassword),
		ProfileImage: html.EscapeString(input.ProfileImage),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := s.usersCollection.InsertOne(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %v", err)
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	user.Password = ""

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with role %s", user.Email, user.Role)
	return &user, nil
}

// LoginUser checks the credentials and returns the user together with a
// signed auth token.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("all fields are required: %w", ErrValidation)
	}

	var user models.User
	err := s.usersCollection.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&user)
	if err != nil {
		return nil, "", fmt.Errorf("user not found: %w", ErrNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password: %w", ErrValidation)
	}

	token, err := s.jwtService.GenerateAuthToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}

	user.Password = ""
	return &user, token, nil
}

// GetProfile returns the caller's own user record, password omitted.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.findUser(ctx, userID)
}

type UpdateProfileInput struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	ProfileImage *string `json:"profileImage"`
}

// UpdateProfile applies the provided fields to the caller's user record.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", ErrValidation)
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Name != nil && *input.Name != "" {
		update["name"] = html.EscapeString(*input.Name)
	}
	if input.Email != nil && *input.Email != "" {
		update["email"] = NormalizeEmail(*input.Email)
	}
	if input.ProfileImage != nil && *input.ProfileImage != "" {
		update["profileImage"] = html.EscapeString(*input.ProfileImage)
	}
	if input.Password != nil && *input.Password != "" {
		if err := ValidatePassword(*input.Password, s.blackList); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %v", err)
		}
		update["password"] = string(hashed)
	}

	result, err := s.usersCollection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": update})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("user not found: %w", ErrNotFound)
	}

	return s.findUser(ctx, userID)
}

// UserWithTaskCounts pairs a user with per-status counts of their assigned
// tasks for the admin user listing.
type UserWithTaskCounts struct {
	models.User
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

// GetUsersWithTaskCounts lists all regular users with their task counts.
func (s *UserService) GetUsersWithTaskCounts(ctx context.Context) ([]UserWithTaskCounts, error) {
	cursor, err := s.usersCollection.Find(ctx, bson.M{"role": models.RoleUser})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %v", err)
	}

	// Sequential counts per user, no snapshot guarantee. Listings are
	// advisory, concurrent task mutation may skew them.
	result := make([]UserWithTaskCounts, 0, len(users))
	for _, user := range users {
		user.Password = ""
		entry := UserWithTaskCounts{User: user}
		for status, target := range map[models.TaskStatus]*int64{
			models.StatusPending:    &entry.PendingTasks,
			models.StatusInProgress: &entry.InProgressTasks,
			models.StatusCompleted:  &entry.CompletedTasks,
		} {
			count, err := s.tasksCollection.CountDocuments(ctx, bson.M{
				"assignedTo": user.ID,
				"status":     status,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to count tasks: %v", err)
			}
			*target = count
		}
		result = append(result, entry)
	}

	return result, nil
}

// GetUserByID returns a user record, password omitted.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, id)
}

func (s *UserService) findUser(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", ErrValidation)
	}

	var user models.User
	if err := s.usersCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user); err != nil {
		return nil, fmt.Errorf("user not found: %w", ErrNotFound)
	}

	user.Password = ""
	return &user, nil
}

// NormalizeEmail canonicalizes an address the way the invitation store
// does, so duplicate checks across collections agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
