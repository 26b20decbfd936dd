package services

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/models"
	"github.com/theleywin/vibora/src/repository"
)

const invalidCredentials = "Invalid credentials"

// UserService covers signup, login, session resolution and the profile endpoints
type UserService struct {
	users      repository.UserRepository
	tokens     *lib.TokenIssuer
	bcryptCost int
}

func NewUserService(store *repository.Store, tokens *lib.TokenIssuer, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{users: store.Users, tokens: tokens, bcryptCost: bcryptCost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

// Signup creates an account and returns it with a fresh session token
func (s *UserService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, string, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.EmailId = normalizeEmail(req.EmailId)
	if err := lib.Validate(req); err != nil {
		return nil, "", err
	}

	if err := s.ensureEmailFree(ctx, req.EmailId); err != nil {
		return nil, "", err
	}

	hashed, err := s.hash(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		EmailId:   req.EmailId,
		Password:  hashed,
		IsActive:  true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", emailTaken()
		}
		return nil, "", storeErr("create user", err)
	}

	token, err := s.tokens.GenerateJWT(user.Id.Hex())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func emailTaken() error {
	return lib.NewConflict(lib.ReasonEmailTaken, "Email already exists")
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return emailTaken()
	case errors.Is(err, lib.ErrNotFound):
		return nil
	default:
		return storeErr("find user by email", err)
	}
}

// Login checks the credentials of an active account
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	req.EmailId = normalizeEmail(req.EmailId)
	if err := lib.Validate(req); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetByEmail(ctx, req.EmailId)
	if errors.Is(err, lib.ErrNotFound) {
		return nil, "", lib.Unauthorized(invalidCredentials)
	}
	if err != nil {
		return nil, "", storeErr("find user by email", err)
	}
	if !user.IsActive || !checkPassword(user, req.Password) {
		return nil, "", lib.Unauthorized(invalidCredentials)
	}

	token, err := s.tokens.GenerateJWT(user.Id.Hex())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a session token to its active user
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, lib.Unauthorized("Unauthorized - No Token Provided")
	}

	subject, err := s.tokens.VerifyJWT(token)
	if err != nil {
		return nil, lib.Unauthorized("Unauthorized - Invalid Token")
	}
	id, err := primitive.ObjectIDFromHex(subject)
	if err != nil {
		return nil, lib.Unauthorized("Unauthorized - Invalid Token")
	}

	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, lib.ErrNotFound) {
		return nil, lib.Unauthorized("User not found")
	}
	if err != nil {
		return nil, storeErr("get user", err)
	}
	if !user.IsActive {
		return nil, lib.Unauthorized("Account is deactivated")
	}
	return user, nil
}

// Profile returns userID's profile. The email is only shown to the owner.
func (s *UserService) Profile(ctx context.Context, viewer, userID primitive.ObjectID) (models.UserDto, error) {
	user, err := activeUser(ctx, s.users, userID)
	if err != nil {
		return models.UserDto{}, err
	}
	if viewer == userID {
		return user.Dto(), nil
	}
	return user.PublicDto(), nil
}

// UpdateProfile applies a JSON body restricted to the editable profile fields
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, body []byte) (*models.User, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, lib.NewValidation("", "Invalid request body")
	}
	if len(keys) == 0 {
		return nil, lib.NewValidation("", "Nothing to update")
	}
	for key := range keys {
		if !slices.Contains(models.EditableProfileFields, key) {
			return nil, lib.NewValidation(key, "Invalid edit request")
		}
	}

	var update models.ProfileUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		return nil, lib.NewValidation("", "Invalid request body")
	}
	if update.EmailId != nil {
		email := normalizeEmail(*update.EmailId)
		update.EmailId = &email
	}
	if err := lib.Validate(update); err != nil {
		return nil, err
	}

	user, err := activeUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	if update.EmailId != nil && *update.EmailId != user.EmailId {
		if err := s.ensureEmailFree(ctx, *update.EmailId); err != nil {
			return nil, err
		}
	}

	update.Apply(user)
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, emailTaken()
		}
		return nil, storeErr("update user", err)
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, req models.PasswordChangeRequest) error {
	if err := lib.Validate(req); err != nil {
		return err
	}
	user, err := activeUser(ctx, s.users, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user, req.OldPassword) {
		return lib.NewValidation("oldPassword", "Current password is incorrect")
	}
	if req.OldPassword == req.NewPassword {
		return lib.NewValidation("newPassword", "New password must be different from the current one")
	}

	hashed, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return storeErr("update password", s.users.Update(ctx, user))
}

// DeleteAccount deactivates the account once the password is confirmed
func (s *UserService) DeleteAccount(ctx context.Context, userID primitive.ObjectID, req models.DeleteAccountRequest) error {
	if req.Password == "" {
		return lib.NewValidation("password", "Password is required to delete your account")
	}
	user, err := activeUser(ctx, s.users, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user, req.Password) {
		return lib.NewValidation("password", "Incorrect password")
	}

	now := time.Now()
	user.IsActive = false
	user.DeletedAt = &now
	return storeErr("deactivate user", s.users.Update(ctx, user))
}

// TokenTTL is the lifetime of issued session tokens
func (s *UserService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}
