package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"stayfinder-backend/config"
	"stayfinder-backend/models"
	"stayfinder-backend/pkg/apperrors"
	"stayfinder-backend/repository"
	"stayfinder-backend/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

// OtpSender abstracts the mail transport so tests can stub delivery.
type OtpSender interface {
	SendOtp(to, name, code string) error
}

type AuthService struct {
	users  repository.UserRepository
	otps   repository.OtpRepository
	mailer OtpSender
	config *config.Config
}

func NewAuthService(users repository.UserRepository, otps repository.OtpRepository, mailer OtpSender, cfg *config.Config) *AuthService {
	return &AuthService{users: users, otps: otps, mailer: mailer, config: cfg}
}

// RequestOtp starts a registration: validates the fields, stores a pending
// record with the password already hashed, and emails the code. A second
// request for the same email supersedes the first.
func (s *AuthService) RequestOtp(ctx context.Context, name, email, password string) error {
	if len(name) < 3 || len(name) > 30 {
		return apperrors.InvalidArg("name must be between 3 and 30 characters")
	}
	if email == "" {
		return apperrors.InvalidArg("email is required")
	}
	if len(password) < 6 || len(password) > 100 {
		return apperrors.InvalidArg("password must be between 6 and 100 characters")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return apperrors.ErrEmailTaken
	} else if err != repository.ErrNotFound {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to check email", err)
	}
	if _, err := s.users.FindByName(ctx, name); err == nil {
		return apperrors.ErrNameTaken
	} else if err != repository.ErrNotFound {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to check name", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to hash password", err)
	}

	code, err := generateOtp()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to generate otp", err)
	}

	otp := &models.Otp{
		Email:     email,
		Name:      name,
		Code:      code,
		Password:  string(hashed),
		ExpiresAt: time.Now().Add(time.Duration(s.config.OtpTTL) * time.Minute),
		CreatedAt: time.Now(),
	}
	if err := s.otps.Upsert(ctx, otp); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to store otp", err)
	}

	if err := s.mailer.SendOtp(email, name, code); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to send otp email", err)
	}
	return nil
}

// VerifyOtp finishes a registration: on a matching unexpired code the user
// document is created from the pending fields and the otp is removed.
func (s *AuthService) VerifyOtp(ctx context.Context, email, code string) (string, *models.User, error) {
	otp, err := s.otps.FindByEmail(ctx, email)
	if err == repository.ErrNotFound {
		return "", nil, apperrors.ErrInvalidOtp
	}
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load otp", err)
	}
	if otp.Code != code || otp.Expired(time.Now()) {
		return "", nil, apperrors.ErrInvalidOtp
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:      otp.Name,
		Email:     otp.Email,
		Password:  otp.Password,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create user", err)
	}

	if err := s.otps.DeleteByEmail(ctx, email); err != nil {
		// The TTL index will reap it; not worth failing the registration.
		slog.Warn("failed to delete verified otp", "email", email, "err", err)
	}

	token, err := s.CreateToken(user.ID.Hex(), user.Name)
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create token", err)
	}
	return token, user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, apperrors.InvalidArg("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err == repository.ErrNotFound {
		return "", nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.CreateToken(user.ID.Hex(), user.Name)
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create token", err)
	}
	return token, user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load user", err)
	}
	return user, nil
}

// UpdateProfile changes name and/or password; empty arguments keep the
// current value.
func (s *AuthService) UpdateProfile(ctx context.Context, id bson.ObjectID, name, password string) (*models.User, error) {
	if name != "" && (len(name) < 3 || len(name) > 30) {
		return nil, apperrors.InvalidArg("name must be between 3 and 30 characters")
	}

	var hashed string
	if password != "" {
		if len(password) < 6 || len(password) > 100 {
			return nil, apperrors.InvalidArg("password must be between 6 and 100 characters")
		}
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to hash password", err)
		}
		hashed = string(h)
	}

	if err := s.users.Update(ctx, id, name, hashed); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to update user", err)
	}
	return s.GetUser(ctx, id)
}

func (s *AuthService) CreateToken(userID, name string) (string, error) {
	expiry := time.Duration(s.config.JWTExpiry) * time.Hour
	return utils.GenerateJWT(s.config.JWTSecret, userID, name, expiry)
}

func (s *AuthService) ParseToken(token string) (string, string, error) {
	return utils.ParseJWT(s.config.JWTSecret, token)
}

func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
