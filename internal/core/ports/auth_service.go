package ports

import (
	"context"
	"time"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

// SignupInput carries the registration form.
type SignupInput struct {
	Email    string
	FullName string
	Password string
}

// UpdateProfileInput is a partial profile update. ProfilePicture is an
// encoded image (data URI) to upload.
type UpdateProfileInput struct {
	FullName       *string
	About          *string
	ProfilePicture *string
}

// LogoutInput carries whatever tokens the client still presented.
type LogoutInput struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is returned by every operation that opens or renews a session.
type AuthResult struct {
	Account          domain.Account
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, in LogoutInput)
	UpdateProfile(ctx context.Context, accountID string, in UpdateProfileInput) (*domain.Account, error)
}
