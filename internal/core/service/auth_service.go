package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/chatapp/realtime-chat/internal/core/domain"
	"github.com/chatapp/realtime-chat/internal/core/ports"
	"github.com/chatapp/realtime-chat/internal/pkg/imagedata"
	"github.com/chatapp/realtime-chat/internal/pkg/metrics"
)

const (
	minPasswordLength = 6
	maxPasswordBytes  = 72
	profileFolder     = "profiles"
)

// AuthDependencies groups the collaborators of AuthService.
type AuthDependencies struct {
	Accounts ports.AccountRepository
	Hasher   ports.PasswordHasher
	Access   ports.TokenIssuer
	Refresh  ports.TokenIssuer
	Sessions ports.RefreshTokenStore
	Images   ports.ImageStore
	Logger   zerolog.Logger
}

// AuthService implements signup, login, token refresh, logout and profile updates.
type AuthService struct {
	accounts ports.AccountRepository
	hasher   ports.PasswordHasher
	access   ports.TokenIssuer
	refresh  ports.TokenIssuer
	sessions ports.RefreshTokenStore
	images   ports.ImageStore
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts: deps.Accounts,
		hasher:   deps.Hasher,
		access:   deps.Access,
		refresh:  deps.Refresh,
		sessions: deps.Sessions,
		images:   deps.Images,
		log:      deps.Logger,
		now:      time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	if email == "" || fullName == "" || in.Password == "" {
		return nil, domain.ErrRequiredFields
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}
	// bcrypt only accepts up to 72 bytes of input.
	if len(in.Password) > maxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}

	_, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("signup: lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	now := s.now().UTC()
	created, err := s.accounts.Create(ctx, &domain.Account{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// The unique index still guards against a concurrent signup.
		return nil, fmt.Errorf("signup: %w", err)
	}

	metrics.SignupsTotal.Inc()
	s.log.Info().Str("account_id", created.ID).Msg("account created")
	return s.openSession(ctx, *created)
}

// Login never reveals whether the email exists: unknown accounts and wrong
// passwords both fail with domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	res, err := s.login(ctx, email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return res, nil
}

func (s *AuthService) login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Compare(account.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	online := true
	if updated, err := s.accounts.Update(ctx, account.ID, domain.ProfileUpdate{IsOnline: &online}); err != nil {
		s.log.Warn().Err(err).Str("account_id", account.ID).Msg("failed to mark account online")
	} else {
		account = updated
	}

	return s.openSession(ctx, *account)
}

// Refresh rotates a refresh token: the presented token is consumed and can
// never be used again, and a new access/refresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrRefreshTokenInvalid
	}
	claim, err := s.refresh.Verify(refreshToken)
	if err != nil {
		return nil, domain.ErrRefreshTokenInvalid
	}

	subject, err := s.sessions.Consume(ctx, claim.TokenID)
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenInvalid) {
			s.log.Warn().Str("account_id", claim.Subject).Msg("refresh token reuse or unknown token")
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if subject != claim.Subject {
		return nil, domain.ErrRefreshTokenInvalid
	}

	account, err := s.accounts.FindByID(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return s.openSession(ctx, *account)
}

// Logout is best effort. Access tokens cannot be revoked and stay valid until
// they expire; the refresh token is revoked and the account marked offline.
func (s *AuthService) Logout(ctx context.Context, in ports.LogoutInput) {
	if in.RefreshToken != "" {
		if claim, err := s.refresh.Verify(in.RefreshToken); err == nil {
			if err := s.sessions.Revoke(ctx, claim.TokenID); err != nil {
				s.log.Warn().Err(err).Str("account_id", claim.Subject).Msg("failed to revoke refresh token")
			}
		}
	}

	if in.AccessToken != "" {
		if claim, err := s.access.Verify(in.AccessToken); err == nil {
			offline := false
			if _, err := s.accounts.Update(ctx, claim.Subject, domain.ProfileUpdate{IsOnline: &offline}); err != nil {
				s.log.Warn().Err(err).Str("account_id", claim.Subject).Msg("failed to mark account offline")
			}
		}
	}
}

// UpdateProfile merges the fields present in the input. A new profile picture
// is validated and uploaded before anything is written.
func (s *AuthService) UpdateProfile(ctx context.Context, accountID string, in ports.UpdateProfileInput) (*domain.Account, error) {
	var update domain.ProfileUpdate

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, domain.ErrRequiredFields
		}
		update.FullName = &name
	}
	if in.About != nil {
		about := strings.TrimSpace(*in.About)
		update.About = &about
	}
	if in.ProfilePicture != nil {
		img, err := imagedata.Decode(*in.ProfilePicture)
		if err != nil {
			return nil, err
		}
		url, err := s.images.Upload(ctx, profileFolder, img)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		update.ProfilePictureURL = &url
	}

	if update.IsEmpty() {
		return nil, domain.ErrRequiredFields
	}

	updated, err := s.accounts.Update(ctx, accountID, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	public := updated.Public()
	return &public, nil
}

func (s *AuthService) openSession(ctx context.Context, account domain.Account) (*ports.AuthResult, error) {
	accessToken, accessClaim, err := s.access.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, refreshClaim, err := s.refresh.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.sessions.Save(ctx, refreshClaim); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &ports.AuthResult{
		Account:          account.Public(),
		AccessToken:      accessToken,
		AccessExpiresAt:  accessClaim.ExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshClaim.ExpiresAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
