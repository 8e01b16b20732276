package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatapp/realtime-chat/internal/api/middleware"
	"github.com/chatapp/realtime-chat/internal/core/domain"
	"github.com/chatapp/realtime-chat/internal/core/ports"
)

const logoutMessage = "Logout successful."

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieOptions
}

func NewAuthHandler(authService ports.AuthService, cookies CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

type signupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	FullName string `json:"fullName" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateProfileRequest struct {
	FullName       *string `json:"fullName"`
	About          *string `json:"about"      validate:"omitempty,max=500"`
	ProfilePicture *string `json:"profilePicture"`
}

type signupResponse struct {
	ID                string `json:"_id"`
	Email             string `json:"email"`
	FullName          string `json:"fullName"`
	ProfilePictureURL string `json:"profilePictureUrl"`
	AccessToken       string `json:"accessToken"`
}

type loginResponse struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         domain.Account `json:"user"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Signup creates an account and opens a session.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  signupResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.cookies.setSession(c, res.AccessToken, res.AccessExpiresAt, res.RefreshToken, res.RefreshExpiresAt)
	return c.JSON(http.StatusCreated, signupResponse{
		ID:                res.Account.ID,
		Email:             res.Account.Email,
		FullName:          res.Account.FullName,
		ProfilePictureURL: res.Account.ProfilePictureURL,
		AccessToken:       res.AccessToken,
	})
}

// Login authenticates with email and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookies.setSession(c, res.AccessToken, res.AccessExpiresAt, res.RefreshToken, res.RefreshExpiresAt)
	return c.JSON(http.StatusOK, loginResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         res.Account,
	})
}

// Refresh rotates the refresh token and issues a new access token.
//
// @Summary      Refresh the session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token when not sent as cookie"
// @Success      200   {object}  refreshResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := refreshTokenFrom(c)

	res, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}

	h.cookies.setSession(c, res.AccessToken, res.AccessExpiresAt, res.RefreshToken, res.RefreshExpiresAt)
	return c.JSON(http.StatusOK, refreshResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}

// Logout clears the session cookies. It always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.authService.Logout(c.Request().Context(), ports.LogoutInput{
		AccessToken:  middleware.ExtractToken(c.Request()),
		RefreshToken: refreshTokenFrom(c),
	})

	h.cookies.clearSession(c)
	return c.JSON(http.StatusOK, messageResponse{Message: logoutMessage})
}

// Me returns the authenticated account.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// UpdateProfile merges the given fields into the authenticated account.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/update [patch]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.authService.UpdateProfile(c.Request().Context(), account.ID, ports.UpdateProfileInput{
		FullName:       req.FullName,
		About:          req.About,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// refreshTokenFrom prefers the refresh cookie and falls back to the JSON body.
func refreshTokenFrom(c echo.Context) string {
	if ck, err := c.Cookie(refreshTokenCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("Invalid request body.")
	}
	return c.Validate(req)
}
