package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mahinuzzaman/pulsefeed/internal/middleware"
	"github.com/mahinuzzaman/pulsefeed/internal/models"
	"github.com/mahinuzzaman/pulsefeed/internal/session"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	manager *session.Manager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(manager *session.Manager) *AuthHandler {
	return &AuthHandler{manager: manager}
}

// RegisterAuthRoutes registers the unauthenticated credential routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.SignUp)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// RegisterSessionRoutes registers the routes that require a valid session
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.POST("/auth/signout", h.SignOut)
}

// SignUp registers a new email/password identity. Password length and field
// presence are validated before the session layer is called.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req models.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.manager.SignUp(req.Email, req.Password, req.Username, req.FullName)
	if err != nil {
		return authHTTPError(err)
	}
	return c.JSON(http.StatusCreated, sess)
}

// SignIn authenticates an email/password pair
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.manager.SignIn(req.Email, req.Password)
	if err != nil {
		return authHTTPError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

// FirebaseLogin signs in with a Firebase ID token
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.manager.SignInWithIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return authHTTPError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

// SignOut ends the current session
func (h *AuthHandler) SignOut(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "No active session")
	}
	if err := h.manager.SignOut(sess.Token); err != nil {
		return authHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// authHTTPError maps structured auth error codes onto HTTP statuses
func authHTTPError(err error) error {
	var authErr *session.AuthError
	if !errors.As(err, &authErr) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	status := http.StatusInternalServerError
	switch authErr.Code {
	case session.CodeWeakPassword:
		status = http.StatusBadRequest
	case session.CodeUserAlreadyExists:
		status = http.StatusConflict
	case session.CodeInvalidCredentials, session.CodeInvalidToken:
		status = http.StatusUnauthorized
	case session.CodeProviderDisabled:
		status = http.StatusServiceUnavailable
	}
	return echo.NewHTTPError(status, echo.Map{
		"code":    authErr.Code,
		"message": authErr.Message,
	})
}
