package identityapi

import (
	"strings"

	"github.com/Abraxas-365/userservice/pkg/errx"
	"github.com/Abraxas-365/userservice/pkg/httpx"
	"github.com/Abraxas-365/userservice/pkg/identity"
	"github.com/gofiber/fiber/v2"
)

// Handlers exposes identity.Service over HTTP.
type Handlers struct {
	svc   identity.Service
	audit identity.AuditService
}

func NewHandlers(svc identity.Service, audit identity.AuditService) *Handlers {
	return &Handlers{svc: svc, audit: audit}
}

// RegisterRoutes mounts the user routes under /users and the provider health
// check under /health/provider.
func (h *Handlers) RegisterRoutes(app fiber.Router) {
	app.Get("/health/provider", h.CheckConnection)

	users := app.Group("/users")

	// Static paths first so they never match :username.
	users.Get("/", h.ListUsers)
	users.Get("/me", h.CurrentUser)
	users.Post("/create", h.Signup)
	users.Post("/confirm", h.ConfirmEmail)
	users.Post("/resend-code", h.ResendCode)
	users.Post("/login", h.Login)
	users.Post("/logout", h.Logout)
	users.Post("/refresh", h.RefreshToken)
	users.Post("/forgot-password", h.ForgotPassword)
	users.Post("/confirm-forgot-password", h.ConfirmForgotPassword)
	users.Put("/update/:username", h.UpdateUser)
	users.Delete("/delete/:username", h.DeleteUser)
	users.Get("/:username", h.GetByUsername)
}

// ============================================================================
// Request bodies
// ============================================================================

type emailRequest struct {
	Email string `json:"email"`
}

type confirmRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type newPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// ============================================================================
// Registration
// ============================================================================

func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req identity.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := h.svc.Signup(c.UserContext(), req)
	h.audit.LogAccountCreated(c.UserContext(), req.Email, err == nil, c.IP())
	if err != nil {
		return err
	}
	return httpx.OK(c, "User created successfully", res)
}

func (h *Handlers) ConfirmEmail(c *fiber.Ctx) error {
	var req confirmRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := identity.RequireFields(map[string]string{"email": req.Email, "code": req.Code}); err != nil {
		return err
	}

	res, err := h.svc.ConfirmEmail(c.UserContext(), req.Email, req.Code)
	if err != nil {
		return err
	}
	return httpx.OK(c, res.Message, res)
}

func (h *Handlers) ResendCode(c *fiber.Ctx) error {
	var req emailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := identity.RequireFields(map[string]string{"email": req.Email}); err != nil {
		return err
	}

	res, err := h.svc.ResendCode(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return httpx.OK(c, res.Message, res)
}

// ============================================================================
// Sessions
// ============================================================================

func (h *Handlers) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := identity.RequireFields(map[string]string{"email": req.Email, "password": req.Password}); err != nil {
		return err
	}
	if err := identity.ValidateEmail(req.Email); err != nil {
		return err
	}

	res, err := h.svc.Login(c.UserContext(), req.Email, req.Password)
	h.audit.LogLoginAttempt(c.UserContext(), req.Email, err == nil, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}
	return httpx.OK(c, "Login successful", res)
}

func (h *Handlers) Logout(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	res, err := h.svc.Logout(c.UserContext(), token)
	h.audit.LogLogout(c.UserContext(), err == nil, c.IP())
	if err != nil {
		return err
	}
	return httpx.OK(c, res.Message, nil)
}

func (h *Handlers) RefreshToken(c *fiber.Ctx) error {
	var req refreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := identity.RequireFields(map[string]string{"refresh_token": req.RefreshToken}); err != nil {
		return err
	}

	res, err := h.svc.RefreshToken(c.UserContext(), req.RefreshToken)
	h.audit.LogTokenRefresh(c.UserContext(), err == nil, c.IP())
	if err != nil {
		return err
	}
	return httpx.OK(c, "Token refreshed successfully", res)
}

// ============================================================================
// Password recovery
// ============================================================================

func (h *Handlers) ForgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := identity.RequireFields(map[string]string{"email": req.Email}); err != nil {
		return err
	}

	res, err := h.svc.ForgotPassword(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return httpx.OK(c, res.Message, res)
}

func (h *Handlers) ConfirmForgotPassword(c *fiber.Ctx) error {
	var req newPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := identity.RequireFields(map[string]string{
		"email":        req.Email,
		"code":         req.Code,
		"new_password": req.NewPassword,
	}); err != nil {
		return err
	}

	res, err := h.svc.ConfirmForgotPassword(c.UserContext(), req.Email, req.Code, req.NewPassword)
	h.audit.LogPasswordReset(c.UserContext(), req.Email, err == nil, c.IP())
	if err != nil {
		return err
	}
	return httpx.OK(c, res.Message, res)
}

// ============================================================================
// Directory
// ============================================================================

func (h *Handlers) CurrentUser(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	user, err := h.svc.CurrentUser(c.UserContext(), token)
	if err != nil {
		return err
	}
	return httpx.OK(c, "User retrieved successfully", user)
}

func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	page, err := h.svc.ListUsers(c.UserContext(), c.QueryInt("limit", 0), c.Query("token"))
	if err != nil {
		return err
	}
	return httpx.OK(c, "Users retrieved successfully", page)
}

func (h *Handlers) GetByUsername(c *fiber.Ctx) error {
	user, err := h.svc.GetByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return httpx.OK(c, "User retrieved successfully", user)
}

func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	var req identity.UpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := h.svc.UpdateUser(c.UserContext(), c.Params("username"), req)
	if err != nil {
		return err
	}
	return httpx.OK(c, res.Message, res)
}

func (h *Handlers) DeleteUser(c *fiber.Ctx) error {
	username := c.Params("username")

	res, err := h.svc.DeleteUser(c.UserContext(), username)
	h.audit.LogAccountDeleted(c.UserContext(), username, err == nil, c.IP())
	if err != nil {
		return err
	}
	return httpx.OK(c, res.Message, res)
}

// ============================================================================
// Health
// ============================================================================

func (h *Handlers) CheckConnection(c *fiber.Ctx) error {
	report, err := h.svc.CheckConnection(c.UserContext())
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if !report.Healthy() {
		status = fiber.StatusServiceUnavailable
	}
	return httpx.Respond(c, status, report.Message, report)
}

// ============================================================================
// Helpers
// ============================================================================

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errx.Wrap(err, "Invalid request body", errx.TypeValidation)
	}
	return nil
}

// bearerToken extracts the access token from "Authorization: Bearer <token>".
func bearerToken(c *fiber.Ctx) (string, error) {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", errx.Unauthorized("Missing or invalid Authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
