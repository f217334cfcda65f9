package identity

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookeasy/internal/pkg/response"
)

// Handler serves the local identity endpoints and the current-session lookup.
type Handler struct {
	service *Service
	landing func(Role) string
}

// NewHandler takes the function mapping a role to its landing path.
func NewHandler(service *Service, landing func(Role) string) *Handler {
	return &Handler{service: service, landing: landing}
}

// SignUp registers an account with a declared user type.
// @Summary	Sign up
// @Tags		Auth
// @Accept		json
// @Produce	json
// @Param		body	body	SignUpRequest	true	"payload"
// @Router		/auth/signup [post]
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	p, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"principal": p,
		"role":      p.Role(),
	})
}

// SignIn exchanges credentials for an access token and the landing path of
// the resolved role.
// @Summary	Sign in
// @Tags		Auth
// @Accept		json
// @Produce	json
// @Param		body	body	SignInRequest	true	"payload"
// @Router		/auth/signin [post]
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}

	res, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"access_token": res.AccessToken,
		"token_type":   "bearer",
		"principal":    res.Principal,
		"role":         res.Role,
		"home_path":    h.landing(res.Role),
	})
}

func (h *Handler) SignOut(c *gin.Context) {
	p, ok := FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}
	if err := h.service.SignOut(c.Request.Context(), p.ID); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"signed_out": true})
}

// Session reports the caller's principal with a freshly resolved role.
func (h *Handler) Session(c *gin.Context) {
	p, ok := FromGin(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}
	role := p.Role()
	response.Success(c, http.StatusOK, SessionResponse{
		Principal: p,
		Role:      role,
		HomePath:  h.landing(role),
	})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	case errors.Is(err, ErrEmailTaken):
		response.Error(c, http.StatusConflict, "EMAIL_TAKEN", "Email is already registered")
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeOperationFailed, "Operation failed")
	}
}
