package listing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookeasy/internal/domain/identity"
	"bookeasy/internal/domain/policy"
	"bookeasy/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func actor(c *gin.Context) policy.Subject {
	p, ok := identity.FromGin(c)
	if !ok {
		return policy.Subject{}
	}
	return policy.SubjectOf(*p)
}

// Browse lists approved listings.
// @Summary	Browse listings
// @Tags		Listings
// @Produce	json
// @Param		search	query	string	false	"matches name, description or location"
// @Param		type	query	string	false	"gym, co-working, banquet, cafe, other or all"
// @Param		price	query	string	false	"all, 0-50, 51-100, 101-200, 201+"
// @Router		/listings [get]
func (h *Handler) Browse(c *gin.Context) {
	f, err := ParseFilters(c.Query("search"), c.Query("type"), c.Query("price"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	items, err := h.service.Browse(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listings": items})
}

func (h *Handler) Get(c *gin.Context) {
	l, err := h.service.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listing": l})
}

// Create adds a listing for the calling provider; it starts pending.
// @Summary	Create listing
// @Tags		Provider
// @Accept		json
// @Produce	json
// @Param		body	body	Form	true	"listing"
// @Router		/provider/listings [post]
func (h *Handler) Create(c *gin.Context) {
	var form Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	l, err := h.service.Create(c.Request.Context(), actor(c), form)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"listing": l})
}

func (h *Handler) ListOwn(c *gin.Context) {
	items, stats, err := h.service.ListOwn(c.Request.Context(), actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, OwnListingsResponse{Listings: items, Stats: stats})
}

func (h *Handler) Update(c *gin.Context) {
	var form Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	l, err := h.service.Update(c.Request.Context(), actor(c), c.Param("id"), form)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listing": l})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListAll is the administrator's listing overview with provider emails.
func (h *Handler) ListAll(c *gin.Context) {
	items, err := h.service.ListAll(c.Request.Context(), actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listings": items})
}

// SetStatus approves or rejects a listing.
// @Summary	Set listing status
// @Tags		Admin
// @Accept		json
// @Produce	json
// @Param		id		path	string				true	"listing id"
// @Param		body	body	SetStatusRequest	true	"pending, approved or rejected"
// @Router		/admin/listings/{id}/status [patch]
func (h *Handler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	l, err := h.service.SetStatus(c.Request.Context(), actor(c), c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listing": l})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.ValidationError(c, err)
	case errors.Is(err, policy.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Access denied")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Listing not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeOperationFailed, "Operation failed")
	}
}
