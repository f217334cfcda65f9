package reservation

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

// Create books a slot on an approved listing.
// @Summary	Create reservation
// @Tags		Reservations
// @Accept		json
// @Produce	json
// @Param		body	body	CreateRequest	true	"booking"
// @Router		/reservations [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	r, err := h.service.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"reservation": r})
}

// ListMine returns the caller's bookings.
// @Summary	My reservations
// @Tags		Reservations
// @Produce	json
// @Router		/reservations [get]
func (h *Handler) ListMine(c *gin.Context) {
	items, err := h.service.ListMine(c.Request.Context(), actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservations": items})
}

func (h *Handler) Get(c *gin.Context) {
	r, err := h.service.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": r})
}

func (h *Handler) ListForProvider(c *gin.Context) {
	items, err := h.service.ListForProvider(c.Request.Context(), actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{Reservations: items, Stats: StatsOf(items)})
}

// ListAll is the administrator's reservation overview.
// @Summary	All reservations
// @Tags		Admin
// @Produce	json
// @Param		status	query	string	false	"all, pending, confirmed, completed or cancelled"
// @Router		/admin/reservations [get]
func (h *Handler) ListAll(c *gin.Context) {
	filter, err := ParseFilter(c.Query("status"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	items, err := h.service.ListAll(c.Request.Context(), actor(c), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{Reservations: items, Stats: StatsOf(items)})
}

// UpdateStatus confirms, completes or cancels a reservation.
// @Summary	Update reservation status
// @Tags		Provider
// @Accept		json
// @Produce	json
// @Param		id		path	string				true	"reservation id"
// @Param		body	body	UpdateStatusRequest	true	"confirmed, completed or cancelled"
// @Router		/provider/reservations/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	to, err := ParseStatus(req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	r, err := h.service.UpdateStatus(c.Request.Context(), actor(c), c.Param("id"), to)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": r})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.ValidationError(c, err)
	case errors.Is(err, policy.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "Access denied")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Reservation not found")
	case errors.Is(err, ErrListingNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Listing not found")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
	case errors.Is(err, ErrSlotTaken):
		response.Error(c, http.StatusConflict, response.CodeConflict, "Time slot is already booked")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeOperationFailed, "Operation failed")
	}
}
