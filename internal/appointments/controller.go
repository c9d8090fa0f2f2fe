package appointments

import (
	"net/http"

	"carebook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func (c *Controller) Book(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req BookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Validation failed", nil, err.Error())
		return
	}

	appt, err := c.service.Book(ctx.Request.Context(), userID.(string), &req)
	if err != nil {
		switch err {
		case ErrInvalidID:
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Invalid nurse id", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to book appointment", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Appointment booked successfully", appt, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	userID, _ := ctx.Get("user_id")
	role, _ := ctx.Get("user_role")

	appt, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"), userID.(string), role.(string))
	if err != nil {
		switch err {
		case ErrAppointmentNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Appointment not found", nil, nil)
		case ErrNotOwner:
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get appointment", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Appointment retrieved successfully", appt, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	userID, _ := ctx.Get("user_id")
	role, _ := ctx.Get("user_role")

	appts, err := c.service.ListForUser(ctx.Request.Context(), userID.(string), role.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list appointments", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Appointments retrieved successfully", appts, nil)
}

func (c *Controller) UpdateStatus(ctx *gin.Context) {
	userID, _ := ctx.Get("user_id")
	role, _ := ctx.Get("user_role")

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Validation failed", nil, err.Error())
		return
	}

	err := c.service.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), userID.(string), role.(string), Status(req.Status))
	if err != nil {
		switch err {
		case ErrAppointmentNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Appointment not found", nil, nil)
		case ErrNotOwner:
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update appointment", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Appointment updated successfully", nil, nil)
}
