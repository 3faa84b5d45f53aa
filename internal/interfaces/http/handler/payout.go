package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/mercato/backend/internal/application/payment"
	"github.com/mercato/backend/internal/domain/identity"
	"github.com/mercato/backend/internal/interfaces/http/middleware"
)

// PayoutHandler handles seller payout endpoints
type PayoutHandler struct {
	BaseHandler
	payoutService *paymentapp.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(payoutService *paymentapp.PayoutService) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
	}
}

// ScheduleBatchRequest carries the execution time for a payout batch
type ScheduleBatchRequest struct {
	ScheduledFor *time.Time `json:"scheduled_for"`
}

// ScheduleBatch godoc
// @Summary      Schedule a payout batch
// @Description  Create payouts for every seller with a positive releasable escrow balance
// @Tags         payouts
// @Accept       json
// @Produce      json
// @Param        request body ScheduleBatchRequest false "Batch schedule"
// @Success      201 {object} dto.Response{data=paymentapp.BatchResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payouts/batches [post]
func (h *PayoutHandler) ScheduleBatch(c *gin.Context) {
	var req ScheduleBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	scheduledFor := time.Now().UTC()
	if req.ScheduledFor != nil {
		scheduledFor = *req.ScheduledFor
	}

	result, err := h.payoutService.ScheduleBatch(c.Request.Context(), scheduledFor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListBatch godoc
// @Summary      List payouts in a batch
// @Tags         payouts
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]paymentapp.PayoutInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payouts/batches/{id} [get]
func (h *PayoutHandler) ListBatch(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	payouts, err := h.payoutService.ListBatch(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payouts)
}

// GetByID godoc
// @Summary      Get a payout
// @Description  Sellers see only their own payouts. Admins see any payout.
// @Tags         payouts
// @Produce      json
// @Param        id path string true "Payout ID" format(uuid)
// @Success      200 {object} dto.Response{data=paymentapp.PayoutInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/payouts/{id} [get]
func (h *PayoutHandler) GetByID(c *gin.Context) {
	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payout ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var sellerID *uuid.UUID
	if middleware.GetJWTRole(c) != identity.RoleAdmin.String() {
		sellerID = &userID
	}

	payout, err := h.payoutService.GetPayout(c.Request.Context(), payoutID, sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payout)
}

// ListMine godoc
// @Summary      List my payouts
// @Tags         payouts
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]paymentapp.PayoutInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/payouts [get]
func (h *PayoutHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payouts, err := h.payoutService.ListSellerPayouts(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payouts)
}
