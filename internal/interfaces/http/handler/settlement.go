package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/mercato/backend/internal/application/payment"
	"github.com/mercato/backend/internal/domain/identity"
	"github.com/mercato/backend/internal/interfaces/http/middleware"
)

// SettlementHandler handles settlement statement endpoints
type SettlementHandler struct {
	BaseHandler
	settlementService *paymentapp.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlementService *paymentapp.SettlementService) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
	}
}

// GenerateRequest carries the billing period for statement generation
type GenerateRequest struct {
	Year     int        `json:"year" binding:"required,gte=2000,lte=2200"`
	Month    int        `json:"month" binding:"required,gte=1,lte=12"`
	SellerID *uuid.UUID `json:"seller_id"`
}

// Generate godoc
// @Summary      Generate settlement statements
// @Description  Generate draft statements for the given month, for one seller or all sellers with completed activity
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body GenerateRequest true "Billing period"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/settlements/generate [post]
func (h *SettlementHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if req.SellerID != nil {
		statement, err := h.settlementService.GenerateForSeller(c.Request.Context(), *req.SellerID, req.Year, time.Month(req.Month))
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, statement)
		return
	}

	generated, err := h.settlementService.GenerateMonthly(c.Request.Context(), req.Year, time.Month(req.Month))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"generated": generated})
}

// Finalize godoc
// @Summary      Finalize a settlement statement
// @Description  Lock a draft statement so its totals can no longer change
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Settlement ID" format(uuid)
// @Success      200 {object} dto.Response{data=paymentapp.SettlementInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/settlements/{id}/finalize [post]
func (h *SettlementHandler) Finalize(c *gin.Context) {
	settlementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid settlement ID format")
		return
	}

	statement, err := h.settlementService.Finalize(c.Request.Context(), settlementID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, statement)
}

// MarkPaidRequest links a statement to the payout that covered it
type MarkPaidRequest struct {
	PayoutID uuid.UUID `json:"payout_id" binding:"required"`
}

// MarkPaid godoc
// @Summary      Mark a settlement statement as paid
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id path string true "Settlement ID" format(uuid)
// @Param        request body MarkPaidRequest true "Covering payout"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/settlements/{id}/pay [post]
func (h *SettlementHandler) MarkPaid(c *gin.Context) {
	settlementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid settlement ID format")
		return
	}

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.settlementService.MarkPaid(c.Request.Context(), settlementID, req.PayoutID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"id": settlementID, "status": "PAID"})
}

// GetByID godoc
// @Summary      Get a settlement statement
// @Description  Sellers see only their own statements. Admins see any statement.
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Settlement ID" format(uuid)
// @Success      200 {object} dto.Response{data=paymentapp.SettlementInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/settlements/{id} [get]
func (h *SettlementHandler) GetByID(c *gin.Context) {
	settlementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid settlement ID format")
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

	statement, err := h.settlementService.GetSettlement(c.Request.Context(), settlementID, sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, statement)
}

// ListMine godoc
// @Summary      List my settlement statements
// @Tags         settlements
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]paymentapp.SettlementInfo,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/settlements [get]
func (h *SettlementHandler) ListMine(c *gin.Context) {
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

	result, err := h.settlementService.ListSellerSettlements(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// List godoc
// @Summary      List settlement statements
// @Description  Retrieve a paginated list of all settlement statements
// @Tags         settlements
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]paymentapp.SettlementInfo,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/settlements [get]
func (h *SettlementHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.settlementService.ListSettlements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
