package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/mercato/backend/internal/application/payment"
)

// CommissionHandler handles commission rule administration endpoints
type CommissionHandler struct {
	BaseHandler
	commissionService *paymentapp.CommissionService
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(commissionService *paymentapp.CommissionService) *CommissionHandler {
	return &CommissionHandler{
		commissionService: commissionService,
	}
}

// Create godoc
// @Summary      Create a commission rule
// @Description  Create a commission rate rule scoped to a seller, a category, both, or neither (platform default)
// @Tags         commission
// @Accept       json
// @Produce      json
// @Param        request body paymentapp.CreateRuleInput true "Rule definition"
// @Success      201 {object} dto.Response{data=paymentapp.RuleInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/commission-rules [post]
func (h *CommissionHandler) Create(c *gin.Context) {
	var input paymentapp.CreateRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rule, err := h.commissionService.CreateRule(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, rule)
}

// Disable godoc
// @Summary      Disable a commission rule
// @Description  Disable a rule immediately. Existing commission records are unaffected.
// @Tags         commission
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/commission-rules/{id}/disable [post]
func (h *CommissionHandler) Disable(c *gin.Context) {
	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	if err := h.commissionService.DisableRule(c.Request.Context(), ruleID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"id": ruleID, "enabled": false})
}

// Expire godoc
// @Summary      Expire a commission rule
// @Description  Close a rule's active window at the given time, or now when omitted
// @Tags         commission
// @Accept       json
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Param        request body paymentapp.ExpireRuleInput false "Expiry time"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/commission-rules/{id}/expire [post]
func (h *CommissionHandler) Expire(c *gin.Context) {
	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	var input paymentapp.ExpireRuleInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}
	input.RuleID = ruleID

	if err := h.commissionService.ExpireRule(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"id": ruleID})
}

// GetByID godoc
// @Summary      Get a commission rule
// @Tags         commission
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} dto.Response{data=paymentapp.RuleInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/commission-rules/{id} [get]
func (h *CommissionHandler) GetByID(c *gin.Context) {
	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	rule, err := h.commissionService.GetRule(c.Request.Context(), ruleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// List godoc
// @Summary      List commission rules
// @Description  Retrieve a paginated list of commission rules
// @Tags         commission
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]paymentapp.RuleInfo,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/commission-rules [get]
func (h *CommissionHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.commissionService.ListRules(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
