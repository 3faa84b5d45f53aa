package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/mercato/backend/internal/application/payment"
	"github.com/mercato/backend/internal/domain/identity"
	"github.com/mercato/backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles payment, escrow and refund read endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
	refundService  *paymentapp.RefundService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.PaymentService, refundService *paymentapp.RefundService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		refundService:  refundService,
	}
}

// StartCharge godoc
// @Summary      Start a payment charge
// @Description  Hand a pending payment off to the gateway and return the redirect URL or client token
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body paymentapp.StartChargeInput true "Charge request"
// @Success      200 {object} dto.Response{data=paymentapp.StartChargeResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/charge [post]
func (h *PaymentHandler) StartCharge(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input paymentapp.StartChargeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input.BuyerID = buyerID

	result, err := h.paymentService.StartCharge(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByID godoc
// @Summary      Get a payment
// @Description  Retrieve a payment. Buyers see only their own payments; admins see any.
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response{data=paymentapp.PaymentInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	// Admins are not scoped to a buyer
	var buyerID *uuid.UUID
	if middleware.GetJWTRole(c) != identity.RoleAdmin.String() {
		buyerID = &userID
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), paymentID, buyerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// ListOrderPayments godoc
// @Summary      List payments for an order
// @Description  Retrieve all payment attempts recorded for an order
// @Tags         payments
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]paymentapp.PaymentInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/payments [get]
func (h *PaymentHandler) ListOrderPayments(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	payments, err := h.paymentService.ListOrderPayments(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payments)
}

// ListOrderEscrow godoc
// @Summary      List escrow entries for an order
// @Description  Retrieve the per-seller escrow breakdown of a captured payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]paymentapp.EscrowInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/escrow [get]
func (h *PaymentHandler) ListOrderEscrow(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	entries, err := h.paymentService.ListOrderEscrow(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// ListMyEscrow godoc
// @Summary      List the seller's escrow entries
// @Description  Retrieve a paginated list of escrow entries held for the authenticated seller
// @Tags         payments
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]paymentapp.EscrowInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/escrow [get]
func (h *PaymentHandler) ListMyEscrow(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, err := h.paymentService.ListSellerEscrow(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// GetRefund godoc
// @Summary      Get a refund
// @Description  Retrieve a single refund record
// @Tags         payments
// @Produce      json
// @Param        id path string true "Refund ID" format(uuid)
// @Success      200 {object} dto.Response{data=paymentapp.RefundInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /refunds/{id} [get]
func (h *PaymentHandler) GetRefund(c *gin.Context) {
	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid refund ID format")
		return
	}

	refund, err := h.refundService.GetRefund(c.Request.Context(), refundID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, refund)
}

// ListPaymentRefunds godoc
// @Summary      List refunds for a payment
// @Description  Retrieve all refunds issued against a payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]paymentapp.RefundInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/{id}/refunds [get]
func (h *PaymentHandler) ListPaymentRefunds(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	refunds, err := h.refundService.ListPaymentRefunds(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, refunds)
}
