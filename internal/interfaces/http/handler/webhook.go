package handler

import (
	"github.com/gin-gonic/gin"
	paymentapp "github.com/mercato/backend/internal/application/payment"
)

// GatewaySignatureHeader carries the HMAC signature of the webhook body
const GatewaySignatureHeader = "X-Gateway-Signature"

// WebhookHandler handles inbound payment gateway callbacks
type WebhookHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(paymentService *paymentapp.PaymentService) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
	}
}

// HandleGateway godoc
// @Summary      Payment gateway webhook
// @Description  Receive charge status callbacks from the payment gateway. The body is verified against the signature header; redelivered events are acknowledged without side effects.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        X-Gateway-Signature header string true "HMAC signature of the request body"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /webhooks/gateway [post]
func (h *WebhookHandler) HandleGateway(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil || len(payload) == 0 {
		h.BadRequest(c, "Empty webhook payload")
		return
	}

	signature := c.GetHeader(GatewaySignatureHeader)
	if signature == "" {
		h.Unauthorized(c, "Missing webhook signature")
		return
	}

	if err := h.paymentService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"received": true})
}
