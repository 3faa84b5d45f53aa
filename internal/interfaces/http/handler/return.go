package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderapp "github.com/mercato/backend/internal/application/order"
	"github.com/mercato/backend/internal/interfaces/http/middleware"
)

// ReturnHandler handles return request endpoints
type ReturnHandler struct {
	BaseHandler
	returnService *orderapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *orderapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{
		returnService: returnService,
	}
}

// Request godoc
// @Summary      Request a return
// @Description  Open a return for a delivered order line within the return window
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        request body orderapp.RequestReturnInput true "Return request"
// @Success      201 {object} dto.Response{data=orderapp.ReturnInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns [post]
func (h *ReturnHandler) Request(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input orderapp.RequestReturnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input.BuyerID = buyerID

	ret, err := h.returnService.RequestReturn(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ret)
}

// GetByID godoc
// @Summary      Get a return
// @Description  Retrieve a return request with its message thread
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      200 {object} dto.Response{data=orderapp.ReturnInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns/{id} [get]
func (h *ReturnHandler) GetByID(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	ret, err := h.returnService.GetReturn(c.Request.Context(), returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// ListMine godoc
// @Summary      List the buyer's returns
// @Description  Retrieve a paginated list of the authenticated buyer's return requests
// @Tags         returns
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]orderapp.ReturnInfo,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns [get]
func (h *ReturnHandler) ListMine(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.returnService.ListBuyerReturns(c.Request.Context(), buyerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListSellerReturns godoc
// @Summary      List returns against the seller
// @Description  Retrieve a paginated list of return requests on the authenticated seller's lines
// @Tags         returns
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]orderapp.ReturnInfo,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/returns [get]
func (h *ReturnHandler) ListSellerReturns(c *gin.Context) {
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

	result, err := h.returnService.ListSellerReturns(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Approve godoc
// @Summary      Approve a return
// @Description  Seller approves a requested return
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/returns/{id}/approve [post]
func (h *ReturnHandler) Approve(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	if err := h.returnService.ApproveReturn(c.Request.Context(), returnID, sellerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"id": returnID, "status": "APPROVED"})
}

// Reject godoc
// @Summary      Reject a return
// @Description  Seller declines a requested return with a reason
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Param        request body orderapp.RejectReturnInput true "Rejection reason"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/returns/{id}/reject [post]
func (h *ReturnHandler) Reject(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	var input orderapp.RejectReturnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input.ReturnID = returnID
	input.SellerID = sellerID

	if err := h.returnService.RejectReturn(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"id": returnID, "status": "REJECTED"})
}

// MarkShippedBack godoc
// @Summary      Mark a return shipped back
// @Description  Buyer confirms the goods are on their way back to the seller
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns/{id}/ship-back [post]
func (h *ReturnHandler) MarkShippedBack(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	if err := h.returnService.MarkShippedBack(c.Request.Context(), returnID, buyerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"id": returnID, "status": "SHIPPED_BACK"})
}

// ConfirmReceived godoc
// @Summary      Confirm returned goods received
// @Description  Seller confirms the returned goods arrived, which triggers the refund
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/returns/{id}/confirm-received [post]
func (h *ReturnHandler) ConfirmReceived(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	if err := h.returnService.ConfirmReceived(c.Request.Context(), returnID, sellerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"id": returnID, "status": "RECEIVED"})
}

// PostMessage godoc
// @Summary      Post a message to a return thread
// @Description  Add a message to the return's dispute thread. Buyers, sellers and admins may post.
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Param        request body orderapp.PostReturnMessageInput true "Message body"
// @Success      201 {object} dto.Response{data=orderapp.ReturnMessageInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /returns/{id}/messages [post]
func (h *ReturnHandler) PostMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	var input orderapp.PostReturnMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input.ReturnID = returnID
	input.AuthorID = userID
	input.AuthorRole = middleware.GetJWTRole(c)

	msg, err := h.returnService.PostMessage(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, msg)
}

// Close godoc
// @Summary      Close a return
// @Description  Administratively close a return thread after resolution
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/returns/{id}/close [post]
func (h *ReturnHandler) Close(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	if err := h.returnService.CloseReturn(c.Request.Context(), returnID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"id": returnID, "status": "CLOSED"})
}
