package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	sellerapp "github.com/mercato/backend/internal/application/seller"
)

// SellerHandler handles seller onboarding and storefront endpoints
type SellerHandler struct {
	BaseHandler
	onboardingService *sellerapp.OnboardingService
}

// NewSellerHandler creates a new SellerHandler
func NewSellerHandler(onboardingService *sellerapp.OnboardingService) *SellerHandler {
	return &SellerHandler{
		onboardingService: onboardingService,
	}
}

// Apply godoc
// @Summary      Apply to become a seller
// @Description  Submit a seller application with store details and a payout bank account
// @Tags         sellers
// @Accept       json
// @Produce      json
// @Param        request body sellerapp.ApplyInput true "Application details"
// @Success      201 {object} dto.Response{data=sellerapp.ProfileInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/profile [post]
func (h *SellerHandler) Apply(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input sellerapp.ApplyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input.UserID = userID

	profile, err := h.onboardingService.Apply(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, profile)
}

// GetMyProfile godoc
// @Summary      Get my seller profile
// @Tags         sellers
// @Produce      json
// @Success      200 {object} dto.Response{data=sellerapp.ProfileInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/profile [get]
func (h *SellerHandler) GetMyProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	profile, err := h.onboardingService.GetMyProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// UpdateStore godoc
// @Summary      Update my store details
// @Tags         sellers
// @Accept       json
// @Produce      json
// @Param        request body sellerapp.UpdateStoreInput true "Store details"
// @Success      200 {object} dto.Response{data=sellerapp.ProfileInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/profile [put]
func (h *SellerHandler) UpdateStore(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input sellerapp.UpdateStoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input.UserID = userID

	profile, err := h.onboardingService.UpdateStore(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// UpdateBankAccount godoc
// @Summary      Update my payout bank account
// @Tags         sellers
// @Accept       json
// @Produce      json
// @Param        request body sellerapp.UpdateBankAccountInput true "Bank account"
// @Success      200 {object} dto.Response{data=sellerapp.ProfileInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/profile/bank-account [put]
func (h *SellerHandler) UpdateBankAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input sellerapp.UpdateBankAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input.UserID = userID

	profile, err := h.onboardingService.UpdateBankAccount(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// GetStore godoc
// @Summary      Get a storefront by slug
// @Description  Public storefront lookup for approved sellers
// @Tags         sellers
// @Produce      json
// @Param        slug path string true "Store slug"
// @Success      200 {object} dto.Response{data=sellerapp.ProfileInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stores/{slug} [get]
func (h *SellerHandler) GetStore(c *gin.Context) {
	profile, err := h.onboardingService.GetStore(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// GetProfile godoc
// @Summary      Get a seller profile
// @Tags         sellers
// @Produce      json
// @Param        id path string true "Profile ID" format(uuid)
// @Success      200 {object} dto.Response{data=sellerapp.ProfileInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/sellers/{id} [get]
func (h *SellerHandler) GetProfile(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid profile ID format")
		return
	}

	profile, err := h.onboardingService.GetProfile(c.Request.Context(), profileID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// List godoc
// @Summary      List seller profiles
// @Tags         sellers
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]sellerapp.ProfileInfo,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/sellers [get]
func (h *SellerHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.onboardingService.ListProfiles(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListPending godoc
// @Summary      List pending seller applications
// @Tags         sellers
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]sellerapp.ProfileInfo,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/sellers/pending [get]
func (h *SellerHandler) ListPending(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.onboardingService.ListPending(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Approve godoc
// @Summary      Approve a seller application
// @Description  Approve a pending application. All required KYC documents must be approved first.
// @Tags         sellers
// @Produce      json
// @Param        id path string true "Profile ID" format(uuid)
// @Success      200 {object} dto.Response{data=sellerapp.ProfileInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/sellers/{id}/approve [post]
func (h *SellerHandler) Approve(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid profile ID format")
		return
	}

	profile, err := h.onboardingService.Approve(c.Request.Context(), profileID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// Suspend godoc
// @Summary      Suspend a seller
// @Description  Suspend an approved seller. Their active products are taken off sale.
// @Tags         sellers
// @Accept       json
// @Produce      json
// @Param        id path string true "Profile ID" format(uuid)
// @Param        request body sellerapp.SuspendProfileInput true "Suspension reason"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/sellers/{id}/suspend [post]
func (h *SellerHandler) Suspend(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid profile ID format")
		return
	}

	var input sellerapp.SuspendProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input.ProfileID = profileID

	if err := h.onboardingService.Suspend(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"id": profileID, "status": "SUSPENDED"})
}

// Reinstate godoc
// @Summary      Reinstate a suspended seller
// @Tags         sellers
// @Produce      json
// @Param        id path string true "Profile ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/sellers/{id}/reinstate [post]
func (h *SellerHandler) Reinstate(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid profile ID format")
		return
	}

	if err := h.onboardingService.Reinstate(c.Request.Context(), profileID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"id": profileID, "status": "APPROVED"})
}
