package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	sellerapp "github.com/mercato/backend/internal/application/seller"
)

// KYCHandler handles KYC document submission and review endpoints
type KYCHandler struct {
	BaseHandler
	kycService *sellerapp.KYCService
}

// NewKYCHandler creates a new KYCHandler
func NewKYCHandler(kycService *sellerapp.KYCService) *KYCHandler {
	return &KYCHandler{
		kycService: kycService,
	}
}

// Submit godoc
// @Summary      Submit a KYC document
// @Description  Register a document submission and receive a presigned upload URL
// @Tags         kyc
// @Accept       json
// @Produce      json
// @Param        request body sellerapp.SubmitDocumentInput true "Document details"
// @Success      201 {object} dto.Response{data=sellerapp.SubmitDocumentResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/kyc/documents [post]
func (h *KYCHandler) Submit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input sellerapp.SubmitDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input.UserID = userID

	result, err := h.kycService.SubmitDocument(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Resubmit godoc
// @Summary      Resubmit a rejected KYC document
// @Description  Open a new submission round for a rejected document and receive a fresh upload URL
// @Tags         kyc
// @Accept       json
// @Produce      json
// @Param        id path string true "Submission ID" format(uuid)
// @Param        request body sellerapp.ResubmitDocumentInput true "Document details"
// @Success      201 {object} dto.Response{data=sellerapp.SubmitDocumentResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/kyc/documents/{id}/resubmit [post]
func (h *KYCHandler) Resubmit(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid submission ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input sellerapp.ResubmitDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input.UserID = userID
	input.SubmissionID = submissionID

	result, err := h.kycService.ResubmitDocument(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListMine godoc
// @Summary      List my KYC submissions
// @Tags         kyc
// @Produce      json
// @Success      200 {object} dto.Response{data=[]sellerapp.SubmissionInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /seller/kyc/documents [get]
func (h *KYCHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	submissions, err := h.kycService.ListMySubmissions(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, submissions)
}

// ReviewQueue godoc
// @Summary      List KYC submissions awaiting review
// @Tags         kyc
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]sellerapp.SubmissionInfo,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/kyc/review-queue [get]
func (h *KYCHandler) ReviewQueue(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.kycService.ReviewQueue(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Claim godoc
// @Summary      Claim a KYC submission for review
// @Description  Move a submission into review under the calling reviewer
// @Tags         kyc
// @Produce      json
// @Param        id path string true "Submission ID" format(uuid)
// @Success      200 {object} dto.Response{data=sellerapp.SubmissionInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/kyc/documents/{id}/claim [post]
func (h *KYCHandler) Claim(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid submission ID format")
		return
	}

	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	submission, err := h.kycService.ClaimDocument(c.Request.Context(), submissionID, reviewerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, submission)
}

// Approve godoc
// @Summary      Approve a KYC submission
// @Tags         kyc
// @Accept       json
// @Produce      json
// @Param        id path string true "Submission ID" format(uuid)
// @Param        request body sellerapp.ReviewDecisionInput false "Reviewer notes"
// @Success      200 {object} dto.Response{data=sellerapp.SubmissionInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/kyc/documents/{id}/approve [post]
func (h *KYCHandler) Approve(c *gin.Context) {
	h.review(c, h.kycService.ApproveDocument)
}

// Reject godoc
// @Summary      Reject a KYC submission
// @Tags         kyc
// @Accept       json
// @Produce      json
// @Param        id path string true "Submission ID" format(uuid)
// @Param        request body sellerapp.ReviewDecisionInput false "Reviewer notes"
// @Success      200 {object} dto.Response{data=sellerapp.SubmissionInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/kyc/documents/{id}/reject [post]
func (h *KYCHandler) Reject(c *gin.Context) {
	h.review(c, h.kycService.RejectDocument)
}

func (h *KYCHandler) review(c *gin.Context, decide func(ctx context.Context, input sellerapp.ReviewDecisionInput) (*sellerapp.SubmissionInfo, error)) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid submission ID format")
		return
	}

	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input sellerapp.ReviewDecisionInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}
	input.SubmissionID = submissionID
	input.ReviewerID = reviewerID

	submission, err := decide(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, submission)
}

// DocumentURL godoc
// @Summary      Get a download URL for a KYC document
// @Description  Return a short-lived presigned download URL for the submitted file
// @Tags         kyc
// @Produce      json
// @Param        id path string true "Submission ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/kyc/documents/{id}/url [get]
func (h *KYCHandler) DocumentURL(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid submission ID format")
		return
	}

	url, err := h.kycService.DocumentURL(c.Request.Context(), submissionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"url": url})
}
