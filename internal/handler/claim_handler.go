package handler

import (
	"net/http"
	"strconv"

	"medicore/internal/service"

	"github.com/gin-gonic/gin"
)

type ClaimHandler struct {
	svc *service.PaymentService
}

func NewClaimHandler(svc *service.PaymentService) *ClaimHandler {
	return &ClaimHandler{svc: svc}
}

func (h *ClaimHandler) Submit(c *gin.Context) {
	var req struct {
		InvoiceID   uint   `json:"invoice_id" binding:"required"`
		ClaimNumber string `json:"claim_number" binding:"required"`
		Provider    string `json:"provider" binding:"required"`
		AmountCents int64  `json:"amount_cents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	claim, err := h.svc.SubmitClaim(c.Request.Context(), req.InvoiceID, req.ClaimNumber, req.Provider, req.AmountCents)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"claim": claim})
}

// AttachDocument accepts a multipart upload field named "document".
func (h *ClaimHandler) AttachDocument(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid claim id"})
		return
	}
	fileHeader, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "document file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unable to read document"})
		return
	}
	defer f.Close()
	claim, err := h.svc.AttachClaimDocument(c.Request.Context(), uint(id), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claim": claim})
}
