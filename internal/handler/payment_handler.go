package handler

import (
	"net/http"
	"strconv"

	"medicore/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Initiate dispatches a payment attempt for an open invoice. The result
// is INITIATED; the terminal outcome arrives through the webhook and can
// be polled at /payments/status/:reference.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req struct {
		InvoiceID      uint   `json:"invoice_id" binding:"required"`
		Method         string `json:"method" binding:"required"`
		BuyerPhone     string `json:"buyer_phone"`
		BuyerFirstName string `json:"buyer_first_name"`
		BuyerLastName  string `json:"buyer_last_name"`
		BuyerEmail     string `json:"buyer_email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	res, err := h.svc.Initiate(c.Request.Context(), service.InitiateInput{
		InvoiceID:      req.InvoiceID,
		Method:         req.Method,
		BuyerPhone:     req.BuyerPhone,
		BuyerFirstName: req.BuyerFirstName,
		BuyerLastName:  req.BuyerLastName,
		BuyerEmail:     req.BuyerEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *PaymentHandler) Status(c *gin.Context) {
	ref := c.Param("reference")
	p, err := h.svc.Status(ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

type ControlNumberHandler struct {
	svc *service.PaymentService
}

func NewControlNumberHandler(svc *service.PaymentService) *ControlNumberHandler {
	return &ControlNumberHandler{svc: svc}
}

func (h *ControlNumberHandler) Generate(c *gin.Context) {
	var req struct {
		InvoiceID uint `json:"invoice_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	cn, err := h.svc.GenerateControlNumber(c.Request.Context(), req.InvoiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"control_number": cn})
}

func (h *ControlNumberHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid control number id"})
		return
	}
	cn, err := h.svc.CancelControlNumber(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"control_number": cn})
}

func (h *ControlNumberHandler) Reissue(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid control number id"})
		return
	}
	res, err := h.svc.ReissueControlNumber(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
