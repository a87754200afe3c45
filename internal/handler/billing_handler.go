package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"medicore/config"
	"medicore/internal/domain"
	"medicore/internal/models"
	"medicore/internal/repository"
	"medicore/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BillingHandler manages invoices. Invoices are append-only: they are
// never deleted, only settled or voided.
type BillingHandler struct {
	invoices  *repository.InvoiceRepository
	patients  *repository.PatientRepository
	payments  *service.PaymentService
	dueWindow time.Duration
}

func NewBillingHandler(invoices *repository.InvoiceRepository, patients *repository.PatientRepository, payments *service.PaymentService, cfg *config.PaymentConfig) *BillingHandler {
	return &BillingHandler{invoices: invoices, patients: patients, payments: payments, dueWindow: cfg.InvoiceDueWindow}
}

// defaultDueDays converts the configured due window to whole days; a zero
// or sub-day window falls back to 30 days.
func defaultDueDays(window time.Duration) int {
	days := int(window / (24 * time.Hour))
	if days <= 0 {
		return 30
	}
	return days
}

func (h *BillingHandler) Create(c *gin.Context) {
	var req struct {
		PatientID   uint   `json:"patient_id" binding:"required"`
		AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
		Description string `json:"description"`
		ServiceDate string `json:"service_date"`
		DueDays     int    `json:"due_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if _, err := h.patients.GetByID(req.PatientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "patient not found"})
			return
		}
		respondError(c, err)
		return
	}
	serviceDate := time.Now()
	if req.ServiceDate != "" {
		t, err := time.Parse("2006-01-02", req.ServiceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "service_date must be YYYY-MM-DD"})
			return
		}
		serviceDate = t
	}
	dueDays := req.DueDays
	if dueDays <= 0 {
		dueDays = defaultDueDays(h.dueWindow)
	}
	inv := &models.Invoice{
		PatientID:   req.PatientID,
		AmountCents: req.AmountCents,
		Description: req.Description,
		ServiceDate: serviceDate,
		Status:      domain.InvoiceStatusPending,
		DueAt:       time.Now().AddDate(0, 0, dueDays),
	}
	if err := h.invoices.Create(inv); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invoice": inv})
}

func (h *BillingHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	if v := c.Query("patient_id"); v != "" {
		pid, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid patient_id"})
			return
		}
		list, err := h.invoices.ListByPatient(uint(pid), limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoices": list})
		return
	}
	list, err := h.invoices.List(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": list})
}

func (h *BillingHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid invoice id"})
		return
	}
	inv, err := h.invoices.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "invoice not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": inv})
}

// Void retires a pending invoice. Settled invoices cannot be voided.
func (h *BillingHandler) Void(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid invoice id"})
		return
	}
	voided, err := h.invoices.Void(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if !voided {
		c.JSON(http.StatusConflict, gin.H{"message": "invoice is not pending"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "voided"})
}

// MarkPaid is the manual override for cash and offline settlements.
func (h *BillingHandler) MarkPaid(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid invoice id"})
		return
	}
	paid, err := h.invoices.MarkPaid(uint(id), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	if !paid {
		c.JSON(http.StatusConflict, gin.H{"message": "invoice is not pending"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "paid"})
}

func (h *BillingHandler) OverdueReport(c *gin.Context) {
	list, err := h.payments.OverdueInvoices(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overdue": list, "count": len(list)})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
