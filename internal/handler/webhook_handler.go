package handler

import (
	"io"
	"log"
	"net/http"
	"time"

	"medicore/config"
	"medicore/internal/service"
	"medicore/pkg/payment"

	"github.com/gin-gonic/gin"
)

// PaymentWebhookHandler ingests asynchronous provider status reports.
// Providers retry delivery, so the handler acknowledges everything it can
// parse and leaves idempotence to the reconciliation layer.
type PaymentWebhookHandler struct {
	cfg       *config.Config
	svc       *service.PaymentService
	providers []payment.Provider
}

func NewPaymentWebhookHandler(cfg *config.Config, svc *service.PaymentService, providers ...payment.Provider) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{cfg: cfg, svc: svc, providers: providers}
}

// Handle expects JSON {reference, status, amount_cents?, external_tx_id?}
// and an X-Webhook-Signature header. With a secret configured, a missing
// or wrong signature is rejected outright.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	if secret := h.cfg.Payment.WebhookSecret; secret != "" {
		sig := c.GetHeader("X-Webhook-Signature")
		if sig == "" || !payment.VerifyBody(secret, body, sig) {
			log.Printf("[WEBHOOK] rejected callback with bad signature from %s", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid signature"})
			return
		}
	}
	cb := h.parseCallback(body)
	if cb == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid callback payload"})
		return
	}
	if err := h.svc.Reconcile(c.Request.Context(), cb); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "reconciliation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// parseCallback tries each provider's parser; gateways use different body
// shapes but all echo back our reference. The normalized shape is the
// final fallback.
func (h *PaymentWebhookHandler) parseCallback(body []byte) *payment.Callback {
	for _, p := range h.providers {
		if cb, err := p.ParseCallback(body); err == nil && cb != nil && cb.Reference != "" {
			return cb
		}
	}
	if cb, err := (&payment.StubProvider{}).ParseCallback(body); err == nil {
		return cb
	}
	return nil
}

// JobsHandler exposes the scheduled maintenance sweeps to operators.
type JobsHandler struct {
	svc *service.PaymentService
}

func NewJobsHandler(svc *service.PaymentService) *JobsHandler {
	return &JobsHandler{svc: svc}
}

func (h *JobsHandler) RunOverdueSweep(c *gin.Context) {
	expired, err := h.svc.ExpireOverdueControlNumbers(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	overdue, err := h.svc.OverdueInvoices(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"expired_control_numbers": expired,
		"overdue_invoices":        overdue,
	})
}
