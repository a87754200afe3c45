package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medicore/config"
	"medicore/internal/models"
	"medicore/internal/service"
	"medicore/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// emptyPayments satisfies the payment store with no rows, so reconcile
// treats every reference as unknown and acks it.
type emptyPayments struct{}

var _ service.PaymentStore = (*emptyPayments)(nil)

func (emptyPayments) Create(p *models.Payment) error { return nil }
func (emptyPayments) GetByReference(ref string) (*models.Payment, error) {
	return nil, gorm.ErrRecordNotFound
}
func (emptyPayments) ListByInvoice(invoiceID uint) ([]models.Payment, error) { return nil, nil }
func (emptyPayments) Transition(id uint, from []string, to, externalTxID string, completedAt *time.Time) (bool, error) {
	return false, nil
}

func webhookRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Load()
	cfg.Payment.WebhookSecret = secret
	svc := service.NewPaymentService(&cfg.Payment,
		nil, emptyPayments{}, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, "")
	h := NewPaymentWebhookHandler(cfg, svc)
	r := gin.New()
	r.POST("/webhooks/payments", h.Handle)
	return r
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	r := webhookRouter("s3cret")
	body := []byte(`{"reference":"inv1-x","status":"SUCCESS"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	r := webhookRouter("s3cret")
	body := []byte(`{"reference":"inv1-x","status":"SUCCESS"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
	req.Header.Set("X-Webhook-Signature", "deadbeef")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookAcceptsValidSignature(t *testing.T) {
	r := webhookRouter("s3cret")
	body := []byte(`{"reference":"inv1-x","status":"SUCCESS"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
	req.Header.Set("X-Webhook-Signature", payment.SignBody("s3cret", body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())
}

func TestWebhookNoSecretSkipsVerification(t *testing.T) {
	r := webhookRouter("")
	body := []byte(`{"reference":"inv1-x","status":"SUCCESS"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookRejectsUnparseableBody(t *testing.T) {
	r := webhookRouter("")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader([]byte(`{"status":"SUCCESS"}`)))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
