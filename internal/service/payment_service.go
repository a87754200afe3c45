package service

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"medicore/config"
	"medicore/internal/domain"
	"medicore/internal/models"
	"medicore/pkg/cloudinary"
	"medicore/pkg/insurance"
	"medicore/pkg/notify"
	"medicore/pkg/payment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceStore interface {
	GetByID(id uint) (*models.Invoice, error)
	MarkPaid(id uint, at time.Time) (bool, error)
	OverdueAsOf(asOf time.Time) ([]models.Invoice, error)
}

type PaymentStore interface {
	Create(p *models.Payment) error
	GetByReference(ref string) (*models.Payment, error)
	ListByInvoice(invoiceID uint) ([]models.Payment, error)
	Transition(id uint, from []string, to, externalTxID string, completedAt *time.Time) (bool, error)
}

type ControlNumberStore interface {
	Create(cn *models.ControlNumber) error
	GetByID(id uint) (*models.ControlNumber, error)
	ActiveByInvoice(invoiceID uint) (*models.ControlNumber, error)
	Transition(id uint, from, to string) (bool, error)
	Reissue(oldID uint, replacement *models.ControlNumber) error
	ExpireOlderThan(asOf time.Time) (int64, error)
}

type ClaimStore interface {
	Create(c *models.InsuranceClaim) error
	GetByID(id uint) (*models.InsuranceClaim, error)
	Exists(invoiceID uint, claimNumber string) (bool, error)
	Update(c *models.InsuranceClaim) error
}

type PatientDirectory interface {
	GetByID(id uint) (*models.Patient, error)
}

type AuditStore interface {
	Create(a *models.AuditLog) error
}

// PaymentNotifier is how settlement events reach the notification
// dispatcher; *NotificationService satisfies it.
type PaymentNotifier interface {
	NotifyUser(userID uint, title, message string) error
}

// ClaimGateway forwards claim submissions to the payer API.
type ClaimGateway interface {
	SubmitClaim(ctx context.Context, claim insurance.ClaimSubmission) (*insurance.ClaimAck, error)
}

// NumberIssuer issues control numbers at the bank gateway.
type NumberIssuer interface {
	IssueNumber(ctx context.Context, req payment.InitiateRequest) (string, error)
}

type InitiateInput struct {
	InvoiceID      uint
	Method         string
	BuyerPhone     string
	BuyerFirstName string
	BuyerLastName  string
	BuyerEmail     string
}

type InitiateResult struct {
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

type ReissueResult struct {
	Old *models.ControlNumber `json:"old"`
	New *models.ControlNumber `json:"new"`
}

// PaymentService drives invoices through settlement: attempts dispatched
// to provider adapters, asynchronous reports reconciled idempotently, and
// the control-number lifecycle kept to at most one ACTIVE per invoice.
type PaymentService struct {
	cfg            *config.PaymentConfig
	invoices       InvoiceStore
	payments       PaymentStore
	controlNumbers ControlNumberStore
	claims         ClaimStore
	patients       PatientDirectory
	audits         AuditStore
	providers      map[string]payment.Provider
	issuer         NumberIssuer
	gateway        ClaimGateway
	notifier       PaymentNotifier
	channel        notify.Channel
	documents      cloudinary.Client
	callbackURL    string
}

func NewPaymentService(
	cfg *config.PaymentConfig,
	invoices InvoiceStore,
	payments PaymentStore,
	controlNumbers ControlNumberStore,
	claims ClaimStore,
	patients PatientDirectory,
	audits AuditStore,
	providers map[string]payment.Provider,
	issuer NumberIssuer,
	gateway ClaimGateway,
	notifier PaymentNotifier,
	channel notify.Channel,
	documents cloudinary.Client,
	callbackURL string,
) *PaymentService {
	return &PaymentService{
		cfg:            cfg,
		invoices:       invoices,
		payments:       payments,
		controlNumbers: controlNumbers,
		claims:         claims,
		patients:       patients,
		audits:         audits,
		providers:      providers,
		issuer:         issuer,
		gateway:        gateway,
		notifier:       notifier,
		channel:        channel,
		documents:      documents,
		callbackURL:    callbackURL,
	}
}

// Initiate dispatches a settlement attempt to the provider selected by
// method. Adapter failure surfaces as a ProviderError; a FAILED payment
// row is still recorded for audit, never a misleading success.
func (s *PaymentService) Initiate(ctx context.Context, in InitiateInput) (*InitiateResult, error) {
	inv, err := s.getInvoice(in.InvoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.Open() {
		return nil, fmt.Errorf("%w: invoice %d is %s", domain.ErrInvalidState, inv.ID, inv.Status)
	}
	method := strings.ToLower(strings.TrimSpace(in.Method))
	prov, ok := s.providers[method]
	if !ok {
		return nil, domain.Validationf("unknown payment method %q", in.Method)
	}
	ref := fmt.Sprintf("inv%d-%s", inv.ID, uuid.New().String())
	req := payment.InitiateRequest{
		InvoiceID:      inv.ID,
		Reference:      ref,
		AmountCents:    inv.AmountCents,
		Description:    inv.Description,
		CallbackURL:    s.callbackURL,
		BuyerPhone:     in.BuyerPhone,
		BuyerFirstName: in.BuyerFirstName,
		BuyerLastName:  in.BuyerLastName,
		BuyerEmail:     in.BuyerEmail,
	}
	resp, err := prov.Initiate(ctx, req)
	if err != nil {
		failed := &models.Payment{
			InvoiceID:   &inv.ID,
			PatientID:   &inv.PatientID,
			AmountCents: inv.AmountCents,
			Method:      method,
			Status:      domain.PaymentStatusFailed,
			ProviderRef: ref,
		}
		if cerr := s.payments.Create(failed); cerr != nil {
			log.Printf("[PAYMENT] audit row for failed initiate: %v", cerr)
		}
		return nil, &domain.ProviderError{Provider: prov.Name(), Err: err}
	}
	p := &models.Payment{
		InvoiceID:    &inv.ID,
		PatientID:    &inv.PatientID,
		AmountCents:  inv.AmountCents,
		Method:       method,
		Status:       domain.PaymentStatusInitiated,
		ProviderRef:  ref,
		ExternalTxID: resp.ExternalTxID,
	}
	if err := s.payments.Create(p); err != nil {
		return nil, err
	}
	s.audit("payment_initiated", "payment", ref, 0)
	return &InitiateResult{
		Reference:   ref,
		Status:      p.Status,
		CheckoutURL: resp.CheckoutURL,
	}, nil
}

// Reconcile ingests one asynchronous provider report. It is safe to
// re-run: duplicates are no-ops and unknown references are logged and
// swallowed. Success is sticky; the final stored status reflects whether
// a success was ever reported, not the order reports arrived in.
func (s *PaymentService) Reconcile(ctx context.Context, cb *payment.Callback) error {
	if cb == nil || strings.TrimSpace(cb.Reference) == "" {
		log.Printf("[RECONCILE] report without reference, ignoring")
		return nil
	}
	p, err := s.payments.GetByReference(cb.Reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[RECONCILE] unknown reference %s, ignoring", cb.Reference)
			return nil
		}
		return err
	}
	switch {
	case isSuccessStatus(cb.Status):
		now := time.Now()
		changed, err := s.payments.Transition(p.ID,
			[]string{domain.PaymentStatusInitiated, domain.PaymentStatusFailed},
			domain.PaymentStatusSuccess, cb.ExternalTxID, &now)
		if err != nil {
			return err
		}
		if !changed {
			log.Printf("[RECONCILE] duplicate success for %s, no-op", cb.Reference)
			return nil
		}
		if p.InvoiceID != nil {
			flipped, err := s.invoices.MarkPaid(*p.InvoiceID, now)
			if err != nil {
				return err
			}
			if flipped {
				s.audit("invoice_paid", "invoice", fmt.Sprintf("%d", *p.InvoiceID), 0)
				s.notifySettled(ctx, p)
			}
		}
		return nil
	case isFailureStatus(cb.Status):
		changed, err := s.payments.Transition(p.ID,
			[]string{domain.PaymentStatusInitiated},
			domain.PaymentStatusFailed, cb.ExternalTxID, nil)
		if err != nil {
			return err
		}
		if !changed {
			log.Printf("[RECONCILE] failure report for %s ignored (status already terminal)", cb.Reference)
		}
		return nil
	default:
		log.Printf("[RECONCILE] non-terminal status %q for %s, ignoring", cb.Status, cb.Reference)
		return nil
	}
}

// Status returns the stored payment for bounded client polling.
func (s *PaymentService) Status(reference string) (*models.Payment, error) {
	p, err := s.payments.GetByReference(reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GenerateControlNumber issues a fresh ACTIVE control number for an open
// invoice. At most one ACTIVE number may exist per invoice.
func (s *PaymentService) GenerateControlNumber(ctx context.Context, invoiceID uint) (*models.ControlNumber, error) {
	inv, err := s.getInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.Open() {
		return nil, fmt.Errorf("%w: invoice %d is %s", domain.ErrInvalidState, inv.ID, inv.Status)
	}
	active, err := s.controlNumbers.ActiveByInvoice(inv.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, fmt.Errorf("%w: invoice %d already has active control number %s", domain.ErrInvalidState, inv.ID, active.Number)
	}
	number, err := s.issueNumber(ctx, inv)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	cn := &models.ControlNumber{
		InvoiceID: inv.ID,
		Number:    number,
		Status:    domain.ControlNumberActive,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.ControlNumberTTL),
	}
	if err := s.controlNumbers.Create(cn); err != nil {
		return nil, err
	}
	return cn, nil
}

// CancelControlNumber flips ACTIVE -> CANCELLED.
func (s *PaymentService) CancelControlNumber(id uint) (*models.ControlNumber, error) {
	cn, err := s.getControlNumber(id)
	if err != nil {
		return nil, err
	}
	changed, err := s.controlNumbers.Transition(id, domain.ControlNumberActive, domain.ControlNumberCancelled)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, fmt.Errorf("%w: control number %d is %s", domain.ErrInvalidState, id, cn.Status)
	}
	cn.Status = domain.ControlNumberCancelled
	return cn, nil
}

// ReissueControlNumber supersedes an ACTIVE number with a fresh one in a
// single transaction. A settled invoice gets no replacement: the old row
// is returned untouched with a nil New.
func (s *PaymentService) ReissueControlNumber(ctx context.Context, id uint) (*ReissueResult, error) {
	cn, err := s.getControlNumber(id)
	if err != nil {
		return nil, err
	}
	inv, err := s.getInvoice(cn.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InvoiceStatusPaid {
		return &ReissueResult{Old: cn, New: nil}, nil
	}
	if cn.Status != domain.ControlNumberActive {
		return nil, fmt.Errorf("%w: control number %d is %s", domain.ErrInvalidState, id, cn.Status)
	}
	number, err := s.issueNumber(ctx, inv)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	replacement := &models.ControlNumber{
		InvoiceID: inv.ID,
		Number:    number,
		Status:    domain.ControlNumberActive,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.ControlNumberTTL),
	}
	if err := s.controlNumbers.Reissue(cn.ID, replacement); err != nil {
		return nil, err
	}
	cn.Status = domain.ControlNumberReissued
	return &ReissueResult{Old: cn, New: replacement}, nil
}

// SubmitClaim records one claim per (invoice, claim number) and forwards
// it to the payer when a gateway is configured. Settlement stays with the
// payment flow; a claim never flips the invoice by itself.
func (s *PaymentService) SubmitClaim(ctx context.Context, invoiceID uint, claimNumber, provider string, amountCents int64) (*models.InsuranceClaim, error) {
	if strings.TrimSpace(claimNumber) == "" {
		return nil, domain.Validationf("claim number is required")
	}
	if strings.TrimSpace(provider) == "" {
		return nil, domain.Validationf("provider is required")
	}
	inv, err := s.getInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	exists, err := s.claims.Exists(inv.ID, claimNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Validationf("claim %s already submitted for invoice %d", claimNumber, inv.ID)
	}
	if amountCents <= 0 {
		amountCents = inv.AmountCents
	}
	claim := &models.InsuranceClaim{
		InvoiceID:   inv.ID,
		ClaimNumber: claimNumber,
		Provider:    provider,
		AmountCents: amountCents,
		Status:      domain.ClaimStatusSubmitted,
	}
	if err := s.claims.Create(claim); err != nil {
		return nil, err
	}
	if s.gateway != nil {
		s.forwardClaim(ctx, claim, inv)
	}
	return claim, nil
}

// forwardClaim is best-effort: the local row is the durable record and
// claims are not retried automatically.
func (s *PaymentService) forwardClaim(ctx context.Context, claim *models.InsuranceClaim, inv *models.Invoice) {
	memberNo := ""
	if pat, err := s.patients.GetByID(inv.PatientID); err == nil {
		memberNo = pat.InsuranceMemberNo
	}
	ack, err := s.gateway.SubmitClaim(ctx, insurance.ClaimSubmission{
		ClaimNumber: claim.ClaimNumber,
		Provider:    claim.Provider,
		MemberNo:    memberNo,
		AmountCents: claim.AmountCents,
		InvoiceRef:  fmt.Sprintf("%d", inv.ID),
		ServiceDate: inv.ServiceDate.Format("2006-01-02"),
	})
	if err != nil {
		log.Printf("[CLAIM] forward %s: %v", claim.ClaimNumber, err)
		return
	}
	claim.PayerRef = ack.PayerRef
	if ack.Status != "" {
		claim.Status = ack.Status
	}
	if err := s.claims.Update(claim); err != nil {
		log.Printf("[CLAIM] store payer ack for %s: %v", claim.ClaimNumber, err)
	}
}

// AttachClaimDocument uploads a supporting document and stores its URL.
func (s *PaymentService) AttachClaimDocument(ctx context.Context, claimID uint, file io.Reader) (*models.InsuranceClaim, error) {
	claim, err := s.claims.GetByID(claimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if s.documents == nil {
		return nil, &domain.ProviderError{Provider: "cloudinary", Err: errors.New("document storage not configured")}
	}
	url, err := s.documents.UploadDocument(ctx, file, "claims", fmt.Sprintf("claim-%d", claim.ID))
	if err != nil {
		return nil, &domain.ProviderError{Provider: "cloudinary", Err: err}
	}
	claim.DocumentURL = url
	if err := s.claims.Update(claim); err != nil {
		return nil, err
	}
	return claim, nil
}

// ExpireOverdueControlNumbers is the maintenance sweep: ACTIVE numbers
// past their validity window flip to EXPIRED.
func (s *PaymentService) ExpireOverdueControlNumbers(asOf time.Time) (int64, error) {
	count, err := s.controlNumbers.ExpireOlderThan(asOf)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Printf("[SWEEP] expired %d control numbers as of %s", count, asOf.Format(time.RFC3339))
	}
	return count, nil
}

// OverdueInvoices reports PENDING invoices past their due window.
func (s *PaymentService) OverdueInvoices(asOf time.Time) ([]models.Invoice, error) {
	return s.invoices.OverdueAsOf(asOf)
}

func (s *PaymentService) getInvoice(id uint) (*models.Invoice, error) {
	inv, err := s.invoices.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invoice %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return inv, nil
}

func (s *PaymentService) getControlNumber(id uint) (*models.ControlNumber, error) {
	cn, err := s.controlNumbers.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: control number %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return cn, nil
}

func (s *PaymentService) issueNumber(ctx context.Context, inv *models.Invoice) (string, error) {
	if s.issuer != nil {
		number, err := s.issuer.IssueNumber(ctx, payment.InitiateRequest{
			InvoiceID:   inv.ID,
			Reference:   fmt.Sprintf("inv%d-%s", inv.ID, uuid.New().String()),
			AmountCents: inv.AmountCents,
			Description: inv.Description,
			CallbackURL: s.callbackURL,
		})
		if err != nil {
			return "", &domain.ProviderError{Provider: "bank", Err: err}
		}
		return number, nil
	}
	return localControlNumber(), nil
}

// localControlNumber derives a 12-digit number when no bank gateway is
// configured (development/self-hosted deployments).
func localControlNumber() string {
	u := uuid.New()
	n := binary.BigEndian.Uint64(u[:8]) % 1_000_000_000_000
	return fmt.Sprintf("99%012d", n)
}

// notifySettled tells the patient their payment went through, via the
// in-app dispatcher and, when a phone is on file, the SMS channel.
func (s *PaymentService) notifySettled(ctx context.Context, p *models.Payment) {
	if p.PatientID == nil {
		return
	}
	pat, err := s.patients.GetByID(*p.PatientID)
	if err != nil {
		log.Printf("[RECONCILE] load patient %d: %v", *p.PatientID, err)
		return
	}
	msg := fmt.Sprintf("Payment of %d.%02d received for invoice #%d. Thank you.",
		p.AmountCents/100, p.AmountCents%100, derefUint(p.InvoiceID))
	if s.notifier != nil && pat.UserID != nil {
		_ = s.notifier.NotifyUser(*pat.UserID, "Payment received", msg)
	}
	if s.channel != nil && pat.Phone != "" {
		if _, err := s.channel.Send(ctx, pat.Phone, msg); err != nil {
			log.Printf("[RECONCILE] sms to %s: %v", pat.Phone, err)
		}
	}
}

func (s *PaymentService) audit(action, resource, resourceID string, userID uint) {
	if s.audits == nil {
		return
	}
	a := &models.AuditLog{Action: action, Resource: resource, ResourceID: resourceID}
	if userID != 0 {
		a.UserID = &userID
	}
	if err := s.audits.Create(a); err != nil {
		log.Printf("[AUDIT] %s %s/%s: %v", action, resource, resourceID, err)
	}
}

func derefUint(v *uint) uint {
	if v == nil {
		return 0
	}
	return *v
}

var successTokens = map[string]struct{}{
	"SUCCESS": {}, "COMPLETED": {}, "PAID": {}, "SETTLED": {},
}

var failureTokens = map[string]struct{}{
	"FAILED": {}, "FAILURE": {}, "CANCELLED": {}, "DECLINED": {}, "EXPIRED": {},
}

func isSuccessStatus(s string) bool {
	_, ok := successTokens[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

func isFailureStatus(s string) bool {
	_, ok := failureTokens[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}
