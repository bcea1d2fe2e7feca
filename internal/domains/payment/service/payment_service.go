package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"mebelshop-backend/internal/domains/order"
	"mebelshop-backend/internal/domains/payment/gateway"
	"mebelshop-backend/internal/domains/payment/gateway/jusan"
	"mebelshop-backend/internal/domains/payment/model"
	repo "mebelshop-backend/internal/domains/payment/repository"
	"mebelshop-backend/pkg/logger"
)

// =====================================================
// PAYMENT SERVICE IMPLEMENTATION
// =====================================================

type paymentService struct {
	paymentRepo  repo.PaymentRepoInterface
	callbackRepo repo.CallbackRepoInterface
	idempotency  repo.IdempotencyStore

	jusanGateway gateway.JusanGateway
	variant      string

	orderService order.Service
}

func NewPaymentService(
	paymentRepo repo.PaymentRepoInterface,
	callbackRepo repo.CallbackRepoInterface,
	idempotency repo.IdempotencyStore,
	jusanGateway gateway.JusanGateway,
	variant string,
	orderService order.Service,
) PaymentService {
	return &paymentService{
		paymentRepo:  paymentRepo,
		callbackRepo: callbackRepo,
		idempotency:  idempotency,
		jusanGateway: jusanGateway,
		variant:      variant,
		orderService: orderService,
	}
}

// =====================================================
// CREATE PAYMENT
// =====================================================

// CreatePayment initiates a payment attempt.
//
// Flow:
// 1. Load the order and check it is still payable
// 2. Insert the payment_transactions row (status = initiated)
// 3. Store the composite reference {orderId}_{paymentId}
// 4. Build the signed initiation request for the configured dialect
// 5. Return the redirect URL (legacy) or form descriptor (ecom)
func (s *paymentService) CreatePayment(
	ctx context.Context,
	req model.CreatePaymentRequest,
) (*model.CreatePaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewDataError(err.Error())
	}

	ord, err := s.orderService.GetOrder(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return nil, model.NewDataError(fmt.Sprintf("order %d not found", req.OrderID))
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if !ord.Payable() {
		return nil, model.NewDataError(fmt.Sprintf("order %d is not pending payment (status: %s)", ord.ID, ord.Status))
	}

	payment := &model.PaymentTransaction{
		OrderID:     ord.ID,
		Variant:     s.variant,
		Amount:      ord.Total,
		Currency:    ord.Currency,
		Status:      model.PaymentStatusInitiated,
		InitiatedAt: time.Now(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	invoiceRef := jusan.CompositeRef(ord.ID, payment.ID)
	if err := s.paymentRepo.SetInvoiceRef(ctx, payment.ID, invoiceRef); err != nil {
		return nil, fmt.Errorf("failed to store invoice ref: %w", err)
	}

	initiation, err := s.jusanGateway.BuildInitiationRequest(gateway.PaymentRequest{
		OrderID:          ord.ID,
		PaymentID:        payment.ID,
		Amount:           ord.Total,
		Currency:         ord.Currency,
		OrderDescription: ord.Description,
		CustomerEmail:    ord.CustomerEmail,
		Language:         req.Language,
	})
	if err != nil {
		return nil, err
	}

	resp := &model.CreatePaymentResponse{
		PaymentID:   payment.ID,
		InvoiceRef:  invoiceRef,
		Amount:      ord.Total,
		Currency:    payment.Currency,
		Method:      initiation.Method,
		RedirectURL: initiation.URL,
	}
	if initiation.Method == http.MethodPost {
		for _, p := range initiation.Params.Pairs() {
			resp.FormFields = append(resp.FormFields, model.FormField{Name: p.Name, Value: p.Value})
		}
	}

	logger.Info("payment initiated", map[string]interface{}{
		"payment_id":  payment.ID,
		"order_id":    ord.ID,
		"invoice_ref": invoiceRef,
		"variant":     s.variant,
		"amount":      ord.Total.StringFixed(2),
	})

	return resp, nil
}

// =====================================================
// PAYMENT STATUS
// =====================================================

func (s *paymentService) GetPaymentStatus(ctx context.Context, paymentID int64) (*model.PaymentStatusResponse, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	return &model.PaymentStatusResponse{
		PaymentID:     payment.ID,
		OrderID:       payment.OrderID,
		InvoiceRef:    payment.InvoiceRef,
		Status:        payment.Status,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		RRN:           payment.RRN,
		StatusCode:    payment.StatusCode,
		StatusMessage: payment.StatusMessage,
		InitiatedAt:   payment.InitiatedAt,
		CompletedAt:   payment.CompletedAt,
	}, nil
}

// =====================================================
// PROCESS CALLBACK
// =====================================================

// ProcessCallback handles an asynchronous gateway notification.
//
// Flow:
// 1. Write the audit log row (before anything can reject the payload)
// 2. Verify signature and translate the result code (adapter, pure)
// 3. Locate the payment via the composite reference / payment_id side channel
// 4. Duplicate-delivery check via the Redis marker
// 5. Apply the state change (payment row + order status)
//
// A forged callback stops at step 2 and the payment is never touched. A
// duplicate stops at step 4 but still returns the same outcome; the
// translation is a pure function of the payload, so redeliveries are
// answered identically without re-applying state.
func (s *paymentService) ProcessCallback(
	ctx context.Context,
	payload gateway.CallbackPayload,
) (*gateway.PaymentOutcome, error) {
	sigField := s.callbackSignature(payload)
	cbLog := &model.CallbackLog{
		ID:         uuid.New(),
		Variant:    s.variant,
		Event:      model.CallbackEventPaymentResult,
		Payload:    payload,
		Signature:  sigField,
		ReceivedAt: time.Now(),
	}

	outcome, err := s.jusanGateway.ProcessCallback(payload)
	if err != nil {
		invalid := false
		cbLog.IsValid = &invalid
		if logErr := s.callbackRepo.Create(ctx, cbLog); logErr != nil {
			logger.Error("failed to log rejected callback", logErr)
		}
		logger.Error("callback rejected", err)
		return nil, err
	}

	valid := true
	cbLog.IsValid = &valid

	paymentID, ok := s.jusanGateway.PaymentIDFromCallback(payload)
	if !ok {
		s.createLogQuiet(ctx, cbLog)
		return nil, model.NewDataError("callback carries no usable payment reference")
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		s.createLogQuiet(ctx, cbLog)
		return nil, err
	}
	cbLog.PaymentID = &payment.ID
	s.createLogQuiet(ctx, cbLog)

	// Duplicate deliveries answer with the same outcome, no state change.
	first, err := s.idempotency.MarkProcessed(ctx, callbackKey(s.variant, outcome))
	if err != nil {
		// Redis down degrades to at-least-once; the guarded UPDATEs keep
		// state transitions idempotent anyway.
		logger.Error("idempotency check unavailable", err)
	} else if !first {
		return outcome, nil
	}

	if err := s.applyOutcome(ctx, payment, outcome); err != nil {
		s.markErrorQuiet(ctx, cbLog.ID, err)
		return nil, err
	}

	if err := s.callbackRepo.MarkProcessed(ctx, cbLog.ID); err != nil {
		logger.Error("failed to mark callback processed", err)
	}

	return outcome, nil
}

// IsGatewayCallback delegates the indicative-field check to the adapter.
func (s *paymentService) IsGatewayCallback(payload gateway.CallbackPayload) bool {
	return s.jusanGateway.IsGatewayCallback(payload)
}

// applyOutcome moves the payment (and its order) per the translated result.
func (s *paymentService) applyOutcome(
	ctx context.Context,
	payment *model.PaymentTransaction,
	outcome *gateway.PaymentOutcome,
) error {
	switch outcome.Kind {
	case gateway.OutcomeApproved:
		if err := s.paymentRepo.MarkSucceeded(ctx, payment.ID, outcome.RRN, outcome.Code, successMessage(outcome)); err != nil {
			return err
		}
		if err := s.orderService.MarkPaid(ctx, payment.OrderID); err != nil {
			logger.Error("payment succeeded but order update failed", err)
		}
		logger.Info("payment approved", map[string]interface{}{
			"payment_id":  payment.ID,
			"invoice_ref": outcome.InvoiceRef,
			"rrn":         outcome.RRN,
		})
		return nil

	case gateway.OutcomeDeclined:
		if err := s.paymentRepo.MarkFailed(ctx, payment.ID, outcome.Code, outcome.Description); err != nil {
			return err
		}
		logger.Info("payment declined", map[string]interface{}{
			"payment_id": payment.ID,
			"code":       outcome.Code,
			"message":    outcome.Description,
		})
		return nil

	default:
		return model.NewDataError(fmt.Sprintf("unexpected callback outcome: %s", outcome.Kind))
	}
}

// successMessage stores a status message that keeps the RRN recoverable for
// later refunds even if the rrn column is ever lost in a migration.
func successMessage(outcome *gateway.PaymentOutcome) string {
	msg := outcome.Description
	if msg == "" {
		msg = "Payment successful"
	}
	if outcome.RRN != "" {
		msg = fmt.Sprintf("%s, RRN: %s", msg, outcome.RRN)
	}
	return msg
}

// callbackSignature pulls the raw signature value out of the payload for the
// audit log regardless of variant.
func (s *paymentService) callbackSignature(payload gateway.CallbackPayload) *string {
	for _, field := range []string{"sign", "signature"} {
		if v := payload.Get(field); v != "" {
			return &v
		}
	}
	return nil
}

// callbackKey identifies one logical callback delivery. Code and RRN are
// part of the key so a decline followed by a retry-approval is not swallowed
// as a duplicate.
func callbackKey(variant string, outcome *gateway.PaymentOutcome) string {
	return strings.Join([]string{variant, outcome.InvoiceRef, outcome.Code, outcome.RRN}, ":")
}

func (s *paymentService) createLogQuiet(ctx context.Context, cbLog *model.CallbackLog) {
	if err := s.callbackRepo.Create(ctx, cbLog); err != nil {
		logger.Error("failed to log callback", err)
	}
}

func (s *paymentService) markErrorQuiet(ctx context.Context, id uuid.UUID, cause error) {
	if err := s.callbackRepo.MarkProcessingError(ctx, id, cause.Error()); err != nil {
		logger.Error("failed to record callback processing error", err)
	}
}
