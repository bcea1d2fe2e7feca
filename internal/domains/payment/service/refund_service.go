package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"mebelshop-backend/internal/domains/order"
	"mebelshop-backend/internal/domains/payment/gateway"
	"mebelshop-backend/internal/domains/payment/model"
	repo "mebelshop-backend/internal/domains/payment/repository"
	"mebelshop-backend/pkg/logger"
)

// =====================================================
// REFUND SERVICE IMPLEMENTATION
// =====================================================

// rrnPattern recovers the retrieval reference number from a stored status
// message when the dedicated column is empty ("Payment successful, RRN: 123456").
var rrnPattern = regexp.MustCompile(`RRN[:=\s]+(\d+)`)

type refundService struct {
	paymentRepo  repo.PaymentRepoInterface
	jusanGateway gateway.JusanGateway
	orderService order.Service
}

func NewRefundService(
	paymentRepo repo.PaymentRepoInterface,
	jusanGateway gateway.JusanGateway,
	orderService order.Service,
) RefundService {
	return &refundService{
		paymentRepo:  paymentRepo,
		jusanGateway: jusanGateway,
		orderService: orderService,
	}
}

// RefundPayment reverses a captured payment through the gateway.
//
// Flow:
// 1. Load the payment and check it is refundable (succeeded, has a reference)
// 2. Resolve the refund amount (zero means full refund, never above captured)
// 3. Recover the RRN from the payment row or its status message
// 4. Call the gateway (which rejects an ecom refund with no RRN before any I/O)
// 5. Persist the refunded status and release the order
//
// A gateway decline or an unreachable gateway comes back as a declined
// response, not an error: the caller asked a yes/no question and got "no".
func (s *refundService) RefundPayment(
	ctx context.Context,
	paymentID int64,
	req model.RefundPaymentRequest,
) (*model.RefundPaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewDataError(err.Error())
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.Refundable() {
		return nil, model.NewNotRefundableError(payment.Status)
	}
	if payment.InvoiceRef == "" {
		return nil, model.NewDataError(fmt.Sprintf("payment %d has no gateway reference", payment.ID))
	}

	amount := req.Amount
	if amount.IsZero() {
		amount = payment.Amount
	}
	if amount.GreaterThan(payment.Amount) {
		return nil, model.NewDataError(fmt.Sprintf(
			"refund amount %s exceeds captured amount %s",
			amount.StringFixed(2), payment.Amount.StringFixed(2),
		))
	}

	result, err := s.jusanGateway.InitiateRefund(ctx, gateway.RefundRequest{
		OriginalRef: payment.InvoiceRef,
		RRN:         recoverRRN(payment),
		Amount:      amount,
		Currency:    payment.Currency,
		Reason:      req.Reason,
	})
	if err != nil {
		if errors.Is(err, model.ErrTransportFailure) {
			logger.Error("refund transport failure", err)
			return declinedRefund(payment, amount, "Gateway unreachable, refund not performed"), nil
		}
		return nil, err
	}

	if !result.RefundSucceeded() {
		logger.Info("refund declined", map[string]interface{}{
			"payment_id": payment.ID,
			"code":       result.Code,
			"message":    result.Description,
		})
		return declinedRefund(payment, amount, result.Description), nil
	}

	if err := s.paymentRepo.MarkRefunded(ctx, payment.ID, result.InvoiceRef, orMessage(result.Description, "Refund successful")); err != nil {
		return nil, err
	}
	if err := s.orderService.MarkRefunded(ctx, payment.OrderID); err != nil {
		logger.Error("refund applied but order update failed", err)
	}

	logger.Info("refund approved", map[string]interface{}{
		"payment_id": payment.ID,
		"refund_ref": result.InvoiceRef,
		"amount":     amount.StringFixed(2),
	})

	now := time.Now()
	resp := &model.RefundPaymentResponse{
		PaymentID:  payment.ID,
		RefundRef:  result.InvoiceRef,
		Amount:     amount,
		Currency:   payment.Currency,
		Status:     model.PaymentStatusRefunded,
		Message:    orMessage(result.Description, "Refund successful"),
		RefundedAt: &now,
	}
	if result.RRN != "" {
		resp.RRN = &result.RRN
	}
	return resp, nil
}

// recoverRRN prefers the stored column but falls back to parsing the status
// message written at capture time.
func recoverRRN(payment *model.PaymentTransaction) string {
	if payment.RRN != nil && *payment.RRN != "" {
		return *payment.RRN
	}
	if payment.StatusMessage != nil {
		if m := rrnPattern.FindStringSubmatch(*payment.StatusMessage); m != nil {
			return m[1]
		}
	}
	return ""
}

func declinedRefund(payment *model.PaymentTransaction, amount decimal.Decimal, message string) *model.RefundPaymentResponse {
	return &model.RefundPaymentResponse{
		PaymentID: payment.ID,
		Amount:    amount,
		Currency:  payment.Currency,
		Status:    payment.Status,
		Message:   orMessage(message, "Refund declined"),
	}
}

func orMessage(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
