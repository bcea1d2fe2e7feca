package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mebelshop-backend/internal/domains/payment/gateway"
	"mebelshop-backend/internal/domains/payment/model"
	"mebelshop-backend/internal/domains/payment/service"
	"mebelshop-backend/internal/shared/response"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	refundService  service.RefundService
}

// NewPaymentHandler creates new payment handler
func NewPaymentHandler(
	paymentService service.PaymentService,
	refundService service.RefundService,
) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		refundService:  refundService,
	}
}

// =====================================================
// PAYMENT ENDPOINTS
// =====================================================

// CreatePayment creates new payment transaction for an order
// POST /api/v1/payments/create
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	// Step 1: Bind request body
	var req model.CreatePaymentRequest
	if err := bindJSON(c, &req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// Step 2: Validate request
	if err := req.Validate(); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	// Step 3: Call service
	resp, err := h.paymentService.CreatePayment(c.Request.Context(), req)
	if err != nil {
		statusCode, errCode := mapPaymentError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return response
	response.Success(c, http.StatusCreated, resp)
}

// GetPaymentStatus gets payment transaction status
// GET /api/v1/payments/:payment_id
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	// Step 1: Get payment ID from URL
	paymentID, err := paymentIDParam(c)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_PAYMENT_ID", "Invalid payment ID")
		return
	}

	// Step 2: Call service
	resp, err := h.paymentService.GetPaymentStatus(c.Request.Context(), paymentID)
	if err != nil {
		statusCode, errCode := mapPaymentError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 3: Return response
	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// RefundPayment refunds a succeeded payment through the gateway
// POST /api/v1/admin/payments/:payment_id/refund
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	// Step 1: Get payment ID from URL
	paymentID, err := paymentIDParam(c)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_PAYMENT_ID", "Invalid payment ID")
		return
	}

	// Step 2: Bind request body (empty body means full refund)
	var req model.RefundPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := bindJSON(c, &req); err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}

	// Step 3: Call service
	resp, err := h.refundService.RefundPayment(c.Request.Context(), paymentID, req)
	if err != nil {
		statusCode, errCode := mapPaymentError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// Step 4: Return response
	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// GATEWAY WEBHOOK
// =====================================================

// JusanWebhook handles the asynchronous payment result notification.
// The gateway sends GET requests on the legacy dialect and POST form
// submissions on the ecom dialect; both land here.
// GET/POST /api/v1/webhooks/jusan
func (h *PaymentHandler) JusanWebhook(c *gin.Context) {
	// Step 1: Collect the payload from query string or form body
	payload := collectPayload(c)

	// Step 2: The notify URL is public; ignore anything that does not look
	// like a gateway notification instead of leaking error details
	if !h.paymentService.IsGatewayCallback(payload) {
		c.JSON(http.StatusOK, gin.H{
			"code":    "99",
			"message": "Not a gateway notification",
		})
		return
	}

	// Step 3: Process (signature check, translation, state change)
	outcome, err := h.paymentService.ProcessCallback(c.Request.Context(), payload)

	// Step 4: Acknowledge. Signature mismatches are the one case that must
	// not be acknowledged as received; everything else answers 200 so the
	// gateway stops retrying
	if err != nil {
		if errors.Is(err, model.ErrSignatureMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "99",
				"message": "Signature mismatch",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"code":    "99",
			"message": fmt.Sprintf("Processing error: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "0",
		"message": "Success",
		"status":  string(outcome.Kind),
	})
}

// =====================================================
// HELPERS
// =====================================================

// collectPayload flattens query and form parameters into a callback payload.
// Form values win on a name collision; the gateway never sends duplicates in
// practice.
func collectPayload(c *gin.Context) gateway.CallbackPayload {
	payload := gateway.CallbackPayload{}
	for name, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			payload[name] = values[0]
		}
	}
	if c.Request.Method == http.MethodPost {
		if err := c.Request.ParseForm(); err == nil {
			for name, values := range c.Request.PostForm {
				if len(values) > 0 {
					payload[name] = values[0]
				}
			}
		}
	}
	return payload
}

func paymentIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("payment_id"), 10, 64)
}

// bindJSON binds JSON request body
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// mapPaymentError maps service errors to HTTP status and error codes
func mapPaymentError(err error) (int, string) {
	var payErr *model.PaymentError
	if errors.As(err, &payErr) {
		switch {
		case errors.Is(err, model.ErrPaymentNotFound), errors.Is(err, model.ErrOrderNotFound):
			return http.StatusNotFound, payErr.Code
		case errors.Is(err, model.ErrPaymentNotRefundable), errors.Is(err, model.ErrCallbackAlreadyProcessed):
			return http.StatusConflict, payErr.Code
		case errors.Is(err, model.ErrSignatureMismatch):
			return http.StatusBadRequest, payErr.Code
		case errors.Is(err, model.ErrDataError), errors.Is(err, model.ErrRRNNotFound):
			return http.StatusUnprocessableEntity, payErr.Code
		case errors.Is(err, model.ErrConfiguration):
			return http.StatusInternalServerError, payErr.Code
		case errors.Is(err, model.ErrTransportFailure):
			return http.StatusBadGateway, payErr.Code
		default:
			return http.StatusInternalServerError, payErr.Code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
