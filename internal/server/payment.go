package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/paylane/paylane/internal/payment/domain"
)

type createPaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Description   string `json:"description"`
}

func (s *Server) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	idempotencyKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))

	resp, err := s.paymentSvc.Create(c.Request.Context(), paymentdomain.CreatePaymentRequest{
		PaymentMethod: req.PaymentMethod,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Description:   req.Description,
	}, idempotencyKey)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetPayment(c *gin.Context) {
	resp, err := s.paymentSvc.Get(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPaymentEvents(c *gin.Context) {
	resp, err := s.paymentSvc.Events(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AuthorizePayment(c *gin.Context) {
	s.transition(c, s.paymentSvc.Authorize)
}

func (s *Server) SettlePayment(c *gin.Context) {
	s.transition(c, s.paymentSvc.Settle)
}

func (s *Server) CancelPayment(c *gin.Context) {
	s.transition(c, s.paymentSvc.Cancel)
}

func (s *Server) FailPayment(c *gin.Context) {
	s.transition(c, s.paymentSvc.Fail)
}

func (s *Server) ReversePayment(c *gin.Context) {
	s.transition(c, s.paymentSvc.Reverse)
}

func (s *Server) transition(c *gin.Context, op func(ctx context.Context, paymentID string) (paymentdomain.PaymentResponse, error)) {
	resp, err := op(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
