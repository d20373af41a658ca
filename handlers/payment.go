package handlers

import (
	"ConnectSpace/logger"
	"ConnectSpace/models"
	"ConnectSpace/payments"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type PaymentController struct {
	gateway payments.Gateway
}

func NewPaymentController(gateway payments.Gateway) *PaymentController {
	return &PaymentController{gateway: gateway}
}

func (pc *PaymentController) CreateOrder(c echo.Context) error {
	var req models.CreateOrderRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	order, err := pc.gateway.CreateOrder(c.Request().Context(), req.Amount, req.Currency, req.Receipt)
	if errors.Is(err, payments.ErrInvalidAmount) {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return serverError("Failed to create order", err)
	}

	logger.FromContext(c.Request().Context()).Info("payment order created",
		"order_id", order.ID, "amount", order.Amount, "user_id", principal(c).UserID.Hex())
	return c.JSON(http.StatusCreated, map[string]interface{}{"success": true, "order": order})
}

func (pc *PaymentController) VerifyPayment(c echo.Context) error {
	var req models.VerifyPaymentRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	err := pc.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature)
	if errors.Is(err, payments.ErrInvalidSignature) {
		return fail(c, http.StatusBadRequest, "Payment verification failed")
	}
	if err != nil {
		return serverError("Failed to verify payment", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Payment verified successfully",
		"orderId":   req.OrderID,
		"paymentId": req.PaymentID,
	})
}

func (pc *PaymentController) Refund(c echo.Context) error {
	var req models.RefundRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	refund, err := pc.gateway.Refund(c.Request().Context(), req.PaymentID, req.Amount)
	if errors.Is(err, payments.ErrInvalidAmount) {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return serverError("Failed to process refund", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "refund": refund})
}
