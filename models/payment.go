package models

// Payment amounts are in paise.
type CreateOrderRequest struct {
	Amount     int64  `json:"amount" validate:"required,gt=0"`
	Currency   string `json:"currency" validate:"omitempty,len=3,uppercase"`
	Receipt    string `json:"receipt" validate:"required,max=40"`
	PropertyID string `json:"propertyId" validate:"omitempty,len=24,hexadecimal"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required,hexadecimal"`
}

type RefundRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
}
