package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeUnknownPaymentType  = "UNKNOWN_PAYMENT_TYPE"
	ErrCodeInvalidCardDetails  = "INVALID_CARD_DETAILS"
	ErrCodeInvalidUpiDetails   = "INVALID_UPI_DETAILS"
	ErrCodeAddressNotFound     = "ADDRESS_NOT_FOUND"
	ErrCodeCartNotFound        = "CART_NOT_FOUND"
	ErrCodeCartEmpty           = "CART_EMPTY"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeOrderItemNotFound   = "ORDER_ITEM_NOT_FOUND"
	ErrCodeUnknownOrderStatus  = "UNKNOWN_ORDER_STATUS"
	ErrCodeStatusNotPermitted  = "STATUS_NOT_PERMITTED"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeReturnExceedsLimit  = "RETURN_EXCEEDS_LIMIT"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrForbidden          = NewDomainError(ErrCodeForbidden, "You are not allowed to perform this action")
	ErrUnknownPaymentType = NewDomainError(ErrCodeUnknownPaymentType, "Unknown or unsupported payment type")
	ErrInvalidCardDetails = NewDomainError(ErrCodeInvalidCardDetails, "Card name and a 12-19 digit card number are required for card payments")
	ErrInvalidUpiDetails  = NewDomainError(ErrCodeInvalidUpiDetails, "A UPI handle of the form something@bank is required for UPI payments")
	ErrAddressNotFound    = NewDomainError(ErrCodeAddressNotFound, "Address not found")
	ErrCartNotFound       = NewDomainError(ErrCodeCartNotFound, "Cart not found")
	ErrCartEmpty          = NewDomainError(ErrCodeCartEmpty, "Cart is empty")
	ErrInsufficientStock  = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock for a product in your cart")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrOrderItemNotFound  = NewDomainError(ErrCodeOrderItemNotFound, "Order item not found")
	ErrUnknownOrderStatus = NewDomainError(ErrCodeUnknownOrderStatus, "Unknown order status")
	ErrStatusNotPermitted = NewDomainError(ErrCodeStatusNotPermitted, "You may not move your order to this status")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found")
)
