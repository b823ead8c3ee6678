package bonusmart

import "errors"

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidCartItem      = errors.New("cart item must have positive id and quantity")
	ErrMultipleItems        = errors.New("only one product per order is allowed")
	ErrTourQuantity         = errors.New("tour can be ordered only once per order")
	ErrBonusNotAllowed      = errors.New("bonus payment is not allowed for product")
	ErrProductNotFound      = errors.New("product not found or inactive")
	ErrInvalidBalanceChange = errors.New("invalid balance change")
	ErrInvalidPaymentEvent  = errors.New("invalid payment event")

	ErrRemoteSyncDisabled    = errors.New("crm sync is not configured")
	ErrRemoteSyncUnavailable = errors.New("crm is temporarily unavailable")
)

// IsValidation reports errors caused by the caller's input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInvalidCartItem) ||
		errors.Is(err, ErrMultipleItems) ||
		errors.Is(err, ErrTourQuantity) ||
		errors.Is(err, ErrBonusNotAllowed) ||
		errors.Is(err, ErrInvalidBalanceChange)
}

func IsInvalidPaymentEvent(err error) bool {
	return errors.Is(err, ErrInvalidPaymentEvent)
}
