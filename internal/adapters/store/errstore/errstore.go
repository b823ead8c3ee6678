package errstore

import "errors"

var (
	ErrNotFoundData        = errors.New("data not found")
	ErrBalanceNotEnough    = errors.New("not enough balance")
	ErrTransient           = errors.New("storage temporary unavailable")
	ErrEventProcessed      = errors.New("payment event already processed")
	ErrBalanceEventUsed    = errors.New("balance event already applied")
	ErrInvalidBalanceEvent = errors.New("balance event id is empty")
	ErrProductNotActive    = errors.New("product not active")
	ErrInvalidSettlement   = errors.New("invalid settlement")
)
