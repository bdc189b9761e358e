package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/laundry-backoffice/internal/domains/orders/domain"
)

// ErrInvalidInput signals the request violated a domain invariant. Validation
// failures always precede any state change.
var ErrInvalidInput = errors.New("invalid order input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidPaymentStatus) ||
		errors.Is(err, domain.ErrInvalidServiceMode) ||
		errors.Is(err, domain.ErrUnknownService) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrEmptyOrder) ||
		errors.Is(err, domain.ErrTotalOutOfRange) ||
		errors.Is(err, domain.ErrInvalidCustomerName) ||
		errors.Is(err, domain.ErrInvalidCustomerEmail) ||
		errors.Is(err, domain.ErrMissingCustomer) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
