package payments

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Methods lists the accepted payment methods in display order.
var Methods = []string{
	"Cash",
	"Check",
	"Bank Transfer",
	"Credit Card",
	"Debit Card",
	"Money Order",
	"Online Payment",
}

// IsMethod reports whether m is an accepted payment method.
func IsMethod(m string) bool {
	for _, known := range Methods {
		if known == m {
			return true
		}
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return IsMethod(fl.Field().String())
	})
	return v
}

// ValidateDraft checks the struct-level rules on a draft.
func ValidateDraft(d PaymentDraft) error {
	if err := validate.Struct(d); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid payment: %s failed %q: %w", fe.Field(), fe.Tag(), err)
		}
		return fmt.Errorf("invalid payment: %w", err)
	}
	if d.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
