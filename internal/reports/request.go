package reports

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Output formats.
const (
	FormatPDF   = "pdf"
	FormatExcel = "excel"
	FormatCSV   = "csv"
)

// Filter fields.
const (
	FilterAll      = "all"
	FilterTenant   = "tenant"
	FilterProperty = "property"
	FilterStatus   = "status"
	FilterMethod   = "method"
)

// Formats and FilterFields list the accepted values in display order.
var (
	Formats      = []string{FormatPDF, FormatExcel, FormatCSV}
	FilterFields = []string{FilterAll, FilterTenant, FilterProperty, FilterStatus, FilterMethod}
)

var (
	ErrUnsupportedFormat  = errors.New("unsupported export format")
	ErrInvalidRange       = errors.New("date-from must not be after date-to")
	ErrMissingFilterValue = errors.New("filter value required")
)

// Request is what the export dialog hands to a Generator.
type Request struct {
	DateFrom    time.Time `validate:"required"`
	DateTo      time.Time `validate:"required"`
	Format      string    `validate:"required,oneof=pdf excel csv"`
	FilterBy    string    `validate:"required,oneof=all tenant property status method"`
	FilterValue string    `validate:"max=200"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks enums, range order and the filter value.
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Format":
				return fmt.Errorf("%w: %q", ErrUnsupportedFormat, r.Format)
			case "DateFrom", "DateTo":
				return fmt.Errorf("%w: both dates are required", ErrInvalidRange)
			}
		}
		return fmt.Errorf("invalid export request: %w", err)
	}
	if r.DateFrom.After(r.DateTo) {
		return ErrInvalidRange
	}
	if r.FilterBy != FilterAll && strings.TrimSpace(r.FilterValue) == "" {
		return fmt.Errorf("%w for filter %q", ErrMissingFilterValue, r.FilterBy)
	}
	return nil
}

// Extension returns the file extension for a format.
func Extension(format string) (string, error) {
	switch format {
	case FormatPDF:
		return "pdf", nil
	case FormatExcel:
		return "xlsx", nil
	case FormatCSV:
		return "csv", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
