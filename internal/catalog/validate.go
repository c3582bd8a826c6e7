package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mamde/storefront/internal/domain"
	"github.com/mamde/storefront/internal/purity"
)

// ErrInvalidDraft wraps every draft validation failure.
var ErrInvalidDraft = errors.New("invalid catalog draft")

var validate = validator.New()

// Validate checks a draft before it is inserted as a product.
func Validate(d domain.CatalogDraft) error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDraft, validationMessage(err))
	}
	if !d.Weight.IsPositive() {
		return fmt.Errorf("%w: weight must be positive, got %s", ErrInvalidDraft, d.Weight)
	}
	if !purity.Known(d.Purity) {
		return fmt.Errorf("%w: unknown purity %q", ErrInvalidDraft, d.Purity)
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		ve := verrs[0]
		return fmt.Sprintf("%s failed %s", ve.Field(), ve.Tag())
	}
	return err.Error()
}
