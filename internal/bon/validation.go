package bon

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Kind groups validation failures the way the dashboard reports them.
type Kind string

const (
	KindIncomplete        Kind = "incomplete"
	KindInvalid           Kind = "invalid"
	KindInsufficientStock Kind = "insufficient_stock"
)

// Title is the user-facing heading for the failure kind.
func (k Kind) Title() string {
	switch k {
	case KindIncomplete:
		return "Incomplete data"
	case KindInsufficientStock:
		return "Insufficient stock"
	default:
		return "Invalid data"
	}
}

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Kind    Kind   `json:"kind"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.Title(), e.Message)
}

// Form holds the header fields of a bon.
//
// swagger:model
type Form struct {
	Requester string `json:"nama_pengebon" validate:"notblank"`
	Purpose   string `json:"purpose" validate:"notblank"`
}

// Trimmed returns the form with surrounding whitespace removed.
func (f Form) Trimmed() Form {
	return Form{
		Requester: strings.TrimSpace(f.Requester),
		Purpose:   strings.TrimSpace(f.Purpose),
	}
}

type submission struct {
	Form
	Items []Item `validate:"min=1"`
}

// StockLookup returns the currently known available quantity of a product.
type StockLookup func(productID int) (int, bool)

// Validator checks a bon before submission.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterValidation("notblank", validators.NotBlank)
	return &Validator{validate: v}
}

var fieldMessages = map[string]string{
	"Requester": "requester name is required",
	"Purpose":   "purpose of the withdrawal is required",
	"Items":     "select at least one component",
}

// Check runs the submission preconditions in order and returns the first
// failure. Quantities are checked against the stock known right now, not
// the stock seen when the product was selected.
func (v *Validator) Check(form Form, items []Item, available StockLookup) *ValidationError {
	err := v.validate.Struct(submission{Form: form, Items: items})
	if err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok || len(verrs) == 0 {
			return &ValidationError{Kind: KindInvalid, Message: err.Error()}
		}
		field := verrs[0].Field()
		msg, ok := fieldMessages[field]
		if !ok {
			msg = fmt.Sprintf("failed on the '%s' tag", verrs[0].Tag())
		}
		return &ValidationError{Kind: KindIncomplete, Field: field, Message: msg}
	}

	for _, it := range items {
		if it.Quantity < 1 {
			return &ValidationError{
				Kind:    KindInvalid,
				Field:   "quantity",
				Message: fmt.Sprintf("quantity for %s must not be less than 1", it.ProductName),
			}
		}
		stock, ok := available(it.ProductID)
		if !ok {
			stock = 0
		}
		if it.Quantity > stock {
			return &ValidationError{
				Kind:    KindInsufficientStock,
				Field:   "quantity",
				Message: fmt.Sprintf("not enough %s in stock, available: %d", it.ProductName, stock),
			}
		}
	}
	return nil
}
