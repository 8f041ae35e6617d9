package dump

import (
	"errors"
	"fmt"
)

// ErrTooFewValues is returned when a tuple carries fewer values than its
// entity requires.
var ErrTooFewValues = errors.New("too few values")

// ErrUnknownEntity is returned when coercion is requested for Other.
var ErrUnknownEntity = errors.New("entity has no record shape")

// CoercionError describes why a tuple could not become a record.
type CoercionError struct {
	Entity   Entity
	Field    string // empty for count failures
	Position int
	Value    string
	Err      error
}

func (e *CoercionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("%s: field %s (position %d, value %q): %v",
		e.Entity, e.Field, e.Position, e.Value, e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// Coerce builds the typed record for entity from the raw tokens of one
// value tuple. No partial record is ever returned: on failure the record is
// nil and the error is a *CoercionError.
func Coerce(entity Entity, tokens []string, mode EscapeMode) (Record, error) {
	if !entity.IsKnown() {
		return nil, &CoercionError{Entity: entity, Err: ErrUnknownEntity}
	}
	if want := entity.MinTokens(); len(tokens) < want {
		return nil, &CoercionError{
			Entity: entity,
			Err:    fmt.Errorf("%w: expected at least %d, got %d", ErrTooFewValues, want, len(tokens)),
		}
	}

	f := &fieldReader{entity: entity, tokens: tokens, mode: mode}
	var rec Record

	switch entity {
	case Categories:
		rec = Category{
			ID:       f.integer(0, "id"),
			Name:     f.str(1),
			IsActive: f.flag(2),
		}
	case Subcategories:
		rec = Subcategory{
			ID:         f.integer(0, "id"),
			Name:       f.str(1),
			CategoryID: f.integer(2, "categoryId"),
			IsActive:   f.flag(3),
		}
	case Products:
		rec = Product{
			ID:            f.integer(0, "id"),
			Name:          f.str(1),
			CategoryID:    f.integer(2, "categoryId"),
			Stock:         f.integer(3, "stock"),
			Price:         f.numeric(4, "price"),
			Date:          f.str(5),
			IsActive:      f.flag(6),
			Description:   f.str(7),
			SubcategoryID: f.optInteger(8, "subcategoryId"),
			ImageURL:      f.str(9),
			Cost:          f.numeric(10, "cost"),
			VideoURL:      f.str(11),
		}
	case ProductImages:
		rec = ProductImage{
			ID:        f.integer(0, "id"),
			ProductID: f.integer(1, "productId"),
			URL:       f.str(2),
		}
	case Clients:
		rec = Client{
			ID:           f.integer(0, "id"),
			Name:         f.str(1),
			CedulaRuc:    f.str(2),
			Phone:        f.str(3),
			Address:      f.str(4),
			Email:        f.str(5),
			RegisteredAt: f.str(6),
		}
	case Employees:
		rec = Employee{
			ID:       f.integer(0, "id"),
			Name:     f.str(1),
			Role:     f.str(2),
			IsActive: f.flag(3),
		}
	case CompanySettings:
		// position 7 is not carried over
		rec = CompanySetting{
			ID:              f.integer(0, "id"),
			Name:            f.str(1),
			Ruc:             f.str(2),
			Address:         f.str(3),
			Phone:           f.str(4),
			Email:           f.str(5),
			LegalMessage:    f.str(6),
			SriAuth:         f.str(8),
			Establishment:   f.str(9),
			PointOfIssue:    f.str(10),
			CurrentSequence: f.integer(11, "currentSequence"),
			ExpirationDate:  f.str(12),
			SocialReason:    f.str(13),
		}
	case Sales:
		rec = Sale{
			ID:          f.integer(0, "id"),
			Date:        f.str(1),
			EmployeeID:  f.integer(2, "employeeId"),
			Total:       f.numeric(3, "total"),
			Observation: f.str(4),
			ClientID:    f.optInteger(5, "clientId"),
			NoteNumber:  f.str(6),
			IsVoid:      f.flag(7),
		}
	case SaleDetails:
		rec = SaleDetail{
			ID:        f.integer(0, "id"),
			SaleID:    f.integer(1, "saleId"),
			ProductID: f.integer(2, "productId"),
			Quantity:  f.integer(3, "quantity"),
			Subtotal:  f.numeric(4, "subtotal"),
			UnitPrice: f.numeric(5, "unitPrice"),
		}
	}

	if f.err != nil {
		return nil, f.err
	}
	return rec, nil
}

// fieldReader converts tokens by position and keeps the first failure.
// Reads after a failure return zero values.
type fieldReader struct {
	entity Entity
	tokens []string
	mode   EscapeMode
	err    error
}

func (f *fieldReader) fail(pos int, field string, err error) {
	if f.err == nil {
		f.err = &CoercionError{
			Entity:   f.entity,
			Field:    field,
			Position: pos,
			Value:    f.tokens[pos],
			Err:      err,
		}
	}
}

func (f *fieldReader) integer(pos int, field string) int {
	n, err := ParseInt(f.tokens[pos])
	if err != nil {
		f.fail(pos, field, err)
		return 0
	}
	return n
}

func (f *fieldReader) optInteger(pos int, field string) *int {
	n, err := ParseOptionalInt(f.tokens[pos])
	if err != nil {
		f.fail(pos, field, err)
		return nil
	}
	return n
}

func (f *fieldReader) numeric(pos int, field string) float64 {
	v, err := ExtractNumeric(f.tokens[pos])
	if err != nil {
		f.fail(pos, field, err)
		return 0
	}
	return v
}

func (f *fieldReader) str(pos int) *string {
	return CleanString(f.tokens[pos], f.mode)
}

func (f *fieldReader) flag(pos int) bool {
	return ParseBool(f.tokens[pos])
}
