package passenger

import (
	"fmt"
	"math"
)

// ErrorKind classifies a validation failure.
type ErrorKind string

const (
	KindInvalidCategory ErrorKind = "invalid_category"
	KindOutOfRange      ErrorKind = "out_of_range"
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string    `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks every field of in against the constraint table and, when
// all pass, encodes the input as a FeatureVector. All rules are checked
// independently so the caller can show every problem at once; exactly one
// FieldError is produced per invalid field. Values are never clamped or
// defaulted.
func Validate(in Input) (FeatureVector, []FieldError) {
	var errs []FieldError

	classCode, ok := classCodes[in.Class]
	if !ok {
		errs = append(errs, FieldError{
			Field:   "class",
			Kind:    KindInvalidCategory,
			Message: fmt.Sprintf("class must be one of First, Second or Third, got %q", string(in.Class)),
		})
	}

	sexCode, ok := sexCodes[in.Sex]
	if !ok {
		errs = append(errs, FieldError{
			Field:   "sex",
			Kind:    KindInvalidCategory,
			Message: fmt.Sprintf("sex must be Male or Female, got %q", string(in.Sex)),
		})
	}

	if math.IsNaN(in.Age) || in.Age < MinAge || in.Age > MaxAge {
		errs = append(errs, FieldError{
			Field:   "age",
			Kind:    KindOutOfRange,
			Message: fmt.Sprintf("age must be between %g and %g, got %g", MinAge, MaxAge, in.Age),
		})
	}

	if in.SiblingsSpouses < 0 {
		errs = append(errs, FieldError{
			Field:   "siblings_spouses",
			Kind:    KindOutOfRange,
			Message: fmt.Sprintf("siblings_spouses must be 0 or more, got %d", in.SiblingsSpouses),
		})
	}

	if in.ParentsChildren < 0 {
		errs = append(errs, FieldError{
			Field:   "parents_children",
			Kind:    KindOutOfRange,
			Message: fmt.Sprintf("parents_children must be 0 or more, got %d", in.ParentsChildren),
		})
	}

	if math.IsNaN(in.Fare) || in.Fare < 0 {
		errs = append(errs, FieldError{
			Field:   "fare",
			Kind:    KindOutOfRange,
			Message: fmt.Sprintf("fare must be 0 or more, got %g", in.Fare),
		})
	}

	portCode, ok := portCodes[in.EmbarkPort]
	if !ok {
		errs = append(errs, FieldError{
			Field:   "embark_port",
			Kind:    KindInvalidCategory,
			Message: fmt.Sprintf("embark_port must be Southampton, Cherbourg or Queenstown, got %q", string(in.EmbarkPort)),
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return FeatureVector{
		classCode,
		sexCode,
		in.Age,
		float64(in.SiblingsSpouses),
		float64(in.ParentsChildren),
		in.Fare,
		portCode,
	}, nil
}
