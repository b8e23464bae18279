package guess

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/playperu/landmarks/internal/geo"
	"github.com/playperu/landmarks/internal/scoring"
)

// Request is a guess as it arrives on the wire. Pointer fields let
// validation tell a missing value apart from a zero one.
type Request struct {
	LandmarkID *string   `json:"landmarkId" validate:"required,min=1"`
	Location   *Location `json:"location" validate:"required"`
	Precision  *string   `json:"precision" validate:"required,oneof=EXACT NARROW VAGUE"`
}

// Location is the wire form of a coordinate.
type Location struct {
	Lng *float64 `json:"lng" validate:"required,min=-180,max=180"`
	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
}

// NewRequest builds a fully populated Request.
func NewRequest(landmarkID string, at geo.Coordinate, p scoring.Precision) Request {
	precision := string(p)
	return Request{
		LandmarkID: &landmarkID,
		Location:   &Location{Lng: &at.Lng, Lat: &at.Lat},
		Precision:  &precision,
	}
}

// Guess is a validated Request.
type Guess struct {
	LandmarkID string
	Location   geo.Coordinate
	Precision  scoring.Precision
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "invalid guess: " + strings.Join(e.Details, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks r and converts it into a Guess.
func (r Request) Validate() (Guess, error) {
	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Guess{}, &ValidationError{Details: []string{err.Error()}}
		}
		details := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, describe(fe))
		}
		return Guess{}, &ValidationError{Details: details}
	}

	g := Guess{
		LandmarkID: *r.LandmarkID,
		Location:   geo.Coordinate{Lng: *r.Location.Lng, Lat: *r.Location.Lat},
		Precision:  scoring.Precision(*r.Precision),
	}
	// Catches NaN, which the range tags let through.
	if err := g.Location.Validate(); err != nil {
		return Guess{}, &ValidationError{Details: []string{err.Error()}}
	}
	return g, nil
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return field + " must not be empty"
		}
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
