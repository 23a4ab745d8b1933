package requests

import (
	"errors"
	"fmt"
	"strings"

	"infinite-experiment/router/internal/models"
)

// ErrValidation marks a request that failed its field constraints.
var ErrValidation = errors.New("validation failed")

// FieldError is a single failed constraint on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every failed constraint of a request.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (v ValidationErrors) Unwrap() error {
	return ErrValidation
}

// CreateRouteRequest is the body of POST /api/v1/routes
type CreateRouteRequest struct {
	From string           `json:"from"`
	To   string           `json:"to"`
	Type models.RouteType `json:"type"`
}

// Normalize trims From and To in place.
func (c *CreateRouteRequest) Normalize() {
	c.From = strings.TrimSpace(c.From)
	c.To = strings.TrimSpace(c.To)
}

// Validate checks required fields and the route type. Call Normalize first;
// whitespace-only values are reported as missing either way.
func (c *CreateRouteRequest) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(c.From) == "" {
		errs = append(errs, FieldError{Field: "from", Message: "is required"})
	}
	if strings.TrimSpace(c.To) == "" {
		errs = append(errs, FieldError{Field: "to", Message: "is required"})
	}
	if !c.Type.Valid() {
		errs = append(errs, FieldError{Field: "type", Message: fmt.Sprintf("must be one of %v", models.RouteTypes())})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeleteRouteRequest is the body of DELETE /api/v1/routes
type DeleteRouteRequest struct {
	From string `json:"from"`
}

func (d *DeleteRouteRequest) Normalize() {
	d.From = strings.TrimSpace(d.From)
}

func (d *DeleteRouteRequest) Validate() error {
	if strings.TrimSpace(d.From) == "" {
		return ValidationErrors{{Field: "from", Message: "is required"}}
	}
	return nil
}
