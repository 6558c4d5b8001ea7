package venues

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Togather-Foundation/venues/internal/domain/ids"
	"github.com/Togather-Foundation/venues/internal/sanitize"
	"github.com/go-playground/validator/v10"
)

type CreateVenueParams struct {
	Name string `json:"name" validate:"required,max=500"`
}

type RenameVenueParams struct {
	Name string `json:"name" validate:"required,max=500"`
}

// CreateEventParams describes a new event. ID is optional; a caller that
// supplies its own ULID can safely re-drive a creation that failed midway.
type CreateEventParams struct {
	ID          string  `json:"id" validate:"omitempty,ulid"`
	Name        string  `json:"name" validate:"required,max=500"`
	Description string  `json:"description" validate:"max=10000"`
	Organizer   string  `json:"organizer" validate:"max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// EditEventParams merges supplied (non-nil) fields into an event. Status is
// accepted only so that an attempt to set it can be rejected explicitly.
type EditEventParams struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=500"`
	Description *string  `json:"description" validate:"omitempty,max=10000"`
	Organizer   *string  `json:"organizer" validate:"omitempty,max=500"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Status      *Status  `json:"status"`
}

func (p *CreateVenueParams) normalize() {
	p.Name = cleanText(p.Name)
}

func (p *RenameVenueParams) normalize() {
	p.Name = cleanText(p.Name)
}

func (p *CreateEventParams) normalize() {
	if p.ID != "" {
		p.ID = ids.Normalize(p.ID)
	}
	p.Name = cleanText(p.Name)
	p.Description = cleanHTML(p.Description)
	p.Organizer = cleanText(p.Organizer)
}

func (p *EditEventParams) normalize() {
	if p.Name != nil {
		v := cleanText(*p.Name)
		p.Name = &v
	}
	if p.Description != nil {
		v := cleanHTML(*p.Description)
		p.Description = &v
	}
	if p.Organizer != nil {
		v := cleanText(*p.Organizer)
		p.Organizer = &v
	}
}

func cleanText(value string) string {
	return strings.TrimSpace(sanitize.Text(value))
}

func cleanHTML(value string) string {
	return strings.TrimSpace(sanitize.HTML(value))
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// validate runs struct validation and reports the first failing field.
func (s *Service) validate(params any) error {
	err := s.validator.Struct(params)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return ValidationError{Field: fe.Field(), Message: validationMessage(fe)}
	}
	return ValidationError{Message: err.Error()}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "ulid":
		return "must be a valid ULID"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
