package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/Husnain-278/EventHub/internal/booking"
	"github.com/Husnain-278/EventHub/internal/repository"
)

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a Validator that reports json field names.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error { return cv.v.Struct(i) }

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// problemsFrom converts validator field errors into booking problems so
// every 400 response has the same shape.
func problemsFrom(err error) ([]booking.Problem, bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}
	out := make([]booking.Problem, 0, len(ve))
	for _, fe := range ve {
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		out = append(out, booking.Problem{Field: fe.Field(), Reason: reason})
	}
	return out, true
}

// writeError maps workflow errors onto HTTP responses.  Unexpected
// errors are logged and hidden behind a generic 500.
func writeError(c echo.Context, err error) error {
	var verr *booking.ValidationError
	switch {
	case errors.Is(err, errBadBody):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "problems": verr.Problems})
	case errors.Is(err, booking.ErrConsistencyViolation):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be one of Pending, Active, Rejected"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if problems, ok := problemsFrom(err); ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "problems": problems})
	}
	c.Logger().Errorj(log.JSON{"msg": "request failed", "path": c.Path(), "error": err.Error()})
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
