package server

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/rezonia/customs-valuator/internal/model"
)

var setupOnce sync.Once

// SetupValidator registers the custom binding tags and reports JSON field
// names in validation errors. Safe to call more than once.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "uri"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
		_ = v.RegisterValidation("incoterm", validIncoterm)
		_ = v.RegisterValidation("allocation", validAllocation)
	})
}

func validIncoterm(fl validator.FieldLevel) bool {
	_, err := model.ParseIncoterm(fl.Field().String())
	return err == nil
}

func validAllocation(fl validator.FieldLevel) bool {
	_, err := model.ParseAllocationMethod(fl.Field().String())
	return err == nil
}

// bindingError builds the 400 body for a request that failed to bind
func bindingError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrorResponse{Error: "invalid request body", Details: err.Error()}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return ErrorResponse{Error: "request validation failed", Fields: fields}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "incoterm":
		return "Must be one of: " + joinIncoterms()
	case "allocation":
		return "Must be one of: Value Weight Quantity Manual"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "len":
		return "Must be exactly " + fe.Param() + " characters"
	case "alpha":
		return "Must contain only letters"
	case "gte":
		return "Must be greater than or equal to " + fe.Param()
	case "lt":
		return "Must be less than " + fe.Param()
	default:
		return "Invalid value"
	}
}

func joinIncoterms() string {
	terms := model.Incoterms()
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.String()
	}
	return strings.Join(out, " ")
}
