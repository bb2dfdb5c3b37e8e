package server

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"

	"submissionsbff/pkg/types"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

// validationErrors carries field level messages keyed by the name the client
// used for the field.
type validationErrors struct {
	fields map[string]string
}

func (e *validationErrors) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationErrors() *validationErrors {
	return &validationErrors{fields: map[string]string{}}
}

func (e *validationErrors) add(field, message string) {
	if _, ok := e.fields[field]; !ok {
		e.fields[field] = message
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "header"} {
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
	v.RegisterValidation("guid", isGUID)
	v.RegisterValidation("submissiontype", isSubmissionType)
	v.RegisterValidation("submissionsubtype", isSubmissionSubType)
	return v
}

// isGUID accepts any form uuid.Parse does, including upper case hex.
func isGUID(fl validator.FieldLevel) bool {
	_, err := uuid.Parse(fl.Field().String())
	return err == nil
}

func isSubmissionType(fl validator.FieldLevel) bool {
	_, err := types.ParseSubmissionType(fl.Field().String())
	return err == nil
}

func isSubmissionSubType(fl validator.FieldLevel) bool {
	_, err := types.ParseSubmissionSubType(fl.Field().String())
	return err == nil
}

// validateStruct runs the struct's validate tags and reports every failure.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := newValidationErrors()
	for _, fe := range verrs {
		out.add(fe.Field(), fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "guid":
		return "must be a valid uuid"
	case "submissiontype":
		return "is not a known submission type"
	case "submissionsubtype":
		return "is not a known submission sub type"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

var acceptedTimeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseTime(value string) (time.Time, error) {
	for _, layout := range acceptedTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", value)
}

func newQueryDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		if len(vals) == 0 || vals[0] == "" {
			return time.Time{}, nil
		}
		return parseTime(vals[0])
	}, time.Time{})
	return d
}

// decodeQuery decodes values into dst and validates the result.
func (s *Service) decodeQuery(values url.Values, dst any) error {
	if err := s.decoder.Decode(dst, values); err != nil {
		var derrs form.DecodeErrors
		if !errors.As(err, &derrs) {
			return err
		}

		out := newValidationErrors()
		for field := range derrs {
			out.add(field, "is not in a recognised format")
		}
		return out
	}

	return validateStruct(dst)
}
