package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/skssmd/patient-project/internal/apperrors"
	"github.com/skssmd/patient-project/internal/models"
)

const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
	msgDate     = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// PatientInput is the writable part of a patient. Pointers tell a missing
// field apart from an empty one.
type PatientInput struct {
	FirstName        *string `json:"first_name" validate:"required,min=1,max=100" example:"Ada"`
	LastName         *string `json:"last_name" validate:"required,min=1,max=100" example:"Lovelace"`
	DOB              *string `json:"dob" validate:"required,datetime=2006-01-02" example:"1985-12-10"`
	Sex              *string `json:"sex" validate:"required,oneof=male female other" enums:"male,female,other" example:"female"`
	EthnicBackground *string `json:"ethnic_background" validate:"required,min=1,max=100" example:"White British"`
}

func (in *PatientInput) normalize() {
	trimPtr(in.FirstName)
	trimPtr(in.LastName)
	trimPtr(in.EthnicBackground)
}

func (in PatientInput) toModel() models.Patient {
	dob, _ := models.ParseDate(*in.DOB)
	return models.Patient{
		FirstName:        *in.FirstName,
		LastName:         *in.LastName,
		DOB:              dob,
		Sex:              models.Sex(*in.Sex),
		EthnicBackground: *in.EthnicBackground,
	}
}

type MeasurementInput struct {
	Value *float64 `json:"value" validate:"required" example:"70"`
	Unit  *string  `json:"unit" validate:"required,min=1,max=10" example:"kg"`
}

func (in MeasurementInput) toModel() models.Measurement {
	return models.Measurement{Value: *in.Value, Unit: *in.Unit}
}

// MetricsInput is the nested {weight, height} payload. Results is only read
// by direct ingestion.
type MetricsInput struct {
	Weight  *MeasurementInput `json:"weight" validate:"required"`
	Height  *MeasurementInput `json:"height" validate:"required"`
	Results json.RawMessage   `json:"results,omitempty" swaggertype:"array,number"`
}

func (in *MetricsInput) normalize() {
	if in.Weight != nil {
		trimPtr(in.Weight.Unit)
	}
	if in.Height != nil {
		trimPtr(in.Height.Unit)
	}
}

// normalizer is implemented by inputs whose text fields are trimmed before
// validation, so whitespace-only values count as blank.
type normalizer interface {
	normalize()
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// FieldErrors maps JSON field names to messages. Nested objects produce
// nested maps, e.g. {"weight": {"unit": ["This field is required."]}}.
type FieldErrors map[string]any

func (fe FieldErrors) add(path []string, msg string) {
	if len(path) == 0 {
		path = []string{"non_field_errors"}
	}

	node := map[string]any(fe)
	for _, key := range path[:len(path)-1] {
		child, ok := node[key].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[key] = child
		}
		node = child
	}

	leaf := path[len(path)-1]
	msgs, _ := node[leaf].([]string)
	node[leaf] = append(msgs, msg)
}

func (fe FieldErrors) has(path []string) bool {
	node := map[string]any(fe)
	for i, key := range path {
		v, ok := node[key]
		if !ok {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		if node, ok = v.(map[string]any); !ok {
			return true
		}
	}
	return false
}

// decodeAndValidate unmarshals a JSON object into dst and runs struct
// validation. It returns nil or a FieldErrors describing every problem found.
func decodeAndValidate(body []byte, dst any) FieldErrors {
	errs := FieldErrors{}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && !json.Valid(trimmed) {
		errs.add(nil, "JSON parse error - invalid JSON document")
		return errs
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		errs.add(nil, fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", jsonKind(trimmed)))
		return errs
	}

	if err := json.Unmarshal(trimmed, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			errs.add(nil, "JSON parse error - "+err.Error())
			return errs
		}
		errs.add(splitPath(typeErr.Field), typeMessage(typeErr))
	}

	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.add(nil, err.Error())
			return errs
		}
		for _, fe := range verrs {
			path := namespacePath(fe.Namespace())
			// The type error already explains this field.
			if errs.has(path) {
				continue
			}
			errs.add(path, fieldMessage(fe))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// namespacePath drops the root struct name from a validator namespace.
func namespacePath(ns string) []string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return parts
}

func splitPath(field string) []string {
	if field == "" {
		return nil
	}
	return strings.Split(field, ".")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "min":
		return msgBlank
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "datetime":
		return msgDate
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(indirect(fe.Value())))
	default:
		return fmt.Sprintf("Failed on the %q check.", fe.Tag())
	}
}

func typeMessage(err *json.UnmarshalTypeError) string {
	target := err.Type
	for target != nil && target.Kind() == reflect.Ptr {
		target = target.Elem()
	}
	if target == nil {
		return "Invalid value."
	}

	switch target.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return "A valid number is required."
	case reflect.String:
		return "Not a valid string."
	case reflect.Struct, reflect.Map:
		return fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", err.Value)
	case reflect.Slice:
		return fmt.Sprintf("Expected a list of items but got type %q.", err.Value)
	default:
		return "Invalid value."
	}
}

func indirect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func jsonKind(raw []byte) string {
	if len(raw) == 0 {
		return "nothing"
	}
	switch raw[0] {
	case '[':
		return "list"
	case '"':
		return "str"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// ValidatePatient decodes one patient object.
func ValidatePatient(body []byte) (models.Patient, FieldErrors) {
	var in PatientInput
	if errs := decodeAndValidate(body, &in); errs != nil {
		return models.Patient{}, errs
	}
	return in.toModel(), nil
}

// ValidateMetrics decodes a nested {weight, height} payload.
func ValidateMetrics(body []byte) (*MetricsInput, FieldErrors) {
	var in MetricsInput
	if errs := decodeAndValidate(body, &in); errs != nil {
		return nil, errs
	}
	return &in, nil
}

func validationError(errs FieldErrors) error {
	return apperrors.NewValidationError(map[string]any(errs))
}
