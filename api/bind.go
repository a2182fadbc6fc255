package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/prasetyowira/qrgen/domain/payload"
)

const maxBodyBytes = 4 << 20

var (
	vOnce      sync.Once
	validate   *validator.Validate
	translator ut.Translator
)

// DecodeError is a request body that is not valid JSON for the target type.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid request body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func initValidator() {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		translator, _ = uni.GetTranslator("en")

		validate = validator.New(validator.WithRequiredStructEnabled())
		// report json names, not Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		_ = enTranslations.RegisterDefaultTranslations(validate, translator)
	})
}

// decodeJSON reads a single JSON object into T and validates it.
// Failures are a *DecodeError or a *payload.ValidationError.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	initValidator()

	var req T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		return req, &DecodeError{Err: err}
	}
	if dec.More() {
		return req, &DecodeError{Err: errors.New("trailing data after JSON object")}
	}

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return req, payload.NewValidationError(fe.Field(), fe.Translate(translator))
		}
		return req, &DecodeError{Err: err}
	}
	return req, nil
}
