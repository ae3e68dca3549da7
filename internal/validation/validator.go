// Package validation проверяет тела запросов с помощью go-playground/validator
// и переводит ошибки в список {field, message} для ответа 400.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var resolutionRe = regexp.MustCompile(`^[0-9]{1,4}x$`)

// FieldError - ошибка одного поля в формате ответа API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error - набор ошибок полей запроса.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "некорректный запрос"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return strings.Join(parts, "; ")
}

// Validator возвращает общий экземпляр валидатора.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// В ошибках используем имена полей из JSON.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("resolution", func(fl validator.FieldLevel) bool {
			return resolutionRe.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Struct проверяет структуру. Возвращает nil или *Error.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Fields: []FieldError{{Field: "body", Message: err.Error()}}}
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{Field: fe.Field(), Message: translate(fe)}
	}
	return &Error{Fields: fields}
}

// AsError извлекает ошибки полей из err.
func AsError(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

func translate(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "url":
		return "должно быть корректным URL"
	case "hexadecimal":
		return "должно быть шестнадцатеричной строкой"
	case "resolution":
		return "ожидается метка разрешения вида 64x"
	case "gt":
		return fmt.Sprintf("должно быть больше %s", fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("минимальная длина %s", fe.Param())
		}
		return fmt.Sprintf("минимальное значение %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("максимальная длина %s", fe.Param())
		}
		return fmt.Sprintf("максимальное значение %s", fe.Param())
	default:
		return fmt.Sprintf("не прошло проверку %s", fe.Tag())
	}
}
