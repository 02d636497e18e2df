package helper

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator singleton; nama field diambil dari tag json.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		validate = v
	})
	return validate
}

// ValidateStruct mengembalikan FieldErrors (atau nil).
func ValidateStruct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range ve {
		out.Add(fe.Field(), validationMessage(fe))
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return f + " wajib diisi."
	case "email":
		return "Format email tidak valid."
	case "min":
		if fe.Kind() == reflect.String {
			return f + " harus minimal " + fe.Param() + " karakter."
		}
		return f + " minimal " + fe.Param() + "."
	case "max":
		if fe.Kind() == reflect.String {
			return f + " maksimal " + fe.Param() + " karakter."
		}
		return f + " maksimal " + fe.Param() + "."
	case "gte":
		return f + " harus >= " + fe.Param() + "."
	case "gt":
		return f + " harus > " + fe.Param() + "."
	case "oneof":
		return f + " harus salah satu dari " + fe.Param() + "."
	case "datetime":
		return f + " harus berformat " + fe.Param() + "."
	case "url":
		return f + " harus berupa URL."
	default:
		return f + " tidak valid."
	}
}
