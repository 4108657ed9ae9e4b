package service

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// fieldMessages maps "Field.tag" to the message shown in the admin forms.
var fieldMessages = map[string]string{
	"Name.required":                 "Der Name muss mindestens 1 Zeichen lang sein",
	"Email.required":                "Die E-Mail muss mindestens 1 Zeichen lang sein",
	"Email.email":                   "Ungültige E-Mail-Adresse",
	"Password.required":             "Das Passwort muss mindestens 1 Zeichen lang sein",
	"Password.min":                  ErrPasswordTooShort.Error(),
	"PasswordConfirmation.required": "Die Passwortbestätigung muss mindestens 1 Zeichen lang sein",
	"PasswordConfirmation.min":      ErrPasswordTooShort.Error(),
	"Token.required":                ErrTokenNotFound.Error(),
	"FirstName.required":            "Der Vorname muss mindestens 1 Zeichen lang sein",
	"LastName.required":             "Der Nachname muss mindestens 1 Zeichen lang sein",
	"Street.min":                    "Die Straße muss mindestens 1 Zeichen lang sein",
	"HouseNumber.min":               "Die Hausnummer muss mindestens 1 Zeichen lang sein",
	"Zip.min":                       "Die PLZ muss mindestens 1 Zeichen lang sein",
	"City.min":                      "Die Stadt muss mindestens 1 Zeichen lang sein",
	"Phone.min":                     "Die Telefonnummer muss mindestens 1 Zeichen lang sein",
	"Amount.min":                    "Die Menge muss mindestens 1 sein",
	"BoughtAt.required":             "Das Kaufdatum ist erforderlich",
}

// validateStruct runs the validate tags of v and translates failures into a *ValidationError.
func validateStruct(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		msg, ok := fieldMessages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s ist ungültig", fe.Field())
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Fields: fields}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
