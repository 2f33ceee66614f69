package preset

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gogpu/ggfx"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	originTag = "origin"
	colorTag  = "color"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report TOML key names instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(originTag, originValidation)
	_ = validate.RegisterValidation(colorTag, colorValidation)

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{originTag, colorTag} {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case originTag:
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.Join(ggfx.OriginNames(), ", "))
	case colorTag:
		return fmt.Sprintf("%s must be a #rgb or #rrggbb colour", fe.Field())
	default:
		return ""
	}
}

func originValidation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := ggfx.ParseOrigin(s)
	return err == nil
}

func colorValidation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, ok = ggfx.ParseHex(s)
	return ok
}

// validateStruct validates v and joins the translated messages into one
// ErrInvalid error.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fe.Translate(translator)
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
