package validator

import (
	"log"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterGinValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("e164phone", phoneNumberValidator); err != nil {
			log.Fatal("register e164phone validator failed")
		}
		if err := v.RegisterValidation("verifycode", verificationCodeValidator); err != nil {
			log.Fatal("register verifycode validator failed")
		}
	}
}

var phoneNumberValidator validator.Func = func(fl validator.FieldLevel) bool {
	phoneNumber := fl.Field().String()
	pattern := `^\+[1-9]\d{7,14}$`
	matched, err := regexp.MatchString(pattern, phoneNumber)
	if err != nil {
		return false
	}
	return matched
}

var verificationCodeValidator validator.Func = func(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	matched, err := regexp.MatchString(`^\d{6}$`, code)
	if err != nil {
		return false
	}
	return matched
}
