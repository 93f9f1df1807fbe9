package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/tourism-auth/pkg/util"
)

const msgInvalidBody = "Invalid request body"

var requestValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldError is one entry of a validation failure's details.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// bindAndValidate parses the JSON body into dst and runs its validate tags.
// The first field failure becomes the error message; all of them go in details.
func bindAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError(msgInvalidBody, nil)
	}
	err := requestValidator.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.NewValidationError(msgInvalidBody, nil)
	}
	fields := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return apperrors.NewValidationError(fields[0].Message, map[string]any{"errors": fields})
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabels[fe.StructField()]
	if label == "" {
		label = fe.StructField()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return label + " must be at least " + fe.Param() + " characters"
	case "max":
		return label + " must be at most " + fe.Param() + " characters"
	case "containsany":
		return label + " must contain a number"
	default:
		return "Invalid " + fe.Field()
	}
}

var fieldLabels = map[string]string{
	"NewPassword":      "Password",
	"VerificationCode": "Verification code",
	"ResetCode":        "Reset code",
	"RefreshToken":     "Refresh token",
	"CompanyName":      "Company name",
}
