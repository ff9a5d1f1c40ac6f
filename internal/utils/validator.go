package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ValidationErrorDetail represents the structure of a single validation error.
type ValidationErrorDetail struct {
	Field    string      `json:"field"`
	Message  string      `json:"message"`
	Expected string      `json:"expected"`
	Received interface{} `json:"received"`
}

// ValidationErrorResponse is written when the request body cannot be bound.
type ValidationErrorResponse struct {
	Error  string                  `json:"error"`
	Detail []ValidationErrorDetail `json:"detail"`
}

const invalidRequestMessage = "Invalid request parameters"

// BindAndValidate binds the request body to the given object and validates it.
// If validation fails, it sends a 400 response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var validationErrors []ValidationErrorDetail

	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &fieldErrs):
		for _, e := range fieldErrs {
			field := getJSONTagName(obj, e.StructField())
			detail := ValidationErrorDetail{
				Field:    field,
				Message:  fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", field, e.Tag()),
				Expected: e.Param(),
				Received: e.Value(),
			}

			if detail.Expected == "" {
				detail.Expected = e.Tag()
			}

			switch e.Tag() {
			case "required":
				detail.Message = fmt.Sprintf("Field '%s' is required", field)
				detail.Expected = "not null"
			case "max":
				detail.Message = fmt.Sprintf("Field '%s' must be at most %s characters long", field, e.Param())
				detail.Expected = fmt.Sprintf("max length %s", e.Param())
			}

			validationErrors = append(validationErrors, detail)
		}
	case errors.As(err, &typeErr):
		validationErrors = append(validationErrors, ValidationErrorDetail{
			Field:    typeErr.Field,
			Message:  fmt.Sprintf("Field '%s' has invalid type", typeErr.Field),
			Expected: typeErr.Type.String(),
			Received: typeErr.Value,
		})
	default:
		validationErrors = append(validationErrors, ValidationErrorDetail{
			Field:    "body",
			Message:  "Malformed JSON or invalid request body",
			Expected: "valid JSON",
			Received: "invalid",
		})
	}

	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Error:  invalidRequestMessage,
		Detail: validationErrors,
	})
	return false
}

func getJSONTagName(obj interface{}, fieldName string) string {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(fieldName); ok {
		if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
			return name
		}
	}
	return fieldName
}
