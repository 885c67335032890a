package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/atmacsn/agriadmin/apperror"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// APIResponse is the envelope every JSON response is wrapped in.
type APIResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

func Respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, APIResponse{
		Success:    status < http.StatusBadRequest,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// Fail aborts the request with the envelope matching err.
func Fail(c *gin.Context, err error) {
	appErr := apperror.From(err)
	_ = c.Error(err)

	var data any = appErr.Data
	switch {
	case appErr.Kind == apperror.KindValidation && len(appErr.Fields) > 0:
		data = gin.H{"errors": appErr.Fields}
	case appErr.Kind == apperror.KindInternal && appErr.Err != nil:
		data = gin.H{"error": appErr.Err.Error()}
	}

	c.AbortWithStatusJSON(appErr.Status, APIResponse{
		Success:    false,
		StatusCode: appErr.Status,
		Message:    appErr.Message,
		Data:       data,
	})
}

// BindJSON decodes the body into dst and turns binding failures into a 422
// carrying one entry per rejected field.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return BindingError(err)
	}
	return nil
}

// DecodePartial decodes a partial update body into the struct dst points
// at. Only the fields the body sets are checked against the binding rules,
// so fields required on create may be left out but never sent invalid.
func DecodePartial(c *gin.Context, dst any) error {
	if err := json.NewDecoder(c.Request.Body).Decode(dst); err != nil {
		return apperror.BadRequest("invalid request body")
	}
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.StructExcept(dst, zeroFields(dst)...); err != nil {
		return BindingError(err)
	}
	return nil
}

// zeroFields names the top level fields of the struct dst points at that
// hold their zero value.
func zeroFields(dst any) []string {
	rv := reflect.Indirect(reflect.ValueOf(dst))
	if rv.Kind() != reflect.Struct {
		return nil
	}
	var names []string
	for i := 0; i < rv.NumField(); i++ {
		if rv.Field(i).IsZero() {
			names = append(names, rv.Type().Field(i).Name)
		}
	}
	return names
}

func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.BadRequest("invalid request body")
	}
	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return apperror.Validation("Please Verify the Entity", fields...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Email is required"
	case "min":
		if fe.Field() == "password" || fe.Field() == "newPassword" {
			return fmt.Sprintf("Password must be %s or more characters", fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "mongodb":
		return fmt.Sprintf("%s must be a valid id", fe.Field())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
