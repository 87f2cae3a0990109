package httpErrors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

var (
	ErrBadRequest     = errors.New("Bad request")
	ErrNotFound       = errors.New("Not Found")
	ErrUnauthorized   = errors.New("Unauthorized")
	ErrInternalServer = errors.New("Internal Server Error")
)

// RestErr is an error that knows which HTTP status it maps to.
type RestErr interface {
	Status() int
	Error() string
	Causes() interface{}
}

// RestError serialises as {"detail": ...} so clients of the old API keep working.
type RestError struct {
	ErrStatus int         `json:"-"`
	ErrDetail string      `json:"detail"`
	ErrCauses interface{} `json:"causes,omitempty"`
}

func (e RestError) Error() string {
	return fmt.Sprintf("status: %d - detail: %s - causes: %v", e.ErrStatus, e.ErrDetail, e.ErrCauses)
}

func (e RestError) Status() int {
	return e.ErrStatus
}

func (e RestError) Causes() interface{} {
	return e.ErrCauses
}

func NewRestError(status int, detail string, causes interface{}) RestErr {
	return RestError{
		ErrStatus: status,
		ErrDetail: detail,
		ErrCauses: causes,
	}
}

func NewBadRequestError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusBadRequest,
		ErrDetail: ErrBadRequest.Error(),
		ErrCauses: causes,
	}
}

func NewNotFoundError(detail string) RestErr {
	return RestError{
		ErrStatus: http.StatusNotFound,
		ErrDetail: detail,
	}
}

func NewUnauthorizedError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusUnauthorized,
		ErrDetail: ErrUnauthorized.Error(),
		ErrCauses: causes,
	}
}

func NewInternalServerError(causes interface{}) RestErr {
	return RestError{
		ErrStatus: http.StatusInternalServerError,
		ErrDetail: ErrInternalServer.Error(),
		ErrCauses: causes,
	}
}

// ParseErrors converts any error into a RestErr.
func ParseErrors(err error) RestErr {
	var restErr RestErr
	if stderrors.As(err, &restErr) {
		return restErr
	}
	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		causes := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			causes = append(causes, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
		return NewBadRequestError(causes)
	}
	var echoErr *echo.HTTPError
	if stderrors.As(err, &echoErr) {
		return NewRestError(echoErr.Code, fmt.Sprint(echoErr.Message), nil)
	}
	// callers log err; its text may carry backend connection details
	return NewInternalServerError(nil)
}

// ErrorResponse writes err as JSON with the status it maps to.
func ErrorResponse(c echo.Context, err error) error {
	restErr := ParseErrors(err)
	return c.JSON(restErr.Status(), restErr)
}
