package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lovawin/sosh-test-sub004/domain"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
	Code   string             `json:"code,omitempty"`
	Reason string             `json:"reason,omitempty"`
}

// StatusOf maps an error to the http status a handler should answer with.
func StatusOf(err error) int {
	if kind, ok := domain.KindOf(err); ok {
		switch kind {
		case domain.KindValidation:
			return http.StatusBadRequest
		case domain.KindStateConflict:
			return http.StatusConflict
		case domain.KindDependency:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBadParamInput),
		errors.Is(err, domain.ErrInvalidNumberFormat),
		errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// MakeJsonResp writes data wrapped in a JsonResponse. An error as data replaces status
// with StatusOf(err) unless status is already a 4xx.
func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		if mapped := StatusOf(err); status < 400 || status >= 500 || mapped != http.StatusInternalServerError {
			status = mapped
		}
		return c.JSON(status, JsonResponse{
			Data:   err.Error(),
			Status: JsonResponseStatusFail,
			Code:   domain.CodeOf(err),
			Reason: domain.ReasonOf(err),
		})
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{Data: data, Status: JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{Data: data, Status: JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
