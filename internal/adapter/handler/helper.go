package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetingoneline/meeting-one-line/errors"
)

// errorBody is the uniform error envelope: {code, message, info}
type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Info    map[string]string `json:"info,omitempty"`
}

// HandleError serializes an application error. Unknown errors become an
// opaque internal error so no database or peer detail leaks to clients.
func HandleError(c echo.Context, logger *zap.Logger, err error) error {
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		appErr = errors.ErrInternal(err)
	}

	fields := []zap.Field{
		zap.String("code", appErr.Code.String()),
		zap.String("path", c.Request().URL.Path),
	}
	if appErr.Raw != nil {
		fields = append(fields, zap.Error(appErr.Raw))
	}
	if appErr.HTTPCode >= http.StatusInternalServerError {
		logger.Error(appErr.Message, fields...)
	} else {
		logger.Warn(appErr.Message, fields...)
	}

	return c.JSON(appErr.HTTPCode, errorBody{
		Code:    appErr.Code.String(),
		Message: appErr.Message,
		Info:    appErr.Details,
	})
}

// NewHTTPErrorHandler builds the echo error handler that catches errors
// escaping handlers and middleware (auth failures in particular).
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var echoErr *echo.HTTPError
		if stdErrors.As(err, &echoErr) {
			_ = c.JSON(echoErr.Code, errorBody{
				Code:    errors.ErrorCode_INVALID_INPUT_VALUE.String(),
				Message: http.StatusText(echoErr.Code),
			})
			return
		}

		_ = HandleError(c, logger, err)
	}
}
