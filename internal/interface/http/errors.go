package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recruitment-accounts/internal/application"
	"github.com/oksasatya/recruitment-accounts/pkg/response"
)

// statusFor maps an application error onto an HTTP status.
func statusFor(e *application.Error) int {
	switch e.Code {
	case application.ErrNoToken.Code:
		return http.StatusBadRequest
	case application.ErrForbidden.Code:
		return http.StatusForbidden
	case application.ErrUnavailable.Code:
		return http.StatusServiceUnavailable
	}
	switch e.Kind {
	case application.KindValidation:
		return http.StatusBadRequest
	case application.KindConflict:
		return http.StatusConflict
	case application.KindNotFound:
		return http.StatusNotFound
	case application.KindUnauthorized, application.KindTokenInvalid:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err; anything that is not an application error is
// treated as an internal failure and its detail never leaves the process.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var appErr *application.Error
	if !errors.As(err, &appErr) {
		if logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
		}
		appErr = application.ErrStoreFailure
	}
	detail := gin.H{"code": appErr.Code}
	if appErr.Reason != "" {
		detail["reason"] = appErr.Reason
	}
	response.Error[any](c, statusFor(appErr), appErr.Message, detail)
}
