package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/response"
	"github.com/ignatzorin/lexsuite-backend/internal/logger"
	"github.com/ignatzorin/lexsuite-backend/internal/pkg/apperror"
)

// ErrorHandler отвечает за ошибки, добавленные через c.Error, если хэндлер
// сам ничего не записал. Внутренние ошибки маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		entry := logger.Log.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).WithError(err)

		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.HTTPStatus < 500 {
			entry.Warn("Request error")
		} else {
			entry.Error("Request error")
		}
		response.Error(c, err)
	}
}

// Recovery превращает панику в хэндлере в ответ 500 в общем формате.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Log.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"panic": recovered,
		}).Error("Panic in handler")
		response.Error(c, apperror.New(apperror.ErrCodeInternal, "внутренняя ошибка сервера"))
		c.Abort()
	})
}
