package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvchain-backend/internal/delivery/http/response"
	"cvchain-backend/internal/ledger/chaincode"
	"cvchain-backend/pkg/apperror"
	"cvchain-backend/pkg/logger"
)

// statusForKind maps the ledger's closed error set to HTTP statuses.
// NotFound-class lookups surface as 404, create/apply collisions as 400,
// credential failures as 401.
func statusForKind(kind chaincode.Kind) int {
	switch kind {
	case chaincode.KindNotFound, chaincode.KindUserNotFound:
		return http.StatusNotFound
	case chaincode.KindAlreadyExists, chaincode.KindAlreadyApplied:
		return http.StatusBadRequest
	case chaincode.KindInvalidPassword, chaincode.KindInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		if kind := chaincode.KindOf(err); kind != 0 {
			response.Error(c, statusForKind(kind), err.Error(), kind.String())
			return
		}

		// Never expose internal error details to clients.
		logger.Log.Error("internal server error", "error", err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
