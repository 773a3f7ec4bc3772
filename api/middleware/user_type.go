package middleware

import (
	"net/http"

	"github.com/angelmondragon/supplyhub-backend/api/responses"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/angelmondragon/supplyhub-backend/pkg/logger"
)

// RequireUserType only lets callers of the given account type through.
func RequireUserType(userType enums.UserType, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserTypeFromContext(r.Context()) != string(userType) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, onlyMessage(userType)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireWriterType guards mutating methods only. Safe methods pass for any authenticated caller.
func RequireWriterType(userType enums.UserType, logg *logger.Logger) func(http.Handler) http.Handler {
	guard := RequireUserType(userType, logg)
	return func(next http.Handler) http.Handler {
		guarded := guard(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				guarded.ServeHTTP(w, r)
			}
		})
	}
}

func onlyMessage(userType enums.UserType) string {
	switch userType {
	case enums.UserTypeShop:
		return "only for shops"
	case enums.UserTypeBuyer:
		return "only for buyers"
	}
	return "user type required"
}
