package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/auth"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/handler/http/response"
)

// RequireAdmin requires admin role
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(user.RoleAdmin, user.ErrAdminPrivilegeRequired, next)
}

// RequireStaff requires staff role
func RequireStaff(next http.Handler) http.Handler {
	return requireRole(user.RoleStaff, user.ErrStaffRoleRequired, next)
}

func requireRole(role user.Role, denied error, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if user.Role(p.Role) != role {
			response.HandleError(w, denied)
			return
		}

		next.ServeHTTP(w, r)
	})
}
