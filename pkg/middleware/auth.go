package middleware

import (
	"context"
	"net/http"
	"strings"

	"experience-market/internal/data/entity"
	"experience-market/internal/usecase"
	"experience-market/pkg/identity"
	"experience-market/pkg/utils"

	"go.uber.org/zap"
)

// TokenVerifier validates identity provider session tokens
type TokenVerifier interface {
	Verify(raw string) (*identity.Claims, error)
}

// UserDirectory mirrors a verified caller into the local user table
type UserDirectory interface {
	EnsureUser(ctx context.Context, in usecase.SignIn) (*entity.User, error)
}

// Authenticate validates the bearer token, makes sure the caller exists in
// the user directory and puts user id and role into the request context
func Authenticate(verifier TokenVerifier, users UserDirectory, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.Warn("Rejected session token", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			in := usecase.SignIn{
				ExternalID: claims.Subject,
				Email:      claims.Email,
				Name:       claims.Name,
				Role:       claims.Role,
			}
			if claims.IssuedAt != nil {
				in.IssuedAt = claims.IssuedAt.Time
			}

			user, err := users.EnsureUser(r.Context(), in)
			if err != nil {
				logger.Error("Failed to resolve user",
					zap.String("subject", claims.Subject),
					zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))
			ctx = utils.SetSubjectContext(ctx, user.ExternalID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only for the given roles. It must
// run after Authenticate.
func RequireRole(logger *zap.Logger, roles ...entity.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			role, _ := utils.GetRoleFromContext(r.Context())
			for _, allowed := range roles {
				if entity.UserRole(role) == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("Role check: access denied",
				zap.String("user_id", userID.String()),
				zap.String("role", role),
				zap.String("path", r.URL.Path))
			utils.ResponseForbidden(w, "Insufficient role for this resource")
		})
	}
}

// Admin is RequireRole for admins only
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(logger, entity.RoleAdmin)
}
