package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/config"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
)

// CasdoorAuthMiddleware authenticates requests against the campus Casdoor
// instance and stamps the resolved user onto the gin context.
type CasdoorAuthMiddleware struct {
	client *casdoorsdk.Client
	config config.CasdoorConfig
}

func NewCasdoorAuthMiddleware(cfg config.CasdoorConfig) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Application,
		cfg.Organization,
	)

	return &CasdoorAuthMiddleware{
		client: client,
		config: cfg,
	}
}

func abortWith(c *gin.Context, status int, reason, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":   reason,
		"message": message,
	})
}

// bearerToken pulls the token out of the Authorization header.
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", fmt.Errorf("Authorization header is not a bearer token")
	}
	return token, nil
}

// AuthMiddleware rejects requests without a valid Casdoor token.
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}

		claims, err := cam.client.ParseJwtToken(token)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, "unauthorized", fmt.Sprintf("token rejected: %v", err))
			return
		}

		user, err := cam.userFromClaims(claims)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_role", user.Role)
		c.Set("user_email", user.Email)

		c.Next()
	}
}

// RequireRoleMiddleware gates a route to the given roles. Admins pass every
// gate.
func (cam *CasdoorAuthMiddleware) RequireRoleMiddleware(allowed ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get("user_role")
		if !exists {
			abortWith(c, http.StatusForbidden, "forbidden", "no authenticated role on request")
			return
		}

		role, ok := raw.(models.UserRole)
		if !ok {
			abortWith(c, http.StatusForbidden, "forbidden", "unrecognized role on request")
			return
		}

		if role != models.RoleAdmin {
			permitted := false
			for _, want := range allowed {
				if role == want {
					permitted = true
					break
				}
			}
			if !permitted {
				abortWith(c, http.StatusForbidden, "forbidden",
					fmt.Sprintf("role %s may not perform this operation", role))
				return
			}
		}

		c.Next()
	}
}

// userFromClaims builds the request user from JWT claims.
func (cam *CasdoorAuthMiddleware) userFromClaims(claims *casdoorsdk.Claims) (*models.User, error) {
	if claims.Id == "" {
		return nil, fmt.Errorf("token carries no user ID")
	}

	return &models.User{
		ID:    claims.Id,
		Name:  claims.User.DisplayName,
		Email: claims.User.Email,
		Role:  mapCasdoorRole(claims.User.Type),
	}, nil
}

// mapCasdoorRole translates the Casdoor user type into the roles the route
// gates understand. Unknown types get the least privileged role.
func mapCasdoorRole(casdoorType string) models.UserRole {
	switch strings.ToLower(casdoorType) {
	case "admin", "administrator":
		return models.RoleAdmin
	case "lecturer", "teacher", "instructor", "staff":
		return models.RoleLecturer
	default:
		return models.RoleStudent
	}
}
