package jwt

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// IdentityFromContext reads the caller placed in ctx by jwtauth.Verifier.
func IdentityFromContext(ctx context.Context) (user.Identity, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return user.Identity{}, fmt.Errorf("failed to extract claims from context: %w", user.ErrIdentityMissing)
	}

	organizationID, ok := claims["organization_id"].(string)
	if !ok || organizationID == "" {
		return user.Identity{}, fmt.Errorf("organization_id claim: %w", user.ErrOrganizationIDRequired)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return user.Identity{}, fmt.Errorf("employee_id claim: %w", user.ErrEmployeeIDRequired)
	}

	roleStr, _ := claims["role"].(string)
	if !user.IsValidRole(roleStr) {
		return user.Identity{}, fmt.Errorf("role claim %q: %w", roleStr, user.ErrIdentityMissing)
	}

	userID, _ := claims["user_id"].(string)

	return user.Identity{
		UserID:         userID,
		EmployeeID:     employeeID,
		OrganizationID: organizationID,
		Role:           user.Role(roleStr),
	}, nil
}

// ContextWithIdentity signs identity and stores the verified token in ctx, the
// same way jwtauth.Verifier does for an incoming request.
func ContextWithIdentity(ctx context.Context, ja *jwtauth.JWTAuth, identity user.Identity) (context.Context, error) {
	_, tokenString, err := ja.Encode(map[string]interface{}{
		"user_id":         identity.UserID,
		"employee_id":     identity.EmployeeID,
		"organization_id": identity.OrganizationID,
		"role":            string(identity.Role),
		"type":            "access",
	})
	if err != nil {
		return ctx, err
	}

	token, err := ja.Decode(tokenString)
	if err != nil {
		return ctx, err
	}

	return jwtauth.NewContext(ctx, token, nil), nil
}
