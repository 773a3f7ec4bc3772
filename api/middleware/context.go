package middleware

import "context"

// Principal is the authenticated caller as established by Auth.
type Principal struct {
	UserID   string
	UserType string
	AccessID string
}

type principalKey struct{}

// PrincipalFromContext returns the zero Principal for anonymous requests.
func PrincipalFromContext(ctx context.Context) Principal {
	if ctx == nil {
		return Principal{}
	}
	p, _ := ctx.Value(principalKey{}).(Principal)
	return p
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalKey{}, p)
}

func UserIDFromContext(ctx context.Context) string   { return PrincipalFromContext(ctx).UserID }
func UserTypeFromContext(ctx context.Context) string { return PrincipalFromContext(ctx).UserType }

// AccessIDFromContext returns the jti of the token that authenticated the request.
func AccessIDFromContext(ctx context.Context) string { return PrincipalFromContext(ctx).AccessID }

// The With* helpers set one field and keep the rest of the principal.

func WithUserID(ctx context.Context, userID string) context.Context {
	p := PrincipalFromContext(ctx)
	p.UserID = userID
	return WithPrincipal(ctx, p)
}

func WithUserType(ctx context.Context, userType string) context.Context {
	p := PrincipalFromContext(ctx)
	p.UserType = userType
	return WithPrincipal(ctx, p)
}

func WithAccessID(ctx context.Context, accessID string) context.Context {
	p := PrincipalFromContext(ctx)
	p.AccessID = accessID
	return WithPrincipal(ctx, p)
}
