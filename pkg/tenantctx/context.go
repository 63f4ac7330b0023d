package tenantctx

import "context"

type keyType string

const (
	TenantIDKey keyType = "tenant_id"
)

// WithTenantID returns a context carrying the tenant identifier.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

// TenantID extracts the tenant identifier from the context.
func TenantID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(TenantIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
