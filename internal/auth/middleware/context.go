package auth

import "context"

type ctxKey string

const (
	ctxKeySub     ctxKey = "sub"
	ctxKeyAdminID ctxKey = "admin_id"
)

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySub, sub)
}

func SubjectFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeySub); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithAdminID records which organization (admin account) a student token
// belongs to.
func WithAdminID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyAdminID, id)
}

func AdminIDFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeyAdminID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
