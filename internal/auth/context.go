package auth

import "context"

type contextKey string

const (
	contextKeyProject contextKey = "auth.project_id"
	contextKeyRole    contextKey = "auth.role"
	contextKeySubject contextKey = "auth.subject"
)

// WithIdentity stores auth identity details in context.
func WithIdentity(ctx context.Context, projectID string, role Role, subject string) context.Context {
	ctx = context.WithValue(ctx, contextKeyProject, projectID)
	ctx = context.WithValue(ctx, contextKeyRole, role)
	ctx = context.WithValue(ctx, contextKeySubject, subject)
	return ctx
}

// ProjectIDFromContext extracts the project id.
func ProjectIDFromContext(ctx context.Context) string {
	return stringValue(ctx, contextKeyProject)
}

// SubjectFromContext extracts the token subject.
func SubjectFromContext(ctx context.Context) string {
	return stringValue(ctx, contextKeySubject)
}

// RoleFromContext extracts the role.
func RoleFromContext(ctx context.Context) Role {
	if ctx == nil {
		return ""
	}
	role, _ := ctx.Value(contextKeyRole).(Role)
	return role
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(key).(string)
	return value
}
