// Package identity carries the resolved caller identity through the request
// context. A caller is either an authenticated user (verified bearer token)
// or an anonymous device (client-persisted device id); there is no shared
// fallback identity.
package identity

import "context"

type contextKey string

const uidKey contextKey = "uid"

// DevicePrefix namespaces device-derived uids away from authenticated ones.
const DevicePrefix = "device:"

func WithUID(ctx context.Context, uid string) context.Context {
	if uid == "" {
		return ctx
	}
	return context.WithValue(ctx, uidKey, uid)
}

func UIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	uid, ok := ctx.Value(uidKey).(string)
	if !ok || uid == "" {
		return "", false
	}
	return uid, true
}
