package apitest

import "context"

type bodyKey struct{}

func withBody(ctx context.Context, body map[string]string) context.Context {
	return context.WithValue(ctx, bodyKey{}, body)
}

func bodyFrom(ctx context.Context) map[string]string {
	if body, ok := ctx.Value(bodyKey{}).(map[string]string); ok {
		return body
	}
	return map[string]string{}
}
