package graph

import (
	"errors"
	"fmt"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/tripsit/tripsit-api/internal/pkg/logger"
	"github.com/tripsit/tripsit-api/internal/reqctx"
	"github.com/tripsit/tripsit-api/internal/services"
	"go.uber.org/zap"
)

var errNoRequestContext = errors.New("request context is missing")

func requestContext(p graphql.ResolveParams) (*reqctx.Context, error) {
	rc := reqctx.From(p.Context)
	if rc == nil || rc.DB == nil {
		return nil, errNoRequestContext
	}
	return rc, nil
}

func logFor(rc *reqctx.Context) *zap.Logger {
	if rc != nil && rc.Logger != nil {
		return rc.Logger
	}
	return logger.L()
}

// source returns the parent object. List items arrive by value, single
// results by pointer.
func source[T any](p graphql.ResolveParams) (*T, error) {
	switch v := p.Source.(type) {
	case *T:
		if v != nil {
			return v, nil
		}
	case T:
		return &v, nil
	}
	return nil, fmt.Errorf("%s: unexpected parent %T", p.Info.FieldName, p.Source)
}

// prop resolves a field straight from the parent object.
func prop[T any](get func(*T) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		src, err := source[T](p)
		if err != nil {
			return nil, err
		}
		return get(src), nil
	}
}

// load resolves a field that needs the database.
func load[T any](fn func(p graphql.ResolveParams, rc *reqctx.Context, src *T) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		src, err := source[T](p)
		if err != nil {
			return nil, err
		}
		rc, err := requestContext(p)
		if err != nil {
			return nil, err
		}
		return fn(p, rc, src)
	}
}

// userRef resolves a user id held by the parent object. A nil id is null.
func userRef[T any](get func(*T) *string) graphql.FieldResolveFn {
	return load(func(p graphql.ResolveParams, rc *reqctx.Context, src *T) (interface{}, error) {
		id := get(src)
		if id == nil {
			return nil, nil
		}
		return services.GetUser(p.Context, rc.DB, *id)
	})
}

func field(t graphql.Output, resolve graphql.FieldResolveFn) *graphql.Field {
	return &graphql.Field{Type: t, Resolve: resolve}
}

func nonNull(t graphql.Type) *graphql.NonNull {
	return graphql.NewNonNull(t)
}

func listOf(t graphql.Type) *graphql.NonNull {
	return graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t)))
}

func arg(t graphql.Input) *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: t}
}

func argString(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func argOptString(args map[string]interface{}, key string) *string {
	if s, ok := args[key].(string); ok {
		return &s
	}
	return nil
}

func argOptBool(args map[string]interface{}, key string) *bool {
	if b, ok := args[key].(bool); ok {
		return &b
	}
	return nil
}

func argOptUint(args map[string]interface{}, key string) *uint {
	if n, ok := args[key].(uint); ok {
		return &n
	}
	return nil
}

func argUint(args map[string]interface{}, key string) int {
	n, _ := args[key].(uint)
	return int(n)
}

func argFloat(args map[string]interface{}, key string) float64 {
	f, _ := args[key].(float64)
	return f
}

func argOptTime(args map[string]interface{}, key string) *time.Time {
	if t, ok := args[key].(time.Time); ok {
		return &t
	}
	return nil
}

func argEnum[T any](args map[string]interface{}, key string) T {
	v, _ := args[key].(T)
	return v
}

func argOptEnum[T any](args map[string]interface{}, key string) *T {
	if v, ok := args[key].(T); ok {
		return &v
	}
	return nil
}

func argEnumList[T any](args map[string]interface{}, key string) []T {
	raw, _ := args[key].([]interface{})
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		if v, ok := item.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func argObject(args map[string]interface{}, key string) map[string]interface{} {
	m, _ := args[key].(map[string]interface{})
	return m
}
