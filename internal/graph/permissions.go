package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/tripsit/tripsit-api/internal/config"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"github.com/tripsit/tripsit-api/internal/reqctx"
)

// Permissions restricts schema fields to a set of calling applications.
// Types is keyed by object type name, Fields by "Type.field". A field rule
// replaces the rule of its type; the two are never merged.
type Permissions struct {
	Types  map[string][]string
	Fields map[string][]string
}

// DefaultPermissions is the table the server runs with.
func DefaultPermissions() Permissions {
	return Permissions{
		Fields: map[string][]string{
			"Drug.lastUpdatedBy": {config.AppTripbotDiscord},
		},
	}
}

// Validate rejects malformed keys and empty rules.
func (p Permissions) Validate() error {
	for name, apps := range p.Types {
		if name == "" || strings.Contains(name, ".") {
			return fmt.Errorf("permission type key %q is not a type name", name)
		}
		if len(apps) == 0 {
			return fmt.Errorf("permission rule for %s allows no applications", name)
		}
	}
	for key, apps := range p.Fields {
		typeName, fieldName, ok := strings.Cut(key, ".")
		if !ok || typeName == "" || fieldName == "" {
			return fmt.Errorf("permission field key %q is not Type.field", key)
		}
		if len(apps) == 0 {
			return fmt.Errorf("permission rule for %s allows no applications", key)
		}
	}
	return nil
}

// Rule returns the applications allowed to resolve typeName.fieldName and
// whether any rule applies.
func (p Permissions) Rule(typeName, fieldName string) ([]string, bool) {
	if apps, ok := p.Fields[typeName+"."+fieldName]; ok {
		return apps, true
	}
	if apps, ok := p.Types[typeName]; ok {
		return apps, true
	}
	return nil, false
}

// Apply guards every field of typeName that has a rule. Fields without a
// rule are returned untouched.
func (p Permissions) Apply(typeName string, fields graphql.Fields) graphql.Fields {
	for name, field := range fields {
		allowed, ok := p.Rule(typeName, name)
		if !ok {
			continue
		}
		field.Resolve = guard(allowed, field.Resolve)
	}
	return fields
}

// unknownKeys lists rules that name no field of the built schema.
func (p Permissions) unknownKeys(schema graphql.Schema) []string {
	var unknown []string
	types := schema.TypeMap()
	for name := range p.Types {
		if _, ok := types[name].(*graphql.Object); !ok {
			unknown = append(unknown, name)
		}
	}
	for key := range p.Fields {
		typeName, fieldName, _ := strings.Cut(key, ".")
		obj, ok := types[typeName].(*graphql.Object)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		if _, ok := obj.Fields()[fieldName]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// guard wraps next so it only runs for the allowed applications.
func guard(allowed []string, next graphql.FieldResolveFn) graphql.FieldResolveFn {
	if next == nil {
		next = graphql.DefaultResolveFn
	}
	return func(p graphql.ResolveParams) (interface{}, error) {
		if !reqctx.From(p.Context).HasApp(allowed) {
			return nil, apperrors.NotAuthorizedError()
		}
		return next(p)
	}
}
