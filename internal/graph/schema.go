// Package graph defines the GraphQL schema: object types, the query and
// mutation roots, and the permission table guarding individual fields.
package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// VerifyMailer sends account verification emails.
type VerifyMailer interface {
	SendVerify(ctx context.Context, to, verifyURL string) error
}

// Options configures NewSchema.
type Options struct {
	Permissions Permissions
	// Mailer is optional; without it createUser sends no email.
	Mailer    VerifyMailer
	VerifyURL string
}

// Request is one GraphQL operation as posted by a client.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Schema is the executable GraphQL schema with its collaborators.
type Schema struct {
	schema      graphql.Schema
	permissions Permissions
	mailer      VerifyMailer
	verifyURL   string
	now         func() time.Time
	mailTimeout time.Duration

	userType              *graphql.Object
	discordUserType       *graphql.Object
	userActionType        *graphql.Object
	userTicketType        *graphql.Object
	userDrugDoseType      *graphql.Object
	drugType              *graphql.Object
	drugNameType          *graphql.Object
	drugArticleType       *graphql.Object
	drugVariantType       *graphql.Object
	drugVariantRoaType    *graphql.Object
	drugCategoryType      *graphql.Object
	discordGuildType      *graphql.Object
	discordGuildDramaType *graphql.Object
}

// NewSchema builds the schema and applies the permission table to every field.
func NewSchema(opts Options) (*Schema, error) {
	if err := opts.Permissions.Validate(); err != nil {
		return nil, err
	}

	s := &Schema{
		permissions: opts.Permissions,
		mailer:      opts.Mailer,
		verifyURL:   opts.VerifyURL,
		now:         func() time.Time { return time.Now().UTC() },
		mailTimeout: 30 * time.Second,
	}

	// Define types
	s.defineUserTypes()
	s.defineDrugTypes()
	s.defineGuildTypes()

	queryType := s.object("Query", "", s.queryFields)
	mutationType := s.object("Mutation", "", s.mutationFields)

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
	if err != nil {
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}

	if unknown := opts.Permissions.unknownKeys(schema); len(unknown) > 0 {
		return nil, fmt.Errorf("permission rules name unknown schema members: %s", strings.Join(unknown, ", "))
	}

	s.schema = schema
	return s, nil
}

// object declares an output type whose fields are built lazily, so types
// may refer to each other, and pass through the permission table.
func (s *Schema) object(name, description string, fields func() graphql.Fields) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name:        name,
		Description: description,
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return s.permissions.Apply(name, fields())
		}),
	})
}

// GetSchema returns the underlying graphql schema.
func (s *Schema) GetSchema() graphql.Schema {
	return s.schema
}

// Execute runs one operation. ctx must carry the request context.
func (s *Schema) Execute(ctx context.Context, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

// OperationType reports whether req selects a query, mutation or
// subscription. Parse errors are returned as is.
func OperationType(req Request) (string, error) {
	doc, err := parser.Parse(parser.ParseParams{Source: req.Query})
	if err != nil {
		return "", err
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if req.OperationName == "" || (op.Name != nil && op.Name.Value == req.OperationName) {
			return op.Operation, nil
		}
	}
	return "", fmt.Errorf("unknown operation named %q", req.OperationName)
}
