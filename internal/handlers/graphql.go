package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/tripsit/tripsit-api/internal/graph"
	"github.com/tripsit/tripsit-api/internal/metrics"
	"github.com/tripsit/tripsit-api/internal/middleware"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"github.com/tripsit/tripsit-api/internal/pkg/logger"
	"github.com/tripsit/tripsit-api/internal/reqctx"
	"github.com/tripsit/tripsit-api/internal/types"
	"go.uber.org/zap"
)

// graphqlPayload is one operation of a POST body.
type graphqlPayload struct {
	Query         string           `json:"query"`
	OperationName string           `json:"operationName"`
	Variables     types.FlexObject `json:"variables"`
}

func (p graphqlPayload) request() graph.Request {
	return graph.Request{
		Query:         p.Query,
		OperationName: p.OperationName,
		Variables:     p.Variables.Map(),
	}
}

// graphqlErrorBody is the response for requests refused before execution.
type graphqlErrorBody struct {
	Errors []gqlerrors.FormattedError `json:"errors"`
}

// GraphQLHandler serves the GraphQL endpoint
type GraphQLHandler struct {
	Schema  *graph.Schema
	Builder *reqctx.Builder
}

// Post handles POST /graphql
// @Summary Execute GraphQL operations
// @Description Executes one operation, or a batch when the body is an array
// @Tags GraphQL
// @Accept json
// @Produce json
// @Param body body object true "{query, operationName, variables} or an array of them"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Security BearerAuth
// @Router /graphql [post]
func (h *GraphQLHandler) Post(c *fiber.Ctx) error {
	var batch types.Batch[graphqlPayload]
	if err := json.Unmarshal(c.Body(), &batch); err != nil {
		return graphqlError(c, fiber.StatusBadRequest, "Invalid request body", apperrors.CodeValidation)
	}
	if batch.Len() == 0 {
		return graphqlError(c, fiber.StatusBadRequest, "No operations in batch", apperrors.CodeValidation)
	}

	rc, err := h.requestContext(c)
	if err != nil {
		return h.refuse(c, err)
	}

	results := make([]*graphql.Result, 0, batch.Len())
	for _, op := range batch.Items {
		results = append(results, h.execute(c, rc, op.request()))
	}

	if batch.Batched {
		return c.JSON(results)
	}
	return c.JSON(results[0])
}

// Get handles GET /graphql. Only queries may be sent this way.
// @Summary Execute a GraphQL query
// @Tags GraphQL
// @Produce json
// @Param query query string true "GraphQL document"
// @Param operationName query string false "Operation to run"
// @Param variables query string false "JSON encoded variables"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 405 {object} map[string]interface{}
// @Security BearerAuth
// @Router /graphql [get]
func (h *GraphQLHandler) Get(c *fiber.Ctx) error {
	op := graphqlPayload{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if op.Query == "" {
		return graphqlError(c, fiber.StatusBadRequest, "Missing query", apperrors.CodeValidation)
	}
	if raw := c.Query("variables"); raw != "" {
		if err := op.Variables.Parse(raw); err != nil {
			return graphqlError(c, fiber.StatusBadRequest, "Variables must be a JSON object", apperrors.CodeValidation)
		}
	}

	// Parse errors fall through to execution, which reports them.
	if kind, err := graph.OperationType(op.request()); err == nil && kind != "query" {
		c.Set(fiber.HeaderAllow, fiber.MethodPost)
		return graphqlError(c, fiber.StatusMethodNotAllowed, "Only queries can be sent with GET", apperrors.CodeValidation)
	}

	rc, err := h.requestContext(c)
	if err != nil {
		return h.refuse(c, err)
	}
	return c.JSON(h.execute(c, rc, op.request()))
}

func (h *GraphQLHandler) requestContext(c *fiber.Ctx) (*reqctx.Context, error) {
	return h.Builder.Build(c.Get(fiber.HeaderAuthorization), middleware.GetRequestID(c))
}

func (h *GraphQLHandler) refuse(c *fiber.Ctx, err error) error {
	code := apperrors.CodeInternal
	if appErr, ok := apperrors.IsAppError(err); ok {
		code = appErr.Code
	}
	metrics.RecordAuthRejection(code)
	logger.Warn("graphql request refused",
		zap.String("code", code),
		zap.String("request_id", middleware.GetRequestID(c)),
	)
	return graphqlError(c, fiber.StatusUnauthorized, err.Error(), code)
}

func (h *GraphQLHandler) execute(c *fiber.Ctx, rc *reqctx.Context, req graph.Request) *graphql.Result {
	start := time.Now()
	res := h.Schema.Execute(reqctx.With(c.UserContext(), rc), req)
	outcome := outcomeOf(res)
	metrics.RecordGraphQLOperation(outcome, time.Since(start))

	if outcome != metrics.OutcomeOK {
		rc.Logger.Debug("graphql operation completed with errors",
			zap.String("operation", req.OperationName),
			zap.String("outcome", outcome),
			zap.Int("errors", len(res.Errors)),
		)
	}
	return res
}

func outcomeOf(res *graphql.Result) string {
	if len(res.Errors) == 0 {
		return metrics.OutcomeOK
	}
	for _, e := range res.Errors {
		if code, _ := e.Extensions["code"].(string); code == apperrors.CodeNotAuthorized {
			return metrics.OutcomeRefused
		}
	}
	return metrics.OutcomeErrors
}

func graphqlError(c *fiber.Ctx, status int, message, code string) error {
	return c.Status(status).JSON(graphqlErrorBody{
		Errors: []gqlerrors.FormattedError{{
			Message:    message,
			Extensions: map[string]interface{}{"code": code},
		}},
	})
}
