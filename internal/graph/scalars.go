package graph

import (
	"math"
	"net/mail"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// UUID is a canonical RFC 4122 identifier.
var UUID = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "UUID",
	Description: "A UUID in canonical textual form.",
	Serialize:   serializeString,
	ParseValue: func(value interface{}) interface{} {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		return parseUUID(s)
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		if v, ok := valueAST.(*ast.StringValue); ok {
			return parseUUID(v.Value)
		}
		return nil
	},
})

func parseUUID(s string) interface{} {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return id.String()
}

// DateTime is an RFC 3339 timestamp, always serialized in UTC.
var DateTime = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "DateTime",
	Description: "An RFC 3339 timestamp.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case time.Time:
			return v.UTC().Format(time.RFC3339Nano)
		case *time.Time:
			if v == nil {
				return nil
			}
			return v.UTC().Format(time.RFC3339Nano)
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		return parseTime(s)
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		if v, ok := valueAST.(*ast.StringValue); ok {
			return parseTime(v.Value)
		}
		return nil
	},
})

func parseTime(s string) interface{} {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return t.UTC()
}

// UnsignedInt is a non-negative integer.
var UnsignedInt = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "UnsignedInt",
	Description: "An integer greater than or equal to zero.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case uint:
			return v
		case *uint:
			if v == nil {
				return nil
			}
			return *v
		case int:
			if v >= 0 {
				return v
			}
		case int64:
			if v >= 0 {
				return v
			}
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		switch v := value.(type) {
		case int:
			if v >= 0 {
				return uint(v)
			}
		case int64:
			if v >= 0 {
				return uint(v)
			}
		case float64:
			if v >= 0 && v == math.Trunc(v) && v <= math.MaxUint32 {
				return uint(v)
			}
		}
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		v, ok := valueAST.(*ast.IntValue)
		if !ok {
			return nil
		}
		n, err := strconv.ParseUint(v.Value, 10, 32)
		if err != nil {
			return nil
		}
		return uint(n)
	},
})

// UnsignedFloat is a non-negative finite number.
var UnsignedFloat = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "UnsignedFloat",
	Description: "A floating point number greater than or equal to zero.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case float64:
			return v
		case *float64:
			if v == nil {
				return nil
			}
			return *v
		}
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		switch v := value.(type) {
		case float64:
			return unsignedFloat(v)
		case int:
			return unsignedFloat(float64(v))
		}
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		var raw string
		switch v := valueAST.(type) {
		case *ast.FloatValue:
			raw = v.Value
		case *ast.IntValue:
			raw = v.Value
		default:
			return nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		return unsignedFloat(f)
	},
})

func unsignedFloat(f float64) interface{} {
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// EmailAddress is a bare RFC 5322 address without a display name.
var EmailAddress = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "EmailAddress",
	Description: "An email address.",
	Serialize:   serializeString,
	ParseValue: func(value interface{}) interface{} {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		return parseEmail(s)
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		if v, ok := valueAST.(*ast.StringValue); ok {
			return parseEmail(v.Value)
		}
		return nil
	},
})

func parseEmail(s string) interface{} {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return nil
	}
	return s
}

// URL is an absolute http or https URL.
var URL = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "URL",
	Description: "An absolute http(s) URL.",
	Serialize:   serializeString,
	ParseValue: func(value interface{}) interface{} {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		return parseURL(s)
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		if v, ok := valueAST.(*ast.StringValue); ok {
			return parseURL(v.Value)
		}
		return nil
	},
})

func parseURL(s string) interface{} {
	u, err := url.ParseRequestURI(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil
	}
	return s
}

// Void is the result of mutations that return nothing.
var Void = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Void",
	Description: "Always null.",
	Serialize: func(value interface{}) interface{} {
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		return nil
	},
})

func serializeString(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return v
	case *string:
		if v == nil {
			return nil
		}
		return *v
	}
	return nil
}
