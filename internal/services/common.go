package services

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate locks the selected rows until the surrounding transaction ends.
// Dialects without row locks (sqlite) ignore the clause.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// session scopes db to ctx.
func session(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx)
}

// notFound maps gorm.ErrRecordNotFound to a typed not-found error and passes
// every other error through unchanged.
func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(apperrors.CodeNotFound, message)
	}
	return err
}

// likePattern builds a lowercase substring pattern.
func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
