package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Background is a Context with no transaction.
func Background(ctx context.Context) Context {
	return Context{Ctx: ctx}
}

// DB returns the transaction when one is set, otherwise fallback, bound to Ctx.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if c.Tx != nil {
		return c.Tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}
