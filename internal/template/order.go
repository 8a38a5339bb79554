package template

import (
	"fmt"

	"github.com/cbroglie/mustache"
	"go.uber.org/zap"

	"github.com/julianshen/srcdocs/internal/comment"
)

// Order is the sort key of a per-fragment rule: either a fixed number or a
// template rendered against each fragment and parsed as a number.
type Order struct {
	fixed  float64
	source string
	expr   *mustache.Template
}

// FixedOrder returns an Order that always evaluates to v.
func FixedOrder(v float64) Order {
	return Order{fixed: v}
}

// ExprOrder compiles src as an order template.
func ExprOrder(src string) (Order, error) {
	tmpl, err := mustache.ParseString(src)
	if err != nil {
		return Order{}, fmt.Errorf("order template %q: %w", src, err)
	}
	return Order{source: src, expr: tmpl}, nil
}

// IsExpr reports whether the order is rendered per fragment.
func (o Order) IsExpr() bool {
	return o.expr != nil
}

// String returns the template source or the fixed value.
func (o Order) String() string {
	if o.expr != nil {
		return o.source
	}
	return fmt.Sprintf("%g", o.fixed)
}

// Eval resolves the order for one fragment context. A rendered value that
// is not a number is logged and treated as 0.
func (o Order) Eval(ctx map[string]string, logger *zap.Logger) (float64, error) {
	if o.expr == nil {
		return o.fixed, nil
	}
	out, err := o.expr.Render(ctx)
	if err != nil {
		return 0, fmt.Errorf("rendering order template %q: %w", o.source, err)
	}
	return comment.ParseOrder(out, logger), nil
}
