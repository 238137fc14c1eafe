package queries

import (
	"context"

	"logistics/internal/core/domain/services"
	"logistics/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const branchOrdersSQL = `
	SELECT` + orderSummaryColumns + `
	FROM branch_orders bo
	JOIN orders o ON o.id = bo.order_id
	WHERE bo.branch_id = ?
	  AND (cardinality(?::text[]) = 0 OR o.status = ANY(?::text[]))
	ORDER BY o.updated_at DESC, o.id
	LIMIT ? OFFSET ?`

// GetBranchOrdersQueryHandler reads the order set of a branch.
//
// Example:
//
//	handler := NewGetBranchOrdersQueryHandler(db, services.NewAccessPolicy())
//	orders, err := handler.Handle(ctx, query)
type GetBranchOrdersQueryHandler struct {
	db     *gorm.DB
	policy services.AccessPolicy
}

func NewGetBranchOrdersQueryHandler(db *gorm.DB, policy services.AccessPolicy) GetBranchOrdersQueryHandler {
	return GetBranchOrdersQueryHandler{db: db, policy: policy}
}

// Handle authorizes the actor against the branch and returns one page of its
// orders. An unknown branch yields an ObjectNotFoundError.
func (h GetBranchOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetBranchOrdersQuery,
) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	branchID := query.BranchID()
	if err := h.policy.Authorize(query.Actor(), services.CapViewBranchOrders,
		services.Relationship{BranchID: &branchID}); err != nil {
		return nil, err
	}

	var exists bool
	err := h.db.WithContext(ctx).
		Raw(`SELECT EXISTS (SELECT 1 FROM branches WHERE id = ?)`, branchID.Bytes()).
		Scan(&exists).Error
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NewObjectNotFoundError("branch", branchID.String())
	}

	statuses := make([]string, 0, len(query.Statuses()))
	for _, s := range query.Statuses() {
		statuses = append(statuses, string(s))
	}

	rows, err := h.db.WithContext(ctx).Raw(branchOrdersSQL,
		branchID.Bytes(),
		pq.Array(statuses),
		pq.Array(statuses),
		query.Limit(),
		query.Offset(),
	).Rows()
	if err != nil {
		return nil, err
	}

	return scanOrderSummaries(rows)
}
