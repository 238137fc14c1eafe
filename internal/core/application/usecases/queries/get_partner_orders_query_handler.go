package queries

import (
	"context"

	"logistics/internal/core/domain/services"
	"logistics/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const partnerOrdersSQL = `
	SELECT` + orderSummaryColumns + `
	FROM partner_current_orders pco
	JOIN orders o ON o.id = pco.order_id
	WHERE pco.partner_id = ?
	ORDER BY o.updated_at DESC, o.id`

// GetPartnerOrdersQueryHandler reads the current orders of a delivery partner.
// Visible to the partner, the manager of the partner's branch and admins.
type GetPartnerOrdersQueryHandler struct {
	db     *gorm.DB
	policy services.AccessPolicy
}

func NewGetPartnerOrdersQueryHandler(db *gorm.DB, policy services.AccessPolicy) GetPartnerOrdersQueryHandler {
	return GetPartnerOrdersQueryHandler{db: db, policy: policy}
}

func (h GetPartnerOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPartnerOrdersQuery,
) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	partnerID := query.PartnerID()
	rows, err := h.db.WithContext(ctx).
		Raw(`SELECT branch_id FROM delivery_partners WHERE id = ?`, partnerID.Bytes()).
		Rows()
	if err != nil {
		return nil, err
	}

	found := rows.Next()
	var branch uuid.NullUUID
	if found {
		err = rows.Scan(&branch)
	}
	if err == nil {
		err = rows.Err()
	}
	rows.Close()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.NewObjectNotFoundError("delivery partner", partnerID.String())
	}

	branchID, err := nullableID(branch)
	if err != nil {
		return nil, err
	}
	rel := services.Relationship{PartnerID: &partnerID, BranchID: branchID}
	if err = h.policy.Authorize(query.Actor(), services.CapViewPartnerOrders, rel); err != nil {
		return nil, err
	}

	orders, err := h.db.WithContext(ctx).Raw(partnerOrdersSQL, partnerID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}

	return scanOrderSummaries(orders)
}
