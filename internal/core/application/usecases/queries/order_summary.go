// Package queries contains read operations of the fulfillment core.
// Queries never modify state: they authorize the actor and read either through
// a repository or straight from the database.
package queries

import (
	"database/sql"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderSummary is the list view of an order.
type OrderSummary struct {
	ID                    kernel.UUID
	Number                string
	CustomerID            kernel.UUID
	Status                order.Status
	Mode                  order.Mode
	BranchID              *kernel.UUID
	DeliveryPartnerID     *kernel.UUID
	DeliveryPartnerStatus order.DeliveryPartnerStatus
	AssignmentStatus      order.AssignmentStatus
	Total                 kernel.Money
	UpdatedAt             time.Time
	Version               int64
}

const orderSummaryColumns = `
	o.id,
	o.number,
	o.customer_id,
	o.status,
	o.mode,
	o.branch_id,
	o.delivery_partner_id,
	o.delivery_partner_status,
	o.assignment_status,
	o.total_minor,
	o.updated_at,
	o.version`

func scanOrderSummaries(rows *sql.Rows) ([]OrderSummary, error) {
	defer rows.Close()

	summaries := make([]OrderSummary, 0)
	for rows.Next() {
		var (
			s                     OrderSummary
			id, customerID        uuid.UUID
			branchID, partnerID   uuid.NullUUID
			status, mode          string
			partnerStatus, assign sql.NullString
			total                 int64
		)

		err := rows.Scan(
			&id,
			&s.Number,
			&customerID,
			&status,
			&mode,
			&branchID,
			&partnerID,
			&partnerStatus,
			&assign,
			&total,
			&s.UpdatedAt,
			&s.Version,
		)
		if err != nil {
			return nil, err
		}

		if s.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if s.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
			return nil, err
		}
		if s.BranchID, err = nullableID(branchID); err != nil {
			return nil, err
		}
		if s.DeliveryPartnerID, err = nullableID(partnerID); err != nil {
			return nil, err
		}
		s.Status = order.Status(status)
		s.Mode = order.Mode(mode)
		s.DeliveryPartnerStatus = order.DeliveryPartnerStatus(partnerStatus.String)
		s.AssignmentStatus = order.AssignmentStatus(assign.String)
		s.Total = kernel.Money(total)
		s.UpdatedAt = s.UpdatedAt.UTC()
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func nullableID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil
	}
	v, err := kernel.UUIDFromBytes(id.UUID[:])
	if err != nil {
		return nil, err
	}
	return &v, nil
}
