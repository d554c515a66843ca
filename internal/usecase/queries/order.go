package queries

import (
	"context"

	"shipflow/internal/domain/order"
	"shipflow/internal/domain/user"
	"shipflow/internal/infra"
	"shipflow/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errs.New("order not found")

type OrderQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole user.Role) (*OrderView, error)
	List(ctx context.Context, actorID uuid.UUID, actorRole user.Role, status *string, page, limit int32) ([]OrderView, *Pagination, error)
}

// OrderListFilter narrows the order list to what the caller may see.
// ClaimableBy adds unassigned processing orders for shippers browsing for
// work on top of their own assignments.
type OrderListFilter struct {
	CustomerID  *uuid.UUID
	ShipperID   *uuid.UUID
	ClaimableBy bool
	Status      *string
}

type OrderReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	List(ctx context.Context, filter OrderListFilter, limit, offset int32) ([]OrderView, error)
	Count(ctx context.Context, filter OrderListFilter) (int64, error)
}

type orderQueriesImpl struct {
	store OrderReadStore
}

func NewOrderQueries(store OrderReadStore) OrderQueries {
	return &orderQueriesImpl{store: store}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole user.Role) (*OrderView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	snap := order.Snapshot{ID: view.ID, CustomerID: view.CustomerID, ShipperID: view.ShipperID, Status: order.Status(view.Status)}
	if denial := order.AuthorizeView(actorRole, actorID, snap); denial != nil {
		return nil, denial
	}
	return view, nil
}

func (q *orderQueriesImpl) List(ctx context.Context, actorID uuid.UUID, actorRole user.Role, status *string, page, limit int32) ([]OrderView, *Pagination, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	filter := OrderListFilter{Status: status}
	switch actorRole {
	case user.RoleAdmin, user.RoleStaff:
		// unrestricted
	case user.RoleCustomer:
		filter.CustomerID = &actorID
	case user.RoleShipper:
		filter.ShipperID = &actorID
		filter.ClaimableBy = true
	default:
		return nil, nil, order.DenyRouteAccess()
	}

	views, err := q.store.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}
	total, err := q.store.Count(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return views, NewPagination(page, limit, total), nil
}
