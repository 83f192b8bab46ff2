package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/contracts"
	"github.com/wuyiadepoju/iap-billing/internal/app/billing/domain"
	"google.golang.org/api/iterator"
)

var _ contracts.NotificationJournal = (*NotificationRepo)(nil)

const notificationsTable = "billing_notifications"

var notificationColumns = []string{"id", "kind", "outcome", "delivered_at"}

// NotificationRepo implements the notification journal using Cloud Spanner
type NotificationRepo struct {
	client *spanner.Client
}

// NewNotificationRepo creates a new notification journal
func NewNotificationRepo(client *spanner.Client) *NotificationRepo {
	return &NotificationRepo{client: client}
}

// Save returns a mutation persisting the notification.
// The mutation must be applied using Apply().
func (r *NotificationRepo) Save(ctx context.Context, n *domain.Notification) (*spanner.Mutation, error) {
	outcome := spanner.NullString{}
	if o, ok := n.Outcome(); ok {
		outcome = spanner.NullString{StringVal: o.String(), Valid: true}
	}

	mutation := spanner.InsertOrUpdate(notificationsTable, notificationColumns,
		[]interface{}{
			n.ID(),
			string(n.Kind()),
			outcome,
			n.DeliveredAt(),
		})

	return mutation, nil
}

// Apply applies the given mutations to the database
func (r *NotificationRepo) Apply(ctx context.Context, mutations ...*spanner.Mutation) error {
	_, err := r.client.Apply(ctx, mutations)
	return err
}

// FindByID retrieves a notification by ID
func (r *NotificationRepo) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	stmt := spanner.Statement{
		SQL: `
			SELECT id, kind, outcome, delivered_at
			FROM billing_notifications
			WHERE id = @id
		`,
		Params: map[string]interface{}{
			"id": id,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}

	return scanNotification(row)
}

// ListRecent returns up to limit notifications, newest first
func (r *NotificationRepo) ListRecent(ctx context.Context, limit int64) ([]*domain.Notification, error) {
	stmt := spanner.Statement{
		SQL: `
			SELECT id, kind, outcome, delivered_at
			FROM billing_notifications
			ORDER BY delivered_at DESC
			LIMIT @limit
		`,
		Params: map[string]interface{}{
			"limit": limit,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var out []*domain.Notification
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		n, err := scanNotification(row)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
}

func scanNotification(row *spanner.Row) (*domain.Notification, error) {
	var (
		id          string
		kind        string
		outcomeName spanner.NullString
		deliveredAt time.Time
	)

	if err := row.Columns(&id, &kind, &outcomeName, &deliveredAt); err != nil {
		return nil, err
	}

	k := domain.NotificationKind(kind)
	if !k.Valid() {
		return nil, fmt.Errorf("notification %s: %w: %q", id, domain.ErrUnknownKind, kind)
	}

	var outcome domain.PurchaseOutcome
	if outcomeName.Valid {
		parsed, err := domain.ParseOutcome(outcomeName.StringVal)
		if err != nil {
			return nil, fmt.Errorf("notification %s: %w", id, err)
		}
		outcome = parsed
	}

	return domain.ReconstructFromPersistence(id, k, outcome, deliveredAt), nil
}
