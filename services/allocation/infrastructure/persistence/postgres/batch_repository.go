package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/stockalloc/pkg/database"
	"github.com/ghuser/stockalloc/pkg/events"
	allocdomain "github.com/ghuser/stockalloc/services/allocation/domain"
	domainevents "github.com/ghuser/stockalloc/services/allocation/domain/events"
	"github.com/ghuser/stockalloc/services/allocation/domain/models"
	"github.com/ghuser/stockalloc/services/allocation/domain/repositories"
)

const pgUniqueViolation = "23505"

// BatchRepository implements repositories.BatchRepository against PostgreSQL.
//
// The batches and allocations tables are a persistence concern only; rows
// are mapped back into domain values via models.RestoreBatch so the entity
// and the row shape never blur together.
type BatchRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewBatchRepository returns a BatchRepository backed by the given
// connection pool and event bus. The bus is used to publish domain events
// in the same transaction as the write (outbox pattern).
func NewBatchRepository(db *database.Database, bus *events.EventBus) *BatchRepository {
	return &BatchRepository{db: db, bus: bus}
}

// Save persists a new Batch and publishes a BatchCreatedEvent within the
// same transaction. Returns ErrBatchAlreadyExists on duplicate IDs.
func (r *BatchRepository) Save(ctx context.Context, batch *models.Batch) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO batches (id, sku, qty, eta) VALUES ($1, $2, $3, $4)`,
			batch.ID, batch.SKU.String(), batch.Qty, batch.ETA,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return allocdomain.ErrBatchAlreadyExists
			}
			return fmt.Errorf("insert batch: %w", err)
		}

		if r.bus != nil {
			evt := domainevents.BatchCreatedEvent{
				EventID:    uuid.New(),
				Version:    1,
				BatchID:    batch.ID,
				SKU:        batch.SKU.String(),
				Qty:        batch.Qty,
				ETA:        batch.ETA,
				OccurredAt: time.Now().UTC(),
			}
			if err := r.publish(tx, domainevents.TopicBatchCreated, evt, evt.EventID); err != nil {
				return fmt.Errorf("publish batch created: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a Batch with its allocation set.
// Returns ErrBatchNotFound if no batch exists.
func (r *BatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT id, sku, qty, eta FROM batches WHERE id = $1`, id,
	)

	var (
		batchID uuid.UUID
		sku     string
		qty     int
		eta     time.Time
	)
	if err := row.Scan(&batchID, &sku, &qty, &eta); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, allocdomain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("query batch: %w", err)
	}

	lines, err := r.allocationsFor(ctx, batchID)
	if err != nil {
		return nil, err
	}

	batch, err := models.RestoreBatch(batchID, models.SKU(sku), qty, eta, lines)
	if err != nil {
		return nil, fmt.Errorf("restore batch: %w", err)
	}
	return batch, nil
}

// FindBySKU retrieves all batches holding the given SKU with their
// allocation sets, ordered by ascending ETA.
func (r *BatchRepository) FindBySKU(ctx context.Context, sku models.SKU) ([]*models.Batch, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT b.id, b.sku, b.qty, b.eta, a.order_line_id, a.sku, a.qty
		FROM batches b
		LEFT JOIN allocations a ON a.batch_id = b.id
		WHERE b.sku = $1
		ORDER BY b.eta, b.id`,
		sku.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query batches by sku: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	return scanBatchRows(rows)
}

// List retrieves a paginated list of batches with their allocation sets
// and the total batch count.
func (r *BatchRepository) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Batch, int, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT b.id, b.sku, b.qty, b.eta, a.order_line_id, a.sku, a.qty
		FROM (
			SELECT id, sku, qty, eta FROM batches
			ORDER BY eta, id
			LIMIT $1 OFFSET $2
		) b
		LEFT JOIN allocations a ON a.batch_id = b.id
		ORDER BY b.eta, b.id`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	batches, err := scanBatchRows(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.DB().QueryRowContext(ctx, `SELECT count(*) FROM batches`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count batches: %w", err)
	}
	return batches, total, nil
}

// AddAllocation persists one newly allocated order line and publishes a
// LineAllocatedEvent within the same transaction.
func (r *BatchRepository) AddAllocation(ctx context.Context, batch *models.Batch, line models.OrderLine) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO allocations (order_line_id, batch_id, sku, qty) VALUES ($1, $2, $3, $4)`,
			line.ID, batch.ID, line.SKU.String(), line.Qty,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return allocdomain.ErrLineAlreadyAllocated
			}
			return fmt.Errorf("insert allocation: %w", err)
		}

		if r.bus != nil {
			evt := domainevents.LineAllocatedEvent{
				EventID:      uuid.New(),
				Version:      1,
				BatchID:      batch.ID,
				OrderLineID:  line.ID,
				SKU:          line.SKU.String(),
				Qty:          line.Qty,
				AvailableQty: batch.AvailableQty(),
				OccurredAt:   time.Now().UTC(),
			}
			if err := r.publish(tx, domainevents.TopicLineAllocated, evt, evt.EventID); err != nil {
				return fmt.Errorf("publish line allocated: %w", err)
			}
		}
		return nil
	})
}

// RemoveAllocation deletes a persisted allocation and publishes a
// LineDeallocatedEvent within the same transaction.
// Returns ErrLineNotAllocated if no matching row exists.
func (r *BatchRepository) RemoveAllocation(ctx context.Context, batch *models.Batch, line models.OrderLine) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM allocations WHERE order_line_id = $1 AND batch_id = $2`,
			line.ID, batch.ID,
		)
		if err != nil {
			return fmt.Errorf("delete allocation: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete allocation: %w", err)
		}
		if affected == 0 {
			return allocdomain.ErrLineNotAllocated
		}

		if r.bus != nil {
			evt := domainevents.LineDeallocatedEvent{
				EventID:      uuid.New(),
				Version:      1,
				BatchID:      batch.ID,
				OrderLineID:  line.ID,
				SKU:          line.SKU.String(),
				Qty:          line.Qty,
				AvailableQty: batch.AvailableQty(),
				OccurredAt:   time.Now().UTC(),
			}
			if err := r.publish(tx, domainevents.TopicLineDeallocated, evt, evt.EventID); err != nil {
				return fmt.Errorf("publish line deallocated: %w", err)
			}
		}
		return nil
	})
}

// Delete removes a batch; allocations cascade at the schema level.
// Returns ErrBatchNotFound if no matching batch exists.
func (r *BatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.DB().ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if affected == 0 {
		return allocdomain.ErrBatchNotFound
	}
	return nil
}

func (r *BatchRepository) allocationsFor(ctx context.Context, batchID uuid.UUID) ([]models.OrderLine, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT order_line_id, sku, qty FROM allocations WHERE batch_id = $1`, batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("query allocations: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var lines []models.OrderLine
	for rows.Next() {
		var (
			lineID uuid.UUID
			sku    string
			qty    int
		)
		if err := rows.Scan(&lineID, &sku, &qty); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		lines = append(lines, models.RestoreOrderLine(lineID, models.SKU(sku), qty))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allocations: %w", err)
	}
	return lines, nil
}

func (r *BatchRepository) publish(tx *sql.Tx, topic string, event any, eventID uuid.UUID) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", eventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(topic, msg)
}

// scanBatchRows builds batches from a joined batches/allocations result set
// ordered by batch. Allocation columns are NULL for batches with no lines.
func scanBatchRows(rows *sql.Rows) ([]*models.Batch, error) {
	type batchRow struct {
		id    uuid.UUID
		sku   string
		qty   int
		eta   time.Time
		lines []models.OrderLine
	}

	var (
		batches []*models.Batch
		current *batchRow
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		b, err := models.RestoreBatch(current.id, models.SKU(current.sku), current.qty, current.eta, current.lines)
		if err != nil {
			return fmt.Errorf("restore batch: %w", err)
		}
		batches = append(batches, b)
		current = nil
		return nil
	}

	for rows.Next() {
		var (
			id      uuid.UUID
			sku     string
			qty     int
			eta     time.Time
			lineID  sql.Null[uuid.UUID]
			lineSKU sql.NullString
			lineQty sql.NullInt64
		)
		if err := rows.Scan(&id, &sku, &qty, &eta, &lineID, &lineSKU, &lineQty); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}

		if current == nil || current.id != id {
			if err := flush(); err != nil {
				return nil, err
			}
			current = &batchRow{id: id, sku: sku, qty: qty, eta: eta}
		}
		if lineID.Valid {
			current.lines = append(current.lines,
				models.RestoreOrderLine(lineID.V, models.SKU(lineSKU.String), int(lineQty.Int64)))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return batches, nil
}
