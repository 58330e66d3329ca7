package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/tour_booking/internal/core/domain"
)

type TourRepository struct {
	db *sql.DB
}

func NewTourRepository(db *sql.DB) *TourRepository {
	return &TourRepository{db: db}
}

func (r *TourRepository) CreateTour(ctx context.Context, tour *domain.Tour) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	queryTour := `
	INSERT INTO tours (id, guide_id, title, price, currency, is_active, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.ExecContext(ctx, queryTour, tour.ID, tour.GuideID, tour.Title, tour.Price, tour.Currency, tour.IsActive, tour.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tour: %w", err)
	}

	querySlot := `
	INSERT INTO tour_slots (tour_id, slot_date, start_time, end_time, available_spots, capacity)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	stmt, err := tx.PrepareContext(ctx, querySlot)
	if err != nil {
		return fmt.Errorf("failed to prepare slot statement: %w", err)
	}

	defer stmt.Close()

	for _, slot := range tour.Slots {
		_, err := stmt.ExecContext(ctx, tour.ID, dateParam(slot.Date), slot.StartTime, slot.EndTime, slot.AvailableSpots, slot.Capacity)
		if err != nil {
			return fmt.Errorf("failed to insert slot %s: %w", slot.Key(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *TourRepository) GetTour(ctx context.Context, tourID uuid.UUID) (*domain.Tour, error) {
	query := `
	SELECT id, guide_id, title, price, currency, is_active, created_at
	FROM tours
	WHERE id = $1
	`

	var tour domain.Tour
	err := r.db.QueryRowContext(ctx, query, tourID).Scan(
		&tour.ID,
		&tour.GuideID,
		&tour.Title,
		&tour.Price,
		&tour.Currency,
		&tour.IsActive,
		&tour.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTourNotFound
		}

		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT slot_date, start_time, end_time, available_spots, capacity
	FROM tour_slots
	WHERE tour_id = $1
	ORDER BY slot_date, start_time
	`, tourID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var slot domain.AvailabilitySlot
		if err := rows.Scan(
			&slot.Date,
			&slot.StartTime,
			&slot.EndTime,
			&slot.AvailableSpots,
			&slot.Capacity,
		); err != nil {
			return nil, err
		}

		slot.Date = domain.TruncateDay(slot.Date)
		tour.Slots = append(tour.Slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &tour, nil
}

// DebitSlot takes count spots in one conditional UPDATE. Two racing debits
// are serialized on the row lock; the loser re-evaluates the guard and
// matches nothing.
func (r *TourRepository) DebitSlot(ctx context.Context, tourID uuid.UUID, key domain.SlotKey, count int) error {
	query := `
	UPDATE tour_slots
	SET available_spots = available_spots - $4
	WHERE tour_id = $1 AND slot_date = $2 AND start_time = $3 AND available_spots >= $4
	`

	result, err := r.db.ExecContext(ctx, query, tourID, dateParam(key.Date), key.StartTime, count)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		exists, err := r.slotExists(ctx, tourID, key)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrInsufficientCapacity
		}
		return domain.ErrSlotNotFound
	}

	return nil
}

func (r *TourRepository) CreditSlot(ctx context.Context, tourID uuid.UUID, key domain.SlotKey, count int) error {
	query := `
	UPDATE tour_slots
	SET available_spots = available_spots + $4
	WHERE tour_id = $1 AND slot_date = $2 AND start_time = $3
	`

	result, err := r.db.ExecContext(ctx, query, tourID, dateParam(key.Date), key.StartTime, count)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrSlotNotFound
	}

	return nil
}

func (r *TourRepository) slotExists(ctx context.Context, tourID uuid.UUID, key domain.SlotKey) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
	SELECT EXISTS (
		SELECT 1 FROM tour_slots WHERE tour_id = $1 AND slot_date = $2 AND start_time = $3
	)
	`, tourID, dateParam(key.Date), key.StartTime).Scan(&exists)

	return exists, err
}
