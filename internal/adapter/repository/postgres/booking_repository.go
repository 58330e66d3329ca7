package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
)

const bookingColumns = `id, tour_id, tour_title, tourist_id, guide_id, selected_date, selected_time, number_of_people, total_price, status, payment_status, special_requests, contact_phone, contact_email, created_at, updated_at`

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	query := `
	INSERT INTO bookings (` + bookingColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.TourID,
		booking.TourTitle,
		booking.TouristID,
		booking.GuideID,
		dateParam(booking.SelectedDate),
		booking.SelectedTime,
		booking.NumberOfPeople,
		booking.TotalPrice,
		booking.Status,
		booking.PaymentStatus,
		booking.SpecialRequests,
		booking.ContactPhone,
		booking.ContactEmail,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}

		return nil, err
	}

	return booking, nil
}

func (r *BookingRepository) List(ctx context.Context, filter ports.BookingFilter) ([]domain.Booking, error) {
	var conds []string
	var args []interface{}

	if filter.TouristID != nil {
		args = append(args, *filter.TouristID)
		conds = append(conds, fmt.Sprintf("tourist_id = $%d", len(args)))
	}

	if filter.GuideID != nil {
		args = append(args, *filter.GuideID)
		conds = append(conds, fmt.Sprintf("guide_id = $%d", len(args)))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, *booking)
	}

	return bookings, rows.Err()
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, expected domain.StatusChange, change domain.StatusChange, at time.Time) error {
	query := `
	UPDATE bookings
	SET status = $1, payment_status = $2, updated_at = $3
	WHERE id = $4 AND status = $5 AND payment_status = $6
	`

	result, err := r.db.ExecContext(ctx, query, change.Status, change.PaymentStatus, at, bookingID, expected.Status, expected.PaymentStatus)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		var exists bool
		err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, bookingID).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrBookingNotFound
		}
		return domain.ErrInvalidTransition
	}

	return nil
}

func (r *BookingRepository) GetExpiredPending(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error) {
	query := `
	SELECT id FROM bookings
	WHERE status = 'pending' AND created_at < $1
	ORDER BY created_at
	LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, createdBefore, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking

	err := row.Scan(
		&b.ID,
		&b.TourID,
		&b.TourTitle,
		&b.TouristID,
		&b.GuideID,
		&b.SelectedDate,
		&b.SelectedTime,
		&b.NumberOfPeople,
		&b.TotalPrice,
		&b.Status,
		&b.PaymentStatus,
		&b.SpecialRequests,
		&b.ContactPhone,
		&b.ContactEmail,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.SelectedDate = domain.TruncateDay(b.SelectedDate)
	return &b, nil
}
