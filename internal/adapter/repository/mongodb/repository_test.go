package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var day = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func updated(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

func counted(ns string, n int) bson.D {
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

func asDoc(t *mtest.T, v interface{}) bson.D {
	raw, err := bson.Marshal(v)
	require.NoError(t, err)

	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func TestTourRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	key := domain.NewSlotKey(day, "09:00")

	mt.Run("debit succeeds", func(mt *mtest.T) {
		repo := NewTourRepository(mt.DB)
		mt.AddMockResponses(updated(1))

		assert.NoError(mt, repo.DebitSlot(context.Background(), uuid.New(), key, 3))
	})

	mt.Run("debit without room", func(mt *mtest.T) {
		repo := NewTourRepository(mt.DB)
		mt.AddMockResponses(updated(0), counted("db.tours", 1))

		err := repo.DebitSlot(context.Background(), uuid.New(), key, 30)
		assert.ErrorIs(mt, err, domain.ErrInsufficientCapacity)
	})

	mt.Run("debit unknown slot", func(mt *mtest.T) {
		repo := NewTourRepository(mt.DB)
		mt.AddMockResponses(updated(0), counted("db.tours", 0))

		err := repo.DebitSlot(context.Background(), uuid.New(), key, 1)
		assert.ErrorIs(mt, err, domain.ErrSlotNotFound)
	})

	mt.Run("credit", func(mt *mtest.T) {
		repo := NewTourRepository(mt.DB)
		mt.AddMockResponses(updated(1), updated(0))

		assert.NoError(mt, repo.CreditSlot(context.Background(), uuid.New(), key, 2))
		assert.ErrorIs(mt, repo.CreditSlot(context.Background(), uuid.New(), key, 2), domain.ErrSlotNotFound)
	})

	mt.Run("get tour", func(mt *mtest.T) {
		repo := NewTourRepository(mt.DB)
		tour := &domain.Tour{
			ID:        uuid.New(),
			GuideID:   uuid.New(),
			Title:     "Harbour Cruise",
			Price:     40,
			Currency:  "USD",
			IsActive:  true,
			CreatedAt: day,
			Slots: []domain.AvailabilitySlot{
				{Date: day, StartTime: "09:00", AvailableSpots: 7, Capacity: 12},
			},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.tours", mtest.FirstBatch, asDoc(mt, newTourDocument(tour))))

		got, err := repo.GetTour(context.Background(), tour.ID)
		require.NoError(mt, err)
		assert.Equal(mt, tour.GuideID, got.GuideID)
		require.Len(mt, got.Slots, 1)
		assert.Equal(mt, 7, got.Slots[0].AvailableSpots)
		assert.Equal(mt, key, got.Slots[0].Key())
	})

	mt.Run("get missing tour", func(mt *mtest.T) {
		repo := NewTourRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.tours", mtest.FirstBatch))

		_, err := repo.GetTour(context.Background(), uuid.New())
		assert.ErrorIs(mt, err, domain.ErrTourNotFound)
	})
}

func TestBookingRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	pendingUnpaid := domain.StatusChange{Status: domain.BookingPending, PaymentStatus: domain.PaymentPending}
	change := domain.StatusChange{Status: domain.BookingCancelled, PaymentStatus: domain.PaymentPending}

	mt.Run("status swap", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)
		mt.AddMockResponses(updated(1))

		err := repo.UpdateStatus(context.Background(), uuid.New(), pendingUnpaid, change, time.Now())
		assert.NoError(mt, err)
	})

	mt.Run("status swap lost", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)
		mt.AddMockResponses(updated(0), counted("db.bookings", 1))

		err := repo.UpdateStatus(context.Background(), uuid.New(), pendingUnpaid, change, time.Now())
		assert.ErrorIs(mt, err, domain.ErrInvalidTransition)
	})

	mt.Run("status swap on missing booking", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)
		mt.AddMockResponses(updated(0), counted("db.bookings", 0))

		err := repo.UpdateStatus(context.Background(), uuid.New(), pendingUnpaid, change, time.Now())
		assert.ErrorIs(mt, err, domain.ErrBookingNotFound)
	})

	mt.Run("get booking", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)
		b := &domain.Booking{
			ID:             uuid.New(),
			TourID:         uuid.New(),
			TouristID:      uuid.New(),
			GuideID:        uuid.New(),
			SelectedDate:   day,
			SelectedTime:   "09:00",
			NumberOfPeople: 2,
			TotalPrice:     80,
			Status:         domain.BookingPending,
			PaymentStatus:  domain.PaymentPending,
			ContactPhone:   "+15550100",
			ContactEmail:   "a@example.com",
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.bookings", mtest.FirstBatch, asDoc(mt, newBookingDocument(b))))

		got, err := repo.GetByID(context.Background(), b.ID)
		require.NoError(mt, err)
		assert.Equal(mt, b.TouristID, got.TouristID)
		assert.Equal(mt, 2, got.NumberOfPeople)
		assert.Equal(mt, domain.BookingPending, got.Status)
	})

	mt.Run("expired pending", func(mt *mtest.T) {
		repo := NewBookingRepository(mt.DB)
		id := uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.bookings", mtest.FirstBatch, bson.D{{Key: "_id", Value: id.String()}}))

		ids, err := repo.GetExpiredPending(context.Background(), time.Now(), 10)
		require.NoError(mt, err)
		assert.Equal(mt, []uuid.UUID{id}, ids)
	})
}
