package service

import (
	"context"
	"testing"
	"time"

	reservationserrors "maitred/internal/reservations/errors"
	"maitred/internal/reservations/validator"
	"maitred/pkg/config"
	mongotx "maitred/pkg/db/mongo"
	apperrors "maitred/pkg/errors"
	"maitred/pkg/events"
	"maitred/pkg/logger"
	"maitred/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// Mock repository for testing
// ────────────────────────────────────────────────

type mockReservationRepository struct {
	createFunc           func(ctx context.Context, r *model.Reservation) error
	findByIDFunc         func(ctx context.Context, id string) (*model.Reservation, error)
	findAllFunc          func(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error)
	countFunc            func(ctx context.Context) (int64, error)
	findByEmailFunc      func(ctx context.Context, email string, limit int, offset int64) ([]*model.Reservation, error)
	countByEmailFunc     func(ctx context.Context, email string) (int64, error)
	findByAccountFunc    func(ctx context.Context, accountID string, limit int, offset int64) ([]*model.Reservation, error)
	countByAccountFunc   func(ctx context.Context, accountID string) (int64, error)
	findActiveBySlotFunc func(ctx context.Context, date time.Time, slot string) ([]*model.Reservation, error)
	updateStatusFunc     func(ctx context.Context, id string, allowedFrom []string, to string) (*mongo.UpdateResult, error)
	updatePaymentFunc    func(ctx context.Context, id string, from, to, method string) (*mongo.UpdateResult, error)
}

func (m *mockReservationRepository) Create(ctx context.Context, r *model.Reservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, r)
	}
	r.ID = "65a000000000000000000001"
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, reservationserrors.ErrNotFound
}

func (m *mockReservationRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockReservationRepository) FindByEmail(ctx context.Context, email string, limit int, offset int64) ([]*model.Reservation, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email, limit, offset)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	if m.countByEmailFunc != nil {
		return m.countByEmailFunc(ctx, email)
	}
	return 0, nil
}

func (m *mockReservationRepository) FindByAccount(ctx context.Context, accountID string, limit int, offset int64) ([]*model.Reservation, error) {
	if m.findByAccountFunc != nil {
		return m.findByAccountFunc(ctx, accountID, limit, offset)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	if m.countByAccountFunc != nil {
		return m.countByAccountFunc(ctx, accountID)
	}
	return 0, nil
}

func (m *mockReservationRepository) FindActiveBySlot(ctx context.Context, date time.Time, slot string) ([]*model.Reservation, error) {
	if m.findActiveBySlotFunc != nil {
		return m.findActiveBySlotFunc(ctx, date, slot)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) UpdateStatus(ctx context.Context, id string, allowedFrom []string, to string) (*mongo.UpdateResult, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, allowedFrom, to)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockReservationRepository) UpdatePayment(ctx context.Context, id string, from, to, method string) (*mongo.UpdateResult, error) {
	if m.updatePaymentFunc != nil {
		return m.updatePaymentFunc(ctx, id, from, to, method)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		TableCount:           20,
		PerGuestRate:         25,
		MinimumCharge:        50,
		DefaultDurationHours: 2,
		ReadTimeout:          5 * time.Second,
		WriteTimeout:         5 * time.Second,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func newTestService(t *testing.T, repo *mockReservationRepository) ReservationService {
	t.Helper()
	cfg := testConfig(t)
	v := validator.NewReservationValidator(cfg.Log)
	return NewReservationService(repo, v, events.NoopPublisher{}, cfg)
}

func validReservation() *model.Reservation {
	return &model.Reservation{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		CustomerPhone: "+12025550123",
		TableNumber:   5,
		BookingDate:   time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC),
		BookingTime:   "19:30",
		Guests:        4,
	}
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !apperrors.IsAppError(err) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	return apperrors.AsAppError(err).Code
}

// ────────────────────────────────────────────────
// Tests for Create()
// ────────────────────────────────────────────────

func TestCreate_AppliesDefaults(t *testing.T) {
	var created *model.Reservation
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, r *model.Reservation) error {
			r.ID = "65a000000000000000000001"
			created = r
			return nil
		},
	}
	svc := newTestService(t, repo)

	reservation := validReservation()
	if err := svc.Create(context.Background(), reservation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("repository Create was not called")
	}
	if created.Status != model.StatusPending {
		t.Errorf("status = %q, want %q", created.Status, model.StatusPending)
	}
	if created.PaymentStatus != model.PaymentPending {
		t.Errorf("payment_status = %q, want %q", created.PaymentStatus, model.PaymentPending)
	}
	if created.DurationHours != 2 {
		t.Errorf("duration_hours = %d, want 2", created.DurationHours)
	}
	if created.PaymentMethod != model.MethodCard {
		t.Errorf("payment_method = %q, want %q", created.PaymentMethod, model.MethodCard)
	}
	if created.CustomerEmail != "ada@example.com" {
		t.Errorf("email not normalized: %q", created.CustomerEmail)
	}
}

func TestCreate_IgnoresClientLifecycleState(t *testing.T) {
	var created *model.Reservation
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, r *model.Reservation) error {
			r.ID = "65a000000000000000000001"
			created = r
			return nil
		},
	}
	svc := newTestService(t, repo)

	reservation := validReservation()
	reservation.Status = model.StatusConfirmed
	reservation.PaymentStatus = model.PaymentPaid
	reservation.PaymentMethod = model.MethodCash

	if err := svc.Create(context.Background(), reservation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Status != model.StatusPending {
		t.Errorf("status = %q, want %q", created.Status, model.StatusPending)
	}
	if created.PaymentStatus != model.PaymentPending {
		t.Errorf("payment_status = %q, want %q", created.PaymentStatus, model.PaymentPending)
	}
	// The method is the customer's choice and survives; only lifecycle
	// state is forced back to the initial values.
	if created.PaymentMethod != model.MethodCash {
		t.Errorf("payment_method = %q, want %q", created.PaymentMethod, model.MethodCash)
	}
}

func TestCreate_TotalAmount(t *testing.T) {
	tests := []struct {
		name   string
		guests int
		want   int
	}{
		{"single guest gets minimum charge", 1, 50},
		{"two guests hit the floor exactly", 2, 50},
		{"three guests charged per head", 3, 75},
		{"full table", 12, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *model.Reservation
			repo := &mockReservationRepository{
				createFunc: func(ctx context.Context, r *model.Reservation) error {
					r.ID = "65a000000000000000000001"
					created = r
					return nil
				},
			}
			svc := newTestService(t, repo)

			reservation := validReservation()
			reservation.Guests = tt.guests
			if err := svc.Create(context.Background(), reservation); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if created.TotalAmount != tt.want {
				t.Errorf("total_amount = %d, want %d", created.TotalAmount, tt.want)
			}
		})
	}
}

func TestCreate_SlotConflict(t *testing.T) {
	repo := &mockReservationRepository{
		findActiveBySlotFunc: func(ctx context.Context, date time.Time, slot string) ([]*model.Reservation, error) {
			return []*model.Reservation{
				{ID: "65a000000000000000000009", TableNumber: 5, Status: model.StatusConfirmed},
			}, nil
		},
	}
	svc := newTestService(t, repo)

	err := svc.Create(context.Background(), validReservation())
	if code := appErrCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeConflict)
	}
}

func TestCreate_DifferentTableSameSlot(t *testing.T) {
	repo := &mockReservationRepository{
		findActiveBySlotFunc: func(ctx context.Context, date time.Time, slot string) ([]*model.Reservation, error) {
			return []*model.Reservation{
				{ID: "65a000000000000000000009", TableNumber: 6, Status: model.StatusConfirmed},
			}, nil
		},
	}
	svc := newTestService(t, repo)

	if err := svc.Create(context.Background(), validReservation()); err != nil {
		t.Fatalf("different table should not conflict: %v", err)
	}
}

func TestCreate_DuplicateKeyMapsToConflict(t *testing.T) {
	// The unique index fires when two requests race past the pre-check.
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, r *model.Reservation) error {
			return reservationserrors.ErrSlotTaken
		},
	}
	svc := newTestService(t, repo)

	err := svc.Create(context.Background(), validReservation())
	if code := appErrCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeConflict)
	}
}

func TestCreate_TableOutOfRange(t *testing.T) {
	for _, table := range []int{21, 100} {
		repo := &mockReservationRepository{}
		svc := newTestService(t, repo)

		reservation := validReservation()
		reservation.TableNumber = table
		err := svc.Create(context.Background(), reservation)
		if code := appErrCode(t, err); code != apperrors.CodeInvalidInput {
			t.Errorf("table %d: error code = %q, want %q", table, code, apperrors.CodeInvalidInput)
		}
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.Reservation)
	}{
		{"missing name", func(r *model.Reservation) { r.CustomerName = "" }},
		{"bad email", func(r *model.Reservation) { r.CustomerEmail = "not-an-email" }},
		{"zero guests", func(r *model.Reservation) { r.Guests = 0 }},
		{"party too large", func(r *model.Reservation) { r.Guests = 13 }},
		{"bad time slot", func(r *model.Reservation) { r.BookingTime = "25:99" }},
		{"missing time slot", func(r *model.Reservation) { r.BookingTime = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &mockReservationRepository{})
			reservation := validReservation()
			tt.mutate(reservation)

			err := svc.Create(context.Background(), reservation)
			if code := appErrCode(t, err); code != apperrors.CodeValidation {
				t.Errorf("error code = %q, want %q", code, apperrors.CodeValidation)
			}
		})
	}
}

func TestCreate_PastSlotRejected(t *testing.T) {
	svc := newTestService(t, &mockReservationRepository{})

	reservation := validReservation()
	reservation.BookingDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	err := svc.Create(context.Background(), reservation)
	if code := appErrCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeInvalidInput)
	}
}

// ────────────────────────────────────────────────
// Tests for UpdateStatus() / Cancel()
// ────────────────────────────────────────────────

func TestUpdateStatus_TransitionTable(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusPending, model.StatusCompleted, false},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusCompleted, true},
		{model.StatusConfirmed, model.StatusPending, false},
		{model.StatusCancelled, model.StatusCancelled, false},
		{model.StatusCancelled, model.StatusConfirmed, false},
		{model.StatusCompleted, model.StatusCancelled, false},
		{model.StatusCompleted, model.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			current := tt.from
			repo := &mockReservationRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
					r := validReservation()
					r.ID = id
					r.Status = current
					r.PaymentStatus = model.PaymentPending
					return r, nil
				},
				updateStatusFunc: func(ctx context.Context, id string, allowedFrom []string, to string) (*mongo.UpdateResult, error) {
					current = to
					return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
				},
			}
			svc := newTestService(t, repo)

			updated, err := svc.UpdateStatus(context.Background(), "65a000000000000000000001", &model.StatusUpdate{Status: tt.to})
			if tt.allowed {
				if err != nil {
					t.Fatalf("expected transition to succeed: %v", err)
				}
				if updated.Status != tt.to {
					t.Errorf("status = %q, want %q", updated.Status, tt.to)
				}
			} else {
				if code := appErrCode(t, err); code != apperrors.CodeInvalidTransition {
					t.Errorf("error code = %q, want %q", code, apperrors.CodeInvalidTransition)
				}
			}
		})
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := newTestService(t, &mockReservationRepository{})

	_, err := svc.UpdateStatus(context.Background(), "65a000000000000000000001", &model.StatusUpdate{Status: model.StatusConfirmed})
	if code := appErrCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeNotFound)
	}
}

func TestUpdateStatus_ConcurrentTransition(t *testing.T) {
	// The conditional update misses because another request cancelled the
	// reservation between our read and write.
	reads := 0
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			reads++
			r := validReservation()
			r.ID = id
			if reads == 1 {
				r.Status = model.StatusPending
			} else {
				r.Status = model.StatusCancelled
			}
			return r, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, allowedFrom []string, to string) (*mongo.UpdateResult, error) {
			return &mongo.UpdateResult{MatchedCount: 0}, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.UpdateStatus(context.Background(), "65a000000000000000000001", &model.StatusUpdate{Status: model.StatusConfirmed})
	if code := appErrCode(t, err); code != apperrors.CodeInvalidTransition {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeInvalidTransition)
	}
}

func TestCancel_RepeatCancelRejected(t *testing.T) {
	repo := &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			r := validReservation()
			r.ID = id
			r.Status = model.StatusCancelled
			return r, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.Cancel(context.Background(), "65a000000000000000000001")
	if code := appErrCode(t, err); code != apperrors.CodeInvalidTransition {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeInvalidTransition)
	}
}

// ────────────────────────────────────────────────
// Tests for UpdatePayment()
// ────────────────────────────────────────────────

func paymentRepo(currentPayment string) *mockReservationRepository {
	current := currentPayment
	return &mockReservationRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			r := validReservation()
			r.ID = id
			r.Status = model.StatusConfirmed
			r.PaymentStatus = current
			return r, nil
		},
		updatePaymentFunc: func(ctx context.Context, id string, from, to, method string) (*mongo.UpdateResult, error) {
			current = to
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		},
	}
}

func TestUpdatePayment_MarkPaid(t *testing.T) {
	svc := newTestService(t, paymentRepo(model.PaymentPending))

	updated, err := svc.UpdatePayment(context.Background(), "65a000000000000000000001", &model.PaymentUpdate{
		PaymentStatus: model.PaymentPaid,
		PaymentMethod: model.MethodCard,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PaymentStatus != model.PaymentPaid {
		t.Errorf("payment_status = %q, want %q", updated.PaymentStatus, model.PaymentPaid)
	}
}

func TestUpdatePayment_MethodOptionalWhenPaying(t *testing.T) {
	// The method defaults to card at creation, so paying without naming one
	// keeps the existing method.
	svc := newTestService(t, paymentRepo(model.PaymentPending))

	_, err := svc.UpdatePayment(context.Background(), "65a000000000000000000001", &model.PaymentUpdate{
		PaymentStatus: model.PaymentPaid,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdatePayment_MethodOnlyWhenPaying(t *testing.T) {
	svc := newTestService(t, paymentRepo(model.PaymentPaid))

	_, err := svc.UpdatePayment(context.Background(), "65a000000000000000000001", &model.PaymentUpdate{
		PaymentStatus: model.PaymentRefunded,
		PaymentMethod: model.MethodCash,
	})
	if code := appErrCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeInvalidInput)
	}
}

func TestUpdatePayment_TransitionTable(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		method  string
		allowed bool
	}{
		{model.PaymentPending, model.PaymentPaid, model.MethodOnline, true},
		{model.PaymentPaid, model.PaymentRefunded, "", true},
		{model.PaymentPending, model.PaymentRefunded, "", false},
		{model.PaymentPaid, model.PaymentPaid, model.MethodCard, false},
		{model.PaymentRefunded, model.PaymentPaid, model.MethodCard, false},
		{model.PaymentPaid, model.PaymentPending, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			svc := newTestService(t, paymentRepo(tt.from))

			_, err := svc.UpdatePayment(context.Background(), "65a000000000000000000001", &model.PaymentUpdate{
				PaymentStatus: tt.to,
				PaymentMethod: tt.method,
			})
			if tt.allowed && err != nil {
				t.Fatalf("expected transition to succeed: %v", err)
			}
			if !tt.allowed {
				if code := appErrCode(t, err); code != apperrors.CodeInvalidTransition {
					t.Errorf("error code = %q, want %q", code, apperrors.CodeInvalidTransition)
				}
			}
		})
	}
}

// ────────────────────────────────────────────────
// Tests for Availability()
// ────────────────────────────────────────────────

func TestAvailability(t *testing.T) {
	repo := &mockReservationRepository{
		findActiveBySlotFunc: func(ctx context.Context, date time.Time, slot string) ([]*model.Reservation, error) {
			return []*model.Reservation{
				{TableNumber: 3, Status: model.StatusPending},
				{TableNumber: 7, Status: model.StatusConfirmed},
			}, nil
		},
	}
	svc := newTestService(t, repo)

	availability, err := svc.Availability(context.Background(), time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC), "19:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(availability.BookedTables) != 2 {
		t.Errorf("booked tables = %v, want [3 7]", availability.BookedTables)
	}
	if len(availability.AvailableTables) != 18 {
		t.Errorf("available tables count = %d, want 18", len(availability.AvailableTables))
	}
	for _, table := range availability.AvailableTables {
		if table == 3 || table == 7 {
			t.Errorf("table %d is booked but appears as available", table)
		}
	}
}

func TestAvailability_AllFree(t *testing.T) {
	svc := newTestService(t, &mockReservationRepository{})

	availability, err := svc.Availability(context.Background(), time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC), "12:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(availability.AvailableTables) != 20 {
		t.Errorf("available tables count = %d, want 20", len(availability.AvailableTables))
	}
	if len(availability.BookedTables) != 0 {
		t.Errorf("booked tables = %v, want none", availability.BookedTables)
	}
}

func TestAvailability_BadSlot(t *testing.T) {
	svc := newTestService(t, &mockReservationRepository{})

	_, err := svc.Availability(context.Background(), time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC), "half past seven")
	if code := appErrCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeInvalidInput)
	}
}
