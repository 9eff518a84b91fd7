package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	reservationserrors "maitred/internal/reservations/errors"
	"maitred/internal/reservations/repository"
	"maitred/internal/reservations/validator"
	"maitred/pkg/config"
	apperrors "maitred/pkg/errors"
	"maitred/pkg/events"
	"maitred/pkg/model"
	"maitred/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// statusTransitions is the lifecycle table. Cancelled and completed are
// terminal; a reservation never returns to pending.
var statusTransitions = map[string][]string{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCancelled, model.StatusCompleted},
	model.StatusCancelled: {},
	model.StatusCompleted: {},
}

// paymentTransitions is the payment lifecycle table. Refunded is terminal.
var paymentTransitions = map[string][]string{
	model.PaymentPending:  {model.PaymentPaid},
	model.PaymentPaid:     {model.PaymentRefunded},
	model.PaymentRefunded: {},
}

type ReservationService interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error)
	GetByEmail(ctx context.Context, email string, limit int, offset int64) ([]*model.Reservation, int64, error)
	GetByAccount(ctx context.Context, accountID string, limit int, offset int64) ([]*model.Reservation, int64, error)
	UpdateStatus(ctx context.Context, id string, update *model.StatusUpdate) (*model.Reservation, error)
	Cancel(ctx context.Context, id string) (*model.Reservation, error)
	UpdatePayment(ctx context.Context, id string, update *model.PaymentUpdate) (*model.Reservation, error)
	Availability(ctx context.Context, date time.Time, slot string) (*model.Availability, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	validator *validator.ReservationValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	validator *validator.ReservationValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, reservation *model.Reservation) error {
	s.applyDefaults(reservation)
	s.sanitize(reservation)

	if err := s.validate(reservation); err != nil {
		return err
	}
	if reservation.TableNumber < 1 || reservation.TableNumber > s.cfg.TableCount {
		return apperrors.InvalidInput(fmt.Sprintf(
			"table_number must be between 1 and %d", s.cfg.TableCount))
	}
	if s.slotInPast(reservation.BookingDate, reservation.BookingTime) {
		return apperrors.InvalidInput("booking slot is in the past")
	}

	// The unique partial index on (table, date, time) is the authoritative
	// guard; the in-transaction check exists to return a clean conflict
	// message instead of a raw duplicate key in the common case.
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		active, err := s.repo.FindActiveBySlot(sessCtx, reservation.BookingDate, reservation.BookingTime)
		if err != nil {
			return apperrors.Internal("Failed to check existing reservations", err)
		}
		for _, existing := range active {
			if existing.TableNumber == reservation.TableNumber {
				return apperrors.Conflict(fmt.Sprintf(
					"Table %d is already reserved for %s at %s",
					reservation.TableNumber,
					reservation.BookingDate.Format("2006-01-02"),
					reservation.BookingTime,
				))
			}
		}

		if err := s.repo.Create(sessCtx, reservation); err != nil {
			if errors.Is(err, reservationserrors.ErrSlotTaken) {
				return apperrors.Conflict(fmt.Sprintf(
					"Table %d is already reserved for %s at %s",
					reservation.TableNumber,
					reservation.BookingDate.Format("2006-01-02"),
					reservation.BookingTime,
				))
			}
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return err
	}

	s.cfg.Log.Info("Reservation created",
		"id", reservation.ID,
		"table_number", reservation.TableNumber,
		"booking_date", reservation.BookingDate,
		"booking_time", reservation.BookingTime,
	)
	s.publish(ctx, model.EventReservationCreated, reservation, "")
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	return s.findExisting(ctx, id)
}

func (s *reservationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error) {
	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) GetByEmail(ctx context.Context, email string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, 0, apperrors.InvalidInput("Email cannot be empty")
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByEmail(ctx, email)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations by email", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindByEmail(ctx, email, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to find reservations by email", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) GetByAccount(ctx context.Context, accountID string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if accountID == "" {
		return nil, 0, apperrors.InvalidInput("Account ID cannot be empty")
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByAccount(ctx, accountID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations by account", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindByAccount(ctx, accountID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to find reservations by account", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) UpdateStatus(ctx context.Context, id string, update *model.StatusUpdate) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		return nil, apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}

	existing, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(statusTransitions, existing.Status, update.Status) {
		return nil, apperrors.InvalidTransition(existing.Status, update.Status)
	}

	// Filter on the observed status so a concurrent transition cannot be
	// silently overwritten.
	result, err := s.repo.UpdateStatus(ctx, id, []string{existing.Status}, update.Status)
	if err != nil {
		s.cfg.Log.Error("Failed to update reservation status", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update reservation status", err)
	}
	if result.MatchedCount == 0 {
		current, findErr := s.findExisting(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		return nil, apperrors.InvalidTransition(current.Status, update.Status)
	}

	updated, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Reservation status updated",
		"id", id,
		"from", existing.Status,
		"to", update.Status,
	)
	s.publish(ctx, model.EventReservationStatusChanged, updated, existing.Status)
	return updated, nil
}

// Cancel is a status transition to cancelled; cancelling an already
// cancelled or completed reservation is rejected.
func (s *reservationService) Cancel(ctx context.Context, id string) (*model.Reservation, error) {
	return s.UpdateStatus(ctx, id, &model.StatusUpdate{Status: model.StatusCancelled})
}

func (s *reservationService) UpdatePayment(ctx context.Context, id string, update *model.PaymentUpdate) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	if err := s.validator.ValidatePaymentUpdate(update); err != nil {
		return nil, apperrors.Validation("Invalid payment update", map[string]any{"error": err.Error()})
	}

	existing, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(paymentTransitions, existing.PaymentStatus, update.PaymentStatus) {
		return nil, apperrors.InvalidTransition(existing.PaymentStatus, update.PaymentStatus)
	}

	// The method may only change while taking payment; refunds keep the
	// method the reservation was paid with.
	if update.PaymentMethod != "" && update.PaymentStatus != model.PaymentPaid {
		return nil, apperrors.InvalidInput("payment_method can only be set when marking a reservation paid")
	}

	result, err := s.repo.UpdatePayment(ctx, id, existing.PaymentStatus, update.PaymentStatus, update.PaymentMethod)
	if err != nil {
		s.cfg.Log.Error("Failed to update payment status", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update payment status", err)
	}
	if result.MatchedCount == 0 {
		current, findErr := s.findExisting(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		return nil, apperrors.InvalidTransition(current.PaymentStatus, update.PaymentStatus)
	}

	updated, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Payment status updated",
		"id", id,
		"from", existing.PaymentStatus,
		"to", update.PaymentStatus,
	)
	s.publish(ctx, model.EventReservationPaymentChange, updated, "")
	return updated, nil
}

// Availability lists free and taken tables for one exact (date, time) slot.
func (s *reservationService) Availability(ctx context.Context, date time.Time, slot string) (*model.Availability, error) {
	if _, err := time.Parse("15:04", slot); err != nil {
		return nil, apperrors.InvalidInput("time must be a 24h time like 19:30")
	}
	date = normalizeDate(date)

	active, err := s.repo.FindActiveBySlot(ctx, date, slot)
	if err != nil {
		s.cfg.Log.Error("Failed to check availability", "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	booked := make(map[int]bool, len(active))
	bookedTables := make([]int, 0, len(active))
	for _, reservation := range active {
		if !booked[reservation.TableNumber] {
			booked[reservation.TableNumber] = true
			bookedTables = append(bookedTables, reservation.TableNumber)
		}
	}

	available := make([]int, 0, s.cfg.TableCount)
	for table := 1; table <= s.cfg.TableCount; table++ {
		if !booked[table] {
			available = append(available, table)
		}
	}

	return &model.Availability{
		Date:            date,
		Time:            slot,
		AvailableTables: available,
		BookedTables:    bookedTables,
	}, nil
}

// --- Helpers ---

func (s *reservationService) applyDefaults(r *model.Reservation) {
	// Lifecycle state is never taken from the caller: every reservation
	// starts pending and moves only through the transition tables.
	r.Status = model.StatusPending
	r.PaymentStatus = model.PaymentPending
	if r.PaymentMethod == "" {
		r.PaymentMethod = model.MethodCard
	}
	if r.DurationHours <= 0 {
		r.DurationHours = s.cfg.DefaultDurationHours
	}
	r.BookingDate = normalizeDate(r.BookingDate)
	r.TotalAmount = s.computeTotal(r.Guests)
}

// computeTotal charges per guest with a floor so small parties still cover
// the table.
func (s *reservationService) computeTotal(guests int) int {
	total := guests * s.cfg.PerGuestRate
	if total < s.cfg.MinimumCharge {
		return s.cfg.MinimumCharge
	}
	return total
}

func (s *reservationService) sanitize(r *model.Reservation) {
	r.CustomerName = sanitizer.NormalizeName(r.CustomerName)
	r.CustomerEmail = sanitizer.NormalizeEmail(r.CustomerEmail)
	r.CustomerPhone = sanitizer.NormalizePhone(r.CustomerPhone)
	r.SpecialRequests = sanitizer.TrimAndNormalize(r.SpecialRequests)
}

func (s *reservationService) validate(r *model.Reservation) error {
	if err := s.validator.Validate(r); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *reservationService) findExisting(ctx context.Context, id string) (*model.Reservation, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}
	return reservation, nil
}

func (s *reservationService) slotInPast(date time.Time, slot string) bool {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return false
	}
	slotTime := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	return slotTime.Before(time.Now().UTC())
}

func (s *reservationService) publish(ctx context.Context, eventType string, reservation *model.Reservation, previousStatus string) {
	event := &model.ReservationEvent{
		Type:           eventType,
		Reservation:    reservation,
		PreviousStatus: previousStatus,
		OccurredAt:     time.Now().UTC(),
	}
	if err := s.publisher.PublishReservationEvent(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event",
			"type", eventType,
			"id", reservation.ID,
			"error", err,
		)
	}
}

func transitionAllowed(table map[string][]string, from, to string) bool {
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func normalizeDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}
