package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	catalogrepo "chefly/internal/catalog/repository"
	directoryerrors "chefly/internal/directory/errors"
	directoryrepo "chefly/internal/directory/repository"
	eventserrors "chefly/internal/events/errors"
	"chefly/internal/events/repository"
	"chefly/internal/events/stream"
	"chefly/internal/events/validator"
	"chefly/pkg/config"
	apperrors "chefly/pkg/errors"
	"chefly/pkg/metrics"
	"chefly/pkg/model"
	"chefly/pkg/sanitizer"

	"github.com/google/uuid"
)

type BookingService interface {
	Create(ctx context.Context, customerID string, req *model.BookingRequest) (*model.BookingReceipt, error)
	Confirm(ctx context.Context, chefID, eventID string, decision *model.BookingDecision) (*model.Event, error)
	Cancel(ctx context.Context, customerID, eventID, reason string) (*model.Event, error)
	Complete(ctx context.Context, chefID, eventID string) (*model.Event, error)
	MarkAttendance(ctx context.Context, chefID, eventID string, record *model.AttendanceRecord) (*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	ListForUser(ctx context.Context, userID, role string, limit int, offset int64) ([]*model.Event, int64, error)
}

type bookingService struct {
	repo      repository.EventRepository
	counters  repository.CounterRepository
	users     directoryrepo.UserRepository
	menu      catalogrepo.MenuRepository
	validator *validator.EventValidator
	publisher stream.StatusPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.EventRepository,
	counters repository.CounterRepository,
	users directoryrepo.UserRepository,
	menu catalogrepo.MenuRepository,
	eventValidator *validator.EventValidator,
	publisher stream.StatusPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		counters:  counters,
		users:     users,
		menu:      menu,
		validator: eventValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, customerID string, req *model.BookingRequest) (*model.BookingReceipt, error) {
	if customerID == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	s.sanitizeRequest(req)
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.users.FindChef(ctx, req.ChefID); err != nil {
		if errors.Is(err, directoryerrors.ErrNotFound) || errors.Is(err, directoryerrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Chef", req.ChefID)
		}
		return nil, apperrors.StorageUnavailable(err)
	}

	items, totalAmount, err := s.resolveMenuItems(ctx, req.MenuItems)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.counters.Next(ctx, model.CounterOrderNumber)
	if err != nil {
		s.cfg.Log.Error("Failed to allocate order number", "error", err)
		return nil, apperrors.StorageUnavailable(err)
	}

	startTime, err := validator.ParseStartTime(req.EventDate, req.EventTime)
	if err != nil {
		return nil, apperrors.Validation("Invalid booking start time", map[string]any{"error": err.Error()})
	}

	event := &model.Event{
		OrderNumber: orderNumber,
		CustomerID:  customerID,
		ChefID:      req.ChefID,
		MenuItems:   items,
		FreeText:    req.FreeText,
		Address:     req.Address,
		StartTime:   startTime,
		EventDate:   req.EventDate,
		EventTime:   req.EventTime,
		Ingredients: req.Ingredients,
		Status:      model.StatusPending,
		TotalAmount: totalAmount,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to create event", "order_number", orderNumber, "error", err)
		return nil, apperrors.StorageUnavailable(err)
	}

	metrics.BookingsCreatedTotal.Inc()
	s.publishStatusChange(ctx, event, "", model.RoleCustomer)

	s.cfg.Log.Info("Booking created",
		"event_id", event.ID,
		"order_number", event.OrderNumber,
		"chef_id", event.ChefID,
		"start_time", event.StartTime,
	)

	return &model.BookingReceipt{
		EventID:     event.ID,
		OrderNumber: event.OrderNumber,
		Status:      event.Status,
		TotalAmount: event.TotalAmount,
	}, nil
}

func (s *bookingService) Confirm(ctx context.Context, chefID, eventID string, decision *model.BookingDecision) (*model.Event, error) {
	if err := s.validator.ValidateDecision(decision); err != nil {
		return nil, apperrors.Validation("Invalid booking decision", map[string]any{"error": err.Error()})
	}

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.ChefID != chefID {
		return nil, apperrors.Forbidden("Booking belongs to another chef")
	}
	if event.Status != model.StatusPending {
		return nil, apperrors.InvalidState(fmt.Sprintf("Booking is %s, only pending bookings can be decided", event.Status))
	}

	toStatus := model.StatusConfirmed
	reason := ""
	if !decision.Accept {
		toStatus = model.StatusRejected
		reason = strings.TrimSpace(decision.Reason)
	}

	return s.transition(ctx, event, toStatus, reason, model.RoleChef)
}

func (s *bookingService) Cancel(ctx context.Context, customerID, eventID, reason string) (*model.Event, error) {
	reason = sanitizer.NormalizeFreeText(reason)
	if reason == "" {
		return nil, apperrors.Validation("A cancellation requires a non-empty reason", nil)
	}

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.CustomerID != customerID {
		return nil, apperrors.Forbidden("Booking belongs to another customer")
	}

	switch event.Status {
	case model.StatusCancelled, model.StatusCompleted, model.StatusRejected:
		return nil, apperrors.InvalidState(fmt.Sprintf("Booking is already %s", event.Status))
	}

	return s.transition(ctx, event, model.StatusCancelled, reason, model.RoleCustomer)
}

func (s *bookingService) Complete(ctx context.Context, chefID, eventID string) (*model.Event, error) {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.ChefID != chefID {
		return nil, apperrors.Forbidden("Booking belongs to another chef")
	}
	if event.Status != model.StatusConfirmed {
		return nil, apperrors.InvalidState(fmt.Sprintf("Booking is %s, only confirmed bookings can be completed", event.Status))
	}

	completed, err := s.transition(ctx, event, model.StatusCompleted, "", model.RoleChef)
	if err != nil {
		return nil, err
	}

	if err := s.users.IncrementCompletedOrders(ctx, chefID); err != nil {
		// The transition is the source of truth; a stats failure is an
		// observability concern, not a rollback trigger.
		s.cfg.Log.Error("Failed to increment completed orders", "chef_id", chefID, "event_id", eventID, "error", err)
	}

	return completed, nil
}

func (s *bookingService) MarkAttendance(ctx context.Context, chefID, eventID string, record *model.AttendanceRecord) (*model.Event, error) {
	switch record.Status {
	case model.AttendanceAttended, model.AttendanceNoShow, model.AttendanceCheckout:
	default:
		return nil, apperrors.Validation("Attendance status must be one of attended, no-show, checkout", nil)
	}

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.ChefID != chefID {
		return nil, apperrors.Forbidden("Booking belongs to another chef")
	}

	record.ID = uuid.NewString()
	record.Remarks = sanitizer.NormalizeRemarks(record.Remarks)
	record.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if err := s.repo.AppendAttendance(ctx, eventID, *record); err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Event", eventID)
		}
		return nil, apperrors.StorageUnavailable(err)
	}

	event.Attendance = append(event.Attendance, *record)

	s.cfg.Log.Info("Attendance recorded",
		"event_id", eventID,
		"status", record.Status,
		"record_id", record.ID,
	)
	return event, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return s.loadEvent(ctx, id)
}

func (s *bookingService) ListForUser(ctx context.Context, userID, role string, limit int, offset int64) ([]*model.Event, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}
	if role != model.RoleCustomer && role != model.RoleChef {
		return nil, 0, apperrors.InvalidInput("Role must be customer or chef")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var events []*model.Event
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByParty(ctx, role, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count events", "user_id", userID, "role", role, "error", errCount)
			errCount = apperrors.StorageUnavailable(errCount)
		}
	}()

	go func() {
		defer wg.Done()
		events, errFind = s.repo.FindByParty(ctx, role, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list events", "user_id", userID, "role", role, "error", errFind)
			errFind = apperrors.StorageUnavailable(errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return events, count, nil
}

// --- Helpers ---

// transition applies a status change conditioned on the status the caller
// just read. The edge must exist in the state machine's transition table;
// losing the conditional write surfaces as InvalidState: the race winner
// already moved the booking.
func (s *bookingService) transition(ctx context.Context, event *model.Event, toStatus, reason, actor string) (*model.Event, error) {
	fromStatus := event.Status

	if !model.CanTransition(fromStatus, toStatus) {
		return nil, apperrors.InvalidState(fmt.Sprintf("Booking cannot move from %s to %s", fromStatus, toStatus))
	}

	if err := s.repo.UpdateStatus(ctx, event.ID, fromStatus, toStatus, reason); err != nil {
		if errors.Is(err, eventserrors.ErrStaleStatus) {
			metrics.BookingTransitionConflicts.Inc()
			return nil, apperrors.InvalidState("Booking status changed concurrently, reload and retry")
		}
		if errors.Is(err, eventserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid event ID format")
		}
		return nil, apperrors.StorageUnavailable(err)
	}

	event.Status = toStatus
	if reason != "" {
		event.Reason = reason
	}
	event.UpdatedAt = time.Now().UTC()

	metrics.BookingTransitionsTotal.WithLabelValues(toStatus).Inc()
	s.publishStatusChange(ctx, event, fromStatus, actor)

	s.cfg.Log.Info("Booking status changed",
		"event_id", event.ID,
		"order_number", event.OrderNumber,
		"from", fromStatus,
		"to", toStatus,
		"actor", actor,
	)
	return event, nil
}

func (s *bookingService) loadEvent(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Event", id)
		}
		if errors.Is(err, eventserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid event ID format")
		}
		return nil, apperrors.StorageUnavailable(err)
	}
	return event, nil
}

// resolveMenuItems checks every requested line item against the catalog
// and prices the booking from catalog prices.
func (s *bookingService) resolveMenuItems(ctx context.Context, requested []model.MenuLineItem) ([]model.MenuLineItem, float64, error) {
	if len(requested) == 0 {
		return []model.MenuLineItem{}, 0, nil
	}

	ids := make([]string, 0, len(requested))
	for _, item := range requested {
		ids = append(ids, item.ItemID)
	}

	found, err := s.menu.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, apperrors.Validation("Menu items could not be resolved", map[string]any{"error": err.Error()})
	}

	byID := make(map[string]*model.MenuItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	resolved := make([]model.MenuLineItem, 0, len(requested))
	var total float64
	for _, line := range requested {
		item, ok := byID[line.ItemID]
		if !ok {
			return nil, 0, apperrors.Validation("Menu item does not exist", map[string]any{"item_id": line.ItemID})
		}
		resolved = append(resolved, model.MenuLineItem{
			ItemID:   line.ItemID,
			Title:    item.Title,
			Quantity: line.Quantity,
		})
		total += item.Price * float64(line.Quantity)
	}

	return resolved, total, nil
}

func (s *bookingService) sanitizeRequest(req *model.BookingRequest) {
	req.FreeText = sanitizer.NormalizeFreeText(req.FreeText)
	req.Address.Street = sanitizer.NormalizeAddressField(req.Address.Street)
	req.Address.City = sanitizer.NormalizeAddressField(req.Address.City)
	req.Ingredients = sanitizer.NormalizeIngredients(req.Ingredients)
}

func (s *bookingService) publishStatusChange(ctx context.Context, event *model.Event, fromStatus, actor string) {
	if err := s.publisher.PublishStatusChange(ctx, event, fromStatus, actor); err != nil {
		s.cfg.Log.Warn("Failed to publish status change",
			"event_id", event.ID,
			"to", event.Status,
			"error", err,
		)
	}
}
