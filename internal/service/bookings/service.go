package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	bookingRepo "github.com/bikawo/bikawo-booking-service/internal/infra/storage/booking"
	"github.com/bikawo/bikawo-booking-service/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID.
// Бронирование видят клиент, назначенный исполнитель и администратор.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !actor.CanView(booking) {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает историю бронирований клиента.
// Опционально фильтрует по статусу.
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	if req.Actor.UserID != req.UserID && !req.Actor.IsAdmin() {
		s.logger.Warn("GetClientBookings: user=%s cannot read bookings of user=%s", req.Actor.UserID, req.UserID)
		return nil, ErrAccessDenied
	}

	clientID := req.UserID
	filter := domain.BookingsFilter{ClientID: &clientID}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for user=%s", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings получает бронирования, назначенные исполнителю.
// Поддерживает фильтрацию по периоду и статусу.
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetProviderBookings: fetching bookings for provider=%s", req.ProviderID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if req.Actor.UserID != req.ProviderID && !req.Actor.IsAdmin() {
		s.logger.Warn("GetProviderBookings: user=%s cannot read bookings of provider=%s", req.Actor.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: successfully fetched %d bookings for provider=%s", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus переводит бронирование по жизненному циклу
// pending -> confirmed -> assigned -> in_progress -> completed.
// Доступно назначенному исполнителю и администратору. Отмена выполняется отдельным сценарием.
func (s *Service) UpdateStatus(ctx context.Context, bookingID uuid.UUID, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%s to status=%s by user=%s",
		bookingID, req.Status, req.Actor.UserID)

	// 1. Валидируем и конвертируем статус
	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%s", req.Status, bookingID)
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}
	if newStatus == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: use the cancellation endpoint", ErrInvalidTransition)
	}

	// 2. Получаем бронирование
	booking, err := s.getBooking(ctx, "UpdateStatus", bookingID)
	if err != nil {
		return nil, err
	}

	// 3. Проверяем права доступа
	if !req.Actor.IsAdmin() && !booking.IsProvider(req.Actor.UserID) {
		s.logger.Warn("UpdateStatus: user=%s is not the provider of booking id=%s", req.Actor.UserID, bookingID)
		return nil, ErrAccessDenied
	}

	// 4. Проверяем переход
	if !booking.Status.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%s",
			booking.Status, newStatus, bookingID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
	}

	// 5. Условное обновление статуса
	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, booking.Status, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("UpdateStatus: booking id=%s changed concurrently", bookingID)
			return nil, ErrStatusConflict
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	booking.Status = newStatus
	s.logger.Info("UpdateStatus: successfully updated booking id=%s to status=%s", bookingID, newStatus)
	return models.FromDomainBooking(booking), nil
}

func (s *Service) getBooking(ctx context.Context, op string, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}
