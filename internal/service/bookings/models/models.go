package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Actor  domain.Actor
	Status string `json:"status"`
}

// GetUserBookingsRequest запрос на получение бронирований клиента
type GetUserBookingsRequest struct {
	Actor  domain.Actor
	UserID uuid.UUID `json:"userId"`
	Status *string   `json:"status,omitempty"`
}

// GetProviderBookingsRequest запрос на получение бронирований исполнителя
type GetProviderBookingsRequest struct {
	Actor      domain.Actor
	ProviderID uuid.UUID  `json:"providerId"`
	StartDate  *time.Time `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate    *time.Time `json:"endDate,omitempty"`   // Конец периода (опционально)
	Status     *string    `json:"status,omitempty"`    // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	providerID := r.ProviderID
	filter := domain.BookingsFilter{
		ProviderID: &providerID,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          uuid.UUID  `json:"id"`
	ClientID    uuid.UUID  `json:"clientId"`
	ProviderID  *uuid.UUID `json:"providerId,omitempty"`
	ServiceType string     `json:"serviceType"`
	ServiceName string     `json:"serviceName"`
	BookingDate string     `json:"bookingDate"` // "2026-03-11"
	StartTime   string     `json:"startTime"`   // "10:00"
	TotalPrice  float64    `json:"totalPrice"`
	Status      string     `json:"status"`

	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		ClientID:           b.ClientID,
		ProviderID:         b.ProviderID,
		ServiceType:        b.ServiceType,
		ServiceName:        b.ServiceName,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		TotalPrice:         b.TotalPrice,
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledBy != nil {
		by := string(*b.CancelledBy)
		resp.CancelledBy = &by
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
