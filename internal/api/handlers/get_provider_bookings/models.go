package get_provider_bookings

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	providerID uuid.UUID,
	actor domain.Actor,
	startDateStr string,
	endDateStr string,
	statusStr string,
) (*models.GetProviderBookingsRequest, error) {
	req := &models.GetProviderBookingsRequest{
		Actor:      actor,
		ProviderID: providerID,
	}

	// Парсим startDate если указана
	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate value: %w", err)
		}
		req.StartDate = &startDate
	}

	// Парсим endDate если указана
	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate value: %w", err)
		}
		req.EndDate = &endDate
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	return req, nil
}
