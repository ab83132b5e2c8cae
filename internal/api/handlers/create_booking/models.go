package create_booking

import (
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	createBooking "github.com/bindrop/BDR-RentalService/internal/usecase/create_booking"
)

// EquipmentItemRequest позиция дополнительного оборудования
type EquipmentItemRequest struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// AddressRequest адрес доставки
type AddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
}

// VerificationRequest артефакты верификации для самовывоза
type VerificationRequest struct {
	PlateNumber     *string `json:"plateNumber,omitempty"`
	LicenseFrontURL *string `json:"licenseFrontUrl,omitempty"`
	LicenseBackURL  *string `json:"licenseBackUrl,omitempty"`
	SkipReason      *string `json:"skipReason,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID int64 `json:"serviceId"`

	DropOffDate string `json:"dropOffDate"` // "2026-07-10"
	DropOffSlot string `json:"dropOffSlot"` // "08:00-12:00"
	PickupDate  string `json:"pickupDate"`
	PickupSlot  string `json:"pickupSlot"`

	Insurance      bool    `json:"insurance"`
	DrivewayBoards bool    `json:"drivewayBoards"`
	Notes          *string `json:"notes,omitempty"`

	Equipment    []EquipmentItemRequest `json:"equipment,omitempty"`
	Address      *AddressRequest        `json:"address,omitempty"`
	Verification VerificationRequest    `json:"verification"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	dropOffDate, err := time.Parse(domain.DateFormat, r.DropOffDate)
	if err != nil {
		return nil, err
	}

	pickupDate, err := time.Parse(domain.DateFormat, r.PickupDate)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		CustomerID:     customerID,
		ServiceID:      r.ServiceID,
		DropOffDate:    dropOffDate,
		DropOffSlot:    r.DropOffSlot,
		PickupDate:     pickupDate,
		PickupSlot:     r.PickupSlot,
		Insurance:      r.Insurance,
		DrivewayBoards: r.DrivewayBoards,
		Notes:          r.Notes,
		Verification: createBooking.VerificationInput{
			PlateNumber:     r.Verification.PlateNumber,
			LicenseFrontURL: r.Verification.LicenseFrontURL,
			LicenseBackURL:  r.Verification.LicenseBackURL,
			SkipReason:      r.Verification.SkipReason,
		},
	}

	for _, item := range r.Equipment {
		req.Equipment = append(req.Equipment, createBooking.EquipmentItem{
			Type:     item.Type,
			Quantity: item.Quantity,
		})
	}

	if r.Address != nil {
		req.Address = &createBooking.Address{
			Street:  r.Address.Street,
			City:    r.Address.City,
			ZipCode: r.Address.ZipCode,
		}
	}

	return req, nil
}
