package create_booking

import (
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	bookingModels "github.com/bindrop/BDR-RentalService/internal/service/bookings/models"
)

// EquipmentItem позиция дополнительного оборудования
type EquipmentItem struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// Address адрес доставки
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
}

// VerificationInput артефакты верификации для самовывоза
// URL фотографий получены отдельной загрузкой через файловый сервис
type VerificationInput struct {
	PlateNumber     *string `json:"plateNumber,omitempty"`
	LicenseFrontURL *string `json:"licenseFrontUrl,omitempty"`
	LicenseBackURL  *string `json:"licenseBackUrl,omitempty"`
	SkipReason      *string `json:"skipReason,omitempty"`
}

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID int64
	ServiceID  int64

	DropOffDate time.Time
	DropOffSlot string // "08:00-12:00"
	PickupDate  time.Time
	PickupSlot  string

	Insurance      bool
	DrivewayBoards bool
	Notes          *string

	Equipment []EquipmentItem
	Address   *Address

	Verification VerificationInput
}

// Response модель ответа с созданным бронированием и платежной сессией
type Response struct {
	Booking     *bookingModels.BookingResponse `json:"booking"`
	CheckoutURL string                         `json:"checkoutUrl,omitempty"`
	SessionID   string                         `json:"sessionId,omitempty"`

	// Degraded true, когда геосервис был недоступен и надбавка
	// за расстояние не вошла в цену
	Degraded bool `json:"degraded,omitempty"`
}

func toDomainVerification(v VerificationInput) domain.Verification {
	return domain.Verification{
		PlateNumber:     v.PlateNumber,
		LicenseFrontURL: v.LicenseFrontURL,
		LicenseBackURL:  v.LicenseBackURL,
		SkipReason:      v.SkipReason,
	}
}
