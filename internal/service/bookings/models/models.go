package models

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidAmount возвращается при некорректной денежной сумме
	ErrInvalidAmount = errors.New("invalid amount")
)

// Request модели

// GetCustomerBookingsRequest запрос на историю бронирований клиента
type GetCustomerBookingsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// ChecklistItem пункт чек-листа возврата по единице оборудования
// Fee указывается администратором для невозвращённых позиций
type ChecklistItem struct {
	EquipmentType string  `json:"equipmentType"`
	Returned      bool    `json:"returned"`
	Fee           *string `json:"fee,omitempty"`
}

// ReturnChecklistRequest чек-лист возврата оборудования
// Cleaned/Undamaged заполняются только для услуг с проверкой
// состояния трейлера
type ReturnChecklistRequest struct {
	Items       []ChecklistItem `json:"items"`
	Cleaned     *bool           `json:"cleaned,omitempty"`
	CleaningFee *string         `json:"cleaningFee,omitempty"`
	Undamaged   *bool           `json:"undamaged,omitempty"`
	DamageFee   *string         `json:"damageFee,omitempty"`
}

// Response модели

// WindowResponse временное окно слота
type WindowResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DistanceResponse надбавка за расстояние доставки
type DistanceResponse struct {
	Miles string `json:"miles"`
	Fee   string `json:"fee"`
}

// VerificationResponse данные верификации самовывоза
type VerificationResponse struct {
	PlateNumber      *string `json:"plateNumber,omitempty"`
	LicenseFrontURL  *string `json:"licenseFrontUrl,omitempty"`
	LicenseBackURL   *string `json:"licenseBackUrl,omitempty"`
	SkipReason       *string `json:"skipReason,omitempty"`
	ManuallyVerified bool    `json:"manuallyVerified"`
}

// RefundResponse сведения о возврате денег
type RefundResponse struct {
	Amount     string `json:"amount"`
	Reason     string `json:"reason"`
	RefundID   string `json:"refundId"`
	RefundedAt string `json:"refundedAt"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64 `json:"id"`
	CustomerID int64 `json:"customerId"`
	ServiceID  int64 `json:"serviceId"`

	DropOffDate string         `json:"dropOffDate"` // "2026-07-10"
	DropOffSlot WindowResponse `json:"dropOffSlot"`
	PickupDate  string         `json:"pickupDate"`
	PickupSlot  WindowResponse `json:"pickupSlot"`

	TotalPrice string `json:"totalPrice"`

	InsuranceAccepted bool    `json:"insuranceAccepted"`
	DrivewayBoards    bool    `json:"drivewayBoards"`
	Notes             *string `json:"notes,omitempty"`

	Distance *DistanceResponse `json:"distance,omitempty"`

	Status       string               `json:"status"`
	Verification VerificationResponse `json:"verification"`

	PaymentSessionID *string `json:"paymentSessionId,omitempty"`

	DeliveredAt *string `json:"deliveredAt,omitempty"`
	PickedUpAt  *string `json:"pickedUpAt,omitempty"`
	ReturnedAt  *string `json:"returnedAt,omitempty"`

	CancellationReason *string         `json:"cancellationReason,omitempty"`
	Refund             *RefundResponse `json:"refund,omitempty"`

	CreatedAt string `json:"createdAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
}

// ReturnIssueResponse проблема, зафиксированная при возврате
type ReturnIssueResponse struct {
	Item       string  `json:"item"`
	Kind       string  `json:"kind"`
	FeeCharged *string `json:"feeCharged,omitempty"`
}

// ReturnResultResponse итог обработки чек-листа возврата
type ReturnResultResponse struct {
	BookingID int64                  `json:"bookingId"`
	Status    string                 `json:"status"`
	Issues    []*ReturnIssueResponse `json:"issues"`
}

// Конвертеры

const timestampFormat = "2006-01-02T15:04:05Z07:00"

// FromDomainBooking конвертирует domain бронирование в ответ
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:         b.ID,
		CustomerID: b.CustomerID,
		ServiceID:  b.ServiceID,

		DropOffDate: b.DropOffDate.Format(domain.DateFormat),
		DropOffSlot: WindowResponse{Start: b.DropOffSlot.Start.String(), End: b.DropOffSlot.End.String()},
		PickupDate:  b.PickupDate.Format(domain.DateFormat),
		PickupSlot:  WindowResponse{Start: b.PickupSlot.Start.String(), End: b.PickupSlot.End.String()},

		TotalPrice: b.TotalPrice.StringFixed(2),

		InsuranceAccepted: b.InsuranceAccepted,
		DrivewayBoards:    b.DrivewayBoards,
		Notes:             b.Notes,

		Status: string(b.Status),
		Verification: VerificationResponse{
			PlateNumber:      b.Verification.PlateNumber,
			LicenseFrontURL:  b.Verification.LicenseFrontURL,
			LicenseBackURL:   b.Verification.LicenseBackURL,
			SkipReason:       b.Verification.SkipReason,
			ManuallyVerified: b.Verification.ManuallyVerified,
		},

		PaymentSessionID:   b.PaymentSessionID,
		CancellationReason: b.CancellationReason,

		CreatedAt: b.CreatedAt.Format(timestampFormat),
	}

	if b.Distance != nil {
		resp.Distance = &DistanceResponse{
			Miles: b.Distance.Miles.StringFixed(1),
			Fee:   b.Distance.Fee.StringFixed(2),
		}
	}
	if b.DeliveredAt != nil {
		s := b.DeliveredAt.Format(timestampFormat)
		resp.DeliveredAt = &s
	}
	if b.PickedUpAt != nil {
		s := b.PickedUpAt.Format(timestampFormat)
		resp.PickedUpAt = &s
	}
	if b.ReturnedAt != nil {
		s := b.ReturnedAt.Format(timestampFormat)
		resp.ReturnedAt = &s
	}
	if b.Refund != nil {
		resp.Refund = &RefundResponse{
			Amount:     b.Refund.Amount.StringFixed(2),
			Reason:     b.Refund.Reason,
			RefundID:   b.Refund.RefundID,
			RefundedAt: b.Refund.RefundedAt.Format(timestampFormat),
		}
	}

	return resp
}

// FromDomainBookingList конвертирует список бронирований в ответ
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{Bookings: make([]*BookingResponse, 0, len(bookings))}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, FromDomainBooking(b))
	}
	return resp
}

// FromDomainIssues конвертирует проблемы возврата в ответ
func FromDomainIssues(bookingID int64, status domain.BookingStatus, issues []*domain.ReturnIssue) *ReturnResultResponse {
	resp := &ReturnResultResponse{
		BookingID: bookingID,
		Status:    string(status),
		Issues:    make([]*ReturnIssueResponse, 0, len(issues)),
	}
	for _, issue := range issues {
		ir := &ReturnIssueResponse{Item: issue.Item, Kind: string(issue.Kind)}
		if issue.FeeCharged != nil {
			s := issue.FeeCharged.StringFixed(2)
			ir.FeeCharged = &s
		}
		resp.Issues = append(resp.Issues, ir)
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	if !domain.IsValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// ParseFee парсит денежную сумму из запроса
func ParseFee(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil || d.IsNegative() {
		return nil, ErrInvalidAmount
	}
	return &d, nil
}
