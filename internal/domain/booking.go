package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bindrop/BDR-RentalService/pkg/types"
)

// BookingStatus статус бронирования в жизненном цикле аренды
type BookingStatus string

const (
	// StatusPendingPayment создано, ожидает подтверждения оплаты
	StatusPendingPayment BookingStatus = "pending_payment"

	// StatusPendingReview верификация самовывоза неполная,
	// требуется ручная проверка администратором
	StatusPendingReview BookingStatus = "pending_review"

	// StatusConfirmed оплачено и подтверждено
	StatusConfirmed BookingStatus = "confirmed"

	// StatusDelivered оборудование доставлено персоналом
	StatusDelivered BookingStatus = "delivered"

	// StatusWaitingReturn клиент забрал оборудование сам,
	// ожидается возврат
	StatusWaitingReturn BookingStatus = "waiting_to_be_returned"

	// StatusCompleted успешно завершено (терминальный)
	StatusCompleted BookingStatus = "completed"

	// StatusFlagged чек-лист возврата нашёл проблемы:
	// невозвращённое, нечищенное или повреждённое оборудование
	StatusFlagged BookingStatus = "flagged"

	// StatusCancelled отменено с возвратом денег (терминальный)
	StatusCancelled BookingStatus = "cancelled"
)

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
}

// ActiveStatuses статусы, при которых удержание инвентаря действует
var ActiveStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusPendingReview,
	StatusConfirmed,
	StatusDelivered,
	StatusWaitingReturn,
	StatusFlagged,
}

// ValidStatuses все допустимые статусы
var ValidStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusPendingReview,
	StatusConfirmed,
	StatusDelivered,
	StatusWaitingReturn,
	StatusCompleted,
	StatusFlagged,
	StatusCancelled,
}

// Verification данные верификации для услуг с самовывозом
type Verification struct {
	PlateNumber      *string
	LicenseFrontURL  *string
	LicenseBackURL   *string
	SkipReason       *string
	ManuallyVerified bool
}

// IsComplete возвращает true, если все артефакты верификации на месте
func (v *Verification) IsComplete() bool {
	return v.PlateNumber != nil && *v.PlateNumber != "" &&
		v.LicenseFrontURL != nil && v.LicenseBackURL != nil
}

// DistanceSurcharge надбавка за расстояние доставки
type DistanceSurcharge struct {
	Miles decimal.Decimal
	Fee   decimal.Decimal
}

// AppliedFee запись о дополнительном списании по бронированию
// (dry run, невозврат оборудования, чистка, повреждения, продление)
type AppliedFee struct {
	ID          int64
	BookingID   int64
	Description string
	Amount      decimal.Decimal
	ChargeID    string
	CreatedAt   time.Time
}

// RefundRecord запись о возврате денег при отмене
type RefundRecord struct {
	Amount     decimal.Decimal
	Reason     string
	RefundID   string
	RefundedAt time.Time
}

// ReturnIssue проваленный пункт чек-листа возврата
type ReturnIssue struct {
	ID            int64
	BookingID     int64
	Item          string // код оборудования или "cleanliness"/"damage"
	Kind          ReturnIssueKind
	FeeCharged    *decimal.Decimal
	FeeChargeID   *string
	CreatedAt     time.Time
}

// ReturnIssueKind тип проблемы при возврате
type ReturnIssueKind string

const (
	IssueNotReturned ReturnIssueKind = "not_returned"
	IssueNotCleaned  ReturnIssueKind = "not_cleaned"
	IssueDamaged     ReturnIssueKind = "damaged"
)

// Booking бронирование аренды оборудования
// Центральная сущность: создаётся при оформлении в pending_payment,
// удаляется только явным административным действием
type Booking struct {
	ID         int64
	CustomerID int64
	ServiceID  int64

	DropOffDate time.Time
	DropOffSlot TimeWindow
	PickupDate  time.Time
	PickupSlot  TimeWindow

	TotalPrice decimal.Decimal

	InsuranceAccepted bool
	DrivewayBoards    bool
	Notes             *string

	Distance *DistanceSurcharge

	Status       BookingStatus
	Verification Verification

	PaymentSessionID *string
	ChargeID         *string

	DeliveredAt *time.Time
	RentedOutAt *time.Time
	PickedUpAt  *time.Time
	ReturnedAt  *time.Time

	CancellationReason *string
	CancellationFee    *decimal.Decimal
	Refund             *RefundRecord
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal возвращает true для завершённых бронирований
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// IsActive возвращает true, если бронирование удерживает инвентарь
func (b *Booking) IsActive() bool {
	return !b.IsTerminal()
}

// CanBeCancelled отмена возможна из любого нетерминального статуса
func (b *Booking) CanBeCancelled() bool {
	return !b.IsTerminal()
}

// CanBeExtended продление возможно, пока аренда идёт
func (b *Booking) CanBeExtended() bool {
	return b.Status == StatusConfirmed ||
		b.Status == StatusDelivered ||
		b.Status == StatusWaitingReturn
}

// RentalDays число календарных дней аренды (минимум 1)
func (b *Booking) RentalDays() int {
	return RentalDays(b.DropOffDate, b.PickupDate)
}

// StatusStamps отметки времени, проставляемые вместе с переходом статуса
type StatusStamps struct {
	DeliveredAt *time.Time
	RentedOutAt *time.Time
	PickedUpAt  *time.Time
	ReturnedAt  *time.Time
}

// SlotKey каноническое строковое представление слота для сравнения
func SlotKey(w TimeWindow) string {
	return w.Start.String() + "-" + w.End.String()
}

// ParseSlotKey парсит "HH:MM-HH:MM" в TimeWindow
func ParseSlotKey(s string) (TimeWindow, bool) {
	if len(s) != 11 || s[5] != '-' {
		return TimeWindow{}, false
	}
	start, err := types.NewTimeStringFromString(s[:5])
	if err != nil {
		return TimeWindow{}, false
	}
	end, err := types.NewTimeStringFromString(s[6:])
	if err != nil {
		return TimeWindow{}, false
	}
	return TimeWindow{Start: start, End: end}, true
}
