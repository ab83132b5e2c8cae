package domain

import "github.com/shopspring/decimal"

// PricingMode режим ценообразования услуги
type PricingMode string

const (
	// PricingFlatPlusDaily базовая цена покрывает первый день,
	// каждый следующий день оплачивается по дневной ставке;
	// ровно 7 дней - фиксированная недельная цена
	PricingFlatPlusDaily PricingMode = "flat_plus_daily"

	// PricingPerDayMultiplier цена = дневная ставка * число дней
	PricingPerDayMultiplier PricingMode = "per_day_multiplier"

	// PricingFlatPerDelivery фиксированная цена за доставку,
	// длительность не влияет
	PricingFlatPerDelivery PricingMode = "flat_per_delivery"
)

// SlotMode режим бронируемого времени услуги
type SlotMode string

const (
	// SlotFullDay один синтетический слот на весь рабочий день
	SlotFullDay SlotMode = "full_day"

	// SlotTimeWindow дискретные временные окна из недельного расписания
	SlotTimeWindow SlotMode = "time_window"
)

// RentalModel модель передачи оборудования клиенту
type RentalModel string

const (
	// RentalStaffDelivered оборудование привозит и забирает персонал
	RentalStaffDelivered RentalModel = "staff_delivered"

	// RentalSelfPickup клиент забирает оборудование сам;
	// требует верификации (номер тягача + фото документов)
	RentalSelfPickup RentalModel = "self_pickup"
)

// Service справочные данные об услуге аренды
// Неизменяемые reference data: загружаются из конфига при старте
// и передаются явно в резолвер и прайсинг
type Service struct {
	ID          int64
	Name        string
	PricingMode PricingMode
	SlotMode    SlotMode
	RentalModel RentalModel

	BasePrice        decimal.Decimal // flat_plus_daily: день 1; flat_per_delivery: вся доставка
	DailyRate        decimal.Decimal // flat_plus_daily: дни 2+; per_day_multiplier: каждый день
	WeeklyPrice      decimal.Decimal // flat_plus_daily: фиксированная цена за ровно 7 дней
	InsuranceFee     decimal.Decimal
	DrivewayBoardFee decimal.Decimal

	InsuranceEligible bool
	DrivewayEligible  bool

	// ChecklistCleanliness для трейлерных услуг чек-лист возврата
	// дополнительно проверяет чистоту и повреждения
	ChecklistCleanliness bool
}

// RequiresVerification возвращает true для услуг с самовывозом:
// подтверждение возможно только после проверки документов
func (s *Service) RequiresVerification() bool {
	return s.RentalModel == RentalSelfPickup
}

// UsesWindows возвращает true, если услуга бронируется по временным окнам
func (s *Service) UsesWindows() bool {
	return s.SlotMode == SlotTimeWindow
}

// EquipmentType справочные данные о типе дополнительного оборудования
// Общее количество единиц хранится в inventory_items и управляется через API
type EquipmentType struct {
	Code       string // машинно-читаемый код ("wheelbarrow", "hand_truck")
	Name       string
	PerUnitFee decimal.Decimal
}
