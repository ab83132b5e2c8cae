package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddOnSelection выбранные дополнения к бронированию
type AddOnSelection struct {
	Insurance      bool
	DrivewayBoards bool
	Equipment      []EquipmentSelection
}

// EquipmentSelection позиция дополнительного оборудования
type EquipmentSelection struct {
	Type     EquipmentType
	Quantity int
}

// QuoteLine строка детализации цены
type QuoteLine struct {
	Label  string
	Amount decimal.Decimal
}

// Quote итоговая цена с детализацией
type Quote struct {
	Lines        []QuoteLine
	Total        decimal.Decimal
	DurationDays int

	// Fallback true, если пара дат некорректна и цена деградировала
	// до базовой (контракт живого предпросмотра: не падать, пока
	// пользователь ещё вводит даты)
	Fallback bool
}

// RentalDays длительность аренды в целых календарных днях
// ceil((pickup - dropoff) / сутки) + 1, минимум 1
// Арифметика на локальной полуночи, чтобы исключить ошибки
// на границах суток
func RentalDays(dropOff, pickup time.Time) int {
	from := DateOnly(dropOff)
	to := DateOnly(pickup)
	if to.Before(from) {
		return 1
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// ComputeQuote вычисляет цену бронирования
// Чистая функция без I/O: одинаково используется при предпросмотре
// и при подтверждении
//
// Некорректная пара дат (pickup раньше dropoff или нулевые даты)
// не является ошибкой: движок откатывается к базовой цене услуги
func ComputeQuote(svc *Service, dropOff, pickup time.Time, addons AddOnSelection, distance *DistanceSurcharge) Quote {
	if dropOff.IsZero() || pickup.IsZero() || DateOnly(pickup).Before(DateOnly(dropOff)) {
		return Quote{
			Lines:        []QuoteLine{{Label: svc.Name, Amount: svc.BasePrice}},
			Total:        svc.BasePrice,
			DurationDays: 1,
			Fallback:     true,
		}
	}

	days := RentalDays(dropOff, pickup)
	q := Quote{DurationDays: days}

	base := rentalBase(svc, days)
	q.Lines = append(q.Lines, QuoteLine{Label: svc.Name, Amount: base})
	total := base

	// Дополнения независимы от порядка: каждая строка - фиксированная
	// сумма или ставка * количество
	if addons.Insurance && svc.InsuranceEligible {
		q.Lines = append(q.Lines, QuoteLine{Label: "Damage insurance", Amount: svc.InsuranceFee})
		total = total.Add(svc.InsuranceFee)
	}
	if addons.DrivewayBoards && svc.DrivewayEligible {
		q.Lines = append(q.Lines, QuoteLine{Label: "Driveway protection", Amount: svc.DrivewayBoardFee})
		total = total.Add(svc.DrivewayBoardFee)
	}
	for _, eq := range addons.Equipment {
		if eq.Quantity <= 0 {
			continue
		}
		amount := eq.Type.PerUnitFee.Mul(decimal.NewFromInt(int64(eq.Quantity)))
		q.Lines = append(q.Lines, QuoteLine{Label: eq.Type.Name, Amount: amount})
		total = total.Add(amount)
	}

	// Надбавка за расстояние добавляется как есть, если положительна
	if distance != nil && distance.Fee.IsPositive() {
		q.Lines = append(q.Lines, QuoteLine{Label: "Distance surcharge", Amount: distance.Fee})
		total = total.Add(distance.Fee)
	}

	q.Total = total.Round(2)
	return q
}

// rentalBase базовая стоимость аренды по режиму ценообразования
func rentalBase(svc *Service, days int) decimal.Decimal {
	switch svc.PricingMode {
	case PricingFlatPlusDaily:
		// Ровно 7 дней - недельная цена перекрывает линейную формулу
		if days == WeeklySpecialDays {
			return svc.WeeklyPrice
		}
		return svc.BasePrice.Add(svc.DailyRate.Mul(decimal.NewFromInt(int64(days - 1))))
	case PricingPerDayMultiplier:
		return svc.DailyRate.Mul(decimal.NewFromInt(int64(days)))
	case PricingFlatPerDelivery:
		return svc.BasePrice
	default:
		return svc.BasePrice
	}
}

// DistanceFee надбавка за расстояние: PerMileRate за каждую милю
// сверх бесплатного радиуса, округление до центов
func DistanceFee(miles decimal.Decimal) decimal.Decimal {
	extra := miles.Sub(FreeRadiusMiles)
	if !extra.IsPositive() {
		return decimal.Zero
	}
	return PerMileRate.Mul(extra).Round(2)
}

// RefundAmount сумма возврата при отмене: total - adminFee, не ниже нуля
// Списания за продление в базу возврата не входят
func RefundAmount(total, adminFee decimal.Decimal) decimal.Decimal {
	refund := total.Sub(adminFee)
	if refund.IsNegative() {
		return decimal.Zero
	}
	return refund.Round(2)
}

// ExtensionCharge стоимость продления аренды на extraDays дней
func ExtensionCharge(svc *Service, extraDays int) decimal.Decimal {
	if extraDays <= 0 {
		return decimal.Zero
	}
	return svc.DailyRate.Mul(decimal.NewFromInt(int64(extraDays))).Round(2)
}
