package domain

import "github.com/shopspring/decimal"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxNotesLength              = 1000
	MaxCancellationReasonLength = 500
	MaxSkipReasonLength         = 500
	MaxEquipmentQuantity        = 50
	MaxExtensionDays            = 30
	MaxAvailabilityRangeDays    = 92
	WeekdaysPerWeek             = 7

	// DefaultRetentionHours окно, после которого pending_payment
	// бронирование считается зависшим (но не отменяется автоматически)
	DefaultRetentionHours = 48
)

// Distance surcharge constants
// Fee = PerMileRate * max(0, miles - FreeRadiusMiles), rounded to cents
var (
	PerMileRate     = decimal.RequireFromString("0.80")
	FreeRadiusMiles = decimal.NewFromInt(30)
)

// WeeklySpecialDays длительность аренды, при которой для тарифа
// flat-plus-daily применяется фиксированная недельная цена
const WeeklySpecialDays = 7
