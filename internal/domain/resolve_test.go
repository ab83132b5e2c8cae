package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bindrop/BDR-RentalService/pkg/types"
)

func ts(s string) types.TimeString {
	return types.TimeString(s)
}

func tsPtr(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}

// понедельник
var resolveNow = date(2026, 6, 1)

func windowRule(weekday int) *WeeklyAvailabilityRule {
	return &WeeklyAvailabilityRule{
		ServiceID:   1,
		Weekday:     weekday,
		IsAvailable: true,
		Windows: []TimeWindow{
			{Start: ts("08:00"), End: ts("10:00")},
			{Start: ts("13:00"), End: ts("15:00")},
		},
	}
}

func fullDayRule(weekday int) *WeeklyAvailabilityRule {
	return &WeeklyAvailabilityRule{
		ServiceID:   2,
		Weekday:     weekday,
		IsAvailable: true,
		DayStart:    tsPtr("07:00"),
		DayEnd:      tsPtr("19:00"),
	}
}

func TestResolveDay_WindowService(t *testing.T) {
	svc := dumpsterService()
	target := date(2026, 6, 2) // вторник
	rules := map[int]*WeeklyAvailabilityRule{Weekday(target): windowRule(Weekday(target))}

	day := ResolveDay(svc, target, resolveNow, rules, nil)

	require.True(t, day.Available)
	assert.True(t, day.UsesWindows)
	require.Len(t, day.DropOffSlots, 2)
	assert.Equal(t, "08:00-10:00", SlotKey(day.DropOffSlots[0]))
	assert.Equal(t, "13:00-15:00", SlotKey(day.DropOffSlots[1]))
	assert.Equal(t, day.DropOffSlots, day.PickupSlots)
}

func TestResolveDay_FullDayService(t *testing.T) {
	svc := trailerService()
	target := date(2026, 6, 2)
	rules := map[int]*WeeklyAvailabilityRule{Weekday(target): fullDayRule(Weekday(target))}

	day := ResolveDay(svc, target, resolveNow, rules, nil)

	require.True(t, day.Available)
	assert.False(t, day.UsesWindows)
	require.Len(t, day.DropOffSlots, 1)
	assert.Equal(t, "07:00-19:00", SlotKey(day.DropOffSlots[0]))
}

func TestResolveDay_Closed(t *testing.T) {
	svc := dumpsterService()
	target := date(2026, 6, 2)
	openRules := map[int]*WeeklyAvailabilityRule{Weekday(target): windowRule(Weekday(target))}

	t.Run("PastDate", func(t *testing.T) {
		day := ResolveDay(svc, date(2026, 5, 28), resolveNow, openRules, nil)
		assert.False(t, day.Available)
		assert.Empty(t, day.DropOffSlots)
	})

	t.Run("TodayIsNotPast", func(t *testing.T) {
		rules := map[int]*WeeklyAvailabilityRule{Weekday(resolveNow): windowRule(Weekday(resolveNow))}
		day := ResolveDay(svc, resolveNow, resolveNow, rules, nil)
		assert.True(t, day.Available)
	})

	t.Run("MissingRuleMeansClosed", func(t *testing.T) {
		day := ResolveDay(svc, target, resolveNow, map[int]*WeeklyAvailabilityRule{}, nil)
		assert.False(t, day.Available)
	})

	t.Run("RuleMarkedUnavailable", func(t *testing.T) {
		rule := windowRule(Weekday(target))
		rule.IsAvailable = false
		day := ResolveDay(svc, target, resolveNow, map[int]*WeeklyAvailabilityRule{Weekday(target): rule}, nil)
		assert.False(t, day.Available)
	})

	t.Run("OpenRuleWithoutWindows", func(t *testing.T) {
		rule := &WeeklyAvailabilityRule{ServiceID: 1, Weekday: Weekday(target), IsAvailable: true}
		day := ResolveDay(svc, target, resolveNow, map[int]*WeeklyAvailabilityRule{Weekday(target): rule}, nil)
		assert.False(t, day.Available)
	})

	t.Run("FullDayRuleWithoutBounds", func(t *testing.T) {
		rule := &WeeklyAvailabilityRule{ServiceID: 2, Weekday: Weekday(target), IsAvailable: true}
		day := ResolveDay(trailerService(), target, resolveNow, map[int]*WeeklyAvailabilityRule{Weekday(target): rule}, nil)
		assert.False(t, day.Available)
	})
}

func TestResolveDay_Blackouts(t *testing.T) {
	svc := dumpsterService()
	target := date(2026, 6, 2)
	rules := map[int]*WeeklyAvailabilityRule{Weekday(target): windowRule(Weekday(target))}
	otherService := int64(99)

	t.Run("GlobalBlackout", func(t *testing.T) {
		blackouts := []*DateBlackout{{Date: target, ServiceID: nil}}
		day := ResolveDay(svc, target, resolveNow, rules, blackouts)
		assert.False(t, day.Available)
	})

	t.Run("ServiceBlackout", func(t *testing.T) {
		blackouts := []*DateBlackout{{Date: target, ServiceID: &svc.ID}}
		day := ResolveDay(svc, target, resolveNow, rules, blackouts)
		assert.False(t, day.Available)
	})

	t.Run("OtherServiceBlackoutIgnored", func(t *testing.T) {
		blackouts := []*DateBlackout{{Date: target, ServiceID: &otherService}}
		day := ResolveDay(svc, target, resolveNow, rules, blackouts)
		assert.True(t, day.Available)
	})

	t.Run("BlackoutOnDifferentDayIgnored", func(t *testing.T) {
		blackouts := []*DateBlackout{{Date: date(2026, 6, 3), ServiceID: nil}}
		day := ResolveDay(svc, target, resolveNow, rules, blackouts)
		assert.True(t, day.Available)
	})
}

func TestDayAvailability_HasSlot(t *testing.T) {
	day := DayAvailability{
		Available:    true,
		DropOffSlots: []TimeWindow{{Start: ts("08:00"), End: ts("10:00")}},
	}

	assert.True(t, day.HasSlot(TimeWindow{Start: ts("08:00"), End: ts("10:00")}))
	assert.False(t, day.HasSlot(TimeWindow{Start: ts("08:00"), End: ts("11:00")}))
	assert.False(t, day.HasSlot(TimeWindow{Start: ts("13:00"), End: ts("15:00")}))
}

func TestRulesByWeekday(t *testing.T) {
	rules := []*WeeklyAvailabilityRule{windowRule(1), windowRule(3)}
	m := RulesByWeekday(rules)

	require.Len(t, m, 2)
	assert.Same(t, rules[0], m[1])
	assert.Same(t, rules[1], m[3])
	assert.Nil(t, m[5])
}

func TestWeeklyAvailabilityRule_ValidateWindows(t *testing.T) {
	t.Run("OrderedNonOverlapping", func(t *testing.T) {
		rule := windowRule(1)
		assert.True(t, rule.ValidateWindows())
	})

	t.Run("Overlapping", func(t *testing.T) {
		rule := &WeeklyAvailabilityRule{Windows: []TimeWindow{
			{Start: ts("08:00"), End: ts("12:00")},
			{Start: ts("11:00"), End: ts("15:00")},
		}}
		assert.False(t, rule.ValidateWindows())
	})

	t.Run("InvertedWindow", func(t *testing.T) {
		rule := &WeeklyAvailabilityRule{Windows: []TimeWindow{
			{Start: ts("12:00"), End: ts("08:00")},
		}}
		assert.False(t, rule.ValidateWindows())
	})

	t.Run("BackToBackAllowed", func(t *testing.T) {
		rule := &WeeklyAvailabilityRule{Windows: []TimeWindow{
			{Start: ts("08:00"), End: ts("10:00")},
			{Start: ts("10:00"), End: ts("12:00")},
		}}
		assert.True(t, rule.ValidateWindows())
	})
}

func TestParseSlotKey(t *testing.T) {
	w, ok := ParseSlotKey("08:00-10:00")
	require.True(t, ok)
	assert.Equal(t, ts("08:00"), w.Start)
	assert.Equal(t, ts("10:00"), w.End)

	for _, bad := range []string{"", "08:00", "8:00-10:00", "08:00/10:00", "08:0x-10:00"} {
		_, ok := ParseSlotKey(bad)
		assert.False(t, ok, bad)
	}
}

func TestDateHelpers(t *testing.T) {
	t.Run("DateOnly", func(t *testing.T) {
		v := time.Date(2026, 6, 1, 18, 45, 12, 99, time.UTC)
		assert.Equal(t, date(2026, 6, 1), DateOnly(v))
	})

	t.Run("IsDateInPast", func(t *testing.T) {
		assert.True(t, IsDateInPast(date(2026, 5, 31), resolveNow))
		assert.False(t, IsDateInPast(resolveNow, resolveNow))
		assert.False(t, IsDateInPast(date(2026, 6, 2), resolveNow))
	})

	t.Run("IsSameDay", func(t *testing.T) {
		assert.True(t, IsSameDay(date(2026, 6, 1), time.Date(2026, 6, 1, 23, 0, 0, 0, time.UTC)))
		assert.False(t, IsSameDay(date(2026, 6, 1), date(2026, 6, 2)))
	})
}
