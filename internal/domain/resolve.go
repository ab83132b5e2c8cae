package domain

import "time"

// ResolveDay вычисляет доступность услуги на одну дату
// Чистая функция: правила и блокировки загружаются вызывающим
//
// День закрыт, если дата в прошлом, дата заблокирована (по услуге или
// глобально), либо правило на день недели отсутствует или закрыто -
// отсутствие правила трактуется как закрытый день, а не как открытый
func ResolveDay(
	svc *Service,
	date time.Time,
	now time.Time,
	rules map[int]*WeeklyAvailabilityRule,
	blackouts []*DateBlackout,
) DayAvailability {
	day := DayAvailability{
		Date:        DateOnly(date),
		UsesWindows: svc.UsesWindows(),
	}

	if IsDateInPast(date, now) {
		return day
	}

	for _, b := range blackouts {
		if IsSameDay(b.Date, date) && b.AppliesTo(svc.ID) {
			return day
		}
	}

	rule, ok := rules[Weekday(date)]
	if !ok || !rule.IsAvailable {
		return day
	}

	slots := ruleSlots(svc, rule)
	if len(slots) == 0 {
		return day
	}

	day.Available = true
	day.DropOffSlots = slots
	day.PickupSlots = slots
	return day
}

// ruleSlots бронируемые окна дня по правилу расписания
// Для full-day услуг - один синтетический слот на весь рабочий день,
// для window услуг - дискретные окна в каноническом виде
func ruleSlots(svc *Service, rule *WeeklyAvailabilityRule) []TimeWindow {
	if svc.UsesWindows() {
		return rule.Windows
	}
	if rule.DayStart == nil || rule.DayEnd == nil || !rule.DayStart.IsBefore(*rule.DayEnd) {
		return nil
	}
	return []TimeWindow{{Start: *rule.DayStart, End: *rule.DayEnd}}
}

// HasSlot возвращает true, если окно входит в набор слотов дня
// Сравнение по каноническому строковому представлению
func (d *DayAvailability) HasSlot(w TimeWindow) bool {
	key := SlotKey(w)
	for _, slot := range d.DropOffSlots {
		if SlotKey(slot) == key {
			return true
		}
	}
	return false
}

// RulesByWeekday индексирует правила по дню недели
func RulesByWeekday(rules []*WeeklyAvailabilityRule) map[int]*WeeklyAvailabilityRule {
	m := make(map[int]*WeeklyAvailabilityRule, len(rules))
	for _, r := range rules {
		m[r.Weekday] = r
	}
	return m
}
