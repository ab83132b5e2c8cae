package models

import (
	"errors"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	"github.com/bindrop/BDR-RentalService/pkg/types"
)

var (
	// ErrInvalidTime возвращается при некорректном формате времени
	ErrInvalidTime = errors.New("invalid time format")
)

// Request модели

// WindowRequest временное окно в запросе ("HH:MM")
type WindowRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UpsertRuleRequest запрос на создание/обновление правила расписания
type UpsertRuleRequest struct {
	ServiceID   int64           `json:"serviceId"`
	Weekday     int             `json:"weekday"` // 0 = воскресенье ... 6 = суббота
	IsAvailable bool            `json:"isAvailable"`
	DayStart    *string         `json:"dayStart,omitempty"`
	DayEnd      *string         `json:"dayEnd,omitempty"`
	Windows     []WindowRequest `json:"windows,omitempty"`
}

// ToDomainRule конвертирует запрос в domain правило
func (r *UpsertRuleRequest) ToDomainRule() (*domain.WeeklyAvailabilityRule, error) {
	rule := &domain.WeeklyAvailabilityRule{
		ServiceID:   r.ServiceID,
		Weekday:     r.Weekday,
		IsAvailable: r.IsAvailable,
	}

	if r.DayStart != nil {
		ts, err := types.NewTimeStringFromString(*r.DayStart)
		if err != nil {
			return nil, ErrInvalidTime
		}
		rule.DayStart = &ts
	}
	if r.DayEnd != nil {
		ts, err := types.NewTimeStringFromString(*r.DayEnd)
		if err != nil {
			return nil, ErrInvalidTime
		}
		rule.DayEnd = &ts
	}

	for _, w := range r.Windows {
		start, err := types.NewTimeStringFromString(w.Start)
		if err != nil {
			return nil, ErrInvalidTime
		}
		end, err := types.NewTimeStringFromString(w.End)
		if err != nil {
			return nil, ErrInvalidTime
		}
		rule.Windows = append(rule.Windows, domain.TimeWindow{Start: start, End: end})
	}

	return rule, nil
}

// CreateBlackoutRequest запрос на блокировку даты
// ServiceID == nil блокирует все услуги на эту дату
type CreateBlackoutRequest struct {
	Date      string  `json:"date"` // "2026-07-04"
	ServiceID *int64  `json:"serviceId,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

// Response модели

// WindowResponse временное окно в ответе
type WindowResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RuleResponse правило недельного расписания
type RuleResponse struct {
	ID          int64            `json:"id"`
	ServiceID   int64            `json:"serviceId"`
	Weekday     int              `json:"weekday"`
	IsAvailable bool             `json:"isAvailable"`
	DayStart    *string          `json:"dayStart,omitempty"`
	DayEnd      *string          `json:"dayEnd,omitempty"`
	Windows     []WindowResponse `json:"windows,omitempty"`
}

// ScheduleResponse недельное расписание услуги
type ScheduleResponse struct {
	ServiceID int64           `json:"serviceId"`
	Rules     []*RuleResponse `json:"rules"`
}

// BlackoutResponse блокировка даты
type BlackoutResponse struct {
	ID        int64   `json:"id"`
	Date      string  `json:"date"`
	ServiceID *int64  `json:"serviceId,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

// BlackoutListResponse список блокировок
type BlackoutListResponse struct {
	Blackouts []*BlackoutResponse `json:"blackouts"`
}

// FromDomainRule конвертирует domain правило в ответ
func FromDomainRule(rule *domain.WeeklyAvailabilityRule) *RuleResponse {
	resp := &RuleResponse{
		ID:          rule.ID,
		ServiceID:   rule.ServiceID,
		Weekday:     rule.Weekday,
		IsAvailable: rule.IsAvailable,
	}
	if rule.DayStart != nil {
		s := rule.DayStart.String()
		resp.DayStart = &s
	}
	if rule.DayEnd != nil {
		s := rule.DayEnd.String()
		resp.DayEnd = &s
	}
	for _, w := range rule.Windows {
		resp.Windows = append(resp.Windows, WindowResponse{Start: w.Start.String(), End: w.End.String()})
	}
	return resp
}

// FromDomainRules конвертирует список правил в ответ расписания
func FromDomainRules(serviceID int64, rules []*domain.WeeklyAvailabilityRule) *ScheduleResponse {
	resp := &ScheduleResponse{ServiceID: serviceID, Rules: make([]*RuleResponse, 0, len(rules))}
	for _, rule := range rules {
		resp.Rules = append(resp.Rules, FromDomainRule(rule))
	}
	return resp
}

// FromDomainBlackout конвертирует domain блокировку в ответ
func FromDomainBlackout(b *domain.DateBlackout) *BlackoutResponse {
	return &BlackoutResponse{
		ID:        b.ID,
		Date:      b.Date.Format(domain.DateFormat),
		ServiceID: b.ServiceID,
		Reason:    b.Reason,
	}
}

// FromDomainBlackoutList конвертирует список блокировок в ответ
func FromDomainBlackoutList(blackouts []*domain.DateBlackout) *BlackoutListResponse {
	resp := &BlackoutListResponse{Blackouts: make([]*BlackoutResponse, 0, len(blackouts))}
	for _, b := range blackouts {
		resp.Blackouts = append(resp.Blackouts, FromDomainBlackout(b))
	}
	return resp
}

// ParseDate парсит дату из запроса
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, s, time.Local)
}
