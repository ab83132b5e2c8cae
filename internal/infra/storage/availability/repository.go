package availability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	"github.com/bindrop/BDR-RentalService/pkg/dbmetrics"
	"github.com/bindrop/BDR-RentalService/pkg/psqlbuilder"
	"github.com/bindrop/BDR-RentalService/pkg/types"
)

// Repository репозиторий недельных правил расписания и блокировок дат
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetRulesByService получает все недельные правила услуги (0-7 строк)
// вместе с окнами, упорядоченными хронологически
func (r *Repository) GetRulesByService(ctx context.Context, serviceID int64) ([]*domain.WeeklyAvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"service_id",
		"weekday",
		"is_available",
		"day_start",
		"day_end",
		"created_at",
		"updated_at",
	).
		From("service_weekly_rules").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRulesByService - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRulesByService - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.WeeklyAvailabilityRule, 0)
	ruleIDs := make([]int64, 0)

	for rows.Next() {
		var rule domain.WeeklyAvailabilityRule
		var dayStart, dayEnd sql.NullString
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.ServiceID,
			&rule.Weekday,
			&rule.IsAvailable,
			&dayStart,
			&dayEnd,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetRulesByService - scan rule: %v", ErrScanRow, err)
		}

		if dayStart.Valid {
			ts, err := types.NewTimeStringFromString(dayStart.String)
			if err != nil {
				return nil, fmt.Errorf("%w: GetRulesByService - parse day_start: %v", ErrScanRow, err)
			}
			rule.DayStart = &ts
		}
		if dayEnd.Valid {
			ts, err := types.NewTimeStringFromString(dayEnd.String)
			if err != nil {
				return nil, fmt.Errorf("%w: GetRulesByService - parse day_end: %v", ErrScanRow, err)
			}
			rule.DayEnd = &ts
		}

		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time

		rules = append(rules, &rule)
		ruleIDs = append(ruleIDs, rule.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRulesByService - rows error: %v", ErrScanRow, err)
	}

	if len(rules) == 0 {
		return rules, nil
	}

	// Дозагружаем окна одним запросом, раскладываем по правилам
	windows, err := r.getWindowsByRuleIDs(ctx, executor, ruleIDs)
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		rule.Windows = windows[rule.ID]
	}

	return rules, nil
}

func (r *Repository) getWindowsByRuleIDs(ctx context.Context, executor DBExecutor, ruleIDs []int64) (map[int64][]domain.TimeWindow, error) {
	query, args, err := psqlbuilder.Select(
		"rule_id",
		"start_time",
		"end_time",
	).
		From("service_time_windows").
		Where(squirrel.Eq{"rule_id": ruleIDs}).
		OrderBy("rule_id ASC, position ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getWindowsByRuleIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getWindowsByRuleIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.TimeWindow)
	for rows.Next() {
		var ruleID int64
		var start, end string
		if err := rows.Scan(&ruleID, &start, &end); err != nil {
			return nil, fmt.Errorf("%w: getWindowsByRuleIDs - scan window: %v", ErrScanRow, err)
		}

		startTS, err := types.NewTimeStringFromString(start)
		if err != nil {
			return nil, fmt.Errorf("%w: getWindowsByRuleIDs - parse start_time: %v", ErrScanRow, err)
		}
		endTS, err := types.NewTimeStringFromString(end)
		if err != nil {
			return nil, fmt.Errorf("%w: getWindowsByRuleIDs - parse end_time: %v", ErrScanRow, err)
		}

		result[ruleID] = append(result[ruleID], domain.TimeWindow{Start: startTS, End: endTS})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getWindowsByRuleIDs - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// UpsertRule создает или обновляет правило (service, weekday)
// Окна перезаписываются целиком вместе с правилом
func (r *Repository) UpsertRule(ctx context.Context, rule *domain.WeeklyAvailabilityRule) (*domain.WeeklyAvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var dayStart, dayEnd interface{}
	if rule.DayStart != nil {
		dayStart = rule.DayStart.String()
	}
	if rule.DayEnd != nil {
		dayEnd = rule.DayEnd.String()
	}

	query, args, err := psqlbuilder.Insert("service_weekly_rules").
		Columns("service_id", "weekday", "is_available", "day_start", "day_end").
		Values(rule.ServiceID, rule.Weekday, rule.IsAvailable, dayStart, dayEnd).
		Suffix(`ON CONFLICT (service_id, weekday) DO UPDATE SET
			is_available = EXCLUDED.is_available,
			day_start = EXCLUDED.day_start,
			day_end = EXCLUDED.day_end,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - execute insert: %v", ErrExecQuery, err)
	}
	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	// Перезаписываем окна
	delQuery, delArgs, err := psqlbuilder.Delete("service_time_windows").
		Where(squirrel.Eq{"rule_id": rule.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - build delete windows query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, delQuery, delArgs...); err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - delete windows: %v", ErrExecQuery, err)
	}

	for i, w := range rule.Windows {
		insQuery, insArgs, err := psqlbuilder.Insert("service_time_windows").
			Columns("rule_id", "start_time", "end_time", "position").
			Values(rule.ID, w.Start.String(), w.End.String(), i).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: UpsertRule - build insert window query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, insQuery, insArgs...); err != nil {
			return nil, fmt.Errorf("%w: UpsertRule - insert window: %v", ErrExecQuery, err)
		}
	}

	return rule, nil
}

// GetBlackouts получает блокировки, действующие на услугу в диапазоне дат
// Включает глобальные блокировки (service_id IS NULL)
func (r *Repository) GetBlackouts(ctx context.Context, serviceID int64, from, to time.Time) ([]*domain.DateBlackout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"blackout_date",
		"service_id",
		"reason",
		"created_at",
	).
		From("date_blackouts").
		Where(squirrel.GtOrEq{"blackout_date": from}).
		Where(squirrel.LtOrEq{"blackout_date": to}).
		Where(squirrel.Or{
			squirrel.Eq{"service_id": serviceID},
			squirrel.Eq{"service_id": nil},
		}).
		OrderBy("blackout_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlackouts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlackouts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blackouts := make([]*domain.DateBlackout, 0)
	for rows.Next() {
		var b domain.DateBlackout
		var createdAt sql.NullTime
		if err := rows.Scan(&b.ID, &b.Date, &b.ServiceID, &b.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetBlackouts - scan blackout: %v", ErrScanRow, err)
		}
		b.CreatedAt = createdAt.Time
		blackouts = append(blackouts, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlackouts - rows error: %v", ErrScanRow, err)
	}

	return blackouts, nil
}

// CreateBlackout создает блокировку даты
// serviceID == nil блокирует дату для всех услуг
func (r *Repository) CreateBlackout(ctx context.Context, blackout *domain.DateBlackout) (*domain.DateBlackout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("date_blackouts").
		Columns("blackout_date", "service_id", "reason").
		Values(blackout.Date, blackout.ServiceID, blackout.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlackout - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&blackout.ID, &createdAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%w: CreateBlackout - duplicate blackout: %v", ErrExecQuery, err)
		}
		return nil, fmt.Errorf("%w: CreateBlackout - execute insert: %v", ErrExecQuery, err)
	}
	blackout.CreatedAt = createdAt.Time

	return blackout, nil
}

// DeleteBlackout удаляет блокировку даты
func (r *Repository) DeleteBlackout(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("date_blackouts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBlackoutNotFound
	}

	return nil
}
