package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	"github.com/bindrop/BDR-RentalService/pkg/dbmetrics"
	"github.com/bindrop/BDR-RentalService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"id",
	"customer_id",
	"service_id",
	"dropoff_date",
	"dropoff_start",
	"dropoff_end",
	"pickup_date",
	"pickup_start",
	"pickup_end",
	"total_price",
	"insurance_accepted",
	"driveway_boards",
	"notes",
	"distance_miles",
	"distance_fee",
	"status",
	"plate_number",
	"license_front_url",
	"license_back_url",
	"skip_reason",
	"manually_verified",
	"payment_session_id",
	"charge_id",
	"delivered_at",
	"rented_out_at",
	"picked_up_at",
	"returned_at",
	"cancellation_reason",
	"cancellation_fee",
	"refund_amount",
	"refund_reason",
	"refund_id",
	"refunded_at",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её;
// при оформлении вызывается внутри сериализуемой транзакции вместе
// с проверкой слота и удержанием инвентаря
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var distMiles, distFee interface{}
	if b.Distance != nil {
		distMiles = b.Distance.Miles
		distFee = b.Distance.Fee
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"customer_id",
			"service_id",
			"dropoff_date",
			"dropoff_start",
			"dropoff_end",
			"pickup_date",
			"pickup_start",
			"pickup_end",
			"total_price",
			"insurance_accepted",
			"driveway_boards",
			"notes",
			"distance_miles",
			"distance_fee",
			"status",
			"plate_number",
			"license_front_url",
			"license_back_url",
			"skip_reason",
			"payment_session_id",
		).
		Values(
			b.CustomerID,
			b.ServiceID,
			b.DropOffDate,
			b.DropOffSlot.Start,
			b.DropOffSlot.End,
			b.PickupDate,
			b.PickupSlot.Start,
			b.PickupSlot.End,
			b.TotalPrice,
			b.InsuranceAccepted,
			b.DrivewayBoards,
			b.Notes,
			distMiles,
			distFee,
			b.Status,
			b.Verification.PlateNumber,
			b.Verification.LicenseFrontURL,
			b.Verification.LicenseBackURL,
			b.Verification.SkipReason,
			b.PaymentSessionID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetByCustomerID получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("dropoff_date DESC, created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetActiveByServiceInRange получает активные бронирования услуги,
// период аренды которых пересекается с [from, to]
// Внутри транзакции добавляет FOR UPDATE для блокировки строк
// (используется при создании бронирования для защиты от гонки)
func (r *Repository) GetActiveByServiceInRange(ctx context.Context, serviceID int64, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	terminal := make([]string, len(domain.TerminalStatuses))
	for i, s := range domain.TerminalStatuses {
		terminal[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.LtOrEq{"dropoff_date": to}).
		Where(squirrel.GtOrEq{"pickup_date": from}).
		Where(squirrel.NotEq{"status": terminal}).
		OrderBy("dropoff_date ASC, dropoff_start ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByServiceInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByServiceInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatusIf условно переводит бронирование из from в to,
// проставляя сопутствующие отметки времени
// Возвращает ErrStaleState, если бронирование уже не в статусе from:
// два конкурентных перехода не могут примениться оба
func (r *Repository) UpdateStatusIf(ctx context.Context, id int64, from, to domain.BookingStatus, stamps *domain.StatusStamps) error {
	if !domain.IsValidStatus(to) {
		return ErrInvalidStatus
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from})

	if stamps != nil {
		if stamps.DeliveredAt != nil {
			updateBuilder = updateBuilder.Set("delivered_at", *stamps.DeliveredAt)
		}
		if stamps.RentedOutAt != nil {
			updateBuilder = updateBuilder.Set("rented_out_at", *stamps.RentedOutAt)
		}
		if stamps.PickedUpAt != nil {
			updateBuilder = updateBuilder.Set("picked_up_at", *stamps.PickedUpAt)
		}
		if stamps.ReturnedAt != nil {
			updateBuilder = updateBuilder.Set("returned_at", *stamps.ReturnedAt)
		}
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusIf - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusIf - execute update: %v", ErrExecQuery, err)
	}

	return staleIfNoRows(result, "UpdateStatusIf")
}

// ApproveIf подтверждает бронирование из pending_review,
// проставляя флаг ручной верификации
func (r *Repository) ApproveIf(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusConfirmed).
		Set("manually_verified", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusPendingReview}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ApproveIf - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ApproveIf - execute update: %v", ErrExecQuery, err)
	}

	return staleIfNoRows(result, "ApproveIf")
}

// CancelIf условно отменяет бронирование с записью возврата
// Вызывается ПОСЛЕ успешного внешнего возврата денег; ожидаемый
// исходный статус защищает от двойной отмены
// refund == nil для бронирований, которые не успели оплатить
func (r *Repository) CancelIf(ctx context.Context, id int64, from domain.BookingStatus, reason string, adminFee decimal.Decimal, refund *domain.RefundRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancellation_fee", adminFee).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from})

	if refund != nil {
		builder = builder.
			Set("refund_amount", refund.Amount).
			Set("refund_reason", refund.Reason).
			Set("refund_id", refund.RefundID).
			Set("refunded_at", refund.RefundedAt)
	}

	query, args, err := builder.ToSql()

	if err != nil {
		return fmt.Errorf("%w: CancelIf - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CancelIf - execute update: %v", ErrExecQuery, err)
	}

	return staleIfNoRows(result, "CancelIf")
}

// ExtendIf условно сдвигает дату возврата вперед
// Вызывается ПОСЛЕ успешного списания за продление; ожидаемый статус
// защищает от продления завершенной аренды
// total_price не меняется: плата за продление уже списана и в базу
// возврата при отмене не входит
func (r *Repository) ExtendIf(ctx context.Context, id int64, from domain.BookingStatus, newPickupDate time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("pickup_date", newPickupDate).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ExtendIf - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ExtendIf - execute update: %v", ErrExecQuery, err)
	}

	return staleIfNoRows(result, "ExtendIf")
}

// SetChargeID сохраняет идентификатор платежа после подтверждения
func (r *Repository) SetChargeID(ctx context.Context, id int64, chargeID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("charge_id", chargeID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetChargeID - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetChargeID - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetChargeID - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// SetPaymentSession сохраняет идентификатор платежной сессии
func (r *Repository) SetPaymentSession(ctx context.Context, id int64, sessionID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_session_id", sessionID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetPaymentSession - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetPaymentSession - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentSession - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// AddFee записывает дополнительное списание по бронированию
func (r *Repository) AddFee(ctx context.Context, fee *domain.AppliedFee) (*domain.AppliedFee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_fees").
		Columns("booking_id", "description", "amount", "charge_id").
		Values(fee.BookingID, fee.Description, fee.Amount, fee.ChargeID).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddFee - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&fee.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: AddFee - execute insert: %v", ErrExecQuery, err)
	}
	fee.CreatedAt = createdAt.Time

	return fee, nil
}

// AddReturnIssue записывает проваленный пункт чек-листа возврата
func (r *Repository) AddReturnIssue(ctx context.Context, issue *domain.ReturnIssue) (*domain.ReturnIssue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var fee interface{}
	if issue.FeeCharged != nil {
		fee = *issue.FeeCharged
	}

	query, args, err := psqlbuilder.Insert("booking_return_issues").
		Columns("booking_id", "item", "kind", "fee_charged", "fee_charge_id").
		Values(issue.BookingID, issue.Item, issue.Kind, fee, issue.FeeChargeID).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddReturnIssue - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&issue.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: AddReturnIssue - execute insert: %v", ErrExecQuery, err)
	}
	issue.CreatedAt = createdAt.Time

	return issue, nil
}

// GetReturnIssues получает пункты чек-листа, проваленные при возврате
func (r *Repository) GetReturnIssues(ctx context.Context, bookingID int64) ([]*domain.ReturnIssue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"item",
		"kind",
		"fee_charged",
		"fee_charge_id",
		"created_at",
	).
		From("booking_return_issues").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetReturnIssues - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetReturnIssues - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	issues := make([]*domain.ReturnIssue, 0)
	for rows.Next() {
		var issue domain.ReturnIssue
		var fee decimal.NullDecimal
		var createdAt sql.NullTime

		err := rows.Scan(&issue.ID, &issue.BookingID, &issue.Item, &issue.Kind, &fee, &issue.FeeChargeID, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("%w: GetReturnIssues - scan issue: %v", ErrScanRow, err)
		}
		if fee.Valid {
			issue.FeeCharged = &fee.Decimal
		}
		issue.CreatedAt = createdAt.Time
		issues = append(issues, &issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetReturnIssues - rows error: %v", ErrScanRow, err)
	}

	return issues, nil
}

// ListStalePendingPayment получает бронирования, зависшие в
// pending_payment дольше окна удержания
// Используется фоновым обходом; ничего не изменяет
func (r *Repository) ListStalePendingPayment(ctx context.Context, before time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusPendingPayment}).
		Where(squirrel.Lt{"created_at": before}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListStalePendingPayment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStalePendingPayment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Delete физически удаляет бронирование
// Только для явного административного удаления: нормальный жизненный
// цикл завершается статусом, а не удалением записи
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func staleIfNoRows(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var distMiles, distFee, cancelFee, refundAmount decimal.NullDecimal
	var refundReason, refundID sql.NullString
	var refundedAt sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.CustomerID,
		&b.ServiceID,
		&b.DropOffDate,
		&b.DropOffSlot.Start,
		&b.DropOffSlot.End,
		&b.PickupDate,
		&b.PickupSlot.Start,
		&b.PickupSlot.End,
		&b.TotalPrice,
		&b.InsuranceAccepted,
		&b.DrivewayBoards,
		&b.Notes,
		&distMiles,
		&distFee,
		&b.Status,
		&b.Verification.PlateNumber,
		&b.Verification.LicenseFrontURL,
		&b.Verification.LicenseBackURL,
		&b.Verification.SkipReason,
		&b.Verification.ManuallyVerified,
		&b.PaymentSessionID,
		&b.ChargeID,
		&b.DeliveredAt,
		&b.RentedOutAt,
		&b.PickedUpAt,
		&b.ReturnedAt,
		&b.CancellationReason,
		&cancelFee,
		&refundAmount,
		&refundReason,
		&refundID,
		&refundedAt,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if distMiles.Valid && distFee.Valid {
		b.Distance = &domain.DistanceSurcharge{Miles: distMiles.Decimal, Fee: distFee.Decimal}
	}
	if cancelFee.Valid {
		b.CancellationFee = &cancelFee.Decimal
	}
	if refundAmount.Valid {
		b.Refund = &domain.RefundRecord{
			Amount:     refundAmount.Decimal,
			Reason:     refundReason.String,
			RefundID:   refundID.String,
			RefundedAt: refundedAt.Time,
		}
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
