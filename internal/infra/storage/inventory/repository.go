package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	"github.com/bindrop/BDR-RentalService/pkg/dbmetrics"
	"github.com/bindrop/BDR-RentalService/pkg/psqlbuilder"
)

// Repository репозиторий инвентаря и удержаний оборудования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория инвентаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetItems получает все типы оборудования с общим количеством
func (r *Repository) GetItems(ctx context.Context) ([]*domain.InventoryItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("equipment_type", "total_owned", "updated_at").
		From("inventory_items").
		OrderBy("equipment_type ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.InventoryItem, 0)
	for rows.Next() {
		var item domain.InventoryItem
		var updatedAt sql.NullTime
		if err := rows.Scan(&item.EquipmentType, &item.TotalOwned, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetItems - scan item: %v", ErrScanRow, err)
		}
		item.UpdatedAt = updatedAt.Time
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetItems - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}

// GetItem получает тип оборудования по коду
// Внутри транзакции блокирует строку (FOR UPDATE): удержание
// выполняется как check-then-write под этой блокировкой
func (r *Repository) GetItem(ctx context.Context, equipmentType string) (*domain.InventoryItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("equipment_type", "total_owned", "updated_at").
		From("inventory_items").
		Where(squirrel.Eq{"equipment_type": equipmentType})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetItem - build select query: %v", ErrBuildQuery, err)
	}

	var item domain.InventoryItem
	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&item.EquipmentType, &item.TotalOwned, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetItem - scan item: %v", ErrScanRow, err)
	}
	item.UpdatedAt = updatedAt.Time

	return &item, nil
}

// SetTotalOwned устанавливает общее количество единиц типа оборудования
func (r *Repository) SetTotalOwned(ctx context.Context, equipmentType string, total int) (*domain.InventoryItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("inventory_items").
		Columns("equipment_type", "total_owned").
		Values(equipmentType, total).
		Suffix(`ON CONFLICT (equipment_type) DO UPDATE SET
			total_owned = EXCLUDED.total_owned,
			updated_at = NOW()
		RETURNING equipment_type, total_owned, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SetTotalOwned - build upsert query: %v", ErrBuildQuery, err)
	}

	var item domain.InventoryItem
	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&item.EquipmentType, &item.TotalOwned, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: SetTotalOwned - execute upsert: %v", ErrExecQuery, err)
	}
	item.UpdatedAt = updatedAt.Time

	return &item, nil
}

// HeldQuantity суммарное количество единиц типа, удерживаемых
// активными бронированиями, период аренды которых пересекается
// с [from, to]
// Терминальные бронирования и возвращенные позиции не учитываются
func (r *Repository) HeldQuantity(ctx context.Context, equipmentType string, from, to time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	terminal := make([]string, len(domain.TerminalStatuses))
	for i, s := range domain.TerminalStatuses {
		terminal[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("COALESCE(SUM(l.quantity), 0)").
		From("booking_equipment_links l").
		Join("bookings b ON b.id = l.booking_id").
		Where(squirrel.Eq{"l.equipment_type": equipmentType}).
		Where(squirrel.Eq{"l.returned_at": nil}).
		Where(squirrel.NotEq{"b.status": terminal}).
		Where(squirrel.LtOrEq{"b.dropoff_date": to}).
		Where(squirrel.GtOrEq{"b.pickup_date": from}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: HeldQuantity - build select query: %v", ErrBuildQuery, err)
	}

	var held int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&held); err != nil {
		return 0, fmt.Errorf("%w: HeldQuantity - scan sum: %v", ErrScanRow, err)
	}

	return held, nil
}

// CreateLink записывает удержание оборудования бронированием
// Проверка остатка выполняется вызывающим под блокировкой GetItem
// в той же транзакции
func (r *Repository) CreateLink(ctx context.Context, link *domain.EquipmentLink) (*domain.EquipmentLink, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_equipment_links").
		Columns("booking_id", "equipment_type", "quantity").
		Values(link.BookingID, link.EquipmentType, link.Quantity).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateLink - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&link.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateLink - execute insert: %v", ErrExecQuery, err)
	}
	link.CreatedAt = createdAt.Time

	return link, nil
}

// GetLinksByBooking получает все удержания бронирования
func (r *Repository) GetLinksByBooking(ctx context.Context, bookingID int64) ([]*domain.EquipmentLink, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"equipment_type",
		"quantity",
		"returned_at",
		"created_at",
	).
		From("booking_equipment_links").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetLinksByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetLinksByBooking - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	links := make([]*domain.EquipmentLink, 0)
	for rows.Next() {
		var link domain.EquipmentLink
		var createdAt sql.NullTime
		err := rows.Scan(&link.ID, &link.BookingID, &link.EquipmentType, &link.Quantity, &link.ReturnedAt, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("%w: GetLinksByBooking - scan link: %v", ErrScanRow, err)
		}
		link.CreatedAt = createdAt.Time
		links = append(links, &link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetLinksByBooking - rows error: %v", ErrScanRow, err)
	}

	return links, nil
}

// ReleaseLink снимает удержание: проставляет returned_at
// После снятия единицы сразу доступны новым удержаниям
func (r *Repository) ReleaseLink(ctx context.Context, bookingID int64, equipmentType string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_equipment_links").
		Set("returned_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.Eq{"equipment_type": equipmentType}).
		Where(squirrel.Eq{"returned_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseLink - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReleaseLink - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ReleaseLink - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrLinkNotFound
	}

	return nil
}

// ReleaseAllForBooking снимает все активные удержания бронирования
// Вызывается при отмене: инвентарь освобождается немедленно
func (r *Repository) ReleaseAllForBooking(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_equipment_links").
		Set("returned_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.Eq{"returned_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseAllForBooking - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseAllForBooking - execute update: %v", ErrExecQuery, err)
	}

	return nil
}
