package domain

import "time"

// CustomerNote свободная текстовая заметка о клиенте
// Живёт независимо от жизненного цикла бронирований
type CustomerNote struct {
	ID         int64
	CustomerID int64
	AuthorID   int64
	Text       string
	CreatedAt  time.Time
}
