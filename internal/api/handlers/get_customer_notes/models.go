package get_customer_notes

import (
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// NoteResponse HTTP response model
type NoteResponse struct {
	ID        int64  `json:"id"`
	AuthorID  int64  `json:"authorId"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// NoteListResponse список заметок клиента
type NoteListResponse struct {
	CustomerID int64           `json:"customerId"`
	Notes      []*NoteResponse `json:"notes"`
}

// FromDomainNotes конвертирует domain заметки в HTTP response
func FromDomainNotes(customerID int64, notes []*domain.CustomerNote) *NoteListResponse {
	resp := &NoteListResponse{
		CustomerID: customerID,
		Notes:      make([]*NoteResponse, 0, len(notes)),
	}
	for _, note := range notes {
		resp.Notes = append(resp.Notes, &NoteResponse{
			ID:        note.ID,
			AuthorID:  note.AuthorID,
			Text:      note.Text,
			CreatedAt: note.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}
