package add_customer_note

import (
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// AddNoteRequest HTTP request model
type AddNoteRequest struct {
	Text string `json:"text"`
}

// NoteResponse HTTP response model
type NoteResponse struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customerId"`
	AuthorID   int64  `json:"authorId"`
	Text       string `json:"text"`
	CreatedAt  string `json:"createdAt"`
}

// FromDomainNote конвертирует domain заметку в HTTP response
func FromDomainNote(note *domain.CustomerNote) *NoteResponse {
	return &NoteResponse{
		ID:         note.ID,
		CustomerID: note.CustomerID,
		AuthorID:   note.AuthorID,
		Text:       note.Text,
		CreatedAt:  note.CreatedAt.Format(time.RFC3339),
	}
}
