package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// NoteRepository интерфейс репозитория заметок о клиентах
type NoteRepository interface {
	Create(ctx context.Context, note *domain.CustomerNote) (*domain.CustomerNote, error)
	GetByCustomerID(ctx context.Context, customerID int64) ([]*domain.CustomerNote, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Service заметки администраторов о клиентах
// Заметки живут независимо от бронирований и не удаляются вместе с ними
type Service struct {
	repo   NoteRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса заметок
func NewService(repo NoteRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// AddNote добавляет заметку о клиенте
func (s *Service) AddNote(ctx context.Context, customerID, authorID int64, text string) (*domain.CustomerNote, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: note text is empty", ErrInvalidInput)
	}

	note, err := s.repo.Create(ctx, &domain.CustomerNote{
		CustomerID: customerID,
		AuthorID:   authorID,
		Text:       text,
	})
	if err != nil {
		s.logger.Error("AddNote: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: AddNote - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddNote: created note id=%d for customer=%d", note.ID, customerID)
	return note, nil
}

// GetNotes возвращает заметки о клиенте, новые первыми
func (s *Service) GetNotes(ctx context.Context, customerID int64) ([]*domain.CustomerNote, error) {
	notes, err := s.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		s.logger.Error("GetNotes: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: GetNotes - repository error: %v", ErrInternal, err)
	}
	return notes, nil
}
