package upload_verification

import (
	"errors"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	"github.com/bindrop/BDR-RentalService/internal/integrations/fileservice"
)

const (
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidFile       = "не удалось прочитать файл из запроса"
	msgFileTooLarge      = "файл слишком большой"
	msgUnsupportedFormat = "неподдерживаемый формат файла"
	msgUploadFailed      = "не удалось загрузить файл"
)

// maxUploadBytes ограничивает размер фотографии верификации
const maxUploadBytes = 10 << 20

// UploadResponse HTTP response model
type UploadResponse struct {
	URL string `json:"url"`
}

type Handler struct {
	client FileServiceClient
	logger Logger
}

func NewHandler(client FileServiceClient, logger Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

// Handle POST /api/v1/verification/photos
// Принимает multipart/form-data с полем file
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /verification/photos - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.Warn("POST /verification/photos - Invalid file: user_id=%d, error=%v", customerID, err)
		handlers.RespondBadRequest(w, msgInvalidFile)
		return
	}
	defer file.Close()

	// Имя объекта уникально: клиентские имена файлов могут совпадать
	objectName := uuid.NewString() + path.Ext(header.Filename)

	result, err := h.client.Upload(r.Context(), objectName, file)
	if err != nil {
		switch {
		case errors.Is(err, fileservice.ErrFileTooLarge):
			h.logger.Warn("POST /verification/photos - File too large: user_id=%d, filename=%s",
				customerID, header.Filename)
			handlers.RespondError(w, http.StatusRequestEntityTooLarge, msgFileTooLarge)

		case errors.Is(err, fileservice.ErrUnsupportedFormat):
			h.logger.Warn("POST /verification/photos - Unsupported format: user_id=%d, filename=%s",
				customerID, header.Filename)
			handlers.RespondError(w, http.StatusUnsupportedMediaType, msgUnsupportedFormat)

		default:
			h.logger.Error("POST /verification/photos - Upload failed: user_id=%d, error=%v", customerID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgUploadFailed)
		}
		return
	}

	h.logger.Info("POST /verification/photos - Photo uploaded: user_id=%d, url=%s", customerID, result.URL)
	handlers.RespondJSON(w, http.StatusCreated, UploadResponse{URL: result.URL})
}
