package upload_verification

import (
	"context"
	"io"

	"github.com/bindrop/BDR-RentalService/internal/integrations/fileservice"
)

// FileServiceClient интерфейс клиента файлового сервиса
type FileServiceClient interface {
	Upload(ctx context.Context, filename string, data io.Reader) (*fileservice.UploadResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
