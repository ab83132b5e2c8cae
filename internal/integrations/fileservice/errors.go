package fileservice

import "errors"

var (
	// ErrFileTooLarge возвращается, когда файл превышает допустимый размер
	ErrFileTooLarge = errors.New("fileservice.client: file too large")
	// ErrUnsupportedFormat возвращается для недопустимого формата файла
	ErrUnsupportedFormat = errors.New("fileservice.client: unsupported format")
	// ErrInternal внутренняя ошибка клиента
	ErrInternal = errors.New("fileservice.client: internal error")
	// ErrInvalidResponse некорректный ответ от сервиса
	ErrInvalidResponse = errors.New("fileservice.client: invalid response")
)
