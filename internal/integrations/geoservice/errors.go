package geoservice

import "errors"

var (
	// ErrAddressNotFound возвращается, когда адрес не удалось геокодировать
	ErrAddressNotFound = errors.New("geoservice.client: address not found")
	// ErrOutOfServiceArea возвращается, когда адрес вне зоны обслуживания
	ErrOutOfServiceArea = errors.New("geoservice.client: address is out of service area")
	// ErrServiceDegraded возвращается при недоступности GeoService,
	// когда вызывающий может продолжить без надбавки за расстояние
	ErrServiceDegraded = errors.New("geoservice.client: service degraded")
	// ErrInternal внутренняя ошибка клиента
	ErrInternal = errors.New("geoservice.client: internal error")
	// ErrInvalidResponse некорректный ответ от сервиса
	ErrInvalidResponse = errors.New("geoservice.client: invalid response")
)
