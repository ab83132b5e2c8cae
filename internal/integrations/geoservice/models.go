package geoservice

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// DistanceRequest запрос на расчет расстояния до адреса доставки
type DistanceRequest struct {
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
}

// DistanceResult результат расчета расстояния от базы до адреса
type DistanceResult struct {
	Miles     float64 `json:"miles"`
	InArea    bool    `json:"in_area"`
	Formatted string  `json:"formatted_address"`
}
