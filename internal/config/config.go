package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// Config конфигурация сервиса, загружается из config.toml при старте
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Payments  IntegrationConfig `toml:"payments"`
	Geo       IntegrationConfig `toml:"geo"`
	Notify    IntegrationConfig `toml:"notify"`
	Files     IntegrationConfig `toml:"files"`
	Checkout  CheckoutConfig  `toml:"checkout"`
	Retention RetentionConfig `toml:"retention"`
	Catalog   CatalogConfig   `toml:"catalog"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к Postgres
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения к Postgres
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IntegrationConfig настройки клиента внешнего сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`

	// Политика поллинга подтверждения (используется платежным клиентом)
	ConfirmMaxAttempts    int `toml:"confirm_max_attempts"`
	ConfirmBackoffSeconds int `toml:"confirm_backoff_seconds"`
}

// CheckoutConfig адреса возврата после оплаты
type CheckoutConfig struct {
	SuccessURL string `toml:"success_url"`
	CancelURL  string `toml:"cancel_url"`
}

// RetentionConfig настройки фонового обхода зависших бронирований
type RetentionConfig struct {
	CronSpec            string `toml:"cron_spec"`
	PendingPaymentHours int    `toml:"pending_payment_hours"`
}

// CatalogConfig справочник услуг и оборудования
// Глобальное изменяемое состояние исходной системы заменено на
// конфиг, загружаемый один раз и передаваемый явно
type CatalogConfig struct {
	Services  []ServiceConfig   `toml:"services"`
	Equipment []EquipmentConfig `toml:"equipment"`
}

// ServiceConfig описание услуги в конфиге
type ServiceConfig struct {
	ID                   int64  `toml:"id"`
	Name                 string `toml:"name"`
	PricingMode          string `toml:"pricing_mode"`
	SlotMode             string `toml:"slot_mode"`
	RentalModel          string `toml:"rental_model"`
	BasePrice            string `toml:"base_price"`
	DailyRate            string `toml:"daily_rate"`
	WeeklyPrice          string `toml:"weekly_price"`
	InsuranceFee         string `toml:"insurance_fee"`
	DrivewayBoardFee     string `toml:"driveway_board_fee"`
	InsuranceEligible    bool   `toml:"insurance_eligible"`
	DrivewayEligible     bool   `toml:"driveway_eligible"`
	ChecklistCleanliness bool   `toml:"checklist_cleanliness"`
}

// EquipmentConfig описание типа оборудования в конфиге
type EquipmentConfig struct {
	Code       string `toml:"code"`
	Name       string `toml:"name"`
	PerUnitFee string `toml:"per_unit_fee"`
}

// Load загружает конфигурацию из toml файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return &cfg, nil
}

// BuildCatalog конвертирует каталог из конфига в доменные модели
func (c *CatalogConfig) BuildCatalog() ([]*domain.Service, []*domain.EquipmentType, error) {
	services := make([]*domain.Service, 0, len(c.Services))
	for _, sc := range c.Services {
		svc, err := sc.toDomain()
		if err != nil {
			return nil, nil, err
		}
		services = append(services, svc)
	}

	equipment := make([]*domain.EquipmentType, 0, len(c.Equipment))
	for _, ec := range c.Equipment {
		fee, err := parseMoney(ec.PerUnitFee)
		if err != nil {
			return nil, nil, fmt.Errorf("equipment %s: invalid per_unit_fee: %w", ec.Code, err)
		}
		equipment = append(equipment, &domain.EquipmentType{
			Code:       ec.Code,
			Name:       ec.Name,
			PerUnitFee: fee,
		})
	}

	return services, equipment, nil
}

func (sc *ServiceConfig) toDomain() (*domain.Service, error) {
	svc := &domain.Service{
		ID:                   sc.ID,
		Name:                 sc.Name,
		PricingMode:          domain.PricingMode(sc.PricingMode),
		SlotMode:             domain.SlotMode(sc.SlotMode),
		RentalModel:          domain.RentalModel(sc.RentalModel),
		InsuranceEligible:    sc.InsuranceEligible,
		DrivewayEligible:     sc.DrivewayEligible,
		ChecklistCleanliness: sc.ChecklistCleanliness,
	}

	var err error
	if svc.BasePrice, err = parseMoney(sc.BasePrice); err != nil {
		return nil, fmt.Errorf("service %d: invalid base_price: %w", sc.ID, err)
	}
	if svc.DailyRate, err = parseMoney(sc.DailyRate); err != nil {
		return nil, fmt.Errorf("service %d: invalid daily_rate: %w", sc.ID, err)
	}
	if svc.WeeklyPrice, err = parseMoney(sc.WeeklyPrice); err != nil {
		return nil, fmt.Errorf("service %d: invalid weekly_price: %w", sc.ID, err)
	}
	if svc.InsuranceFee, err = parseMoney(sc.InsuranceFee); err != nil {
		return nil, fmt.Errorf("service %d: invalid insurance_fee: %w", sc.ID, err)
	}
	if svc.DrivewayBoardFee, err = parseMoney(sc.DrivewayBoardFee); err != nil {
		return nil, fmt.Errorf("service %d: invalid driveway_board_fee: %w", sc.ID, err)
	}

	return svc, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
