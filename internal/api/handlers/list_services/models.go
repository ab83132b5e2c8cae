package list_services

import (
	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// ServiceResponse HTTP response model услуги каталога
type ServiceResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PricingMode string `json:"pricingMode"`
	SlotMode    string `json:"slotMode"`
	RentalModel string `json:"rentalModel"`

	BasePrice        string `json:"basePrice"`
	DailyRate        string `json:"dailyRate"`
	WeeklyPrice      string `json:"weeklyPrice"`
	InsuranceFee     string `json:"insuranceFee"`
	DrivewayBoardFee string `json:"drivewayBoardFee"`

	InsuranceEligible bool `json:"insuranceEligible"`
	DrivewayEligible  bool `json:"drivewayEligible"`
}

// EquipmentTypeResponse HTTP response model типа оборудования
type EquipmentTypeResponse struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	PerUnitFee string `json:"perUnitFee"`
}

// CatalogResponse каталог услуг и оборудования
type CatalogResponse struct {
	Services  []*ServiceResponse       `json:"services"`
	Equipment []*EquipmentTypeResponse `json:"equipment"`
}

// FromDomainCatalog конвертирует каталог в HTTP response
func FromDomainCatalog(services []*domain.Service, equipment []*domain.EquipmentType) *CatalogResponse {
	resp := &CatalogResponse{
		Services:  make([]*ServiceResponse, 0, len(services)),
		Equipment: make([]*EquipmentTypeResponse, 0, len(equipment)),
	}
	for _, svc := range services {
		resp.Services = append(resp.Services, &ServiceResponse{
			ID:                svc.ID,
			Name:              svc.Name,
			PricingMode:       string(svc.PricingMode),
			SlotMode:          string(svc.SlotMode),
			RentalModel:       string(svc.RentalModel),
			BasePrice:         svc.BasePrice.StringFixed(2),
			DailyRate:         svc.DailyRate.StringFixed(2),
			WeeklyPrice:       svc.WeeklyPrice.StringFixed(2),
			InsuranceFee:      svc.InsuranceFee.StringFixed(2),
			DrivewayBoardFee:  svc.DrivewayBoardFee.StringFixed(2),
			InsuranceEligible: svc.InsuranceEligible,
			DrivewayEligible:  svc.DrivewayEligible,
		})
	}
	for _, eq := range equipment {
		resp.Equipment = append(resp.Equipment, &EquipmentTypeResponse{
			Code:       eq.Code,
			Name:       eq.Name,
			PerUnitFee: eq.PerUnitFee.StringFixed(2),
		})
	}
	return resp
}
