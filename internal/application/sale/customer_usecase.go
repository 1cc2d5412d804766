package sale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/pharma-pos/internal/application/dto"
	"github.com/tu-usuario/pharma-pos/internal/domain"
	"github.com/tu-usuario/pharma-pos/internal/domain/entity"
	"github.com/tu-usuario/pharma-pos/internal/domain/repository"
)

// CustomerUseCase alta y listado de clientes de la farmacia.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(customerRepo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo}
}

// Create crea un cliente de la farmacia.
func (uc *CustomerUseCase) Create(ctx context.Context, pharmacyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if pharmacyID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c := &entity.Customer{
		ID:         uuid.New().String(),
		PharmacyID: pharmacyID,
		Name:       in.Name,
		Phone:      in.Phone,
		DebtLimit:  in.DebtLimit,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.customerRepo.Create(c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// List lista los clientes de la farmacia.
func (uc *CustomerUseCase) List(ctx context.Context, pharmacyID string, page dto.PageRequest) ([]dto.CustomerResponse, error) {
	if pharmacyID == "" {
		return nil, domain.ErrUnauthorized
	}
	page.DefaultPage()
	customers, err := uc.customerRepo.ListByPharmacy(pharmacyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, *toCustomerResponse(c))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:             c.ID,
		PharmacyID:     c.PharmacyID,
		Name:           c.Name,
		Phone:          c.Phone,
		IsCashCustomer: c.IsCashCustomer,
		DebtLimit:      c.DebtLimit,
	}
}
