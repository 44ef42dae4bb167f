package portfolio

import "context"

type PortfolioServiceAPI interface {
	Create(input PortfolioInput) (*Portfolio, error)
	Update(id uint, input PortfolioInput) (*Portfolio, error)
	GetByID(id uint) (*Portfolio, error)
	ExistsByID(id uint) (bool, error)
	List() ([]Portfolio, error)
	ListPublished(types []string) ([]Portfolio, error)
	Delete(ctx context.Context, id uint) error
	Upsert(p *Portfolio) (bool, error)
}

var _ PortfolioServiceAPI = (*PortfolioService)(nil)
