package testutil

import (
	"context"
	"sync"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
)

// ProductRepo es un repository.ProductRepository en memoria.
type ProductRepo struct {
	mu       sync.Mutex
	Products map[string]*entity.Product
}

func NewProductRepo(products ...*entity.Product) *ProductRepo {
	r := &ProductRepo{Products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		r.Products[p.ID] = &cp
	}
	return r
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.Products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.Products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *ProductRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.Products {
		if p.CompanyID == companyID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.Products[p.ID] = &cp
	return nil
}

// ConversationRepo es un repository.ConversationRepository en memoria.
type ConversationRepo struct {
	mu            sync.Mutex
	Conversations map[string]*entity.Conversation
}

func NewConversationRepo(conversations ...*entity.Conversation) *ConversationRepo {
	r := &ConversationRepo{Conversations: make(map[string]*entity.Conversation)}
	for _, c := range conversations {
		cp := *c
		r.Conversations[c.ID] = &cp
	}
	return r
}

func (r *ConversationRepo) Create(_ context.Context, c *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.Conversations[c.ID] = &cp
	return nil
}

func (r *ConversationRepo) GetByID(_ context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.Conversations[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *ConversationRepo) List(_ context.Context, scope repository.Scope, limit, offset int) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Conversation
	for _, c := range r.Conversations {
		if matchesOwnerScope(c.CompanyID, c.VendedorID, scope) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *ConversationRepo) Update(_ context.Context, c *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.Conversations[c.ID] = &cp
	return nil
}

// ClientRepo es un repository.ClientRepository en memoria.
type ClientRepo struct {
	mu      sync.Mutex
	Clients map[string]*entity.Client
}

func NewClientRepo(clients ...*entity.Client) *ClientRepo {
	r := &ClientRepo{Clients: make(map[string]*entity.Client)}
	for _, c := range clients {
		cp := *c
		r.Clients[c.ID] = &cp
	}
	return r
}

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.Clients[c.ID] = &cp
	return nil
}

func (r *ClientRepo) List(_ context.Context, scope repository.Scope, limit, offset int) ([]*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Client
	for _, c := range r.Clients {
		vendedorID := c.VendedorID
		if matchesOwnerScope(c.CompanyID, &vendedorID, scope) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return paginate(out, limit, offset), nil
}

// matchesOwnerScope replica el filtro SQL de los repos de postgres para
// registros colgados de un vendedor.
func matchesOwnerScope(companyID string, ownerID *string, scope repository.Scope) bool {
	if scope.Nothing {
		return false
	}
	if scope.All {
		return true
	}
	if scope.CompanyID != "" && companyID != scope.CompanyID {
		return false
	}
	if len(scope.UserIDs) > 0 {
		if ownerID == nil {
			return false
		}
		for _, id := range scope.UserIDs {
			if id == *ownerID {
				return true
			}
		}
		return false
	}
	return true
}
