package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/repository"
)

// InventoryItemInput carries the editable fields of an inventory item.
type InventoryItemInput struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Quantity    float64 `json:"quantity" yaml:"quantity"`
	Unit        string  `json:"unit" yaml:"unit"`
	UnitCost    float64 `json:"unit_cost" yaml:"unit_cost"`
}

type inventoryService struct {
	inventory repository.InventoryRepo
	observer  UseCaseObserver
}

func NewInventoryService(inventory repository.InventoryRepo, observers ...UseCaseObserver) InventoryService {
	return &inventoryService{inventory: inventory, observer: useCaseObserverOrNoop(observers)}
}

func (s *inventoryService) Create(ctx context.Context, userID string, in InventoryItemInput) (*domain.InventoryItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	item := &domain.InventoryItem{
		ID:        newID(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(item, in)
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.inventory.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) Get(ctx context.Context, userID, id string) (*domain.InventoryItem, error) {
	return s.owned(ctx, userID, id)
}

func (s *inventoryService) List(ctx context.Context, userID string) ([]*domain.InventoryItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.inventory.List(ctx, userID)
}

func (s *inventoryService) Update(ctx context.Context, userID, id string, in InventoryItemInput) (*domain.InventoryItem, error) {
	item, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	applyInput(item, in)
	item.UpdatedAt = time.Now().UTC()
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.inventory.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// SetQuantity overwrites the stock level. It does not check materials that
// still need the item.
func (s *inventoryService) SetQuantity(ctx context.Context, userID, id string, quantity float64) (item *domain.InventoryItem, err error) {
	startedAt := time.Now()
	fields := map[string]any{"item_id": id, "quantity": quantity}
	defer observe(ctx, s.observer, "set-inventory-quantity", startedAt, fields, &err)

	if quantity < 0 {
		return nil, domain.ErrNegativeQuantity
	}
	item, err = s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	fields["previous"] = item.Quantity
	if err := s.inventory.UpdateQuantity(ctx, id, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

func (s *inventoryService) Delete(ctx context.Context, userID, id string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "delete-inventory-item", startedAt, map[string]any{"item_id": id}, &err)

	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.inventory.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrReferenced) {
			return domain.ErrInventoryInUse
		}
		return fmt.Errorf("deleting inventory item: %w", err)
	}
	return nil
}

func (s *inventoryService) ResolveID(ctx context.Context, userID, input string) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	return resolvePrefix(ctx, input, func(ctx context.Context, prefix string) ([]string, error) {
		return s.inventory.MatchIDPrefix(ctx, userID, prefix)
	}, domain.ErrInventoryNotFound)
}

func (s *inventoryService) owned(ctx context.Context, userID, id string) (*domain.InventoryItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	item, err := s.inventory.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, domain.ErrInventoryNotFound
	}
	return item, nil
}

func applyInput(item *domain.InventoryItem, in InventoryItemInput) {
	item.Name = strings.TrimSpace(in.Name)
	item.Description = domain.OptionalString(in.Description)
	item.Quantity = in.Quantity
	item.Unit = strings.TrimSpace(in.Unit)
	item.UnitCost = in.UnitCost
}
