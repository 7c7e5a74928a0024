package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/pantry/internal/db"
	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/repository"
)

// FulfillRequest names the materials to fulfill on behalf of UserID.
type FulfillRequest struct {
	UserID      string   `json:"-"`
	MaterialIDs []string `json:"material_ids"`
}

// InventoryAdjustment records one decrement applied by a fulfillment.
type InventoryAdjustment struct {
	MaterialID string  `json:"material_id"`
	ItemID     string  `json:"item_id"`
	ItemName   string  `json:"item_name"`
	Unit       string  `json:"unit"`
	Before     float64 `json:"before"`
	After      float64 `json:"after"`
}

// FulfillResult reports a fulfillment batch. Requested lists every id the
// caller asked for; Fulfilled only those updated by this call. Skipped ids
// were already fulfilled or do not exist.
type FulfillResult struct {
	Requested   []string              `json:"requested"`
	Fulfilled   []string              `json:"fulfilled"`
	Skipped     []string              `json:"skipped"`
	Adjustments []InventoryAdjustment `json:"adjustments"`
}

type fulfillmentService struct {
	projects    repository.ProjectRepo
	subprojects repository.SubprojectRepo
	materials   repository.MaterialRepo
	uow         db.UnitOfWork
	dialect     db.Dialect
	observer    UseCaseObserver
}

func NewFulfillmentService(
	projects repository.ProjectRepo,
	subprojects repository.SubprojectRepo,
	materials repository.MaterialRepo,
	uow db.UnitOfWork,
	dialect db.Dialect,
	observers ...UseCaseObserver,
) FulfillmentService {
	return &fulfillmentService{
		projects:    projects,
		subprojects: subprojects,
		materials:   materials,
		uow:         uow,
		dialect:     dialect,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// Fulfill decrements inventory for each pending material and flags it
// fulfilled, one material at a time in creation order. The first material
// whose item cannot cover it aborts the batch with an
// *domain.InsufficientQuantityError; materials handled before it stay
// fulfilled and the partial result is returned with the error.
func (s *fulfillmentService) Fulfill(ctx context.Context, req FulfillRequest) (result *FulfillResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"requested": len(req.MaterialIDs)}
	defer observe(ctx, s.observer, "fulfill-materials", startedAt, fields, &err)

	if err := requireUser(req.UserID); err != nil {
		return nil, err
	}
	ids := dedupe(req.MaterialIDs)
	if len(ids) == 0 {
		return nil, domain.ErrNoMaterialIDs
	}

	pending, err := s.materials.ListPending(ctx, req.UserID, ids)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		n, err := s.materials.CountExisting(ctx, req.UserID, ids)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, domain.ErrNoMaterialsToFulfill
		}
	}

	result = &FulfillResult{Requested: ids}
	isPending := make(map[string]bool, len(pending))
	for _, m := range pending {
		isPending[m.ID] = true
	}
	for _, id := range ids {
		if !isPending[id] {
			result.Skipped = append(result.Skipped, id)
		}
	}

	for _, m := range pending {
		adj, claimed, err := s.fulfillOne(ctx, m)
		if err != nil {
			fields["fulfilled"] = len(result.Fulfilled)
			return result, fmt.Errorf("fulfilling material %s: %w", domain.ShortID(m.ID), err)
		}
		if !claimed {
			result.Skipped = append(result.Skipped, m.ID)
			continue
		}
		result.Fulfilled = append(result.Fulfilled, m.ID)
		result.Adjustments = append(result.Adjustments, adj)
	}

	fields["fulfilled"] = len(result.Fulfilled)
	fields["skipped"] = len(result.Skipped)
	return result, nil
}

// fulfillOne claims the material and decrements its item inside one
// transaction. It reports claimed=false when another caller fulfilled the
// material first.
func (s *fulfillmentService) fulfillOne(ctx context.Context, m domain.MaterialWithItem) (InventoryAdjustment, bool, error) {
	var (
		adj     InventoryAdjustment
		claimed bool
	)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMaterials := repository.NewSQLMaterialRepo(tx, s.dialect)
		txInventory := repository.NewSQLInventoryRepo(tx, s.dialect)

		ok, err := txMaterials.MarkFulfilled(ctx, m.ID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		item, err := txInventory.GetByID(ctx, m.InventoryItemID)
		if err != nil {
			return err
		}
		insufficient := &domain.InsufficientQuantityError{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Available: item.Quantity,
			Needed:    m.QuantityNeeded,
		}
		if item.Quantity-m.QuantityNeeded < 0 {
			return insufficient
		}
		decremented, err := txInventory.Decrement(ctx, item.ID, m.QuantityNeeded)
		if err != nil {
			return err
		}
		if !decremented {
			return insufficient
		}

		claimed = true
		adj = InventoryAdjustment{
			MaterialID: m.ID,
			ItemID:     item.ID,
			ItemName:   item.Name,
			Unit:       item.Unit,
			Before:     item.Quantity,
			After:      item.Quantity - m.QuantityNeeded,
		}
		return nil
	})
	if err != nil {
		return InventoryAdjustment{}, false, err
	}
	return adj, claimed, nil
}

// FulfillProject fulfills every pending material of a project the caller
// owns, direct materials first, then each subproject's in order.
func (s *fulfillmentService) FulfillProject(ctx context.Context, userID, projectID string) (*FulfillResult, error) {
	p, err := ownedProject(ctx, s.projects, userID, projectID)
	if err != nil {
		return nil, err
	}
	detail, err := loadDetail(ctx, p, s.subprojects, s.materials)
	if err != nil {
		return nil, err
	}
	ids := detail.PendingMaterialIDs()
	if len(ids) == 0 {
		return nil, domain.ErrNoMaterialsToFulfill
	}
	return s.Fulfill(ctx, FulfillRequest{UserID: userID, MaterialIDs: ids})
}

func (s *fulfillmentService) ResolveMaterialID(ctx context.Context, userID, input string) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	return resolvePrefix(ctx, input, func(ctx context.Context, prefix string) ([]string, error) {
		return s.materials.MatchIDPrefix(ctx, userID, prefix)
	}, domain.ErrMaterialNotFound)
}
