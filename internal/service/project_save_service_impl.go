package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/repository"
)

// SaveResult describes the rows written by a project save.
type SaveResult struct {
	Project       *domain.Project `json:"project"`
	SubprojectIDs []string        `json:"subproject_ids"`
	MaterialCount int             `json:"material_count"`
}

type projectSaveService struct {
	projects    repository.ProjectRepo
	subprojects repository.SubprojectRepo
	materials   repository.MaterialRepo
	inventory   repository.InventoryRepo
	observer    UseCaseObserver
}

func NewProjectSaveService(
	projects repository.ProjectRepo,
	subprojects repository.SubprojectRepo,
	materials repository.MaterialRepo,
	inventory repository.InventoryRepo,
	observers ...UseCaseObserver,
) ProjectSaveService {
	return &projectSaveService{
		projects:    projects,
		subprojects: subprojects,
		materials:   materials,
		inventory:   inventory,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// Create inserts the project, its direct materials, its subprojects and then
// each subproject's materials. All materials start unfulfilled. Rows written
// before a failing step are kept.
func (s *projectSaveService) Create(ctx context.Context, userID string, form domain.ProjectForm) (result *SaveResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"subprojects": len(form.Subprojects), "materials": form.MaterialCount()}
	defer observe(ctx, s.observer, "create-project", startedAt, fields, &err)

	if err := s.validate(ctx, userID, &form); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:        newID(),
		UserID:    userID,
		CreatedAt: now,
	}
	applyForm(project, form, now)
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	fields["project_id"] = project.ID
	result = &SaveResult{Project: project}

	direct := buildMaterials(form.Materials, &project.ID, nil, false, now)
	if err := s.materials.CreateBatch(ctx, direct); err != nil {
		return result, fmt.Errorf("creating project materials: %w", err)
	}
	result.MaterialCount += len(direct)

	subs := make([]*domain.Subproject, len(form.Subprojects))
	for i, sf := range form.Subprojects {
		subs[i] = buildSubproject(project.ID, sf, now)
	}
	if err := s.subprojects.CreateBatch(ctx, subs); err != nil {
		return result, fmt.Errorf("creating subprojects: %w", err)
	}

	for i, sp := range subs {
		result.SubprojectIDs = append(result.SubprojectIDs, sp.ID)
		ms := buildMaterials(form.Subprojects[i].Materials, nil, &sp.ID, false, now)
		if err := s.materials.CreateBatch(ctx, ms); err != nil {
			return result, fmt.Errorf("creating materials for subproject %q: %w", sp.Name, err)
		}
		result.MaterialCount += len(ms)
	}
	return result, nil
}

// Update replaces the project's children with the form's contents:
// direct materials are deleted, the project row is updated, direct materials
// are reinserted, every subproject is deleted (cascading to its materials
// and files) and the form's subprojects are inserted with their materials.
// Fulfilled flags are taken from the form. Steps are not transactional.
func (s *projectSaveService) Update(ctx context.Context, userID, projectID string, form domain.ProjectForm) (result *SaveResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "subprojects": len(form.Subprojects), "materials": form.MaterialCount()}
	defer observe(ctx, s.observer, "update-project", startedAt, fields, &err)

	if err := s.validate(ctx, userID, &form); err != nil {
		return nil, err
	}
	project, err := ownedProject(ctx, s.projects, userID, projectID)
	if err != nil {
		return nil, err
	}

	if _, err := s.materials.DeleteDirectByProject(ctx, project.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	applyForm(project, form, now)
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	result = &SaveResult{Project: project}

	direct := buildMaterials(form.Materials, &project.ID, nil, true, now)
	if err := s.materials.CreateBatch(ctx, direct); err != nil {
		return result, fmt.Errorf("recreating project materials: %w", err)
	}
	result.MaterialCount += len(direct)

	if _, err := s.subprojects.DeleteByProject(ctx, project.ID); err != nil {
		return result, err
	}

	for _, sf := range form.Subprojects {
		sp := buildSubproject(project.ID, sf, now)
		if err := s.subprojects.Create(ctx, sp); err != nil {
			return result, fmt.Errorf("recreating subproject %q: %w", sp.Name, err)
		}
		result.SubprojectIDs = append(result.SubprojectIDs, sp.ID)

		ms := buildMaterials(sf.Materials, nil, &sp.ID, true, now)
		if err := s.materials.CreateBatch(ctx, ms); err != nil {
			return result, fmt.Errorf("recreating materials for subproject %q: %w", sp.Name, err)
		}
		result.MaterialCount += len(ms)
	}
	return result, nil
}

// LoadForm rebuilds the editor state of a project the caller owns.
func (s *projectSaveService) LoadForm(ctx context.Context, userID, projectID string) (*domain.ProjectForm, error) {
	project, err := ownedProject(ctx, s.projects, userID, projectID)
	if err != nil {
		return nil, err
	}
	detail, err := loadDetail(ctx, project, s.subprojects, s.materials)
	if err != nil {
		return nil, err
	}

	form := &domain.ProjectForm{
		Name:          project.Name,
		Description:   domain.StringValue(project.Description),
		EstimatedTime: project.EstimatedTime,
		IsPublic:      project.IsPublic,
		Materials:     toMaterialList(detail.Materials),
	}
	for _, sp := range detail.Subprojects {
		form.Subprojects = append(form.Subprojects, domain.SubprojectForm{
			Name:          sp.Name,
			Description:   domain.StringValue(sp.Description),
			EstimatedTime: sp.EstimatedTime,
			OrderIndex:    sp.OrderIndex,
			Materials:     toMaterialList(sp.Materials),
		})
	}
	return form, nil
}

// validate checks the form and that every referenced inventory item belongs
// to the caller. It normalizes subproject order in place.
func (s *projectSaveService) validate(ctx context.Context, userID string, form *domain.ProjectForm) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}
	form.NormalizeOrder()

	if form.MaterialCount() == 0 {
		return nil
	}
	items, err := s.inventory.List(ctx, userID)
	if err != nil {
		return err
	}
	owned := make(map[string]bool, len(items))
	for _, item := range items {
		owned[item.ID] = true
	}
	check := func(list domain.MaterialList) error {
		for _, m := range list {
			if !owned[m.InventoryItemID] {
				return fmt.Errorf("%w: %s", domain.ErrInventoryNotFound, m.InventoryItemID)
			}
		}
		return nil
	}
	if err := check(form.Materials); err != nil {
		return err
	}
	for _, sf := range form.Subprojects {
		if err := check(sf.Materials); err != nil {
			return err
		}
	}
	return nil
}

func applyForm(p *domain.Project, form domain.ProjectForm, now time.Time) {
	p.Name = strings.TrimSpace(form.Name)
	p.Description = domain.OptionalString(form.Description)
	p.EstimatedTime = form.EstimatedTime
	p.IsPublic = form.IsPublic
	p.UpdatedAt = now
}

func buildSubproject(projectID string, sf domain.SubprojectForm, now time.Time) *domain.Subproject {
	return &domain.Subproject{
		ID:            newID(),
		ProjectID:     projectID,
		Name:          strings.TrimSpace(sf.Name),
		Description:   domain.OptionalString(sf.Description),
		EstimatedTime: sf.EstimatedTime,
		OrderIndex:    sf.OrderIndex,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func buildMaterials(list domain.MaterialList, projectID, subprojectID *string, keepFulfilled bool, now time.Time) []*domain.ProjectMaterial {
	out := make([]*domain.ProjectMaterial, 0, len(list))
	for _, m := range list {
		out = append(out, &domain.ProjectMaterial{
			ID:              newID(),
			ProjectID:       projectID,
			SubprojectID:    subprojectID,
			InventoryItemID: m.InventoryItemID,
			QuantityNeeded:  m.QuantityNeeded,
			IsFulfilled:     keepFulfilled && m.IsFulfilled,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return out
}

func toMaterialList(ms []domain.MaterialWithItem) domain.MaterialList {
	list := make(domain.MaterialList, 0, len(ms))
	for _, m := range ms {
		list = append(list, domain.MaterialForm{
			InventoryItemID: m.InventoryItemID,
			ItemName:        m.Item.Name,
			QuantityNeeded:  m.QuantityNeeded,
			IsFulfilled:     m.IsFulfilled,
		})
	}
	return list
}
