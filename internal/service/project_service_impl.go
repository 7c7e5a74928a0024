package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/repository"
)

// ListProjectsOptions narrows a project listing.
type ListProjectsOptions struct {
	Search        string
	IncludePublic bool
}

type projectService struct {
	projects    repository.ProjectRepo
	subprojects repository.SubprojectRepo
	materials   repository.MaterialRepo
}

func NewProjectService(
	projects repository.ProjectRepo,
	subprojects repository.SubprojectRepo,
	materials repository.MaterialRepo,
) ProjectService {
	return &projectService{projects: projects, subprojects: subprojects, materials: materials}
}

func (s *projectService) List(ctx context.Context, userID string, opts ListProjectsOptions) ([]*domain.Project, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.projects.List(ctx, repository.ProjectFilter{
		UserID:        userID,
		Search:        opts.Search,
		IncludePublic: opts.IncludePublic,
	})
}

// GetDetail loads a project with its direct materials and its subprojects'
// materials. Projects the caller neither owns nor sees publicly are reported
// as not found.
func (s *projectService) GetDetail(ctx context.Context, userID, id string) (*domain.ProjectDetail, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.VisibleTo(userID) {
		return nil, domain.ErrProjectNotFound
	}
	return loadDetail(ctx, p, s.subprojects, s.materials)
}

func loadDetail(
	ctx context.Context,
	p *domain.Project,
	subprojects repository.SubprojectRepo,
	materials repository.MaterialRepo,
) (*domain.ProjectDetail, error) {
	direct, err := materials.ListDirect(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	subs, err := subprojects.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	nested, err := materials.ListBySubprojectsOf(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	bySub := make(map[string][]domain.MaterialWithItem, len(subs))
	for _, m := range nested {
		if m.SubprojectID != nil {
			bySub[*m.SubprojectID] = append(bySub[*m.SubprojectID], m)
		}
	}

	detail := &domain.ProjectDetail{Project: *p, Materials: direct}
	for _, sp := range subs {
		detail.Subprojects = append(detail.Subprojects, domain.SubprojectDetail{
			Subproject: *sp,
			Materials:  bySub[sp.ID],
		})
	}
	return detail, nil
}

func (s *projectService) Delete(ctx context.Context, userID, id string) error {
	if _, err := ownedProject(ctx, s.projects, userID, id); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting project %s: %w", domain.ShortID(id), err)
	}
	return nil
}

func (s *projectService) ResolveID(ctx context.Context, userID, input string) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	return resolvePrefix(ctx, input, func(ctx context.Context, prefix string) ([]string, error) {
		return s.projects.MatchIDPrefix(ctx, userID, prefix)
	}, domain.ErrProjectNotFound)
}

// ownedProject loads a project the caller may modify. Projects owned by
// someone else are reported as not found.
func ownedProject(ctx context.Context, projects repository.ProjectRepo, userID, id string) (*domain.Project, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	p, err := projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.ErrProjectNotFound
	}
	return p, nil
}
