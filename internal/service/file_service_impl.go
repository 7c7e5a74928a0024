package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/alexanderramin/pantry/internal/blob"
	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/alexanderramin/pantry/internal/repository"
)

// AttachFileRequest uploads Body as an attachment of a project, or of one
// of its subprojects when SubprojectID is set.
type AttachFileRequest struct {
	UserID       string
	ProjectID    string
	SubprojectID string
	Name         string
	ContentType  string
	Description  string
	Body         io.Reader
}

type fileService struct {
	projects    repository.ProjectRepo
	subprojects repository.SubprojectRepo
	files       repository.FileRepo
	store       blob.Store
	observer    UseCaseObserver
}

func NewFileService(
	projects repository.ProjectRepo,
	subprojects repository.SubprojectRepo,
	files repository.FileRepo,
	store blob.Store,
	observers ...UseCaseObserver,
) FileService {
	return &fileService{
		projects:    projects,
		subprojects: subprojects,
		files:       files,
		store:       store,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *fileService) Attach(ctx context.Context, req AttachFileRequest) (f *domain.ProjectFile, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": req.ProjectID}
	defer observe(ctx, s.observer, "attach-file", startedAt, fields, &err)

	p, err := ownedProject(ctx, s.projects, req.UserID, req.ProjectID)
	if err != nil {
		return nil, err
	}
	name := path.Base(strings.TrimSpace(req.Name))
	if name == "" || name == "." || name == "/" {
		return nil, fmt.Errorf("%w: file name", domain.ErrEmptyName)
	}

	now := time.Now().UTC()
	f = &domain.ProjectFile{
		ID:          newID(),
		FileType:    req.ContentType,
		Description: domain.OptionalString(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if f.FileType == "" {
		f.FileType = mime.TypeByExtension(path.Ext(name))
	}
	if f.FileType == "" {
		f.FileType = "application/octet-stream"
	}
	if req.SubprojectID != "" {
		sp, err := s.subprojects.GetByID(ctx, req.SubprojectID)
		if err != nil {
			return nil, err
		}
		if sp.ProjectID != p.ID {
			return nil, domain.ErrSubprojectNotFound
		}
		f.SubprojectID = &sp.ID
	} else {
		f.ProjectID = &p.ID
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	f.FilePath = blob.ProjectFileKey(p.ID, f.ID, name)
	info, err := s.store.Put(ctx, f.FilePath, req.Body, blob.PutOptions{
		ContentType: f.FileType,
		Metadata:    map[string]string{"project-id": p.ID, "file-id": f.ID},
	})
	if err != nil {
		return nil, fmt.Errorf("storing file body: %w", err)
	}
	f.SizeBytes = info.Size

	if err := s.files.Create(ctx, f); err != nil {
		_, _ = s.store.Delete(ctx, f.FilePath)
		return nil, err
	}
	fields["size_bytes"] = f.SizeBytes
	return f, nil
}

func (s *fileService) List(ctx context.Context, userID, projectID string) ([]*domain.ProjectFile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !p.VisibleTo(userID) {
		return nil, domain.ErrProjectNotFound
	}
	return s.files.ListByProject(ctx, p.ID)
}

// Open returns the file row and its body. The caller closes the body.
func (s *fileService) Open(ctx context.Context, userID, fileID string) (*domain.ProjectFile, io.ReadCloser, error) {
	f, p, err := s.fileWithProject(ctx, userID, fileID)
	if err != nil {
		return nil, nil, err
	}
	if !p.VisibleTo(userID) {
		return nil, nil, domain.ErrFileNotFound
	}
	_, body, err := s.store.Get(ctx, f.FilePath)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, nil, domain.ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("opening file body: %w", err)
	}
	return f, body, nil
}

// Delete removes the row first; a body left behind by a failed blob delete
// is unreachable but harmless.
func (s *fileService) Delete(ctx context.Context, userID, fileID string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "delete-file", startedAt, map[string]any{"file_id": fileID}, &err)

	f, p, err := s.fileWithProject(ctx, userID, fileID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return domain.ErrFileNotFound
	}
	if err := s.files.Delete(ctx, f.ID); err != nil {
		return err
	}
	if _, err := s.store.Delete(ctx, f.FilePath); err != nil {
		return fmt.Errorf("deleting file body: %w", err)
	}
	return nil
}

func (s *fileService) ResolveID(ctx context.Context, userID, input string) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}
	return resolvePrefix(ctx, input, func(ctx context.Context, prefix string) ([]string, error) {
		return s.files.MatchIDPrefix(ctx, userID, prefix)
	}, domain.ErrFileNotFound)
}

func (s *fileService) fileWithProject(ctx context.Context, userID, fileID string) (*domain.ProjectFile, *domain.Project, error) {
	if err := requireUser(userID); err != nil {
		return nil, nil, err
	}
	f, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	projectID := domain.StringValue(f.ProjectID)
	if f.SubprojectID != nil {
		sp, err := s.subprojects.GetByID(ctx, *f.SubprojectID)
		if err != nil {
			return nil, nil, err
		}
		projectID = sp.ProjectID
	}
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	return f, p, nil
}
