package service

import (
	"context"
	"strings"

	"github.com/alexanderramin/pantry/internal/domain"
	"github.com/google/uuid"
)

// requireUser rejects calls made without a session.
func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrAuthRequired
	}
	return nil
}

// newID returns a time-ordered UUID so rows inserted in one batch keep
// their insertion order when sorted by id.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// dedupe drops blank and repeated ids, keeping first occurrence order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// resolvePrefix expands a full id or unique id prefix using match.
func resolvePrefix(
	ctx context.Context,
	input string,
	match func(ctx context.Context, prefix string) ([]string, error),
	notFound error,
) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", notFound
	}
	if _, err := uuid.Parse(input); err == nil {
		return input, nil
	}
	ids, err := match(ctx, input)
	if err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", notFound
	case 1:
		return ids[0], nil
	default:
		return "", domain.ErrAmbiguousID
	}
}
