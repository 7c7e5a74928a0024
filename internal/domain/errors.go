package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by every entity-specific not-found error.
	ErrNotFound = errors.New("not found")

	ErrProjectNotFound    = fmt.Errorf("project %w", ErrNotFound)
	ErrSubprojectNotFound = fmt.Errorf("subproject %w", ErrNotFound)
	ErrMaterialNotFound   = fmt.Errorf("material %w", ErrNotFound)
	ErrInventoryNotFound  = fmt.Errorf("inventory item %w", ErrNotFound)
	ErrFileNotFound       = fmt.Errorf("file %w", ErrNotFound)

	// ErrNoMaterialsToFulfill is returned when none of the requested
	// material ids exist.
	ErrNoMaterialsToFulfill = fmt.Errorf("no materials found to fulfill: %w", ErrNotFound)

	ErrAuthRequired = errors.New("authentication required")

	// ErrValidation marks input rejected before any write happened.
	ErrValidation = errors.New("invalid input")

	ErrEmptyName        = fmt.Errorf("%w: name is required", ErrValidation)
	ErrNegativeQuantity = fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	ErrNoMaterialIDs    = fmt.Errorf("%w: at least one material id is required", ErrValidation)
	ErrMissingInventory = fmt.Errorf("%w: material must reference an inventory item", ErrValidation)
	ErrInvalidParent    = fmt.Errorf("%w: record must belong to exactly one of a project or a subproject", ErrValidation)
	ErrAmbiguousID      = fmt.Errorf("%w: id prefix matches more than one record", ErrValidation)

	ErrInsufficientQuantity = errors.New("insufficient quantity")

	// ErrReferenced is a referential-integrity violation reported by the store.
	ErrReferenced = errors.New("record is still referenced")

	ErrInventoryInUse = fmt.Errorf("cannot delete material that is being used in projects: %w", ErrReferenced)
)

// InsufficientQuantityError aborts a fulfillment batch. Its message names the
// inventory item that could not cover the requested quantity.
type InsufficientQuantityError struct {
	ItemID    string
	ItemName  string
	Available float64
	Needed    float64
}

func (e *InsufficientQuantityError) Error() string {
	return "Insufficient quantity for " + e.ItemName
}

func (e *InsufficientQuantityError) Is(target error) bool {
	return target == ErrInsufficientQuantity
}

// Message renders err as the text shown to a user. Wrapping context added by
// lower layers is dropped for the well-known error kinds.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var insufficient *InsufficientQuantityError
	switch {
	case errors.As(err, &insufficient):
		return insufficient.Error()
	case errors.Is(err, ErrInventoryInUse):
		return "Cannot delete material that is being used in projects"
	case errors.Is(err, ErrNoMaterialsToFulfill):
		return "No materials found to fulfill"
	case errors.Is(err, ErrAuthRequired):
		return "Authentication required"
	}
	return err.Error()
}
