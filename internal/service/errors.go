package service

import (
	"errors"
	"fmt"

	"storekeeper/internal/database"
	"storekeeper/internal/repository"
)

// Error keys surfaced to HTTP clients.
const (
	KeyIDExists            = "idexists"
	KeyIDNull              = "idnull"
	KeyInvalid             = "invalid"
	KeyConstraintViolation = "constraintviolation"
)

// NotFoundError reports that an entity with the given id does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// BadRequestError reports a request payload the service refuses to act on,
// such as a create carrying an id or a payload failing validation. Key is a
// stable machine-readable identifier for the refusal.
type BadRequestError struct {
	Entity  string
	Key     string
	Message string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Message)
}

// ConstraintError reports a database constraint violation such as deleting a
// category that still has products.
type ConstraintError struct {
	Entity  string
	Key     string
	Message string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Message)
}

// translateStoreError maps repository and driver errors onto the typed
// errors above. Errors it does not recognize pass through unchanged.
func translateStoreError(entity string, id int64, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	if ok, kind := database.IsSQLError(err); ok && kind.IsConstraintViolation() {
		return &ConstraintError{
			Entity:  entity,
			Key:     KeyConstraintViolation,
			Message: err.Error(),
		}
	}
	return err
}

func invalid(entity string, err error) error {
	return &BadRequestError{Entity: entity, Key: KeyInvalid, Message: err.Error()}
}
