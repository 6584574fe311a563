package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Generic CRUD helpers shared by the per-entity store files. They work on
// the raw *gorm.DB and translate GORM's sentinel errors into the catalog's
// domain errors, keeping the entity files free of error-mapping noise.

// getByField loads the single record of type T whose field equals value,
// mapping gorm.ErrRecordNotFound to notFoundErr.
func getByField[T any](ctx context.Context, db *gorm.DB, field string, value any, notFoundErr error) (*T, error) {
	var rec T
	err := db.WithContext(ctx).Where(field+" = ?", value).First(&rec).Error
	if err != nil {
		return nil, convertNotFoundError(err, notFoundErr)
	}
	return &rec, nil
}

// listAll loads every record of type T. No records is an empty slice, not
// an error.
func listAll[T any](ctx context.Context, db *gorm.DB) ([]*T, error) {
	var recs []*T
	if err := db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// create inserts rec, mapping a unique-constraint violation to dupErr.
func create[T any](ctx context.Context, db *gorm.DB, rec *T, dupErr error) error {
	err := db.WithContext(ctx).Create(rec).Error
	if err != nil && isUniqueConstraintError(err) {
		return dupErr
	}
	return err
}

// createWithID is create for entities keyed by UUID: a blank currentID is
// replaced with a fresh UUID through setID before the insert, and the ID
// actually stored is returned.
func createWithID[T any](ctx context.Context, db *gorm.DB, rec *T, setID func(*T, string), currentID string, dupErr error) (string, error) {
	id := currentID
	if id == "" {
		id = uuid.New().String()
		setID(rec, id)
	}
	if err := create(ctx, db, rec, dupErr); err != nil {
		return "", err
	}
	return id, nil
}

// deleteByField removes the records of type T whose field equals value,
// reporting notFoundErr when nothing matched.
func deleteByField[T any](ctx context.Context, db *gorm.DB, field string, value any, notFoundErr error) error {
	var zero T
	res := db.WithContext(ctx).Where(field+" = ?", value).Delete(&zero)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFoundErr
	}
	return nil
}
