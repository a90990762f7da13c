package repository

import "context"

// LookupRepository is the name-uniqueness projection. It is populated
// asynchronously from created events, so ExistsByName is a set-based
// consistency check, not a strong constraint: two concurrent creates with the
// same name can both pass before either projection lands.
type LookupRepository interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, productID, name string) error
}
