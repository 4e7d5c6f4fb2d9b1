package repo

import "github.com/google/uuid"

type ProductFilter struct {
	UserID        uuid.UUID
	Name          string
	ProductTypeID *uuid.UUID
	UnitTypeID    *uuid.UUID
	Offset        *int
	Limit         *int
}
