package types

import "time"

// Provenance - кто и от имени какого подразделения создал запись. Не меняется после создания.
type Provenance struct {
	BranchID string `json:"branch_id" db:"branch_id"`
	UserID   string `json:"user_id" db:"user_id"`
}

type BaseEntity struct {
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
