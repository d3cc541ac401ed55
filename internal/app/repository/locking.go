package repository

import "gorm.io/gorm/clause"

// lockForUpdate is a row-level SELECT ... FOR UPDATE lock. The SQLite
// driver used in tests ignores the clause, Postgres enforces it.
func lockForUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}
