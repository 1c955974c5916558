package tenant

import "gorm.io/gorm"

// Scope restricts a query to one company. Every repository list/read goes
// through this so tenant isolation lives in exactly one place.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
