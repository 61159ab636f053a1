package repository

// ownership.go holds the chain scopes shared by every store.  Each read,
// update or delete of a child entity filters by the full ownership chain in
// a single query instead of fetching first and checking the owner after.
// A row that exists but belongs to someone else is therefore identical to a
// row that does not exist at all.

import "gorm.io/gorm"

// carOwnedBy constrains a query over the cars table to the given user.
func carOwnedBy(userID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("cars.user_id = ?", userID)
	}
}

// childOfCar joins a car-owned table (one hop) back to its live car and
// filters by the owning user.
func childOfCar(table string, userID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN cars ON cars.id = "+table+".car_id AND cars.deleted_at IS NULL").
			Where("cars.user_id = ?", userID)
	}
}

// childOfPart joins a part-owned table (two hops) through its live part and
// car and filters by the owning user.
func childOfPart(table string, userID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN parts ON parts.id = "+table+".part_id AND parts.deleted_at IS NULL").
			Joins("JOIN cars ON cars.id = parts.car_id AND cars.deleted_at IS NULL").
			Where("cars.user_id = ?", userID)
	}
}
