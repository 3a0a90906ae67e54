package groupsync

import (
	"context"
	"fmt"

	"group-sync/core/database"
	"group-sync/feature/groupsync/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Role is a roster role label. It is also the directory group name.
type Role string

const (
	RoleStudent       Role = "student"
	RoleTeacher       Role = "teacher"
	RoleSchoolAdmin   Role = "school-admin"
	RoleDistrictAdmin Role = "district-admin"
)

// Roles lists the vocabulary in resolution order.
var Roles = []Role{RoleStudent, RoleTeacher, RoleSchoolAdmin, RoleDistrictAdmin}

// source is one role table lookup.
type source struct {
	role  Role
	table string
	find  func(ctx context.Context, db *gorm.DB, userID string) (bool, error)
}

var sources = []source{
	{RoleStudent, models.Student{}.TableName(), exists[models.Student]},
	{RoleTeacher, models.Teacher{}.TableName(), exists[models.Teacher]},
	{RoleSchoolAdmin, models.SchoolAdmin{}.TableName(), exists[models.SchoolAdmin]},
	{RoleDistrictAdmin, models.DistrictAdmin{}.TableName(), exists[models.DistrictAdmin]},
}

// exists reports whether userID has a live row in T's table.
func exists[T any](ctx context.Context, db *gorm.DB, userID string) (bool, error) {
	var rows []T
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&rows).Error; err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// Resolver derives a user's roles from the roster tables.
type Resolver struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewResolver creates a resolver on the roster database.
func NewResolver(db *gorm.DB, logger *zap.Logger) *Resolver {
	return &Resolver{db: db, logger: logger}
}

// Resolve returns the roles of userID in vocabulary order.
// A failing lookup is logged and contributes no role; the remaining tables
// are still consulted. A database error therefore looks like a missing role.
func (r *Resolver) Resolve(ctx context.Context, userID string) []string {
	var roles []string
	for _, src := range sources {
		ok, err := src.find(ctx, r.db, userID)
		if err != nil {
			r.logger.Warn("Role lookup failed",
				zap.String("user_id", userID),
				zap.String("table", src.table),
				zap.Error(err),
			)
			continue
		}
		if ok {
			roles = append(roles, string(src.role))
		}
	}
	return roles
}

// CheckSchema verifies that every role table exposes the columns Resolve
// filters on.
func CheckSchema(db *gorm.DB) error {
	for _, src := range sources {
		missing, err := database.MissingColumns(db, src.table, "user_id", "deleted_at")
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("role table %s is missing columns %v", src.table, missing)
		}
	}
	return nil
}
