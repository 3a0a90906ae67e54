package models

import "gorm.io/gorm"

// Member is the shape shared by the four role tables. A row links a roster
// user to a role; rows with deleted_at set are soft-deleted.
type Member struct {
	ID        uint           `gorm:"column:id;primaryKey"`
	UserID    string         `gorm:"column:user_id;index"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at"`
}

// Student is a row of the student table.
type Student struct{ Member }

func (Student) TableName() string { return "student" }

// Teacher is a row of the teacher table.
type Teacher struct{ Member }

func (Teacher) TableName() string { return "teacher" }

// SchoolAdmin is a row of the school_admin table.
type SchoolAdmin struct{ Member }

func (SchoolAdmin) TableName() string { return "school_admin" }

// DistrictAdmin is a row of the district_admin table.
type DistrictAdmin struct{ Member }

func (DistrictAdmin) TableName() string { return "district_admin" }
