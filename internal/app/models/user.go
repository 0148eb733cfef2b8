package models

import (
	"time"
)

// Role is the account role carried in the access token
type Role string

const (
	RoleAlumni      Role = "alumni"
	RoleSchoolAdmin Role = "school_admin"
	RoleSuperAdmin  Role = "super_admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAlumni, RoleSchoolAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdministrator reports whether r is one of the administrator roles
func (r Role) IsAdministrator() bool {
	return r == RoleSchoolAdmin || r == RoleSuperAdmin
}

// Principal is the authenticated caller resolved from the access token
type Principal struct {
	ID       int64
	Role     Role
	SchoolID *int64
}

// User defines the user model based on the 'users' table
type User struct {
	ID             int64     `json:"id" db:"user_id" example:"1"`
	Email          string    `json:"email" db:"email" example:"jane@alumni.edu"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	FirstName      string    `json:"firstName" db:"first_name" example:"Jane"`
	LastName       string    `json:"lastName" db:"last_name" example:"Doe"`
	ProfilePicture *string   `json:"profilePicture,omitempty" db:"profile_picture"`
	GraduationYear *int      `json:"graduationYear,omitempty" db:"graduation_year" example:"2019"`
	Role           Role      `json:"role" db:"role" example:"alumni"`
	SchoolID       *int64    `json:"schoolId,omitempty" db:"school_id"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// FullName joins first and last name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// SchoolAdmin is an administrator account kept in the 'school_admins' table
type SchoolAdmin struct {
	ID           int64     `json:"id" db:"admin_id"`
	SchoolID     int64     `json:"schoolId" db:"school_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Education is one row of a user's education history
type Education struct {
	ID              int64  `json:"id" db:"education_id"`
	UserID          int64  `json:"userId" db:"user_id"`
	InstitutionName string `json:"institutionName" db:"institution_name"`
	Degree          string `json:"degree,omitempty" db:"degree"`
	FieldOfStudy    string `json:"fieldOfStudy,omitempty" db:"field_of_study"`
	EndYear         *int   `json:"endYear,omitempty" db:"end_year"`
}

// WorkExperience is one row of a user's work history
type WorkExperience struct {
	ID          int64  `json:"id" db:"experience_id"`
	UserID      int64  `json:"userId" db:"user_id"`
	CompanyName string `json:"companyName" db:"company_name"`
	Position    string `json:"position" db:"position"`
	IsCurrent   bool   `json:"isCurrent" db:"is_current"`
}
