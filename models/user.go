package models

// UserRole represents the role of an application user
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleManager  UserRole = "manager"
	RoleOperator UserRole = "operator"
)

// User represents an application user account
type User struct {
	BaseModel
	Username string   `gorm:"type:varchar(50);unique;not null" json:"username"`
	Password string   `gorm:"type:varchar(100);not null" json:"-"` // bcrypt hash
	Role     UserRole `gorm:"type:varchar(20);not null;default:'operator'" json:"role"`

	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}
