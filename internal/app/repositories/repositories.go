package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	SchoolAdminRepository  *SchoolAdminRepository
	ConnectionRepository   *ConnectionRepository
	MentorshipRepository   *MentorshipRepository
	MessageRepository      *MessageRepository
	GroupRepository        *GroupRepository
	NotificationRepository *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		SchoolAdminRepository:  NewSchoolAdminRepository(db),
		ConnectionRepository:   NewConnectionRepository(db),
		MentorshipRepository:   NewMentorshipRepository(db),
		MessageRepository:      NewMessageRepository(db),
		GroupRepository:        NewGroupRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
