package entity

type StaffStatus string

const (
	StaffActive   StaffStatus = "active"
	StaffInvited  StaffStatus = "invited"
	StaffInactive StaffStatus = "inactive"
)

type StaffMember struct {
	ID            string      `gorm:"primaryKey;size:36"`
	BusinessOwner string      `gorm:"size:36;not null;uniqueIndex:idx_staff_member"` // References: users(id)
	UserID        string      `gorm:"size:36;not null;uniqueIndex:idx_staff_member"` // References: users(id)
	Status        StaffStatus `gorm:"size:16;not null"`
	CreatedAt     int64       `gorm:"autoCreateTime:milli"`
	UpdatedAt     int64       `gorm:"autoUpdateTime:milli"`
}
