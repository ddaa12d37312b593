package entity

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

type AppointmentInvitation struct {
	ID            string           `gorm:"primaryKey;size:36"`
	AppointmentID string           `gorm:"size:36;not null;uniqueIndex:idx_invitation_target"` // References: appointments(id)
	InvitedUserID string           `gorm:"size:36;not null;uniqueIndex:idx_invitation_target"` // References: users(id)
	InvitedBy     string           `gorm:"size:36;not null"`
	Status        InvitationStatus `gorm:"size:16;not null;index"`
	RespondedAt   *int64
	CreatedAt     int64 `gorm:"autoCreateTime:milli"`
	UpdatedAt     int64 `gorm:"autoUpdateTime:milli"`
}
