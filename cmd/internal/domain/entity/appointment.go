package entity

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusDraft     AppointmentStatus = "draft"
)

type Appointment struct {
	ID                  string  `gorm:"primaryKey;size:36"`
	UserID              string  `gorm:"size:36;not null;index"` // References: users(id)
	AssigneeID          *string `gorm:"size:36;index"`          // References: users(id)
	Title               string  `gorm:"size:128;not null"`
	Description         string  `gorm:"type:text"`
	Location            string  `gorm:"size:255"`
	StartTime           int64   `gorm:"not null;index"`
	EndTime             int64   `gorm:"not null"`
	IsAllDay            bool    `gorm:"not null;default:false"`
	Status              string  `gorm:"size:20;not null"` // Raw; read paths go through service.ValidateStatus
	AppointmentType     string  `gorm:"size:64"`
	IsRecurringInstance bool    `gorm:"not null;default:false"`
	ParentRecurringID   *string `gorm:"size:36"`
	CreatedAt           int64   `gorm:"autoCreateTime:milli"`
	UpdatedAt           int64   `gorm:"autoUpdateTime:milli"`

	// Relations
	Owner    *User `gorm:"foreignKey:UserID;references:ID"`
	Assignee *User `gorm:"foreignKey:AssigneeID;references:ID"`
}
