package entity

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

type RecurringEntityType string

const (
	RecurringTask        RecurringEntityType = "task"
	RecurringAppointment RecurringEntityType = "appointment"
)

// RecurringSettings holds the recurrence rule of a task or an appointment.
// At most one of EndDate and MaxOccurrences bounds generation.
type RecurringSettings struct {
	ID             string              `gorm:"primaryKey;size:36"`
	EntityID       string              `gorm:"size:36;not null;uniqueIndex:idx_recurring_entity"`
	EntityType     RecurringEntityType `gorm:"size:16;not null;uniqueIndex:idx_recurring_entity"`
	Frequency      Frequency           `gorm:"size:16;not null"`
	Interval       int                 `gorm:"not null;default:1"`
	DaysOfWeek     []int               `gorm:"serializer:json"`
	DayOfMonth     *int
	EndDate        *int64
	MaxOccurrences *int
	CreatedBy      string `gorm:"size:36;not null"`
	CreatedAt      int64  `gorm:"autoCreateTime:milli"`
	UpdatedAt      int64  `gorm:"autoUpdateTime:milli"`
}
