package entity

type Tier string

const (
	TierFree       Tier = "free"
	TierIndividual Tier = "individual"
	TierBusiness   Tier = "business"
)

type User struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Email       string  `gorm:"size:255;uniqueIndex;not null"`
	DisplayName *string `gorm:"size:80"`
	Tier        Tier    `gorm:"size:16;not null;default:free"`
	CreatedAt   int64   `gorm:"autoCreateTime:milli"`
	UpdatedAt   int64   `gorm:"autoUpdateTime:milli"`
}
