package entity

type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// ChatHistory is one persisted conversation per (user, mode).
type ChatHistory struct {
	UserID    string        `gorm:"primaryKey;size:36"`
	Mode      string        `gorm:"primaryKey;size:32"`
	Messages  []ChatMessage `gorm:"serializer:json"`
	UpdatedAt int64         `gorm:"autoUpdateTime:milli"`
}
