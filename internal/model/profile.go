package model

import "time"

// User is the device-local identity row for a learner.
type User struct {
	UID       string    `gorm:"primaryKey;column:uid"`
	CreatedAt time.Time `gorm:"not null"`
}

func (User) TableName() string { return "users" }

// UserProfile holds the learner's profile document.
type UserProfile struct {
	UID       string  `gorm:"primaryKey;column:uid"`
	Profile   JSONMap `gorm:"type:text;serializer:json"`
	UpdatedAt time.Time
}

func (UserProfile) TableName() string { return "user_profiles" }

// LearnerAssessment is one answered question inside a content session.
type LearnerAssessment struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UID       string `gorm:"index;column:uid;not null"`
	ContentID string `gorm:"column:content_id;not null"`
	QID       string `gorm:"column:qid"`
	Correct   bool
	Score     float64
	TimeSpent float64
	Timestamp int64
}

func (LearnerAssessment) TableName() string { return "learner_assessments" }

// LearnerSummary aggregates a learner's sessions for one piece of content.
type LearnerSummary struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	UID           string `gorm:"index;column:uid;not null"`
	ContentID     string `gorm:"column:content_id;not null"`
	Sessions      int
	TotalTimeSpent float64
	AvgTimeSpent   float64
}

func (LearnerSummary) TableName() string { return "learner_summary" }

// KeyValue is the small side table for preference-style values such as
// dataset expiry timestamps.
type KeyValue struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (KeyValue) TableName() string { return "key_values" }
