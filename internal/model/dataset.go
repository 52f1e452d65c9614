package model

import "time"

// DatasetRow is one persisted sub-entry of a TTL-refreshed reference dataset
// (master data types, resource bundles per locale, ordinal rankings). Rows
// are upserted per key on refresh; keys absent from a refresh payload are
// left untouched.
type DatasetRow struct {
	Dataset   string `gorm:"primaryKey;column:dataset"`
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value"`
	UpdatedAt time.Time
}

func (DatasetRow) TableName() string { return "dataset_rows" }

// All returns every model migrated into the on-device store.
func All() []any {
	return []any{
		&ContentRecord{},
		&User{},
		&UserProfile{},
		&LearnerAssessment{},
		&LearnerSummary{},
		&KeyValue{},
		&DatasetRow{},
	}
}
