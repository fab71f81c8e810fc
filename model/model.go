// Package model defines database models
package model

// Licenses a model may be published under
var Licenses = []string{
	"MIT",
	"Apache 2.0",
	"BSD",
	"GPL",
	"Creative Commons",
}

func ValidLicense(l string) bool {
	for _, v := range Licenses {
		if v == l {
			return true
		}
	}
	return false
}

type Model struct {
	ID          uint        `gorm:"primaryKey;autoIncrement;index" json:"id"`
	UserID      string      `json:"-"`
	Name        string      `gorm:"uniqueIndex;not null" json:"name"` // Owner-qualified, e.g. "alice/walk-policy"
	Description string      `json:"description"`
	License     string      `json:"license"`
	Tags        StringSlice `json:"tags"`
	FolderPath  string      `gorm:"not null" json:"folder_path"` // S3 prefix holding every file of this model. Never changes after insert
	IsPublic    bool        `gorm:"index" json:"is_public"`
	Downloads   int64       `json:"downloads"`
	Size        int64       `json:"size"` // Bytes, summed over every uploaded file
	CreatedAt   int64       `gorm:"not null" json:"created_at"` // Unix millisecond timestamps
	UpdatedAt   int64       `json:"updated_at"`
}
