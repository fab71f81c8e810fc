package model

type User struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"unique;not null" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	DisplayName  *string `json:"display_name"`
	CreatedAt    int64   `json:"created_at"`

	Models []Model `gorm:"foreignKey:UserID" json:"-"`
	Stats  Stats   `gorm:"foreignKey:UserID" json:"-"`
}

// Owner returns the name half used to qualify model names. Falls back
// to the part of the email before the @ when no display name is set
func (u *User) Owner() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}

	at := len(u.Email)
	for i, r := range u.Email {
		if r == '@' {
			at = i
			break
		}
	}
	return u.Email[:at]
}

type Stats struct {
	UserID         string `gorm:"primaryKey" json:"-"`
	UploadedModels int64  `json:"uploaded_models"`
	TotalDownloads int64  `json:"total_downloads"`
	PublicModels   int64  `json:"public_models"`
	UsedStorage    int64  `json:"used_storage"`
}
