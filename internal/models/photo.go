package models

import "time"

// PhotoUpload is a guest photo stored on the media host.
// Only approved uploads are shown in the public gallery.
type PhotoUpload struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UploadedByName string    `gorm:"size:200;not null" json:"uploaded_by_name"`
	PhotoURL       string    `gorm:"size:500;not null" json:"photo_url"`
	Caption        string    `gorm:"type:text" json:"caption"`
	UploadedAt     time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`
	IsApproved     bool      `gorm:"not null;index" json:"is_approved"`
}

func (PhotoUpload) TableName() string { return "photo_uploads" }
