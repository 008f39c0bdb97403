package models

import "time"

type Title struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string     `json:"name" gorm:"not null;size:200"`
	Year        int        `json:"year" gorm:"not null"`
	Description *string    `json:"description,omitempty" gorm:"size:400"`
	CategoryID  *int64     `json:"-" gorm:"index"`
	CreatedAt   *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`

	// Associations. A deleted category leaves the title in place with the
	// category cleared; deleting a title takes its reviews with it.
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genres,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
	Reviews  []Review  `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
