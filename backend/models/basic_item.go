package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ItemTypeCategory       = "category"
	ItemTypeSkill          = "skill"
	ItemTypeClassification = "classification"
	ItemTypeLevel          = "level"
	ItemTypeAvatar         = "avatar"
)

var imgPattern = regexp.MustCompile(`^https?://.+\.(jpg|jpeg|png|webp|avif|gif|svg)$`)

// BasicItem is a taxonomy node referenced by questions. The type is fixed at
// creation and decides which axis (category, skill, ...) the item belongs to.
type BasicItem struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"_id"`
	Type      string    `gorm:"not null;index" json:"type"`
	Name      string    `gorm:"not null" json:"name"`
	Img       string    `json:"img,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *BasicItem) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (b *BasicItem) Validate() error {
	b.Name = strings.TrimSpace(b.Name)

	if !ValidBasicItemType(b.Type) {
		return errors.New("type must be one of category, skill, classification, level, avatar")
	}
	if len(b.Name) < 3 || len(b.Name) > 20 {
		return errors.New("name must be between 3 and 20 characters")
	}
	if b.Img != "" && !imgPattern.MatchString(b.Img) {
		return errors.New("please provide a valid image URL")
	}
	return nil
}

func ValidBasicItemType(t string) bool {
	switch t {
	case ItemTypeCategory, ItemTypeSkill, ItemTypeClassification, ItemTypeLevel, ItemTypeAvatar:
		return true
	}
	return false
}
