package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuizTypePractice  = "Practice Quiz"
	QuizTypeNormal    = "Normal Quiz"
	QuizTypeAudio     = "Audio Quiz"
	QuizTypeVideo     = "Video Quiz"
	QuizTypeTrueFalse = "True / False"
	QuizTypeDaily     = "Daily Quiz"
	QuizTypeFear      = "Fear Factor"
)

const (
	StatusShow   = "show"
	StatusHidden = "hidden"
)

// QuizTypeLabels maps URL slugs to the seven fixed quiz-type labels. Admin
// question routes are scoped by slug; an unknown slug is rejected before any
// query runs.
var QuizTypeLabels = map[string]string{
	"practice-quiz": QuizTypePractice,
	"normal-quiz":   QuizTypeNormal,
	"audio-quiz":    QuizTypeAudio,
	"video-quiz":    QuizTypeVideo,
	"true-false":    QuizTypeTrueFalse,
	"daily-quiz":    QuizTypeDaily,
	"fear-factor":   QuizTypeFear,
}

func ResolveQuizType(slug string) (string, bool) {
	label, ok := QuizTypeLabels[slug]
	return label, ok
}

func ValidQuizType(label string) bool {
	for _, l := range QuizTypeLabels {
		if l == label {
			return true
		}
	}
	return false
}

type Question struct {
	ID               string                      `gorm:"type:uuid;primaryKey" json:"_id"`
	QuizType         string                      `gorm:"not null;index:idx_questions_filter,priority:1" json:"quizType"`
	CategoryID       string                      `gorm:"type:uuid;not null;index:idx_questions_filter,priority:2" json:"-"`
	SkillID          string                      `gorm:"type:uuid;not null;index:idx_questions_filter,priority:3" json:"-"`
	ClassificationID string                      `gorm:"type:uuid;not null;index:idx_questions_filter,priority:4" json:"-"`
	LevelID          string                      `gorm:"type:uuid;not null;index:idx_questions_filter,priority:5" json:"-"`
	Category         *BasicItem                  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Skill            *BasicItem                  `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
	Classification   *BasicItem                  `gorm:"foreignKey:ClassificationID" json:"classification,omitempty"`
	Level            *BasicItem                  `gorm:"foreignKey:LevelID" json:"level,omitempty"`
	Image            string                      `json:"image,omitempty"`
	Question         string                      `gorm:"not null" json:"question"`
	Options          datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	Answer           string                      `gorm:"not null" json:"answer"`
	Coins            int                         `gorm:"default:10" json:"coins"`
	Status           string                      `gorm:"default:show" json:"status"`
	CreatedAt        time.Time                   `json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// Validate enforces the question invariants: a known quiz type, all four
// taxonomy references present, 2 to 5 options, and an answer that is one of
// the options (exact string equality).
func (q *Question) Validate() error {
	q.Question = strings.TrimSpace(q.Question)

	if !ValidQuizType(q.QuizType) {
		return errors.New("invalid quiz type: " + q.QuizType)
	}
	if q.CategoryID == "" || q.SkillID == "" || q.ClassificationID == "" || q.LevelID == "" {
		return errors.New("category, skill, classification and level are required")
	}
	if q.Question == "" {
		return errors.New("question text is required")
	}
	if len(q.Options) < 2 || len(q.Options) > 5 {
		return errors.New("options must have between 2 and 5 items")
	}
	if !q.HasOption(q.Answer) {
		return errors.New("answer must be one of the options")
	}
	if q.Coins < 0 {
		return errors.New("coins cannot be negative")
	}
	if q.Status != "" && q.Status != StatusShow && q.Status != StatusHidden {
		return errors.New("status must be show or hidden")
	}
	return nil
}

func (q *Question) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}
