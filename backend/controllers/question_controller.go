package controllers

import (
	"errors"
	"fmt"

	"quizapp/backend/config"
	"quizapp/backend/models"
	"quizapp/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// errReferenceMissing marks a taxonomy id that resolved to nothing, as
// opposed to the lookup itself failing.
var errReferenceMissing = errors.New("reference does not exist")

// QuestionController handles the admin question CRUD, scoped by quiz-type
// slug (/admin/:quizType/question...).
type QuestionController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuestionController(db *gorm.DB, cfg *config.Config) *QuestionController {
	return &QuestionController{DB: db, Cfg: cfg}
}

type questionInput struct {
	Category       string   `json:"category"`
	Skill          string   `json:"skill"`
	Classification string   `json:"classification"`
	Level          string   `json:"level"`
	Image          string   `json:"image"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	Answer         string   `json:"answer"`
	Coins          *int     `json:"coins"`
	Status         string   `json:"status"`
}

func (qc *QuestionController) GetAllQuestions(c *fiber.Ctx) error {
	quizType, ok := models.ResolveQuizType(c.Params("quizType"))
	if !ok {
		return utils.BadRequest(c, "Invalid quiz type: "+c.Params("quizType"))
	}

	var questions []models.Question
	if err := qc.DB.Where("quiz_type = ?", quizType).
		Preload("Category").Preload("Skill").Preload("Classification").Preload("Level").
		Find(&questions).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while fetching questions")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"questions": questions,
	})
}

func (qc *QuestionController) GetQuestionByID(c *fiber.Ctx) error {
	var question models.Question
	if err := qc.DB.Where("id = ?", c.Params("id")).
		Preload("Category").Preload("Skill").Preload("Classification").Preload("Level").
		First(&question).Error; err != nil {
		return utils.NotFound(c, "Question not found")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"question": question,
	})
}

func (qc *QuestionController) CreateQuestion(c *fiber.Ctx) error {
	quizType, ok := models.ResolveQuizType(c.Params("quizType"))
	if !ok {
		return utils.BadRequest(c, "Invalid quiz type: "+c.Params("quizType"))
	}

	var input questionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	question := models.Question{
		QuizType:         quizType,
		CategoryID:       input.Category,
		SkillID:          input.Skill,
		ClassificationID: input.Classification,
		LevelID:          input.Level,
		Image:            input.Image,
		Question:         input.Question,
		Options:          input.Options,
		Answer:           input.Answer,
		Coins:            10,
		Status:           input.Status,
	}
	if input.Coins != nil {
		question.Coins = *input.Coins
	}
	if question.Status == "" {
		question.Status = models.StatusShow
	}

	if err := question.Validate(); err != nil {
		return utils.BadRequest(c, err.Error())
	}
	if err := qc.checkReferences(&question); err != nil {
		if errors.Is(err, errReferenceMissing) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalServerError(c, "An error occurred while creating question")
	}

	if err := qc.DB.Create(&question).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while creating question")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"question": question,
	})
}

func (qc *QuestionController) UpdateQuestion(c *fiber.Ctx) error {
	var input questionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var question models.Question
	if err := qc.DB.Where("id = ?", c.Params("id")).First(&question).Error; err != nil {
		return utils.NotFound(c, "Question not found")
	}

	if input.Category != "" {
		question.CategoryID = input.Category
	}
	if input.Skill != "" {
		question.SkillID = input.Skill
	}
	if input.Classification != "" {
		question.ClassificationID = input.Classification
	}
	if input.Level != "" {
		question.LevelID = input.Level
	}
	if input.Image != "" {
		question.Image = input.Image
	}
	if input.Question != "" {
		question.Question = input.Question
	}
	if len(input.Options) > 0 {
		question.Options = input.Options
	}
	if input.Answer != "" {
		question.Answer = input.Answer
	}
	if input.Coins != nil {
		question.Coins = *input.Coins
	}
	if input.Status != "" {
		question.Status = input.Status
	}

	if err := question.Validate(); err != nil {
		return utils.BadRequest(c, err.Error())
	}
	if err := qc.checkReferences(&question); err != nil {
		if errors.Is(err, errReferenceMissing) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalServerError(c, "An error occurred while updating question")
	}

	if err := qc.DB.Save(&question).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while updating question")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"question": question,
	})
}

func (qc *QuestionController) DeleteQuestion(c *fiber.Ctx) error {
	result := qc.DB.Where("id = ?", c.Params("id")).Delete(&models.Question{})
	if result.Error != nil {
		return utils.InternalServerError(c, "An error occurred while deleting question")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Question not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Question deleted successfully",
	})
}

// checkReferences makes sure all four taxonomy ids resolve to BasicItems of
// the right type. The store has no foreign-key constraint for these, so the
// check lives here. A dangling id comes back wrapping errReferenceMissing;
// any other error means the lookup itself failed and callers must answer
// with a generic 500, never the store's error text.
func (qc *QuestionController) checkReferences(q *models.Question) error {
	refs := map[string]string{
		models.ItemTypeCategory:       q.CategoryID,
		models.ItemTypeSkill:          q.SkillID,
		models.ItemTypeClassification: q.ClassificationID,
		models.ItemTypeLevel:          q.LevelID,
	}
	for itemType, id := range refs {
		var count int64
		if err := qc.DB.Model(&models.BasicItem{}).
			Where("id = ? AND type = ?", id, itemType).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%s %w", itemType, errReferenceMissing)
		}
	}
	return nil
}
