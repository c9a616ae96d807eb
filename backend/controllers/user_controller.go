package controllers

import (
	"strings"

	"quizapp/backend/config"
	"quizapp/backend/middleware"
	"quizapp/backend/models"
	"quizapp/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

// [+] Register godoc
// @Summary Register a new user
// @Description Creates a new user account and returns a token
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (uc *UserController) Register(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Please provide name, email, and password")
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     models.RoleUser,
	}
	if err := user.Validate(); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	// Check if email already exists (Validate lowercased it)
	var existing models.User
	if err := uc.DB.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return utils.BadRequest(c, "Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}
	user.Password = string(hashedPassword)

	if err := uc.DB.Create(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not create user")
	}

	token, err := utils.GenerateJWTToken(user.ID, uc.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
		"user":    user.Public(),
	})
}

// [+] Login godoc
// @Summary User login
// @Description Authenticate user, set the token cookie and return it
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (uc *UserController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Please provide email and password")
	}

	// The message is identical for an unknown email and a wrong password so
	// the response never signals whether an account exists.
	var user models.User
	if err := uc.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		return utils.BadRequest(c, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return utils.BadRequest(c, "Invalid email or password")
	}

	token, err := utils.GenerateJWTToken(user.ID, uc.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	setTokenCookie(c, uc.Cfg, token)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged in successfully",
		"token":   token,
		"user":    user.Public(),
	})
}

// GetProfile godoc
// @Summary Get user profile
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"quizCoins": user.QuizCoins,
			"createdAt": user.CreatedAt,
		},
	})
}

func (uc *UserController) Logout(c *fiber.Ctx) error {
	clearTokenCookie(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// AddCoins credits the authenticated user's balance. The increment happens
// at the store level so two concurrent flushes never lose an update.
func (uc *UserController) AddCoins(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input struct {
		Coins int `json:"coins"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Coins <= 0 {
		return utils.BadRequest(c, "Coins must be a positive number")
	}

	if err := uc.DB.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("quiz_coins", gorm.Expr("quiz_coins + ?", input.Coins)).Error; err != nil {
		return utils.InternalServerError(c, "Could not update coins")
	}

	var updated models.User
	if err := uc.DB.Where("id = ?", user.ID).First(&updated).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch updated balance")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"quizCoins": updated.QuizCoins,
	})
}

// GetQuizTypes returns the distinct quiz types that currently have questions.
func (uc *UserController) GetQuizTypes(c *fiber.Ctx) error {
	var quizTypes []string
	if err := uc.DB.Model(&models.Question{}).Distinct("quiz_type").Pluck("quiz_type", &quizTypes).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch quiz types")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"quizTypes": quizTypes,
	})
}

func (uc *UserController) GetCategories(c *fiber.Ctx) error {
	var categories []models.BasicItem
	if err := uc.DB.Where("type = ?", models.ItemTypeCategory).Find(&categories).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch categories")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"categories": categories,
	})
}

func (uc *UserController) GetBasicItemsByType(c *fiber.Ctx) error {
	itemType := c.Params("type")
	if !models.ValidBasicItemType(itemType) {
		return utils.BadRequest(c, "Invalid basic item type: "+itemType)
	}

	var items []models.BasicItem
	if err := uc.DB.Where("type = ?", itemType).Find(&items).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch items")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"items":   items,
	})
}

// GetQuestions returns visible questions matching whichever filters the
// query supplies; omitted filters are unconstrained. Taxonomy references
// come back populated with their items.
func (uc *UserController) GetQuestions(c *fiber.Ctx) error {
	query := uc.DB.Model(&models.Question{}).Where("status = ?", models.StatusShow)

	if quizType := c.Query("quizType"); quizType != "" {
		query = query.Where("quiz_type = ?", quizType)
	}
	if skill := c.Query("skill"); skill != "" {
		query = query.Where("skill_id = ?", skill)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if classification := c.Query("classification"); classification != "" {
		query = query.Where("classification_id = ?", classification)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("level_id = ?", level)
	}

	var questions []models.Question
	if err := query.
		Preload("Category").Preload("Skill").Preload("Classification").Preload("Level").
		Find(&questions).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch questions")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"questions": questions,
	})
}
