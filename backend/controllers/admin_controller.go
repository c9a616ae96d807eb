package controllers

import (
	"strconv"
	"strings"
	"time"

	"quizapp/backend/config"
	"quizapp/backend/middleware"
	"quizapp/backend/models"
	"quizapp/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminController(db *gorm.DB, cfg *config.Config) *AdminController {
	return &AdminController{DB: db, Cfg: cfg}
}

// Login authenticates an administrator. A valid user without the admin role
// gets the same generic message as bad credentials.
func (ac *AdminController) Login(c *fiber.Ctx) error {
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

	var user models.User
	err := ac.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error
	if err != nil || user.Role != models.RoleAdmin {
		return utils.Unauthorized(c, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid email or password")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	setTokenCookie(c, ac.Cfg, token)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admin logged in successfully",
		"token":   token,
		"user":    user.Public(),
	})
}

func (ac *AdminController) Logout(c *fiber.Ctx) error {
	clearTokenCookie(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admin logged out successfully",
	})
}

// GetAllUsers lists end-user accounts. Administrators are excluded so the
// dashboard's user table only shows the audience being managed.
func (ac *AdminController) GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := ac.DB.Where("role = ?", models.RoleUser).Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while fetching users")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

func (ac *AdminController) GetUserByID(c *fiber.Ctx) error {
	var user models.User
	if err := ac.DB.Where("id = ?", c.Params("id")).First(&user).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

func (ac *AdminController) UpdateUser(c *fiber.Ctx) error {
	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := ac.DB.Where("id = ?", c.Params("id")).First(&user).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if input.Name != "" {
		user.Name = strings.TrimSpace(input.Name)
	}
	if input.Email != "" {
		email := strings.ToLower(strings.TrimSpace(input.Email))
		if !models.ValidEmail(email) {
			return utils.BadRequest(c, "please provide a valid email")
		}
		if email != user.Email {
			var existing models.User
			if err := ac.DB.Where("email = ?", email).First(&existing).Error; err == nil {
				return utils.BadRequest(c, "Email already registered")
			}
			user.Email = email
		}
	}

	if len(user.Name) < 3 || len(user.Name) > 50 {
		return utils.BadRequest(c, "name must be between 3 and 50 characters")
	}

	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while updating user")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully",
		"user":    user,
	})
}

func (ac *AdminController) DeleteUserByID(c *fiber.Ctx) error {
	result := ac.DB.Where("id = ?", c.Params("id")).Delete(&models.User{})
	if result.Error != nil {
		return utils.InternalServerError(c, "An error occurred while deleting user")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "User not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}

func (ac *AdminController) GetProfile(c *fiber.Ctx) error {
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

// ChangePassword verifies the current password before replacing it.
// Outstanding tokens stay valid until their natural expiry.
func (ac *AdminController) ChangePassword(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		return utils.BadRequest(c, "Current password is incorrect")
	}
	if len(input.NewPassword) < 6 {
		return utils.BadRequest(c, "password must be at least 6 characters long")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	if err := ac.DB.Model(&models.User{}).Where("id = ?", user.ID).
		Update("password", string(hashed)).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while changing password")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password changed successfully",
	})
}

// GetLeaderboard returns end users ranked by coin balance.
func (ac *AdminController) GetLeaderboard(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 {
		limit = 10
	}

	var users []models.User
	if err := ac.DB.Where("role = ?", models.RoleUser).
		Order("quiz_coins DESC").Limit(limit).Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while fetching leaderboard")
	}

	leaderboard := make([]fiber.Map, 0, len(users))
	for i, u := range users {
		leaderboard = append(leaderboard, fiber.Map{
			"rank":      i + 1,
			"id":        u.ID,
			"name":      u.Name,
			"quizCoins": u.QuizCoins,
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"leaderboard": leaderboard,
	})
}

func setTokenCookie(c *fiber.Ctx, cfg *config.Config, token string) {
	c.Cookie(&fiber.Cookie{
		Name:    "token",
		Value:   token,
		Expires: time.Now().Add(time.Duration(cfg.JWTExpiresHours) * time.Hour),
	})
}

func clearTokenCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:    "token",
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
	})
}
