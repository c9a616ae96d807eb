package routes

import (
	"quizapp/backend/config"
	"quizapp/backend/controllers"
	"quizapp/backend/middleware"
	"quizapp/backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authRequired := middleware.Protect(db, cfg)
	adminRequired := middleware.Protect(db, cfg, models.RoleAdmin)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	auth := app.Group("/api/auth")
	auth.Post("/register", userController.Register)
	auth.Post("/login", userController.Login)
	auth.Get("/profile", authRequired, userController.GetProfile)
	auth.Post("/logout", authRequired, userController.Logout)
	auth.Post("/add-coins", authRequired, userController.AddCoins)

	// Catalog routes
	auth.Get("/quiz-types", userController.GetQuizTypes)
	auth.Get("/categories", userController.GetCategories)
	auth.Get("/basic-items/:type", userController.GetBasicItemsByType)
	auth.Get("/questions", authRequired, userController.GetQuestions)

	// Admin routes
	adminController := controllers.NewAdminController(db, cfg)
	admin := app.Group("/api/admin")
	admin.Post("/login", adminController.Login)
	admin.Post("/logout", adminRequired, adminController.Logout)

	admin.Get("/users", adminRequired, adminController.GetAllUsers)
	admin.Get("/users/:id", adminRequired, adminController.GetUserByID)
	admin.Put("/users/:id", adminRequired, adminController.UpdateUser)
	admin.Delete("/users/:id", adminRequired, adminController.DeleteUserByID)

	admin.Get("/profile", adminRequired, adminController.GetProfile)
	admin.Put("/profile/password", adminRequired, adminController.ChangePassword)
	admin.Get("/leaderboard", adminRequired, adminController.GetLeaderboard)

	// Admin taxonomy routes
	basicItemController := controllers.NewBasicItemController(db, cfg)
	admin.Get("/basic-item/:basicItem", adminRequired, basicItemController.GetBasicItems)
	admin.Post("/basic-item/:basicItem", adminRequired, basicItemController.CreateBasicItem)
	admin.Get("/basic-item/:basicItem/:id", adminRequired, basicItemController.GetBasicItemByID)
	admin.Put("/basic-item/:basicItem/:id", adminRequired, basicItemController.UpdateBasicItem)
	admin.Delete("/basic-item/:basicItem/:id", adminRequired, basicItemController.DeleteBasicItem)

	// Admin question routes, scoped by quiz-type slug
	questionController := controllers.NewQuestionController(db, cfg)
	admin.Get("/:quizType/questions", adminRequired, questionController.GetAllQuestions)
	admin.Post("/:quizType/question", adminRequired, questionController.CreateQuestion)
	admin.Get("/:quizType/question/:id", adminRequired, questionController.GetQuestionByID)
	admin.Put("/:quizType/question/:id", adminRequired, questionController.UpdateQuestion)
	admin.Delete("/:quizType/question/:id", adminRequired, questionController.DeleteQuestion)
}
