package controllers

import (
	"quizapp/backend/config"
	"quizapp/backend/models"
	"quizapp/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BasicItemController handles the admin taxonomy CRUD
// (/admin/basic-item/:basicItem...).
type BasicItemController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewBasicItemController(db *gorm.DB, cfg *config.Config) *BasicItemController {
	return &BasicItemController{DB: db, Cfg: cfg}
}

func (bc *BasicItemController) GetBasicItems(c *fiber.Ctx) error {
	itemType := c.Params("basicItem")
	if !models.ValidBasicItemType(itemType) {
		return utils.BadRequest(c, "Invalid basic item type: "+itemType)
	}

	var items []models.BasicItem
	if err := bc.DB.Where("type = ?", itemType).Find(&items).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while fetching "+itemType)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"items":   items,
	})
}

func (bc *BasicItemController) GetBasicItemByID(c *fiber.Ctx) error {
	var item models.BasicItem
	if err := bc.DB.Where("id = ?", c.Params("id")).First(&item).Error; err != nil {
		return utils.NotFound(c, "Basic item not found")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"basicItem": item,
	})
}

// CreateBasicItem creates a taxonomy item. The type comes from the URL, not
// the body, and is fixed for the item's lifetime.
func (bc *BasicItemController) CreateBasicItem(c *fiber.Ctx) error {
	itemType := c.Params("basicItem")
	if !models.ValidBasicItemType(itemType) {
		return utils.BadRequest(c, "Invalid basic item type: "+itemType)
	}

	var input struct {
		Name string `json:"name"`
		Img  string `json:"img"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	item := models.BasicItem{
		Type: itemType,
		Name: input.Name,
		Img:  input.Img,
	}
	if err := item.Validate(); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if err := bc.DB.Create(&item).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while creating basic item")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"basicItem": item,
	})
}

func (bc *BasicItemController) UpdateBasicItem(c *fiber.Ctx) error {
	var input struct {
		Name string `json:"name"`
		Img  string `json:"img"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var item models.BasicItem
	if err := bc.DB.Where("id = ?", c.Params("id")).First(&item).Error; err != nil {
		return utils.NotFound(c, "Basic item not found")
	}

	if input.Name != "" {
		item.Name = input.Name
	}
	if input.Img != "" {
		item.Img = input.Img
	}
	if err := item.Validate(); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if err := bc.DB.Save(&item).Error; err != nil {
		return utils.InternalServerError(c, "An error occurred while updating basic item")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"basicItem": item,
	})
}

func (bc *BasicItemController) DeleteBasicItem(c *fiber.Ctx) error {
	result := bc.DB.Where("id = ?", c.Params("id")).Delete(&models.BasicItem{})
	if result.Error != nil {
		return utils.InternalServerError(c, "An error occurred while deleting basic item")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Basic item not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Basic item deleted successfully",
	})
}
