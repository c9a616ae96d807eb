package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"quizapp/backend/config"
	"quizapp/backend/models"
	"quizapp/backend/routes"
	"quizapp/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
)

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	teardown()
	os.Exit(code)
}

func setup() {
	cfg = &config.Config{
		DBHost:          envOr("TEST_DB_HOST", "localhost"),
		DBPort:          envOr("TEST_DB_PORT", "5432"),
		DBUser:          envOr("TEST_DB_USER", "postgres"),
		DBPassword:      envOr("TEST_DB_PASSWORD", "postgres"),
		DBName:          envOr("TEST_DB_NAME", "quiz_platform_test"),
		JWTSecret:       "testsecret",
		JWTExpiresHours: 24,
	}

	var err error
	db, err = utils.InitDB(cfg)
	if err != nil {
		// Tests skip individually when no test database is reachable
		db = nil
		return
	}

	// Start from a clean slate in case a previous run crashed
	db.Exec("DELETE FROM questions")
	db.Exec("DELETE FROM basic_items")
	db.Exec("DELETE FROM users")

	app = fiber.New()
	routes.SetupRoutes(app, db, cfg)
}

func teardown() {
	if db == nil {
		return
	}
	db.Migrator().DropTable(
		&models.Question{},
		&models.BasicItem{},
		&models.User{},
	)
}

func envOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func requireDB(t *testing.T) {
	t.Helper()
	if db == nil {
		t.Skip("test database not available")
	}
}

func request(t *testing.T, method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 10000)
	assert.NoError(t, err)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}

func registerUser(t *testing.T, name, email string) string {
	t.Helper()
	resp, result := request(t, "POST", "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": "secret1",
	}, "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	token, _ := result["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func createAdmin(t *testing.T, email string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-secret"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	admin := models.User{Name: "Admin", Email: email, Password: string(hash), Role: models.RoleAdmin}
	assert.NoError(t, db.Create(&admin).Error)

	resp, result := request(t, "POST", "/api/admin/login", map[string]string{
		"email": email, "password": "admin-secret",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	token, _ := result["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func createBasicItem(t *testing.T, adminToken, itemType, name string) string {
	t.Helper()
	resp, result := request(t, "POST", "/api/admin/basic-item/"+itemType, map[string]string{
		"name": name,
	}, adminToken)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	item := result["basicItem"].(map[string]interface{})
	return item["_id"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	requireDB(t)

	resp, result := request(t, "POST", "/api/auth/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	}, "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, result["token"])

	user := result["user"].(map[string]interface{})
	assert.Equal(t, "Alice", user["name"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password")

	resp, result = request(t, "POST", "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "secret1",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, result["token"])
	assert.NotContains(t, result["user"].(map[string]interface{}), "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	requireDB(t)

	registerUser(t, "Bob", "bob@example.com")

	var before int64
	db.Model(&models.User{}).Count(&before)

	// Same address in a different case must still collide
	resp, _ := request(t, "POST", "/api/auth/register", map[string]string{
		"name": "Bobby", "email": "Bob@Example.com", "password": "secret1",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var after int64
	db.Model(&models.User{}).Count(&after)
	assert.Equal(t, before, after)
}

func TestRegisterMissingFields(t *testing.T) {
	requireDB(t)

	resp, _ := request(t, "POST", "/api/auth/register", map[string]string{
		"name": "NoEmail", "password": "secret1",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginNoEnumerationLeak(t *testing.T) {
	requireDB(t)

	registerUser(t, "Carol", "carol@example.com")

	respWrong, resultWrong := request(t, "POST", "/api/auth/login", map[string]string{
		"email": "carol@example.com", "password": "wrongpass",
	}, "")
	respGhost, resultGhost := request(t, "POST", "/api/auth/login", map[string]string{
		"email": "ghost@example.com", "password": "whatever1",
	}, "")

	assert.Equal(t, fiber.StatusBadRequest, respWrong.StatusCode)
	assert.Equal(t, fiber.StatusBadRequest, respGhost.StatusCode)
	assert.Equal(t, resultWrong["message"], resultGhost["message"])
}

func TestProfileAuth(t *testing.T) {
	requireDB(t)

	resp, result := request(t, "GET", "/api/auth/profile", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "NO_TOKEN", result["code"])

	token := registerUser(t, "Dave", "dave@example.com")
	resp, result = request(t, "GET", "/api/auth/profile", nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	user := result["user"].(map[string]interface{})
	assert.Equal(t, "dave@example.com", user["email"])
	assert.NotEmpty(t, user["createdAt"])
	assert.NotContains(t, user, "password")
}

func TestProfileRejectsGarbageToken(t *testing.T) {
	requireDB(t)

	resp, result := request(t, "GET", "/api/auth/profile", nil, "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", result["code"])
}

func TestProfileRejectsExpiredToken(t *testing.T) {
	requireDB(t)

	registerUser(t, "Ivan", "ivan@example.com")

	expiredCfg := *cfg
	expiredCfg.JWTExpiresHours = -1
	var user models.User
	assert.NoError(t, db.Where("email = ?", "ivan@example.com").First(&user).Error)
	expired, err := utils.GenerateJWTToken(user.ID, &expiredCfg)
	assert.NoError(t, err)

	resp, result := request(t, "GET", "/api/auth/profile", nil, expired)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_EXPIRED", result["code"])
}

func TestCookieTokenAccepted(t *testing.T) {
	requireDB(t)

	token := registerUser(t, "Judy", "judy@example.com")

	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})

	resp, err := app.Test(req, 10000)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAddCoins(t *testing.T) {
	requireDB(t)

	token := registerUser(t, "Erin", "erin@example.com")

	resp, result := request(t, "POST", "/api/auth/add-coins", map[string]int{"coins": 25}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(25), result["quizCoins"])

	resp, result = request(t, "POST", "/api/auth/add-coins", map[string]int{"coins": 10}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(35), result["quizCoins"])

	resp, _ = request(t, "POST", "/api/auth/add-coins", map[string]int{"coins": 0}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = request(t, "POST", "/api/auth/add-coins", map[string]int{"coins": -5}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminScopeRejectsUsers(t *testing.T) {
	requireDB(t)

	token := registerUser(t, "Frank", "frank@example.com")

	resp, result := request(t, "GET", "/api/admin/users", nil, token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "NOT_ADMIN", result["code"])

	resp, result = request(t, "GET", "/api/admin/users", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "NO_TOKEN", result["code"])
}

func TestAdminLoginRejectsNonAdmin(t *testing.T) {
	requireDB(t)

	registerUser(t, "Grace", "grace@example.com")

	resp, _ := request(t, "POST", "/api/admin/login", map[string]string{
		"email": "grace@example.com", "password": "secret1",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestQuestionLifecycle(t *testing.T) {
	requireDB(t)

	adminToken := createAdmin(t, "qadmin@example.com")

	categoryID := createBasicItem(t, adminToken, "category", "Science")
	skillID := createBasicItem(t, adminToken, "skill", "Logic")
	classID := createBasicItem(t, adminToken, "classification", "General")
	levelID := createBasicItem(t, adminToken, "level", "Easy")

	questionBody := map[string]interface{}{
		"category":       categoryID,
		"skill":          skillID,
		"classification": classID,
		"level":          levelID,
		"question":       "What is 2+2?",
		"options":        []string{"3", "4", "5"},
		"answer":         "4",
		"coins":          10,
	}

	// Unknown slug is rejected before any query
	resp, _ := request(t, "POST", "/api/admin/speed-run/question", questionBody, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Answer must be one of the options
	bad := map[string]interface{}{}
	for k, v := range questionBody {
		bad[k] = v
	}
	bad["answer"] = "6"
	resp, _ = request(t, "POST", "/api/admin/normal-quiz/question", bad, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, result := request(t, "POST", "/api/admin/normal-quiz/question", questionBody, adminToken)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := result["question"].(map[string]interface{})
	assert.Equal(t, "Normal Quiz", created["quizType"])
	questionID := created["_id"].(string)

	resp, result = request(t, "GET", "/api/admin/normal-quiz/questions", nil, adminToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	questions := result["questions"].([]interface{})
	assert.Len(t, questions, 1)
	first := questions[0].(map[string]interface{})
	assert.Equal(t, "Science", first["category"].(map[string]interface{})["name"])

	// User-side filtered retrieval with populated taxonomy names
	userToken := registerUser(t, "Helen", "helen@example.com")
	params := url.Values{}
	params.Set("quizType", "Normal Quiz")
	params.Set("category", categoryID)
	params.Set("skill", skillID)
	params.Set("classification", classID)
	params.Set("level", levelID)
	resp, result = request(t, "GET", "/api/auth/questions?"+params.Encode(), nil, userToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, result["questions"].([]interface{}), 1)

	// Hidden questions disappear from the user-facing set
	resp, _ = request(t, "PUT", "/api/admin/normal-quiz/question/"+questionID,
		map[string]string{"status": "hidden"}, adminToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, result = request(t, "GET", "/api/auth/questions?"+params.Encode(), nil, userToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, result["questions"])

	resp, _ = request(t, "DELETE", "/api/admin/normal-quiz/question/"+questionID, nil, adminToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = request(t, "GET", "/api/admin/normal-quiz/question/"+questionID, nil, adminToken)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminChangePassword(t *testing.T) {
	requireDB(t)

	adminToken := createAdmin(t, "pwadmin@example.com")

	resp, _ := request(t, "PUT", "/api/admin/profile/password", map[string]string{
		"currentPassword": "wrong-secret", "newPassword": "next-secret",
	}, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = request(t, "PUT", "/api/admin/profile/password", map[string]string{
		"currentPassword": "admin-secret", "newPassword": "tiny",
	}, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = request(t, "PUT", "/api/admin/profile/password", map[string]string{
		"currentPassword": "admin-secret", "newPassword": "next-secret",
	}, adminToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Old password is gone, new one works
	resp, _ = request(t, "POST", "/api/admin/login", map[string]string{
		"email": "pwadmin@example.com", "password": "admin-secret",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, result := request(t, "POST", "/api/admin/login", map[string]string{
		"email": "pwadmin@example.com", "password": "next-secret",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, result["token"])
}

func TestAdminUpdateUserEmail(t *testing.T) {
	requireDB(t)

	adminToken := createAdmin(t, "upadmin@example.com")
	registerUser(t, "Kim", "kim@example.com")
	registerUser(t, "Liam", "liam@example.com")

	var kim models.User
	assert.NoError(t, db.Where("email = ?", "kim@example.com").First(&kim).Error)

	// Malformed address is rejected
	resp, _ := request(t, "PUT", "/api/admin/users/"+kim.ID, map[string]string{
		"email": "foo@",
	}, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Another user's address is rejected, case-insensitively
	resp, _ = request(t, "PUT", "/api/admin/users/"+kim.ID, map[string]string{
		"email": "Liam@Example.com",
	}, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, result := request(t, "PUT", "/api/admin/users/"+kim.ID, map[string]string{
		"email": "Kim.New@Example.com",
	}, adminToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := result["user"].(map[string]interface{})
	assert.Equal(t, "kim.new@example.com", updated["email"])
}

func TestQuestionCreateStoreFailureIsGeneric(t *testing.T) {
	requireDB(t)

	adminToken := createAdmin(t, "failadmin@example.com")

	// With the taxonomy table gone, the reference lookup fails as a store
	// error, not a dangling id
	assert.NoError(t, db.Migrator().DropTable(&models.BasicItem{}))
	defer func() {
		assert.NoError(t, db.AutoMigrate(&models.BasicItem{}))
	}()

	resp, result := request(t, "POST", "/api/admin/normal-quiz/question", map[string]interface{}{
		"category":       "00000000-0000-0000-0000-000000000001",
		"skill":          "00000000-0000-0000-0000-000000000002",
		"classification": "00000000-0000-0000-0000-000000000003",
		"level":          "00000000-0000-0000-0000-000000000004",
		"question":       "What is 2+2?",
		"options":        []string{"3", "4"},
		"answer":         "4",
	}, adminToken)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "An error occurred while creating question", result["message"])
}

func TestQuestionRejectsDanglingReference(t *testing.T) {
	requireDB(t)

	adminToken := createAdmin(t, "refadmin@example.com")
	categoryID := createBasicItem(t, adminToken, "category", "History")
	skillID := createBasicItem(t, adminToken, "skill", "Memory")
	classID := createBasicItem(t, adminToken, "classification", "World")

	resp, _ := request(t, "POST", "/api/admin/daily-quiz/question", map[string]interface{}{
		"category":       categoryID,
		"skill":          skillID,
		"classification": classID,
		"level":          "00000000-0000-0000-0000-000000000000",
		"question":       "When did WW2 end?",
		"options":        []string{"1943", "1945"},
		"answer":         "1945",
	}, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBasicItemTypeValidation(t *testing.T) {
	requireDB(t)

	adminToken := createAdmin(t, "itemadmin@example.com")

	resp, _ := request(t, "POST", "/api/admin/basic-item/genre", map[string]string{
		"name": "Rock",
	}, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = request(t, "GET", "/api/auth/basic-items/genre", nil, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	itemID := createBasicItem(t, adminToken, "avatar", "Robot")
	resp, result := request(t, "GET", "/api/auth/basic-items/avatar", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	found := false
	for _, raw := range result["items"].([]interface{}) {
		if raw.(map[string]interface{})["_id"] == itemID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLeaderboardOrdering(t *testing.T) {
	requireDB(t)

	adminToken := createAdmin(t, "lbadmin@example.com")

	for i, coins := range []int{30, 10, 20} {
		email := fmt.Sprintf("player%d@example.com", i)
		token := registerUser(t, fmt.Sprintf("Player%d", i), email)
		resp, _ := request(t, "POST", "/api/auth/add-coins", map[string]int{"coins": coins}, token)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, result := request(t, "GET", "/api/admin/leaderboard?limit=3", nil, adminToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	board := result["leaderboard"].([]interface{})
	assert.Len(t, board, 3)
	top := board[0].(map[string]interface{})
	assert.Equal(t, float64(1), top["rank"])
	assert.GreaterOrEqual(t, top["quizCoins"].(float64), float64(30))

	// Coins never increase down the board
	previous := top["quizCoins"].(float64)
	for _, raw := range board[1:] {
		entry := raw.(map[string]interface{})
		assert.LessOrEqual(t, entry["quizCoins"].(float64), previous)
		previous = entry["quizCoins"].(float64)
	}
}
