// Package client is the Go counterpart of the web app's API service layer:
// it talks to the quiz platform API, keeps the bearer token from login, and
// feeds question sets into quiz sessions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"quizapp/backend/quiz"
)

// APIError carries the server's message for a non-success response.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s (%s)", e.Message, e.Code)
	}
	return "api: " + e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Token returns the bearer token captured by Login or Register.
func (c *Client) Token() string { return c.token }

// SetToken installs a previously issued token, the way the SPA restores one
// from local storage.
func (c *Client) SetToken(token string) { c.token = token }

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	QuizCoins int    `json:"quizCoins"`
}

type BasicItem struct {
	ID   string `json:"_id"`
	Type string `json:"type"`
	Name string `json:"name"`
	Img  string `json:"img"`
}

type Question struct {
	ID       string     `json:"_id"`
	QuizType string     `json:"quizType"`
	Category *BasicItem `json:"category"`
	Skill    *BasicItem `json:"skill"`
	Question string     `json:"question"`
	Options  []string   `json:"options"`
	Answer   string     `json:"answer"`
	Coins    int        `json:"coins"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out.User, nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out struct {
		Success bool `json:"success"`
		User    User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if err == nil {
		c.token = ""
	}
	return err
}

func (c *Client) QuizTypes(ctx context.Context) ([]string, error) {
	var out struct {
		Success   bool     `json:"success"`
		QuizTypes []string `json:"quizTypes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/quiz-types", nil, &out); err != nil {
		return nil, err
	}
	return out.QuizTypes, nil
}

func (c *Client) Categories(ctx context.Context) ([]BasicItem, error) {
	var out struct {
		Success    bool        `json:"success"`
		Categories []BasicItem `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) BasicItems(ctx context.Context, itemType string) ([]BasicItem, error) {
	var out struct {
		Success bool        `json:"success"`
		Items   []BasicItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/basic-items/"+url.PathEscape(itemType), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Filter selects the question set for a session. Empty fields are left
// unconstrained.
type Filter struct {
	QuizType       string
	Skill          string
	Category       string
	Classification string
	Level          string
}

func (c *Client) Questions(ctx context.Context, f Filter) ([]Question, error) {
	params := url.Values{}
	if f.QuizType != "" {
		params.Set("quizType", f.QuizType)
	}
	if f.Skill != "" {
		params.Set("skill", f.Skill)
	}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.Classification != "" {
		params.Set("classification", f.Classification)
	}
	if f.Level != "" {
		params.Set("level", f.Level)
	}

	path := "/api/auth/questions"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out struct {
		Success   bool       `json:"success"`
		Questions []Question `json:"questions"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

// AddCoins posts earned coins and returns the new balance. This makes the
// client a quiz.CoinReporter, so a session can flush through it directly.
func (c *Client) AddCoins(ctx context.Context, coins int) (int, error) {
	var out struct {
		Success   bool `json:"success"`
		QuizCoins int  `json:"quizCoins"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/add-coins", map[string]int{"coins": coins}, &out)
	if err != nil {
		return 0, err
	}
	return out.QuizCoins, nil
}

// NewSession fetches the filtered question set and loads it into a session
// that flushes coins back through this client.
func (c *Client) NewSession(ctx context.Context, f Filter) (*quiz.Session, error) {
	questions, err := c.Questions(ctx, f)
	if err != nil {
		return nil, err
	}

	set := make([]quiz.Question, 0, len(questions))
	for _, q := range questions {
		set = append(set, quiz.Question{
			ID:      q.ID,
			Text:    q.Question,
			Options: q.Options,
			Answer:  q.Answer,
			Coins:   q.Coins,
		})
	}

	session := quiz.New(c)
	if err := session.Load(set); err != nil {
		return nil, err
	}
	return session, nil
}

var _ quiz.CoinReporter = (*Client)(nil)

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message, Code: apiErr.Code}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.New("api: could not decode response")
	}
	return nil
}
