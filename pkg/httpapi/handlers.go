package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studyloop/tutorbridge/pkg/search"
	"github.com/studyloop/tutorbridge/pkg/tutor"
)

type chatRequestBody struct {
	Username      string       `json:"username"`
	Message       string       `json:"message"`
	History       []tutor.Turn `json:"history"`
	UseWebSearch  bool         `json:"use_web_search"`
	AutoWebSearch bool         `json:"auto_web_search"`
	SearchLimit   int          `json:"search_limit"`
}

type searchRequestBody struct {
	Username string `json:"username"`
	Query    string `json:"query"`
	Limit    int    `json:"limit"`
}

type enrollRequestBody struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s *Service) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Service) handleChat(c *gin.Context) {
	var body chatRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	username := strings.TrimSpace(body.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	if !s.authorize(c, username) {
		return
	}

	history := body.History
	if len(history) == 0 && s.users != nil {
		messages, err := s.users.History(c.Request.Context(), username, 0)
		if err != nil {
			s.log.Warn().Err(err).Str("user", username).Msg("failed to load stored history")
		} else {
			for _, m := range messages {
				history = append(history, tutor.Turn{Role: tutor.Role(m.Role), Content: m.Content})
			}
		}
	}

	resp, err := s.chatter.Chat(c.Request.Context(), tutor.ChatRequest{
		Username:      username,
		Message:       body.Message,
		History:       history,
		UseWebSearch:  body.UseWebSearch,
		AutoWebSearch: body.AutoWebSearch,
		SearchLimit:   body.SearchLimit,
	})
	if err != nil {
		switch {
		case errors.Is(err, tutor.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, tutor.ErrMissingCredentials):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	if s.users != nil {
		ctx := c.Request.Context()
		if _, err := s.users.AppendMessage(ctx, username, string(tutor.RoleUser), strings.TrimSpace(body.Message)); err != nil {
			s.log.Warn().Err(err).Str("user", username).Msg("failed to persist user message")
		}
		if _, err := s.users.AppendMessage(ctx, username, string(tutor.RoleAssistant), resp.Answer); err != nil {
			s.log.Warn().Err(err).Str("user", username).Msg("failed to persist assistant message")
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Service) handleSearch(c *gin.Context) {
	var body searchRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	username := strings.TrimSpace(body.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	if !s.authorize(c, username) {
		return
	}

	outcome, err := s.searcher.Run(c.Request.Context(), body.Query, body.Limit)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *Service) handleEnrollUser(c *gin.Context) {
	var body enrollRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if s.users == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "user directory is not configured"})
		return
	}
	if err := s.users.UpsertUser(c.Request.Context(), body.Username, body.Role); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": strings.TrimSpace(body.Username)})
}

// authorize rejects usernames missing from the directory with 403. A nil
// directory means the surface runs open, which tests rely on.
func (s *Service) authorize(c *gin.Context, username string) bool {
	if s.users == nil {
		return true
	}
	known, err := s.users.IsKnownUser(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return false
	}
	if !known {
		c.JSON(http.StatusForbidden, gin.H{"error": "unknown user"})
		return false
	}
	return true
}
