package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"scamtrap/internal/models"
	"scamtrap/internal/relay"
	"scamtrap/internal/scamdb"
	"scamtrap/internal/service/honeypot"
)

// Evaluator exposes the relay to the direct evaluation endpoint.
type Evaluator interface {
	Evaluate(ctx context.Context, history []relay.Turn, scamType models.ScamType) (*models.HoneypotResult, error)
}

// Handler wires HTTP routes to the honeypot orchestrator and store.
type Handler struct {
	store        *honeypot.Service
	orchestrator *honeypot.Orchestrator
	relay        Evaluator
}

// NewHandler constructs a Handler instance.
func NewHandler(store *honeypot.Service, orchestrator *honeypot.Orchestrator, evaluator Evaluator) *Handler {
	return &Handler{
		store:        store,
		orchestrator: orchestrator,
		relay:        evaluator,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/conversations", h.listConversations)
	api.POST("/conversations", h.startConversation)
	api.GET("/conversations/:id", h.getConversation)
	api.GET("/conversations/:id/messages", h.getMessages)
	api.POST("/conversations/:id/messages", h.continueConversation)
	api.GET("/stats", h.getStats)
	api.GET("/templates", h.listTemplates)
	api.GET("/templates/random", h.randomTemplate)
	api.POST("/honeypot/evaluate", h.evaluate)
}

// relayError maps the relay's failure taxonomy onto HTTP statuses.
func relayError(c *gin.Context, err error) {
	var upstream *relay.UpstreamError
	switch {
	case errors.Is(err, relay.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, relay.ErrQuotaExceeded):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.As(err, &upstream):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
	}
}

type startConversationRequest struct {
	ScamType models.ScamType `json:"scam_type"`
	Message  string          `json:"message"`
}

func (h *Handler) startConversation(c *gin.Context) {
	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !models.ValidScamType(req.ScamType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scam type"})
		return
	}
	conv, messages, err := h.orchestrator.StartConversation(c.Request.Context(), req.ScamType, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, honeypot.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, honeypot.ErrTurnInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			relayError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"conversation": conv, "messages": messages})
}

type continueConversationRequest struct {
	Message string `json:"message"`
}

func (h *Handler) continueConversation(c *gin.Context) {
	var req continueConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	conv, reply, err := h.orchestrator.ContinueConversation(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, honeypot.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, sql.ErrNoRows):
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		case errors.Is(err, honeypot.ErrConversationClosed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, honeypot.ErrTurnInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			relayError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv, "reply": reply})
}

func (h *Handler) listConversations(c *gin.Context) {
	conversations, err := h.store.ListConversations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list conversations"})
		return
	}
	if conversations == nil {
		conversations = []*models.Conversation{}
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

func (h *Handler) getConversation(c *gin.Context) {
	conv, err := h.store.GetConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

func (h *Handler) getMessages(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.GetConversation(c.Request.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
		}
		return
	}
	messages, err := h.store.ListMessages(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) listTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": scamdb.Catalog()})
}

func (h *Handler) randomTemplate(c *gin.Context) {
	scamType := models.ScamType(c.Query("type"))
	if scamType != "" && !models.ValidScamType(scamType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scam type"})
		return
	}
	pick, ok := scamdb.Random(scamType)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no template for type"})
		return
	}
	c.JSON(http.StatusOK, pick)
}

type evaluateRequest struct {
	Messages []relay.Turn    `json:"messages"`
	ScamType models.ScamType `json:"scam_type"`
}

// evaluate runs the relay directly against a caller-supplied history
// without touching stored conversations.
func (h *Handler) evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	result, err := h.relay.Evaluate(c.Request.Context(), req.Messages, req.ScamType)
	if err != nil {
		switch {
		case errors.Is(err, relay.ErrEmptyHistory), errors.Is(err, relay.ErrInvalidScamType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			relayError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
