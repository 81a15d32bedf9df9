// Package sinkstub is a stand-in lead capture service for local runs and
// tests. It accepts POST /api/leads, keeps the first payload per lead id in
// Redis and answers repeats as duplicates.
package sinkstub

import (
	"net/http"
	"strings"
	"time"

	"inverter-savings/internal/common/logger"
	"inverter-savings/internal/common/validation"
	"inverter-savings/internal/models"
	"inverter-savings/internal/submission"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// leadRequest mirrors the fields the stub insists on.
type leadRequest struct {
	LeadID   string `validate:"required,startswith=LEAD-"`
	Company  string `validate:"required"`
	ACUnits  int    `validate:"min=1"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required"`
	Priority string `validate:"oneof=LOW MEDIUM HIGH"`
}

type Server struct {
	store *RedisStore
	val   *validation.Validator
	now   func() time.Time
	log   logger.Logger
}

func NewServer(store *RedisStore, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Server{
		store: store,
		val:   validation.New(),
		now:   time.Now,
		log:   log,
	}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.POST(submission.LeadsPath, s.handleCreate)
	r.GET(submission.LeadsPath+"/:id", s.handleGet)
	return r
}

func (s *Server) handleCreate(c *gin.Context) {
	var payload models.LeadPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.reject(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req := leadRequest{
		LeadID:   payload.LeadID,
		Company:  payload.Company.Name,
		ACUnits:  payload.Company.ACUnits,
		Email:    payload.Contact.Email,
		Phone:    payload.Contact.Phone,
		Priority: string(payload.Priority),
	}
	if err := s.val.Struct(req); err != nil {
		s.reject(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if key := strings.TrimSpace(c.GetHeader("Idempotency-Key")); key != "" && key != payload.LeadID {
		s.reject(c, http.StatusBadRequest, "Idempotency-Key does not match leadId")
		return
	}

	stored, created, err := s.store.PutIfAbsent(c.Request.Context(), StoredLead{
		CRMID:      uuid.NewString(),
		ReceivedAt: s.now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		s.log.Error("failed to store lead", map[string]interface{}{"leadId": payload.LeadID, "error": err})
		c.JSON(http.StatusInternalServerError, models.SinkResponse{Success: false, Message: "storage unavailable"})
		return
	}

	data := map[string]interface{}{
		"leadId":     stored.Payload.LeadID,
		"crmId":      stored.CRMID,
		"receivedAt": stored.ReceivedAt.Format(time.RFC3339),
		"duplicate":  !created,
	}

	if !created {
		s.log.Info("duplicate lead ignored", map[string]interface{}{"leadId": payload.LeadID})
		c.JSON(http.StatusOK, models.SinkResponse{Success: true, Message: "Lead already captured", Data: data})
		return
	}

	s.log.Info("lead captured", map[string]interface{}{
		"leadId":   payload.LeadID,
		"priority": string(payload.Priority),
		"score":    payload.LeadScore,
	})
	c.JSON(http.StatusCreated, models.SinkResponse{Success: true, Message: "Lead captured", Data: data})
}

func (s *Server) handleGet(c *gin.Context) {
	lead, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.SinkResponse{Success: false, Message: "storage unavailable"})
		return
	}
	if lead == nil {
		c.JSON(http.StatusNotFound, models.SinkResponse{Success: false, Message: "lead not found"})
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (s *Server) reject(c *gin.Context, status int, msg string) {
	s.log.Warn("lead rejected", map[string]interface{}{"status": status, "reason": msg})
	c.JSON(status, models.SinkResponse{Success: false, Message: msg})
}
