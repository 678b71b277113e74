// Package handler provides HTTP request handlers for the application.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/ppopeskul/sms-relay/internal/api"
	"github.com/ppopeskul/sms-relay/internal/config"
	"github.com/ppopeskul/sms-relay/internal/middleware"
	"github.com/ppopeskul/sms-relay/internal/models"
	"github.com/ppopeskul/sms-relay/internal/provider"
	"github.com/ppopeskul/sms-relay/internal/service"
)

const (
	errorCodeValidation       = "VALIDATION_ERROR"
	errorCodeNotConfigured    = "PROVIDER_NOT_CONFIGURED"
	errorCodeSendFailed       = "PROVIDER_SEND_FAILED"
	errorCodeMalformedRequest = "MALFORMED_REQUEST"
)

const (
	errorMessageNotConfigured       = "Provider credentials are not configured"
	errorMessageMalformedRequest    = "Request body could not be parsed"
	errorMessageFailedToGetContacts = "Failed to retrieve contacts"
	errorMessageFailedToGetMessages = "Failed to retrieve messages"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 1000
)

// defaults for the debug seed endpoint
const (
	seedDefaultFrom = "+15005550006"
	seedDefaultBody = "Seeded inbound message"
)

type Handler struct {
	cfg     *config.Config
	service *service.Service
	logger  *zap.Logger
}

// NewHandler creates a new handler instance that implements api.ServerInterface.
func NewHandler(cfg *config.Config, service *service.Service, logger *zap.Logger) api.ServerInterface {
	return &Handler{
		cfg:     cfg,
		service: service,
		logger:  logger,
	}
}

// ReceiveWebhook implements api.ServerInterface. The provider expects an
// acknowledgment no matter what, so every exit path past signature
// validation answers 200 with the ack document.
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := r.ParseForm(); err != nil {
		h.logger.Warn("Unparseable webhook payload",
			zap.String("request_id", requestID),
			zap.Error(err))
		writeAck(w, "")
		return
	}

	if secret := h.cfg.Webhook.AuthSecret; secret != "" {
		provided := r.Header.Get(provider.SignatureHeader)
		if !provider.ValidateSignature(secret, canonicalURL(r), r.PostForm, provided) {
			h.logger.Warn("Webhook signature rejected",
				zap.String("request_id", requestID),
				zap.String("remote_addr", r.RemoteAddr))
			h.sendError(w, r, http.StatusForbidden, middleware.ErrorCodeForbidden, middleware.ErrorMessageBadSignature)
			return
		}
	}

	from := r.PostFormValue("From")
	to := r.PostFormValue("To")
	body := r.PostFormValue("Body")
	mediaURLs := extractMediaURLs(r.PostFormValue)

	if _, err := h.service.Messages.RecordInbound(r.Context(), from, to, body, mediaURLs); err != nil {
		// The webhook sender is acknowledged regardless of storage outcome.
		h.logger.Error("Failed to record inbound message",
			zap.String("request_id", requestID),
			zap.Error(err))
	}

	writeAck(w, h.cfg.Webhook.AutoReplyBody)
}

// ListContacts implements api.ServerInterface.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.Threads.ListContacts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list contacts",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedToGetContacts)
		return
	}

	render.JSON(w, r, api.ContactsResponse{Contacts: contacts})
}

// GetMessages implements api.ServerInterface. With a phone it returns that
// contact's full thread; without one, the most recent records ascending.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request, params api.GetMessagesParams) {
	var (
		messages []*models.Message
		err      error
	)

	if params.Phone != nil && *params.Phone != "" {
		messages, err = h.service.Threads.GetThread(r.Context(), *params.Phone)
	} else {
		limit := defaultRecentLimit
		if params.Limit != nil && *params.Limit >= 1 && *params.Limit <= maxRecentLimit {
			limit = *params.Limit
		}
		messages, err = h.service.Threads.RecentMessages(r.Context(), limit)
	}

	if err != nil {
		h.logger.Error("Failed to get messages",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedToGetMessages)
		return
	}

	render.JSON(w, r, api.MessageListResponse{Messages: toAPIMessages(messages)})
}

// SendMessage implements api.ServerInterface.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req api.SendMessageJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeMalformedRequest, errorMessageMalformedRequest)
		return
	}

	var body, mediaURL string
	if req.Body != nil {
		body = *req.Body
	}
	if req.MediaUrl != nil {
		mediaURL = *req.MediaUrl
	}

	outcome, err := h.service.Messages.Send(r.Context(), req.To, body, mediaURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			h.sendError(w, r, http.StatusBadRequest, errorCodeValidation, err.Error())
		case errors.Is(err, service.ErrConfiguration):
			h.sendError(w, r, http.StatusInternalServerError, errorCodeNotConfigured, errorMessageNotConfigured)
		case errors.Is(err, service.ErrTransmission):
			h.sendError(w, r, http.StatusBadGateway, errorCodeSendFailed, err.Error())
		default:
			h.logger.Error("Send failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, middleware.ErrorMessageInternal)
		}
		return
	}

	resp := api.SendMessageResponse{Id: outcome.Message.ID}
	if outcome.Warning != "" {
		warning := outcome.Warning
		resp.Warning = &warning
	}

	render.JSON(w, r, resp)
}

// SeedMessage implements api.ServerInterface. Registered behavior only in
// the debug profile; production deployments answer 404.
func (h *Handler) SeedMessage(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.Server.EnableDebug {
		http.NotFound(w, r)
		return
	}

	var req api.SeedMessageJSONRequestBody
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	from := seedDefaultFrom
	if req.From != nil && *req.From != "" {
		from = *req.From
	}
	body := seedDefaultBody
	if req.Body != nil && *req.Body != "" {
		body = *req.Body
	}
	to := h.cfg.Provider.FromNumber
	if to == "" {
		to = "+15005550000"
	}

	msg, err := h.service.Messages.RecordInbound(r.Context(), from, to, body, nil)
	if err != nil {
		h.logger.Error("Failed to seed message",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, middleware.ErrorMessageInternal)
		return
	}

	render.JSON(w, r, api.SendMessageResponse{Id: msg.ID})
}

// HealthCheck implements api.ServerInterface.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := h.service.Health.GetHealth(r.Context())

	response := api.HealthResponse{
		Status:    health.Status,
		Timestamp: time.Now(),
	}

	dbStatus := health.DatabaseStatus
	response.DatabaseStatus = &dbStatus

	redisStatus := health.RedisStatus
	response.RedisStatus = &redisStatus

	mode := health.StorageMode
	response.StorageMode = &mode

	location := health.StorageLocation
	response.StorageLocation = &location

	sweeper := health.SweeperStatus
	response.SweeperStatus = &sweeper

	if health.CircuitBreakerStatus != "" {
		response.CircuitBreakerStatus = &health.CircuitBreakerStatus
	}
	if health.CircuitBreakerState != "" {
		state := health.CircuitBreakerState
		response.CircuitBreakerState = &state
	}

	if health.Status == api.Unhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	render.JSON(w, r, response)
}

func toAPIMessages(messages []*models.Message) []api.Message {
	out := make([]api.Message, 0, len(messages))
	for _, msg := range messages {
		m := api.Message{
			Id:        msg.ID,
			From:      msg.From,
			To:        msg.To,
			Body:      msg.Body,
			Direction: api.MessageDirection(msg.Direction),
			At:        msg.At,
		}
		if len(msg.MediaURLs) > 0 {
			urls := []string(msg.MediaURLs)
			m.MediaUrls = &urls
		}
		out = append(out, m)
	}
	return out
}

func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, api.ErrorResponse{
		Error:   errorCode,
		Message: message,
		Timestamp: func() *time.Time {
			t := time.Now()
			return &t
		}(),
	})
}
