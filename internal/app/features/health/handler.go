package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/scorehub/internal/app/store/secrets"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// pingTimeout bounds the backend probes so a hung dependency cannot
// stall the endpoint.
const pingTimeout = 5 * time.Second

// Handler holds the backends the health check probes.
type Handler struct {
	Client  *mongo.Client
	Secrets *secrets.Store
	Log     *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client, secret
// store and logger.
func NewHandler(client *mongo.Client, secretStore *secrets.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Client:  client,
		Secrets: secretStore,
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Secrets  string `json:"secrets"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "secrets":"connected" }
//
// On backend failure: 503 with the failing component marked disconnected.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Secrets:  "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
	}

	if err := h.Secrets.Ping(ctx); err != nil {
		h.Log.Error("health-check: redis ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Secrets = "disconnected"
		if resp.Message == "" {
			resp.Message = "Secret store unavailable"
			resp.Error = err.Error()
		}
	}

	if resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
