package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	apperrors "github.com/nimyab/word-aligner/internal/errors"
	"github.com/nimyab/word-aligner/internal/logging"
	"github.com/nimyab/word-aligner/internal/server/ports"
)

// streamRequest is one frame on the batch websocket: the sentence pair
// plus a client-chosen id echoed back so responses can be correlated.
type streamRequest struct {
	ID         string `json:"id"`
	SourceText string `json:"st"`
	TargetText string `json:"tt"`
	Method     string `json:"method,omitempty"`
}

type streamResponse struct {
	ID         string          `json:"id"`
	Alignments []wireAlignment `json:"a,omitempty"`
	Method     string          `json:"method,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// StreamHandler serves the websocket batch endpoint: one connection
// aligns many sentence pairs, one frame per pair. Per-pair failures are
// answered on the frame and keep the connection open; only transport
// errors close it.
type StreamHandler struct {
	service  ports.AlignmentService
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// StreamOption configures a StreamHandler.
type StreamOption func(*StreamHandler)

// WithStreamLogger replaces the stream logger.
func WithStreamLogger(logger logging.Logger) StreamOption {
	return func(s *StreamHandler) {
		if !logging.IsNil(logger) {
			s.logger = logger
		}
	}
}

// NewStreamHandler creates the websocket handler.
func NewStreamHandler(service ports.AlignmentService, opts ...StreamOption) *StreamHandler {
	s := &StreamHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// CORS is allow-all on the JSON endpoints; the
				// websocket mirrors that.
				return true
			},
		},
		logger: logging.NewComponentLogger("ws"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// HandleStream upgrades the connection and aligns frames until the
// client disconnects.
func (s *StreamHandler) HandleStream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written its own error response.
		s.logger.Warn("Websocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ctx := c.Request.Context()
	s.logger.Info("Websocket stream opened request_id=%s", RequestIDFrom(c))

	for {
		var req streamRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("Websocket read failed: %v", err)
			}
			return
		}

		resp := s.alignFrame(c, req)
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("Websocket write failed: %v", err)
			return
		}

		if ctx.Err() != nil {
			return
		}
	}
}

func (s *StreamHandler) alignFrame(c *gin.Context, req streamRequest) streamResponse {
	result, err := s.service.Align(c.Request.Context(), req.SourceText, req.TargetText, req.Method)
	if err != nil {
		if !apperrors.IsValidation(err) {
			s.logger.Error("Stream alignment failed id=%q: %v", req.ID, err)
		}
		return streamResponse{ID: req.ID, Error: err.Error()}
	}

	alignments := make([]wireAlignment, len(result.Records))
	for i, rec := range result.Records {
		alignments[i] = wireAlignment{
			SourceWord: rec.SourceWord,
			TargetWord: rec.TargetWord,
			SourceSpan: rec.SourceSpan,
			TargetSpan: rec.TargetSpan,
		}
	}
	return streamResponse{ID: req.ID, Alignments: alignments, Method: string(result.Method)}
}
