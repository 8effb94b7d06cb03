package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/sentserve/sentserve/internal/logger"
	"github.com/sentserve/sentserve/pkg/config"
	"github.com/sentserve/sentserve/pkg/suggest"
)

// Server handles the IPC for sentence completions. It owns no engine state:
// the engine is built before Start and only read afterwards, so a single
// server loop never races queries against a rebuild.
type Server struct {
	engine *suggest.Engine
	cfg    config.ServerConfig
	dec    *msgpack.Decoder
	enc    *msgpack.Encoder
	log    *log.Logger
}

// NewServer creates a completion server using stdin/stdout for IPC.
func NewServer(engine *suggest.Engine, cfg config.ServerConfig) *Server {
	return NewServerIO(engine, cfg, os.Stdin, os.Stdout)
}

// NewServerIO creates a completion server over arbitrary streams.
func NewServerIO(engine *suggest.Engine, cfg config.ServerConfig, r io.Reader, w io.Writer) *Server {
	return &Server{
		engine: engine,
		cfg:    cfg,
		dec:    msgpack.NewDecoder(r),
		enc:    msgpack.NewEncoder(w),
		log:    logger.New("server"),
	}
}

// Start signals readiness and processes completion requests until the input
// stream closes.
func (s *Server) Start() error {
	s.log.Debug("Starting server.")

	if err := s.enc.Encode(&StatusResponse{Status: "ready"}); err != nil {
		return fmt.Errorf("signal ready: %w", err)
	}

	for {
		var req CompletionRequest
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleComplete(req)
	}
}

// handleComplete runs one completion request against the engine.
func (s *Server) handleComplete(req CompletionRequest) {
	n := utf8.RuneCountInString(req.Query)
	if n < s.cfg.MinQuery {
		s.sendError(req.ID, fmt.Sprintf("query too short: %d runes (min %d)", n, s.cfg.MinQuery), 400)
		return
	}
	if n > s.cfg.MaxQuery {
		s.sendError(req.ID, fmt.Sprintf("query too long: %d runes (max %d)", n, s.cfg.MaxQuery), 400)
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.engine.Config().TopK
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	start := time.Now()
	results, err := s.engine.Complete(req.Query, limit)
	if err != nil {
		s.sendError(req.ID, err.Error(), 500)
		return
	}
	took := time.Since(start).Microseconds()

	s.send(&CompletionResponse{
		ID:        req.ID,
		Results:   results,
		Count:     len(results),
		TimeTaken: took,
	})
}

func (s *Server) send(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error frame
func (s *Server) sendError(id, message string, code int) {
	s.send(&CompletionError{ID: id, Error: message, Code: code})
}
