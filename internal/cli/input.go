// Package cli handles the interactive query loop for debugging and testing
// a built engine from a terminal.
package cli

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sentserve/sentserve/pkg/suggest"
)

// InputHandler reads queries from stdin and prints ranked completions.
type InputHandler struct {
	engine *suggest.Engine
	limit  int
}

// NewInputHandler handles initialization of the InputHandler
func NewInputHandler(engine *suggest.Engine, limit int) *InputHandler {
	return &InputHandler{engine: engine, limit: limit}
}

// Start begins the interface loop. It continuously prompts for input, reads
// a line from stdin, and runs the trimmed query against the engine. The
// loop terminates when stdin closes.
func (h *InputHandler) Start() error {
	log.Printf("SentServe CLI — %d sentences loaded", h.engine.Count())
	log.Print("type a sentence prefix and press Enter (Ctrl+C to exit):")
	reader := bufio.NewReader(os.Stdin)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		h.handleQuery(query)
	}
}

// handleQuery runs a single query and prints results with timing.
func (h *InputHandler) handleQuery(query string) {
	start := time.Now()
	results, err := h.engine.Complete(query, h.limit)
	if err != nil {
		log.Errorf("complete: %v", err)
		return
	}
	took := time.Since(start)

	if len(results) == 0 {
		log.Infof("no completions (%v)", took)
		return
	}
	for i, r := range results {
		log.Printf("%2d. [%3d] %s  (%s:%d)", i+1, r.Score, r.Sentence, r.Source, r.Offset)
	}
	log.Debugf("%d results in %v", len(results), took)
}
