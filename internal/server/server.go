package server

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/dossier/internal/app"
	"github.com/agenthands/dossier/internal/core"
	"github.com/agenthands/dossier/internal/core/model"
	"github.com/agenthands/dossier/internal/report"
)

type Server struct {
	App *app.App
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	a, err := app.Load(context.Background(), cfgPath)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	return &Server{App: a}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)
	r.POST("/search", s.Search)
	r.POST("/generate", s.Generate)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// Search exposes the corpus query directly, for inspecting what the
// research loop would retrieve.
func (s *Server) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.TopK <= 0 {
		req.TopK = 5
	}

	chunks, err := s.App.Corpus.Search(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		log.Printf("Failed to search: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": chunks})
}

// Generate runs the full research loop over the checklist and streams
// progress as Server-Sent Events: one "progress" event per completed item,
// then a single "complete" (or "error") event with the assembled document.
func (s *Server) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	events := make(chan model.ProgressEvent, 4)
	type result struct {
		report *core.ReportState
		err    error
	}
	done := make(chan result, 1)

	go func() {
		rep, err := s.App.Researcher.Run(ctx, s.App.Checklist, events)
		done <- result{report: rep, err: err}
	}()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		event, ok := <-events
		if !ok {
			res := <-done
			if res.report != nil && s.App.Store != nil {
				if err := s.App.Store.SaveRun(ctx, res.report.RunID, res.report.CompletedSections); err != nil {
					log.Printf("Failed to persist run %s: %v", res.report.RunID, err)
				}
			}
			if res.err != nil {
				c.SSEvent("error", gin.H{"message": res.err.Error()})
				return false
			}
			c.SSEvent("complete", gin.H{
				"run_id":          res.report.RunID,
				"items_processed": len(res.report.CompletedSections),
				"document":        report.Assemble(s.App.Config.Report.Title, res.report.CompletedSections),
			})
			return false
		}

		if event.Done {
			// Final summary event; the complete payload follows on close.
			return true
		}
		c.SSEvent("progress", event)
		return true
	})
}
