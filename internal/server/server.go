// Package server exposes the codec over a small HTTP API.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/facturx/internal/cii"
	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/pdf"
	"github.com/rezonia/facturx/internal/render"
)

// Config holds server configuration.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
	Logger       zerolog.Logger
}

// Server is the HTTP API server.
type Server struct {
	config *Config
	router *gin.Engine
	log    zerolog.Logger
}

// NewServer creates a new API server.
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		config: config,
		router: router,
		log:    config.Logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/parse", s.handleParse)
		v1.POST("/validate", s.handleValidate)
		v1.POST("/extract", s.handleExtract)
		v1.POST("/info", s.handleInfo)
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.log.Info().Str("address", s.config.Address).Msg("starting server")
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) body(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return nil, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}
	return body, true
}

func (s *Server) handleParse(c *gin.Context) {
	body, ok := s.body(c)
	if !ok {
		return
	}

	var (
		inv *model.Invoice
		err error
	)
	if isPDF(body) {
		inv, _, err = pdf.ParsePDF(body)
	} else {
		inv, err = cii.Parse(body)
	}
	if err != nil {
		s.log.Debug().Err(err).Msg("parse failed")
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:      err.Error(),
			ErrorClass: errorClass(err),
		})
		return
	}

	response := ParseResponse{Invoice: summarize(inv)}
	if c.Query("text") == "true" {
		response.Text = render.Render(inv, render.DefaultOptions())
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleValidate(c *gin.Context) {
	body, ok := s.body(c)
	if !ok {
		return
	}

	inv, err := cii.Parse(body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ValidationResponse{
			Valid:      false,
			ErrorClass: errorClass(err),
			Error:      err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, ValidationResponse{
		Valid:   true,
		Profile: inv.Profile.String(),
	})
}

func (s *Server) handleExtract(c *gin.Context) {
	body, ok := s.body(c)
	if !ok {
		return
	}
	if !isPDF(body) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body is not a PDF"})
		return
	}

	xml, rel, err := pdf.Extract(body)
	if err != nil {
		status := http.StatusUnprocessableEntity
		var noInvoice *pdf.NoInvoiceError
		if errors.As(err, &noInvoice) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), ErrorClass: errorClass(err)})
		return
	}
	c.JSON(http.StatusOK, ExtractResponse{
		XML:          string(xml),
		Relationship: rel.String(),
	})
}

func (s *Server) handleInfo(c *gin.Context) {
	body, ok := s.body(c)
	if !ok {
		return
	}

	response := InfoResponse{Format: "xml", Size: len(body)}
	data := body
	if isPDF(body) {
		response.Format = "pdf"
		xml, _, err := pdf.Extract(body)
		if err != nil {
			c.JSON(http.StatusOK, response)
			return
		}
		data = xml
	}

	inv, err := cii.Parse(data)
	if err != nil {
		c.JSON(http.StatusOK, response)
		return
	}
	response.Profile = inv.Profile.String()
	response.GuidelineURN = inv.Profile.URN()
	response.Number = inv.Number
	c.JSON(http.StatusOK, response)
}

func isPDF(data []byte) bool {
	return len(data) >= 4 && data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F'
}

// errorClass names the outcome class of a parse failure for API clients.
func errorClass(err error) string {
	var (
		syntaxErr      *cii.SyntaxError
		notCII         *cii.NotCIIError
		unsupported    *cii.UnsupportedProfileError
		violation      *cii.ProfileViolationError
		structureErr   *cii.StructureError
		modelErr       *model.ModelError
		containerErr   *pdf.ContainerError
		noInvoiceErr   *pdf.NoInvoiceError
		relationshipEr *pdf.RelationshipError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return "syntax"
	case errors.As(err, &notCII):
		return "not-cii"
	case errors.As(err, &unsupported):
		return "unsupported-profile"
	case errors.As(err, &violation):
		return "profile-violation"
	case errors.As(err, &structureErr):
		return "structure"
	case errors.As(err, &modelErr):
		return "model"
	case errors.As(err, &containerErr):
		return "container"
	case errors.As(err, &noInvoiceErr):
		return "no-invoice"
	case errors.As(err, &relationshipEr):
		return "relationship"
	}
	return "internal"
}
