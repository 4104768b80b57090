package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rezonia/customs-valuator/internal/fx"
	"github.com/rezonia/customs-valuator/internal/logger"
	"github.com/rezonia/customs-valuator/internal/model"
	"github.com/rezonia/customs-valuator/internal/processor"
	"github.com/rezonia/customs-valuator/internal/rules"
	"github.com/rezonia/customs-valuator/internal/valuation"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProcessor sets the declaration processor
func WithProcessor(p *processor.Processor) Option {
	return func(s *Server) {
		if p != nil {
			s.processor = p
		}
	}
}

// WithRates sets the exchange rate table used by the convert endpoint
func WithRates(t fx.Table) Option {
	return func(s *Server) {
		if t != nil {
			s.rates = t
		}
	}
}

// Server represents the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	logger    *zap.Logger
	processor *processor.Processor
	rates     fx.Table
}

// NewServer creates a new API server
func NewServer(config *Config, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	SetupValidator()

	s := &Server{
		config: config,
		router: gin.New(),
		logger: zap.NewNop(),
		rates:  fx.NewTable(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.processor == nil {
		s.processor = processor.NewProcessor(processor.WithLogger(s.logger))
	}

	s.router.Use(
		logger.RequestID(),
		logger.GinMiddleware(s.logger),
		logger.Recovery(s.logger),
	)

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// Rule matrix
		v1.GET("/incoterms", s.handleListIncoterms)
		v1.GET("/incoterms/:code", s.handleGetIncoterm)

		// Invoice valuation
		v1.POST("/validate", s.handleValidate)
		v1.POST("/customs-value", s.handleCustomsValue)
		v1.POST("/fob-cif", s.handleFobCif)

		// Declarations
		v1.POST("/declarations", s.handleDeclaration)
		v1.POST("/distribute", s.handleDistribute)

		// Exchange rates
		v1.POST("/convert", s.handleConvert)
	}
}

// Run starts the HTTP server and shuts it down gracefully when ctx is done
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("address", s.config.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) validator() *valuation.Validator {
	return s.processor.Validator()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) incotermInfo(t model.Incoterm) IncotermInfo {
	row := s.validator().Matrix().Row(t)
	r := make(map[model.Element]model.Rule, len(row))
	for el, rule := range row {
		r[el] = rule
	}
	return IncotermInfo{
		Code:   t,
		Group:  valuation.GroupOf(t).String(),
		Legacy: t.IsLegacy(),
		Rules:  r,
	}
}

func (s *Server) handleListIncoterms(c *gin.Context) {
	terms := model.Incoterms()
	out := make([]IncotermInfo, 0, len(terms))
	for _, t := range terms {
		out = append(out, s.incotermInfo(t))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetIncoterm(c *gin.Context) {
	var uri IncotermURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown Incoterm", Details: c.Param("code")})
		return
	}

	t, _ := model.ParseIncoterm(uri.Code)
	mx := s.validator().Matrix()
	c.JSON(http.StatusOK, IncotermDetail{
		IncotermInfo: s.incotermInfo(t),
		Mandatory:    mx.Mandatory(t),
		Forbidden:    mx.Forbidden(t),
		Display:      rules.Display(t),
	})
}

// bindInvoice decodes an invoice body, writing a 400 on failure
func (s *Server) bindInvoice(c *gin.Context) (model.Invoice, bool) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return model.Invoice{}, false
	}
	return req.Invoice(), true
}

func resultStatus(r model.ValidationResult) int {
	if r.Valid {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}

func (s *Server) handleValidate(c *gin.Context) {
	inv, ok := s.bindInvoice(c)
	if !ok {
		return
	}

	result := s.validator().Validate(inv)
	c.JSON(resultStatus(result), result)
}

func (s *Server) handleCustomsValue(c *gin.Context) {
	inv, ok := s.bindInvoice(c)
	if !ok {
		return
	}

	result := s.validator().Validate(inv)
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, CustomsValueResponse{CustomsValueAUD: *result.CustomsValueAUD})
}

func (s *Server) handleFobCif(c *gin.Context) {
	inv, ok := s.bindInvoice(c)
	if !ok {
		return
	}

	result := s.validator().Validate(inv)
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, valuation.ComputeFobCif(inv))
}

func (s *Server) handleDeclaration(c *gin.Context) {
	var req DeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}

	decl := s.processor.Declare(req.Payload())
	logger.FromGin(c).Debug("declaration processed",
		zap.Bool("valid", decl.Result.Valid),
		zap.Int("lines", len(decl.Lines)),
	)
	c.JSON(resultStatus(decl.Result), decl)
}

func (s *Server) handleDistribute(c *gin.Context) {
	var req DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}

	method, _ := model.ParseAllocationMethod(req.Method)
	c.JSON(http.StatusOK, DistributeResponse{
		Shares: processor.Distribute(req.Totals, method, req.Manual),
	})
}

func (s *Server) handleConvert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}
	if req.Direction == "" {
		req.Direction = DirectionToAUD
	}

	rate, err := s.rates.Rate(req.Currency)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "conversion failed", Details: err.Error()})
		return
	}

	var result float64
	if req.Direction == DirectionFromAUD {
		result, err = s.rates.FromAUD(req.Amount, req.Currency)
	} else {
		result, err = s.rates.ToAUD(req.Amount, req.Currency)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "conversion failed", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ConvertResponse{
		Amount:    req.Amount,
		Currency:  req.Currency,
		Direction: req.Direction,
		Rate:      rate,
		Result:    result,
	})
}
