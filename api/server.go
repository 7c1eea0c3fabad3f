package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"substratex/app"
	"substratex/domain/core"
	internalerrors "substratex/internal/errors"
	"substratex/internal/tension"
)

// Server is the JSON API over the sweep, validation, indicator, tension
// and field pipelines.
type Server struct {
	router     *gin.Engine
	sweeps     *app.SweepService
	validation *app.ValidationService
	indicator  *app.IndicatorService
	fields     *app.FieldService
}

// NewServer wires the API routes. Mode is a gin mode string
// (debug/release/test); empty keeps the current mode.
func NewServer(mode string, sweeps *app.SweepService, validation *app.ValidationService, indicator *app.IndicatorService, fields *app.FieldService) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}

	s := &Server{
		router:     gin.New(),
		sweeps:     sweeps,
		validation: validation,
		indicator:  indicator,
		fields:     fields,
	}
	s.router.Use(gin.Logger(), gin.Recovery())
	s.setupRoutes()
	return s
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler { return s.router }

// Run starts the HTTP server on the given address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	api.POST("/sweeps", s.handleRunSweep)
	api.GET("/sweeps", s.handleListSweeps)
	api.GET("/sweeps/:id", s.handleGetSweep)

	api.POST("/validation/run", s.handleRunValidation)
	api.GET("/validation/:id/cases", s.handleListCases)

	api.GET("/signals", s.handleListSignals)
	api.POST("/indicator/evaluate", s.handleEvaluateIndicator)
	api.POST("/indicator/calibrate", s.handleCalibrate)

	api.POST("/tension/detect", s.handleDetectTension)
	api.POST("/field/evolve", s.handleEvolveField)
}

type sweepRequest struct {
	Seed int64 `json:"seed"`
}

func (s *Server) handleRunSweep(c *gin.Context) {
	var req sweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	outcome, err := s.sweeps.RunSweep(c.Request.Context(), req.Seed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, outcome)
}

func (s *Server) handleListSweeps(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)

	manifests, err := s.sweeps.ListRuns(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": manifests})
}

func (s *Server) handleGetSweep(c *gin.Context) {
	manifest, err := s.sweeps.GetRun(c.Request.Context(), core.RunID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, manifest)
}

func (s *Server) handleRunValidation(c *gin.Context) {
	result, err := s.validation.RunSuite(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if !result.Success() {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

func (s *Server) handleListCases(c *gin.Context) {
	cases, err := s.validation.ListCases(c.Request.Context(), core.RunID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": cases})
}

func (s *Server) handleListSignals(c *gin.Context) {
	readings, err := s.indicator.RecentSignals(c.Request.Context(), intQuery(c, "limit", 20))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signals": readings})
}

type evaluateRequest struct {
	Weights []float64 `json:"weights" binding:"required"`
	Series  []float64 `json:"series" binding:"required"`
	Source  string    `json:"source"`
}

func (s *Server) handleEvaluateIndicator(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reading, err := s.indicator.Evaluate(c.Request.Context(), req.Weights, req.Series, req.Source)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reading)
}

type calibrateRequest struct {
	Scores []float64 `json:"scores" binding:"required"`
}

func (s *Server) handleCalibrate(c *gin.Context) {
	var req calibrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	thresholds, err := s.indicator.Calibrate(req.Scores)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, thresholds)
}

type tensionRequest struct {
	Domain string    `json:"domain" binding:"required"`
	Series []float64 `json:"series" binding:"required"`
}

func (s *Server) handleDetectTension(c *gin.Context) {
	var req tensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	detector, err := tension.NewDetector(req.Domain)
	if err != nil {
		respondError(c, err)
		return
	}
	capitulation, err := detector.DetectCapitulation(req.Series)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, capitulation)
}

func (s *Server) handleEvolveField(c *gin.Context) {
	var req app.FieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.fields.Evolve(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondError maps application error codes to HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch internalerrors.GetCode(err) {
	case internalerrors.CodeInvalidInput, internalerrors.CodeConfigInvalid:
		status = http.StatusBadRequest
	case internalerrors.CodeNotFound:
		status = http.StatusNotFound
	case internalerrors.CodeSolverDiverged, internalerrors.CodeCalibrationFailed, internalerrors.CodeValidationError:
		status = http.StatusUnprocessableEntity
	}
	if core.IsNotFoundError(err) {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, ok := c.GetQuery(name)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
