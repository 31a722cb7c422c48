// Package web serves the prediction form and its JSON twin over gin.
package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "carprice/internal/common/errors"
	"carprice/internal/common/logger"
	"carprice/internal/prediction"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	pageTitle       = "Car Price Prediction"
	pageDescription = "Enter the car details to predict the car price using the hosted regression model."
	shutdownTimeout = 10 * time.Second
)

var fieldLabels = map[string]string{
	prediction.ColumnCarID:        "Car ID",
	prediction.ColumnBrand:        "Brand",
	prediction.ColumnYear:         "Year",
	prediction.ColumnEngineSize:   "Engine Size",
	prediction.ColumnFuelType:     "Fuel Type",
	prediction.ColumnTransmission: "Transmission",
	prediction.ColumnMileage:      "Mileage",
	prediction.ColumnCondition:    "Condition",
	prediction.ColumnModel:        "Model",
}

// Predictor is satisfied by *prediction.Handler.
type Predictor interface {
	Predict(ctx context.Context, fv prediction.FeatureVector) *prediction.Result
}

type Options struct {
	Predictor Predictor
	Choices   map[string][]string
	Logger    logger.Logger
	Mode      string // gin mode
}

type Server struct {
	router    *gin.Engine
	predictor Predictor
	choices   map[string][]string
	logger    logger.Logger
}

type formField struct {
	Name    string
	Label   string
	Options []string
	Value   string
}

type resultView struct {
	Message        string
	PredictedPrice string
	UpperBound     string
	TimeTaken      string
	Graph          template.URL
}

type pageData struct {
	Title       string
	Description string
	Fields      []formField
	Result      *resultView
}

func NewServer(opts Options) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	choices := opts.Choices
	if choices == nil {
		choices = map[string][]string{}
	}

	s := &Server{
		router:    gin.New(),
		predictor: opts.Predictor,
		choices:   choices,
		logger:    log.WithFields(map[string]interface{}{"component": "web"}),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(indexTemplate)

	r.GET("/", s.index)
	r.POST("/predict", s.submitForm)
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))
	api.GET("/choices", s.listChoices)
	api.POST("/predict", s.predictJSON)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", map[string]interface{}{"address": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("HTTP server shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request served", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	}
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, indexTemplateName, s.page(prediction.FeatureVector{}, nil))
}

func (s *Server) submitForm(c *gin.Context) {
	var fv prediction.FeatureVector
	if err := c.ShouldBind(&fv); err != nil {
		c.HTML(http.StatusBadRequest, indexTemplateName, s.page(fv, &resultView{Message: "Error: " + err.Error()}))
		return
	}

	result := s.predictor.Predict(c.Request.Context(), fv)
	c.HTML(http.StatusOK, indexTemplateName, s.page(fv, toView(result)))
}

// predictJSON accepts each field as a string or a JSON number.
func (s *Server) predictJSON(c *gin.Context) {
	fv, err := prediction.DecodeFeatures(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + apperrors.Normalize(err).Message})
		return
	}

	result := s.predictor.Predict(c.Request.Context(), fv)
	c.JSON(statusFor(result), result)
}

func (s *Server) listChoices(c *gin.Context) {
	c.JSON(http.StatusOK, s.choices)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "UP",
		"message": "car price prediction service is running",
	})
}

func (s *Server) page(fv prediction.FeatureVector, result *resultView) pageData {
	values := fv.Values()
	fields := make([]formField, 0, len(prediction.Columns))
	for _, col := range prediction.Columns {
		fields = append(fields, formField{
			Name:    col,
			Label:   fieldLabels[col],
			Options: s.choices[col],
			Value:   values[col],
		})
	}
	return pageData{
		Title:       pageTitle,
		Description: pageDescription,
		Fields:      fields,
		Result:      result,
	}
}

func statusFor(result *prediction.Result) int {
	switch result.State {
	case prediction.StateInvalid:
		return http.StatusBadRequest
	case prediction.StateFailedTransport:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

func toView(result *prediction.Result) *resultView {
	return &resultView{
		Message:        result.Message,
		PredictedPrice: formatFloat(result.PredictedPrice),
		UpperBound:     formatFloat(result.UpperBound),
		TimeTaken:      formatFloat(result.TimeTaken),
		Graph:          graphURL(result.PredictionGraph),
	}
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// graphURL accepts http(s) links and inline images only.
func graphURL(g *string) template.URL {
	if g == nil {
		return ""
	}
	v := strings.TrimSpace(*g)
	for _, prefix := range []string{"https://", "http://", "data:image/"} {
		if strings.HasPrefix(v, prefix) {
			return template.URL(v)
		}
	}
	return ""
}
