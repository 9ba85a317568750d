package otfanalyze

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/nsip/otf-analyze/internal/difficulty"
	"github.com/nsip/otf-analyze/internal/miscon"
	"github.com/nsip/otf-analyze/internal/text"
	"github.com/nsip/otf-analyze/internal/util"
)

type OtfAnalyzeService struct {
	// embedded web server to handle analysis requests
	e *echo.Echo
	// the unique name of this service when running multiple instances
	serviceName string
	// the unique id of this service when running multiple instances
	serviceID string
	// the host address this service instance is running on
	serviceHost string
	// the port that this service instance is running on
	servicePort int
	// directory holding the optional classifier / label / difficulty artifacts
	artifactDir string
	// base url of the embeddings endpoint (openai-compatible sidecar)
	encoderURL string
	// model name requested from the embeddings endpoint
	encoderModel string
	// api key for the embeddings endpoint, if it wants one
	encoderKey string
	// shared sentence encoder, read-only once constructed
	enc text.Encoder
	// misconception analyzer built over the shared encoder
	analyzer *miscon.Analyzer
	// item difficulty estimator
	estimator *difficulty.Estimator
}

//
// Analysis request payloads.
// Params can be provided as json payload, via form components
// or as query params
//
type AnalyzeRequest struct {
	// the open-ended question being answered
	QuestionText string `json:"question_text" form:"question_text" query:"question_text"`
	// the reference ideal answer the user answer is scored against
	IdealAnswerText string `json:"ideal_answer_text" form:"ideal_answer_text" query:"ideal_answer_text"`
	// the student's free-text answer
	UserAnswerText string `json:"user_answer_text" form:"user_answer_text" query:"user_answer_text"`
	// optional known question id from the reference dataset
	QID *int `json:"qid,omitempty" form:"qid" query:"qid"`
}

type PredictRequest struct {
	UserAnswerText string `json:"user_answer_text" form:"user_answer_text" query:"user_answer_text"`
	QID            *int   `json:"qid,omitempty" form:"qid" query:"qid"`
}

type DifficultyRequest struct {
	QuestionText string `json:"question_text" form:"question_text" query:"question_text"`
	QID          *int   `json:"qid,omitempty" form:"qid" query:"qid"`
}

//
// create a new service instance
//
func New(options ...Option) (*OtfAnalyzeService, error) {

	srvc := OtfAnalyzeService{}

	if err := srvc.setOptions(options...); err != nil {
		return nil, err
	}

	// shared model artifacts, loaded once, read-only thereafter
	if srvc.enc == nil {
		srvc.enc = text.NewOpenAIEncoder(srvc.encoderURL, srvc.encoderKey, srvc.encoderModel)
	}
	var err error
	srvc.analyzer, err = miscon.New(srvc.artifactDir, srvc.enc)
	if err != nil {
		return nil, err
	}
	srvc.estimator, err = difficulty.New(srvc.artifactDir)
	if err != nil {
		return nil, err
	}

	srvc.e = echo.New()
	srvc.e.Logger.SetLevel(log.INFO)
	// add pingable method to know we're up
	srvc.e.GET("/health", srvc.buildHealthHandler())
	// analysis methods
	srvc.e.POST("/api/predict_misconception", srvc.buildPredictHandler())
	srvc.e.POST("/api/estimate_difficulty", srvc.buildDifficultyHandler())
	srvc.e.POST("/api/analyze/freeform", srvc.buildAnalyzeHandler())

	return &srvc, nil
}

//
// start the service running
//
func (s *OtfAnalyzeService) Start() {

	address := fmt.Sprintf("%s:%d", s.serviceHost, s.servicePort)
	go func(addr string) {
		if err := s.e.Start(addr); err != nil {
			s.e.Logger.Info("error starting server: ", err, ", shutting down...")
			// attempt clean shutdown by raising sig int
			p, _ := os.FindProcess(os.Getpid())
			p.Signal(os.Interrupt)
		}
	}(address)

}

//
// liveness and artifact status; artifacts reports whether a classifier
// artifact was found, difficulty_items how many items the difficulty
// table holds
//
func (s *OtfAnalyzeService) buildHealthHandler() echo.HandlerFunc {

	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"ok":               true,
			"artifacts":        s.analyzer.Loaded(),
			"difficulty_items": s.estimator.Items(),
		})
	}
}

//
// misconception label prediction for a single user answer
//
func (s *OtfAnalyzeService) buildPredictHandler() echo.HandlerFunc {

	return func(c echo.Context) error {
		pr := &PredictRequest{}
		if err := c.Bind(pr); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if strings.TrimSpace(pr.UserAnswerText) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "must supply a value for user_answer_text")
		}

		pred, err := s.analyzer.Predict(c.Request().Context(), pr.UserAnswerText, pr.QID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError,
				fmt.Sprintf("misconception prediction failed: %s", err))
		}

		return c.JSON(http.StatusOK, pred)
	}
}

//
// difficulty estimation for a single question
//
func (s *OtfAnalyzeService) buildDifficultyHandler() echo.HandlerFunc {

	return func(c echo.Context) error {
		dr := &DifficultyRequest{}
		if err := c.Bind(dr); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if strings.TrimSpace(dr.QuestionText) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "must supply a value for question_text")
		}

		return c.JSON(http.StatusOK, s.estimator.Estimate(dr.QuestionText, dr.QID))
	}
}

//
// creates the main one-shot analysis method
// requires an input of request variables (in json)
// question_text: the question being answered
// ideal_answer_text: the reference answer
// user_answer_text: the student's answer
// qid: optional known question id
//
func (s *OtfAnalyzeService) buildAnalyzeHandler() echo.HandlerFunc {

	return func(c echo.Context) error {
		defer util.TimeTrack(time.Now(), "freeform analysis")

		ar := &AnalyzeRequest{}
		if err := c.Bind(ar); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if err := ar.validate(); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		result, err := s.analyze(c.Request().Context(), ar)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError,
				fmt.Sprintf("analysis failed: %s", err))
		}

		return c.JSON(http.StatusOK, result)
	}
}

//
// minimum lengths are checked after trimming; rejected requests never
// reach the encoder
//
func (ar *AnalyzeRequest) validate() error {
	if len(strings.TrimSpace(ar.QuestionText)) < 3 {
		return fmt.Errorf("question_text must be at least 3 characters")
	}
	if len(strings.TrimSpace(ar.IdealAnswerText)) < 3 {
		return fmt.Errorf("ideal_answer_text must be at least 3 characters")
	}
	if len(strings.TrimSpace(ar.UserAnswerText)) < 1 {
		return fmt.Errorf("user_answer_text must not be empty")
	}
	return nil
}

//
// shut the server down gracefully
//
func (s *OtfAnalyzeService) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.e.Shutdown(ctx); err != nil {
		fmt.Println("could not shut down server cleanly: ", err)
		s.e.Logger.Fatal(err)
	}

}

func (s *OtfAnalyzeService) PrintConfig() {

	fmt.Println("\n\tOTF-Analyze Service Configuration")
	fmt.Println("\t---------------------------------")
	fmt.Println()

	s.printID()
	s.printModelConfig()

}

func (s *OtfAnalyzeService) printID() {
	fmt.Println("\tservice name:\t\t", s.serviceName)
	fmt.Println("\tservice ID:\t\t", s.serviceID)
	fmt.Println("\tservice host:\t\t", s.serviceHost)
	fmt.Println("\tservice port:\t\t", s.servicePort)
}

func (s *OtfAnalyzeService) printModelConfig() {
	fmt.Println("\tartifact dir:\t\t", s.artifactDir)
	fmt.Println("\tartifacts loaded:\t", s.analyzer.Loaded())
	fmt.Println("\tdifficulty items:\t", s.estimator.Items())
	fmt.Println("\tencoder url:\t\t", s.encoderURL)
	fmt.Println("\tencoder model:\t\t", s.encoderModel)
	// display only a partial key
	if s.encoderKey != "" {
		partial := s.encoderKey
		if len(partial) > 4 {
			partial = partial[len(partial)-4:]
		}
		fmt.Println("\tencoder key(partial):\t", "..."+partial)
	}
}
