package intake

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workflowmonk/internal/domain/wizard"
	"workflowmonk/internal/middleware"
	"workflowmonk/internal/pkg/jwt"
	"workflowmonk/internal/pkg/response"
	"workflowmonk/internal/pkg/validator"
)

// Handler serves the stateless REST flavour of the wizard. The client carries
// its progress in a signed state token between calls.
type Handler struct {
	tokens *jwt.Service
	log    *zap.Logger
	opts   []wizard.ControllerOption
}

func NewHandler(tokens *jwt.Service, log *zap.Logger, opts ...wizard.ControllerOption) *Handler {
	return &Handler{
		tokens: tokens,
		log:    log,
		opts:   opts,
	}
}

// ListSteps handles GET /api/v1/wizard/steps
func (h *Handler) ListSteps(c *gin.Context) {
	views := make([]StepView, 0, wizard.StepCount)
	for i := 0; i < wizard.StepCount; i++ {
		views = append(views, newStepView(i))
	}
	response.Success(c, http.StatusOK, views)
}

// ListCountries handles GET /api/v1/wizard/countries
func (h *Handler) ListCountries(c *gin.Context) {
	response.Success(c, http.StatusOK, wizard.Countries())
}

// ValidateField handles POST /api/v1/wizard/validate
func (h *Handler) ValidateField(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid request", errs)
		return
	}

	response.Success(c, http.StatusOK, ValidateResponse{
		Field: req.Field,
		Error: wizard.ValidateField(req.Field, req.Value),
	})
}

// FormatPhone handles POST /api/v1/wizard/format-phone
func (h *Handler) FormatPhone(c *gin.Context) {
	var req FormatPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid request", errs)
		return
	}

	code := req.CountryCode
	if code == "" {
		code = wizard.DefaultCountryCode
	}
	response.Success(c, http.StatusOK, FormatPhoneResponse{
		Phone:  wizard.FormatPhone(req.Phone, code),
		Digits: wizard.DigitsOnly(req.Phone),
	})
}

// StartSession handles POST /api/v1/wizard/sessions
func (h *Handler) StartSession(c *gin.Context) {
	ctrl := wizard.New(h.opts...)

	view, err := h.signedView(ctrl)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue state token")
		return
	}
	response.Success(c, http.StatusCreated, view)
}

// ApplyEvent handles POST /api/v1/wizard/sessions/events
func (h *Handler) ApplyEvent(c *gin.Context) {
	state, ok := middleware.StateFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "TOKEN_MISSING", "Missing state token")
		return
	}

	var ev wizard.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&ev); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid event", errs)
		return
	}

	ctrl, err := wizard.Restore(state, h.opts...)
	if err != nil {
		status, code := errorCode(err)
		response.Error(c, status, code, err.Error())
		return
	}

	exit, err := ctrl.Dispatch(c.Request.Context(), ev)
	if exit != wizard.ExitNone {
		h.log.Info("wizard exited",
			zap.String("exit", string(exit)),
			zap.Int("from_step", state.Step),
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		)
		response.Success(c, http.StatusOK, SessionView{Exit: exit})
		return
	}

	view, signErr := h.signedView(ctrl)
	if signErr != nil {
		_ = c.Error(signErr)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue state token")
		return
	}

	if err != nil {
		status, code := errorCode(err)
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		response.ErrorWithDetails(c, status, code, err.Error(), view)
		return
	}

	response.Success(c, http.StatusOK, view)
}

func (h *Handler) signedView(ctrl *wizard.Controller) (SessionView, error) {
	view := newSessionView(ctrl)
	token, err := h.tokens.GenerateToken(view.State)
	if err != nil {
		return SessionView{}, err
	}
	view.Token = token
	return view, nil
}
