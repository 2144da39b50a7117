package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"ieee-quiz-service/internal/app"
	"ieee-quiz-service/internal/domain"
)

// APIHandler serves the REST side of the quiz.
type APIHandler struct {
	service  *app.QuizService
	validate *validator.Validate
}

func NewAPIHandler(service *app.QuizService) *APIHandler {
	return &APIHandler{service: service, validate: validator.New()}
}

type signupRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	MembershipType string `json:"membershipType"`
}

type userResponse struct {
	Message string            `json:"message,omitempty"`
	User    domain.UserRecord `json:"user"`
}

// Pointers let validation tell a missing field from a zero index.
type answerPayload struct {
	QuestionID     *int `json:"questionId" validate:"required"`
	SelectedOption *int `json:"selectedOption" validate:"required"`
}

type submitRequest struct {
	Answers   []answerPayload `json:"answers" validate:"required,dive"`
	TimeSpent *int            `json:"timeSpent"`
}

func (h *APIHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *APIHandler) Signup(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidRegistration, err))
		return
	}
	user, err := h.service.Register(r.Context(), domain.Registration{
		UserID:         userID,
		Name:           req.Name,
		Email:          req.Email,
		MembershipType: req.MembershipType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{Message: "User created successfully", User: user})
}

func (h *APIHandler) User(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

func (h *APIHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	eligibility, err := h.service.Eligibility(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eligibility)
}

func (h *APIHandler) Questions(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	questions, err := h.service.Questions(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *APIHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	submission, err := h.decodeSubmission(r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.service.Submit(r.Context(), userID, submission)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Leaderboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *APIHandler) decodeSubmission(r *http.Request) (domain.Submission, error) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return domain.Submission{}, fmt.Errorf("%w: %v", domain.ErrMalformedSubmission, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return domain.Submission{}, fmt.Errorf("%w: %v", domain.ErrMalformedSubmission, err)
	}
	answers := make([]domain.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, domain.Answer{QuestionID: *a.QuestionID, SelectedOption: *a.SelectedOption})
	}
	return domain.Submission{Answers: answers, TimeSpent: req.TimeSpent}, nil
}
