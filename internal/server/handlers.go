package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/amishk599/bidcraft/internal/model"
)

// maxBodyBytes bounds form and JSON request bodies.
const maxBodyBytes = 64 << 10

// pageData feeds web/index.html.
type pageData struct {
	JobDescription string
	Experience     string
	Name           string
	Error          string
	Proposals      []model.Proposal
}

// apiRequest is the JSON body of POST /api/proposals.
type apiRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
	Experience     string `json:"experience" validate:"max=500"`
	Name           string `json:"name" validate:"max=100"`
	Variants       int    `json:"variants" validate:"omitempty,min=1,max=10"`
}

// apiResponse is returned by POST /api/proposals.
type apiResponse struct {
	Category      model.Category   `json:"category"`
	CategoryTitle string           `json:"category_title"`
	Proposals     []model.Proposal `json:"proposals"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, http.StatusOK, pageData{})
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, http.StatusBadRequest, pageData{Error: "Could not read the form."})
		return
	}

	data := pageData{
		JobDescription: r.PostFormValue("job_description"),
		Experience:     r.PostFormValue("experience"),
		Name:           r.PostFormValue("name"),
	}
	if strings.TrimSpace(data.JobDescription) == "" {
		data.Error = "No job description. Paste the job posting and try again."
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}

	proposals, err := s.generator.Generate(model.Request{
		JobDescription: data.JobDescription,
		Experience:     data.Experience,
		AuthorName:     data.Name,
		Variants:       s.variants,
	})
	if err != nil {
		s.logger.Error("generate proposals", "error", err)
		data.Error = "Could not generate proposals."
		s.renderPage(w, http.StatusInternalServerError, data)
		return
	}

	data.Proposals = proposals
	s.renderPage(w, http.StatusOK, data)
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req apiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.JobDescription = strings.TrimSpace(req.JobDescription)

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	variants := req.Variants
	if variants == 0 {
		variants = s.variants
	}

	proposals, err := s.generator.Generate(model.Request{
		JobDescription: req.JobDescription,
		Experience:     req.Experience,
		AuthorName:     req.Name,
		Variants:       variants,
	})
	if err != nil {
		if errors.Is(err, model.ErrEmptyJobDescription) {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("generate proposals", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "could not generate proposals")
		return
	}

	s.jsonResponse(w, http.StatusOK, apiResponse{
		Category:      proposals[0].Category,
		CategoryTitle: proposals[0].Category.Title(),
		Proposals:     proposals,
	})
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		// Return first validation error for simplicity
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
