package handler

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"contestjam/internal/api/middleware"
	"contestjam/internal/app/service"
	"contestjam/internal/common"
	"contestjam/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
	partService       *service.PartService
}

func NewSubmissionHandler(ss *service.SubmissionService, ps *service.PartService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss, partService: ps}
}

// RegisterRoutes mounts under /api/v1/submissions.
func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.listMySubmissions)
	r.Get("/{submissionID}", h.getSubmission)
}

// RegisterSubmitRoute mounts under /api/v1/problems/{problemSlug}/parts.
func (h *SubmissionHandler) RegisterSubmitRoute(r chi.Router) {
	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.Authenticator)
		authRouter.Post("/{partSlug}/submit", h.submitToPart)
	})
}

type submitRequest struct {
	Content string `json:"content"`
}

// submitToPart accepts a JSON body or a multipart upload with the answer in
// a "submission" file field; both feed the same ledger operation.
func (h *SubmissionHandler) submitToPart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	content, err := decodeSubmissionContent(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	part, err := h.partService.GetPart(r.Context(), chi.URLParam(r, "problemSlug"), chi.URLParam(r, "partSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	submission, err := h.submissionService.Submit(r.Context(), userID, part.ID, content)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, submission)
}

func decodeSubmissionContent(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", err
		}
		return req.Content, nil
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return "", err
	}
	return readFormFile(r, "submission")
}

func (h *SubmissionHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	submission, err := h.submissionService.GetSubmission(r.Context(), userID, role, chi.URLParam(r, "submissionID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submission)
}

func (h *SubmissionHandler) listMySubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	submissions, total, err := h.submissionService.ListMySubmissions(r.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	type PaginatedSubmissionsResponse struct {
		Submissions []model.Submission `json:"submissions"`
		Total       int                `json:"total"`
	}
	common.RespondWithJSON(w, http.StatusOK, PaginatedSubmissionsResponse{Submissions: submissions, Total: total})
}
