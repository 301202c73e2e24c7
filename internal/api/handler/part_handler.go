package handler

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"contestjam/internal/api/middleware"
	"contestjam/internal/app/service"
	"contestjam/internal/common"

	"github.com/go-chi/chi/v5"
)

type PartHandler struct {
	partService *service.PartService
}

func NewPartHandler(ps *service.PartService) *PartHandler {
	return &PartHandler{partService: ps}
}

// RegisterRoutes mounts under /api/v1/problems/{problemSlug}/parts.
func (h *PartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{partSlug}/input", h.downloadInput)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createPart)
		adminRouter.Put("/{partSlug}", h.updatePart)
		adminRouter.Delete("/{partSlug}", h.deletePart)
	})
}

// createPart accepts JSON, or multipart/form-data with input and solution
// uploaded as files (title, slug, points as ordinary form fields).
func (h *PartHandler) createPart(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreatePartRequest(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	part, err := h.partService.CreatePart(r.Context(), chi.URLParam(r, "problemSlug"), *req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, part)
}

func decodeCreatePartRequest(r *http.Request) (*service.CreatePartRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req service.CreatePartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, err
	}
	points, err := strconv.Atoi(r.FormValue("points"))
	if err != nil {
		return nil, err
	}
	input, err := readFormFile(r, "input")
	if err != nil {
		return nil, err
	}
	solution, err := readFormFile(r, "solution")
	if err != nil {
		return nil, err
	}
	return &service.CreatePartRequest{
		Title:    r.FormValue("title"),
		Slug:     r.FormValue("slug"),
		Points:   points,
		Input:    input,
		Solution: solution,
	}, nil
}

func readFormFile(r *http.Request, field string) (string, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (h *PartHandler) updatePart(w http.ResponseWriter, r *http.Request) {
	var req service.UpdatePartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	part, err := h.partService.UpdatePart(r.Context(), chi.URLParam(r, "problemSlug"), chi.URLParam(r, "partSlug"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, part)
}

func (h *PartHandler) deletePart(w http.ResponseWriter, r *http.Request) {
	err := h.partService.DeletePart(r.Context(), chi.URLParam(r, "problemSlug"), chi.URLParam(r, "partSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// downloadInput serves the part's input payload as plain text, the way
// contestants fetch their puzzle data.
func (h *PartHandler) downloadInput(w http.ResponseWriter, r *http.Request) {
	input, err := h.partService.PartInput(r.Context(), chi.URLParam(r, "problemSlug"), chi.URLParam(r, "partSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithText(w, http.StatusOK, input)
}
