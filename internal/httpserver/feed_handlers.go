package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mhutchins/feedboard/internal/domain"
)

// maxUploadBytes caps the in-memory portion of a multipart upload.
const maxUploadBytes = 10 << 20

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 {
			s.writeDomainError(w, r, domain.Invalid("Validation failed, entered data is incorrect.",
				domain.FieldError{Field: "page", Message: "page must be a positive integer"}))
			return
		}
		page = parsed
	}

	perPage := s.cfg.PageSize
	if p := r.URL.Query().Get("perPage"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 || parsed > 100 {
			s.writeDomainError(w, r, domain.Invalid("Validation failed, entered data is incorrect.",
				domain.FieldError{Field: "perPage", Message: "perPage must be between 1 and 100"}))
			return
		}
		perPage = parsed
	}

	posts, total, err := s.feed.ListPosts(r.Context(), page, perPage)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Fetched posts successfully.",
		"posts":      posts,
		"totalItems": total,
	})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.feed.GetPost(r.Context(), r.PathValue("postId"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Post fetched.",
		"post":    post,
	})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeDomainError(w, r, domain.Invalid("Validation failed, entered data is incorrect.",
			domain.FieldError{Field: "body", Message: "expected multipart form data"}))
		return
	}

	imageURL, err := s.storeUpload(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	post, creator, err := s.feed.CreatePost(r.Context(), userID(r), domain.PostInput{
		Title:    r.FormValue("title"),
		Content:  r.FormValue("content"),
		ImageURL: imageURL,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Post created successfully!",
		"post":    post,
		"creator": creator,
	})
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeDomainError(w, r, domain.Invalid("Validation failed, entered data is incorrect.",
			domain.FieldError{Field: "body", Message: "expected multipart form data"}))
		return
	}

	newImageURL, err := s.storeUpload(r)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	post, err := s.feed.UpdatePost(r.Context(), userID(r), r.PathValue("postId"), domain.UpdateInput{
		Title:            r.FormValue("title"),
		Content:          r.FormValue("content"),
		NewImageURL:      newImageURL,
		ExistingImageURL: r.FormValue("image"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Post updated!",
		"post":    post,
	})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.feed.DeletePost(r.Context(), userID(r), r.PathValue("postId")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Deleted post",
	})
}

// storeUpload saves the "image" file part, if any, and returns its
// reference. A missing part or a disallowed MIME type yields an empty
// reference; the orchestrator decides whether absence is an error.
func (s *Server) storeUpload(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", domain.Invalid("Validation failed, entered data is incorrect.",
			domain.FieldError{Field: "image", Message: "malformed file upload"})
	}
	defer file.Close()

	ref, err := s.images.Save(file, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedImage) {
			return "", nil
		}
		return "", domain.Fault("failed to store image", err)
	}
	return ref, nil
}
