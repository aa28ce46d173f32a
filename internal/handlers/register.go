package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sbilibin2017/gw-video-tube/internal/logger"
	"github.com/sbilibin2017/gw-video-tube/internal/models"
	"github.com/sbilibin2017/gw-video-tube/internal/services"
)

// maxRegisterFormMemory bounds the in-memory part of multipart parsing.
const maxRegisterFormMemory = 16 << 20

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, fullName, email, username, password, avatarLocalPath, coverLocalPath string) (*models.UserDB, error)
}

// stageFormFile copies an uploaded multipart part into a temporary file and
// returns its path. The staged file is handed to the media gateway, which
// removes it on every outcome.
func stageFormFile(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "upload-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return dst.Name(), nil
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account from a multipart form. Requires an avatar file part; the cover image part is optional. Username and email must be unique; the username is stored lowercase.
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param fullName formData string true "Full name"
// @Param email formData string true "Email"
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param avatar formData file true "Avatar image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} models.APIResponse "User successfully registered"
// @Failure 400 {object} models.APIResponse "Missing required field or avatar"
// @Failure 409 {object} models.APIResponse "Username or email already exists"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxRegisterFormMemory); err != nil {
			writeJSON(w, http.StatusBadRequest, models.NewAPIError(http.StatusBadRequest, "Invalid multipart form"))
			return
		}

		fullName := r.FormValue("fullName")
		email := r.FormValue("email")
		username := r.FormValue("username")
		password := r.FormValue("password")

		avatarPath := ""
		if files := r.MultipartForm.File["avatar"]; len(files) > 0 {
			path, err := stageFormFile(files[0])
			if err != nil {
				logger.Log.Errorw("failed to stage avatar", "err", err)
				writeJSON(w, http.StatusInternalServerError, models.NewAPIError(http.StatusInternalServerError, "Internal server error"))
				return
			}
			avatarPath = path
		}

		coverPath := ""
		if files := r.MultipartForm.File["coverImage"]; len(files) > 0 {
			path, err := stageFormFile(files[0])
			if err != nil {
				logger.Log.Errorw("failed to stage cover image", "err", err)
				writeJSON(w, http.StatusInternalServerError, models.NewAPIError(http.StatusInternalServerError, "Internal server error"))
				return
			}
			coverPath = path
		}

		user, err := svc.Register(r.Context(), fullName, email, username, password, avatarPath, coverPath)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingRequiredField):
				writeJSON(w, http.StatusBadRequest, models.NewAPIError(http.StatusBadRequest, "Full name, email, username and password are required"))
			case errors.Is(err, services.ErrAvatarRequired):
				writeJSON(w, http.StatusBadRequest, models.NewAPIError(http.StatusBadRequest, "Avatar is required"))
			case errors.Is(err, services.ErrUserAlreadyExists):
				writeJSON(w, http.StatusConflict, models.NewAPIError(http.StatusConflict, "User with same email or username already exists"))
			case errors.Is(err, services.ErrAvatarUploadFailed):
				writeJSON(w, http.StatusInternalServerError, models.NewAPIError(http.StatusInternalServerError, "Avatar upload to media host failed"))
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, models.NewAPIError(http.StatusInternalServerError, "Internal server error"))
			}
			return
		}

		writeJSON(w, http.StatusCreated, models.NewAPIResponse(http.StatusCreated, user, "User registered successfully"))
	}
}
