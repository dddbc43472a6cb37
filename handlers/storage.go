package handlers

import (
	"net/http"
	"strings"

	"chronoboard/middleware"
	"chronoboard/models"
	"chronoboard/services/school"
	"chronoboard/services/storage"
	"chronoboard/utils"

	"github.com/gin-gonic/gin"
)

const maxImageBytes = 5 << 20

// StorageHandler uploads school images.
type StorageHandler struct {
	StorageSvc storage.StorageService
	Schools    school.SchoolService
}

func NewStorageHandler(svc storage.StorageService, schools school.SchoolService) *StorageHandler {
	return &StorageHandler{StorageSvc: svc, Schools: schools}
}

// UploadImageHandler accepts a multipart "file" for kind logo or board.
// A logo is stored on the school right away; a board image URL is returned
// for the admin to place on a carousel item.
func (h *StorageHandler) UploadImageHandler(c *gin.Context) {
	schoolID := c.Param("schoolId")
	kind := c.Param("kind")
	folder, err := storage.Folder(schoolID, kind)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid image kind; allowed values are 'logo' and 'board'", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "File not provided", err.Error())
		return
	}
	if fileHeader.Size > maxImageBytes {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "Image too large", "limit is 5 MB")
		return
	}
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		utils.JSONError(c, http.StatusUnsupportedMediaType, "Only images are accepted", ct)
		return
	}

	// fail fast on unknown schools before touching the storage backend
	if _, err := h.Schools.GetSchool(c.Request.Context(), schoolID); err != nil {
		respondError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Could not read file", err.Error())
		return
	}
	defer file.Close()

	result, err := h.StorageSvc.UploadImage(c.Request.Context(), file, folder)
	if err != nil {
		respondError(c, err)
		return
	}

	actor := middleware.AdminRole(c)
	if kind == storage.KindLogo {
		s, err := h.Schools.SetLogo(c.Request.Context(), schoolID, result.URL, actor)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"upload": result, "school": s})
		return
	}
	h.Schools.RecordAudit(c.Request.Context(), schoolID, models.ActionImageUploaded, actor, "board "+result.URL)
	c.JSON(http.StatusOK, gin.H{"upload": result})
}
