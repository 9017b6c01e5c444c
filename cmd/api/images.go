package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const (
	maxUploadBytes  = 15 * 1024 * 1024
	maxPhotosPerReq = 5
)

// uploadPhotosHandler accepts a multipart form with one or more "photos"
// files, uploads each to Cloudinary and returns the secure URLs. Clients
// upload first, then attach the URLs when creating a place.
func (app *application) uploadPhotosHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("no photos attached"))
		return
	}
	if len(files) > maxPhotosPerReq {
		app.badRequestResponse(w, r, fmt.Errorf("maximum %d photos allowed", maxPhotosPerReq))
		return
	}

	var urls []string
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("open file: %w", err))
			return
		}

		url, err := app.uploadToCloudinary(r.Context(), file)
		file.Close()
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}

		urls = append(urls, url)
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string][]string{"urls": urls}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) uploadToCloudinary(ctx context.Context, file io.Reader) (string, error) {
	resp, err := app.cld.Upload.Upload(
		ctx,
		file,
		uploader.UploadParams{
			Folder:   "places",
			PublicID: uuid.New().String(),
		},
	)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, nil
}
