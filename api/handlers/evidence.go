package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trafficops/traffic-ops-api/config"
	"github.com/trafficops/traffic-ops-api/databases"
)

const maxEvidenceBytes = 10 << 20

// Evidence attaches photo evidence to a violation via Cloudinary
type Evidence struct {
	DB databases.ViolationDatabase
}

// UploadEvidenceHandler accepts a multipart "file" field, uploads it to
// Cloudinary and appends the secure URL to the violation's evidence list
func (e Evidence) UploadEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	violationID := mux.Vars(r)["violation_id"]
	vID, err := primitive.ObjectIDFromHex(violationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	if err := r.ParseMultipartForm(maxEvidenceBytes); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		config.ErrorStatus("missing file field", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	// CLOUDINARY_URL carries the cloud name and credentials
	cld, err := cloudinary.New()
	if err != nil {
		config.ErrorStatus("evidence uploads not configured", http.StatusInternalServerError, w, err)
		return
	}

	res, err := cld.Upload.Upload(r.Context(), file, uploader.UploadParams{
		Folder: "traffic-ops/evidence/" + violationID,
	})
	if err != nil {
		config.ErrorStatus("failed to upload evidence", http.StatusInternalServerError, w, err)
		return
	}

	err = e.DB.UpdateOne(context.Background(), bson.M{"_id": vID}, bson.M{
		"$push": bson.M{"evidence": res.SecureURL},
	})
	if err != nil {
		config.ErrorStatus("failed to attach evidence", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Evidence uploaded successfully",
		"url":     res.SecureURL,
	})
}
