package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jt828/perf-metrics/internal/interceptor"
	"github.com/jt828/perf-metrics/internal/service"
	"github.com/jt828/perf-metrics/pkg/apperror"
	"github.com/jt828/perf-metrics/pkg/model"
	"github.com/jt828/perf-metrics/pkg/observability"
)

const IdempotencyHeader = "Idempotency-Key"

type BlobController struct {
	blobService    service.BlobService
	maxBlobSize    int64
	maxImportBytes int64
}

func NewBlobController(blobService service.BlobService, maxBlobSize, maxImportBytes int64) *BlobController {
	return &BlobController{blobService: blobService, maxBlobSize: maxBlobSize, maxImportBytes: maxImportBytes}
}

// RegisterRoutes mounts the blob API on r. Every handler runs behind the
// error interceptor.
func (ctrl *BlobController) RegisterRoutes(r *mux.Router, log observability.Logger) {
	wrap := interceptor.ErrorInterceptor(log)

	r.HandleFunc("/healthz", ctrl.health).Methods(http.MethodGet)
	r.HandleFunc("/blobs:import", wrap(ctrl.ImportBlobs)).Methods(http.MethodPost)
	r.HandleFunc("/blobs/{key}", wrap(ctrl.PutBlob)).Methods(http.MethodPut)
	r.HandleFunc("/blobs/{key}", wrap(ctrl.GetBlob)).Methods(http.MethodGet)
	r.HandleFunc("/blobs/{key}", wrap(ctrl.DeleteBlob)).Methods(http.MethodDelete)
}

type blobResponse struct {
	Id        int64     `json:"id,string"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newBlobResponse(b *model.Blob) blobResponse {
	return blobResponse{
		Id:        b.Id,
		Key:       b.Key,
		Size:      b.Size,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

type importRequest struct {
	Items []importItem `json:"items"`
}

// importItem carries data base64 encoded, as encoding/json does for []byte.
type importItem struct {
	Key  string `json:"key"`
	Data []byte `json:"data"`
}

func (ctrl *BlobController) PutBlob(w http.ResponseWriter, r *http.Request) error {
	data, err := readBody(w, r, ctrl.maxBlobSize)
	if err != nil {
		return err
	}

	blob, err := ctrl.blobService.Put(r.Context(), mux.Vars(r)["key"], data)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, newBlobResponse(blob))
}

func (ctrl *BlobController) GetBlob(w http.ResponseWriter, r *http.Request) error {
	blob, err := ctrl.blobService.Get(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Header().Set("Last-Modified", blob.UpdatedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(blob.Data)
	return err
}

func (ctrl *BlobController) DeleteBlob(w http.ResponseWriter, r *http.Request) error {
	if err := ctrl.blobService.Delete(r.Context(), mux.Vars(r)["key"]); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (ctrl *BlobController) ImportBlobs(w http.ResponseWriter, r *http.Request) error {
	var idempotencyId int64
	if v := r.Header.Get(IdempotencyHeader); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("%s must be a positive integer: %w", IdempotencyHeader, apperror.ErrInvalidArgument)
		}
		idempotencyId = id
	}

	body, err := readBody(w, r, ctrl.maxImportBytes)
	if err != nil {
		return err
	}
	var req importRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("decoding import request: %v: %w", err, apperror.ErrInvalidArgument)
	}

	items := make([]service.ImportItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.ImportItem{Key: item.Key, Data: item.Data}
	}

	result, err := ctrl.blobService.Import(r.Context(), idempotencyId, items)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

func (ctrl *BlobController) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("body exceeds %d bytes: %w", limit, apperror.ErrInvalidArgument)
		}
		return nil, err
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
