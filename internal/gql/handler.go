package gql

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing;
// larger files spill to temp files.
const maxUploadMemory = 32 << 20

// request is one GraphQL request body.
type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler executes GraphQL requests against a schema. It accepts plain JSON
// POSTs and multipart file-upload requests (operations + map + file parts).
type Handler struct {
	schema graphql.Schema
}

// NewHandler wraps the schema in an http.Handler.
func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrors(w, http.StatusMethodNotAllowed, "only POST is supported")
		return
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var (
		req *request
		err error
	)
	if mediaType == "multipart/form-data" {
		req, err = parseMultipart(r)
	} else {
		req = &request{}
		err = json.NewDecoder(r.Body).Decode(req)
	}
	if err != nil {
		slog.Warn("bad graphql request", "error", err)
		writeErrors(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("encode graphql response failed", "error", err)
	}
}

// parseMultipart handles the multipart request form used for file uploads:
// an "operations" field with the JSON request, a "map" field pointing file
// parts at variable paths, and one part per file. Only top-level
// "variables.<name>" paths are supported.
func parseMultipart(r *http.Request) (*request, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}

	req := &request{}
	if err := json.Unmarshal([]byte(r.FormValue("operations")), req); err != nil {
		return nil, fmt.Errorf("invalid operations field: %w", err)
	}

	var fileMap map[string][]string
	if err := json.Unmarshal([]byte(r.FormValue("map")), &fileMap); err != nil {
		return nil, fmt.Errorf("invalid map field: %w", err)
	}

	if req.Variables == nil {
		req.Variables = make(map[string]interface{}, len(fileMap))
	}
	for key, paths := range fileMap {
		file, header, err := r.FormFile(key)
		if err != nil {
			return nil, fmt.Errorf("missing file part %q: %w", key, err)
		}
		upload := &Upload{File: file, Filename: header.Filename}
		for _, path := range paths {
			name, found := strings.CutPrefix(path, "variables.")
			if !found || strings.Contains(name, ".") {
				return nil, fmt.Errorf("unsupported map path %q", path)
			}
			req.Variables[name] = upload
		}
	}

	return req, nil
}

func writeErrors(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]string{{"message": msg}},
	})
}
