package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/jsphweid/dombratab/config"
	"github.com/jsphweid/dombratab/detector"
	"github.com/jsphweid/dombratab/file"
	"github.com/jsphweid/dombratab/midi"
	"github.com/jsphweid/dombratab/model"
	"github.com/jsphweid/dombratab/tab"
	"github.com/jsphweid/dombratab/transcribe"
	"github.com/jsphweid/dombratab/util"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config and $PORT)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the transcribe endpoint over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyOverrides(); err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		return serve(cfg)
	},
}

// multipart parts up to this size stay in memory
const formMemory = 1 << 20

type Server struct {
	pipeline  *transcribe.Pipeline
	detector  detector.Detector
	unit      midi.TimeUnit
	workDir   string
	maxUpload int64
	origins   []string
}

func NewServer(c *config.Config, d detector.Detector) (*Server, error) {
	p, err := transcribe.New(c.Tuning, c.Reducer.Tolerance)
	if err != nil {
		return nil, err
	}
	maxUpload, err := c.MaxUploadBytes()
	if err != nil {
		return nil, err
	}
	return &Server{
		pipeline:  p,
		detector:  d,
		unit:      c.TimeUnit(),
		workDir:   c.WorkDir,
		maxUpload: maxUpload,
		origins:   c.Server.AllowedOrigins,
	}, nil
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/transcribe", s.HandleTranscribe).Methods("POST")
	router.HandleFunc("/healthz", handleHealth).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
	})
	return c.Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("could not write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Error: detail})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "ok"})
}

func (s *Server) tooLarge(w http.ResponseWriter) {
	writeError(w, http.StatusRequestEntityTooLarge,
		fmt.Sprintf("upload is larger than %s", humanize.Bytes(uint64(s.maxUpload))))
}

// HandleTranscribe accepts a multipart upload in the "file" field. MIDI
// files are read as scores, anything else goes to the pitch detector.
func (s *Server) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	// the limit is on the file, the body also carries the multipart framing
	bodyLimit := s.maxUpload + formMemory
	if r.ContentLength > bodyLimit {
		s.tooLarge(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.tooLarge(w)
			return
		}
		writeError(w, http.StatusBadRequest, "could not read form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	upload, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer upload.Close()
	if header.Size > s.maxUpload {
		s.tooLarge(w)
		return
	}

	path, err := file.SaveUpload(s.workDir, filepath.Ext(header.Filename), upload)
	if err != nil {
		slog.Error("could not store upload", "err", err)
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	defer os.Remove(path)

	started := time.Now()
	var res transcribe.Result
	if util.IsMidiPath(header.Filename) {
		res, err = s.pipeline.RunMidi(path, s.unit)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	} else {
		res, err = s.pipeline.RunAudio(r.Context(), s.detector, path)
		if err != nil {
			slog.Error("detector failed", "file", header.Filename, "err", err)
			writeError(w, http.StatusInternalServerError, "pitch detection failed")
			return
		}
	}

	slog.Info("transcribe request",
		"file", header.Filename,
		"size", humanize.Bytes(uint64(header.Size)),
		"tabs", len(res.Tabs),
		"took", time.Since(started),
	)
	minimal := r.URL.Query().Get("shape") == "minimal"
	writeJSON(w, http.StatusOK, model.TranscribeResponse{Status: "ok", Tabs: tab.Records(res.Tabs, minimal)})
}

func serve(c *config.Config) error {
	s, err := NewServer(c, detector.FromConfig(c))
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              c.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("serving", "addr", c.Server.Addr, "tuning", c.Tuning.String(), "detector", c.Detector.Command)
	return srv.ListenAndServe()
}
