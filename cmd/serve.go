package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treeai-operations/alex-cli/internal/afiss"
	"github.com/treeai-operations/alex-cli/internal/config"
	"github.com/treeai-operations/alex-cli/internal/model"
	"github.com/treeai-operations/alex-cli/internal/pricing"
	"github.com/treeai-operations/alex-cli/internal/store"
	"github.com/treeai-operations/alex-cli/internal/treescore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assessment HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		api, err := newAPIServer(cfg, st)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           api.router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Error("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("serving", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type apiServer struct {
	store  store.Store
	scorer *afiss.Scorer
	pricer *pricing.Pricer
}

func newAPIServer(cfg *config.Config, st store.Store) (*apiServer, error) {
	scorer, err := afiss.NewScorer(afissConfigFrom(cfg))
	if err != nil {
		return nil, err
	}
	return &apiServer{
		store:  st,
		scorer: scorer,
		pricer: newPricer(cfg),
	}, nil
}

func (s *apiServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/assess", s.handleAssess)
		r.Post("/pricing", s.handlePricing)
		r.Get("/assessments", s.handleListAssessments)
		r.Get("/assessments/{id}", s.handleGetAssessment)
		r.Delete("/assessments/{id}", s.handleDeleteAssessment)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// assessRequest scores risk and optionally a tree, returning both plus the
// adjusted point total when a tree is supplied.
type assessRequest struct {
	Scores afiss.DomainScores `json:"scores"`
	Tree   *treescore.Input   `json:"tree,omitempty"`
}

type assessResponse struct {
	Risk           *afiss.Assessment `json:"risk"`
	Tree           *treescore.Result `json:"tree,omitempty"`
	AdjustedPoints float64           `json:"adjusted_points,omitempty"`
}

func (s *apiServer) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "decode request"))
		return
	}

	risk, err := s.scorer.Score(req.Scores)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	resp := assessResponse{Risk: risk}
	if req.Tree != nil {
		tree, err := treescore.Calculate(*req.Tree)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		resp.Tree = tree
		resp.AdjustedPoints = treescore.WithRiskBonus(tree, risk.Composite)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handlePricing(w http.ResponseWriter, r *http.Request) {
	var loadout pricing.LoadoutConfig
	if err := json.NewDecoder(r.Body).Decode(&loadout); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "decode request"))
		return
	}

	result, err := s.pricer.Price(loadout)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	filter := model.Filter{
		ProjectType: r.URL.Query().Get("type"),
		State:       r.URL.Query().Get("state"),
		Status:      model.AssessmentStatus(r.URL.Query().Get("status")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &filter.Limit) //nolint:errcheck
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		fmt.Sscanf(v, "%d", &filter.Offset) //nolint:errcheck
	}

	assessments, err := s.store.ListAssessments(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if assessments == nil {
		assessments = []model.ProjectAssessment{}
	}
	writeJSON(w, http.StatusOK, assessments)
}

func (s *apiServer) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	assessment, err := s.store.GetAssessment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

func (s *apiServer) handleDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAssessment(r.Context(), chi.URLParam(r, "id")); err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
