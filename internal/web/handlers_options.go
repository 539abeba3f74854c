package web

import (
	"net/http"

	"github.com/xtding233/spinwheel/internal/metrics"
	"github.com/xtding233/spinwheel/internal/wheel"
)

type stateResp struct {
	wheel.Snapshot
	Rows []wheel.Row `json:"rows"`
}

type addReq struct {
	Label  string `json:"label"`
	Weight int    `json:"weight"`
}

// updateReq patches one option; absent fields are left alone.
type updateReq struct {
	Label  *string `json:"label"`
	Weight *int    `json:"weight"`
}

type decrementResp struct {
	Changed bool        `json:"changed"`
	Rows    []wheel.Row `json:"rows"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.wheelFor(w, r).Snapshot()
	writeJSON(w, http.StatusOK, stateResp{Snapshot: snap, Rows: wheel.ViewModel(snap.Options)})
}

func (s *Server) handleListOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wheel.ViewModel(s.wheelFor(w, r).Options()))
}

func (s *Server) handleAddOption(w http.ResponseWriter, r *http.Request) {
	ctrl := s.wheelFor(w, r)
	req, err := decodeOptional[addReq](r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := ctrl.Add(r.Context(), wheel.Option{Label: req.Label, Weight: req.Weight}); err != nil {
		writeError(w, r, err)
		return
	}
	metrics.OptionEditsTotal.WithLabelValues("add").Inc()
	writeJSON(w, http.StatusCreated, wheel.ViewModel(ctrl.Options()))
}

func (s *Server) handleReplaceOptions(w http.ResponseWriter, r *http.Request) {
	ctrl := s.wheelFor(w, r)
	set, err := decode[wheel.OptionSet](r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := ctrl.Replace(r.Context(), set); err != nil {
		writeError(w, r, err)
		return
	}
	metrics.OptionEditsTotal.WithLabelValues("replace").Inc()
	writeJSON(w, http.StatusOK, wheel.ViewModel(ctrl.Options()))
}

func (s *Server) handleUpdateOption(w http.ResponseWriter, r *http.Request) {
	ctrl := s.wheelFor(w, r)
	i, err := pathIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := decode[updateReq](r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Label != nil {
		if err := ctrl.SetLabel(r.Context(), i, *req.Label); err != nil {
			writeError(w, r, err)
			return
		}
		metrics.OptionEditsTotal.WithLabelValues("label").Inc()
	}
	if req.Weight != nil {
		if err := ctrl.SetWeight(r.Context(), i, *req.Weight); err != nil {
			writeError(w, r, err)
			return
		}
		metrics.OptionEditsTotal.WithLabelValues("weight").Inc()
	}
	writeJSON(w, http.StatusOK, wheel.ViewModel(ctrl.Options()))
}

func (s *Server) handleIncrement(w http.ResponseWriter, r *http.Request) {
	ctrl := s.wheelFor(w, r)
	i, err := pathIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := ctrl.Increment(r.Context(), i); err != nil {
		writeError(w, r, err)
		return
	}
	metrics.OptionEditsTotal.WithLabelValues("increment").Inc()
	writeJSON(w, http.StatusOK, wheel.ViewModel(ctrl.Options()))
}

func (s *Server) handleDecrement(w http.ResponseWriter, r *http.Request) {
	ctrl := s.wheelFor(w, r)
	i, err := pathIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	changed, err := ctrl.Decrement(r.Context(), i)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if changed {
		metrics.OptionEditsTotal.WithLabelValues("decrement").Inc()
	}
	writeJSON(w, http.StatusOK, decrementResp{Changed: changed, Rows: wheel.ViewModel(ctrl.Options())})
}

func (s *Server) handleDeleteOption(w http.ResponseWriter, r *http.Request) {
	ctrl := s.wheelFor(w, r)
	i, err := pathIndex(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := ctrl.Delete(r.Context(), i); err != nil {
		writeError(w, r, err)
		return
	}
	metrics.OptionEditsTotal.WithLabelValues("delete").Inc()
	writeJSON(w, http.StatusOK, wheel.ViewModel(ctrl.Options()))
}
