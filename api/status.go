package api

import (
	"net/http"

	"github.com/seenimoa/marketbrief/internal/config"
	"github.com/seenimoa/marketbrief/internal/datasource"
)

// StatusResponse is the JSON body returned by GET /api/v1/status.
// API keys are reported masked.
type StatusResponse struct {
	Version         string             `json:"version"`
	Keys            []config.KeyStatus `json:"keys"`
	SymbolSets      []string           `json:"symbol_sets"`
	SymbolSet       string             `json:"symbol_set"`
	FreshnessHours  int                `json:"freshness_hours"`
	CalendarEnabled bool               `json:"calendar_enabled"`
	Timezone        string             `json:"timezone"`
	Sections        []string           `json:"sections,omitempty"`
}

// NewStatus summarizes the running configuration.
func NewStatus(cfg *config.Config, version string) StatusResponse {
	st := StatusResponse{
		Version:    version,
		SymbolSets: datasource.SymbolSetNames(),
	}
	if cfg == nil {
		return st
	}
	st.Keys = config.CheckAPIKeys(cfg)
	st.SymbolSet = cfg.Brief.SymbolSet
	st.FreshnessHours = cfg.Brief.FreshnessHours
	st.CalendarEnabled = cfg.Brief.CalendarEnabled
	st.Timezone = cfg.Brief.Timezone
	for _, sc := range cfg.Brief.Scrapes {
		st.Sections = append(st.Sections, sc.Name)
	}
	for _, sc := range cfg.Brief.Static {
		st.Sections = append(st.Sections, sc.Key)
	}
	return st
}

// handleStatus returns the key status and effective brief settings.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, NewStatus(s.cfg, s.version))
}
