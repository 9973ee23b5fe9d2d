package api

import (
	"encoding/hex"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/athena-dhcpd/udhcpd/internal/config"
	"github.com/athena-dhcpd/udhcpd/internal/dhcp"
	"github.com/athena-dhcpd/udhcpd/internal/lease"
)

// handleHealth returns basic liveness and table occupancy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"version":        s.version,
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
		"leases":         s.table.Len(),
		"max_leases":     s.table.Cap(),
	})
}

// leaseResponse is the JSON representation of a lease.
type leaseResponse struct {
	IP        string `json:"ip"`
	MAC       string `json:"mac"`
	Expiry    int64  `json:"expiry"`
	Remaining int64  `json:"remaining_seconds"`
	Expired   bool   `json:"expired"`
}

func (s *Server) leaseToResponse(l lease.Lease, now time.Time) leaseResponse {
	return leaseResponse{
		IP:        l.IP().String(),
		MAC:       l.MAC(6).String(),
		Expiry:    l.Expires.Unix(),
		Remaining: int64(l.Remaining(now).Seconds()),
		Expired:   l.IsExpired(now),
	}
}

// handleListLeases returns the occupied slots, optionally filtered by
// ?mac= (substring) and ?active=true.
func (s *Server) handleListLeases(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	macFilter := strings.ToLower(r.URL.Query().Get("mac"))
	activeOnly := r.URL.Query().Get("active") == "true"

	out := make([]leaseResponse, 0, s.table.Len())
	for _, l := range s.table.Leases() {
		if activeOnly && l.IsExpired(now) {
			continue
		}
		if macFilter != "" && !strings.Contains(l.MAC(6).String(), macFilter) {
			continue
		}
		out = append(out, s.leaseToResponse(l, now))
	}
	JSONResponse(w, http.StatusOK, out)
}

// handleGetLease returns the lease holding {ip}.
func (s *Server) handleGetLease(w http.ResponseWriter, r *http.Request) {
	ip := net.ParseIP(r.PathValue("ip"))
	if ip == nil || ip.To4() == nil {
		JSONError(w, http.StatusBadRequest, "invalid_ip", "invalid IPv4 address")
		return
	}

	i := s.table.FindByIP(ip)
	if i < 0 {
		JSONError(w, http.StatusNotFound, "not_found", "no lease for "+ip.String())
		return
	}
	l, err := s.table.Get(i)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "table_error", err.Error())
		return
	}
	JSONResponse(w, http.StatusOK, s.leaseToResponse(l, s.now()))
}

// optionResponse is one encoded option record.
type optionResponse struct {
	Name  string `json:"name"`
	Code  int    `json:"code"`
	Type  string `json:"type"`
	Value string `json:"value"`
	Hex   string `json:"hex"`
}

// handleOptions returns the option records of the active configuration in order.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg.Load()
	opts := cfg.Options.All()
	out := make([]optionResponse, 0, len(opts))
	for _, o := range opts {
		resp := optionResponse{Code: int(o.Code), Hex: hex.EncodeToString(o.Data)}
		if def, ok := dhcp.OptionByCode(o.Code); ok {
			resp.Name = def.Name
			resp.Type = def.Type.String()
			resp.Value = dhcp.FormatValue(def.Type, o.Data)
		}
		out = append(out, resp)
	}
	JSONResponse(w, http.StatusOK, out)
}

// handleConfig returns the active configuration as udhcpd.conf text.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	config.WriteConfig(w, s.cfg.Load())
}
