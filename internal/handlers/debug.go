package handlers

import (
	"net/http"

	"github.com/bytemc-uz/bytemc-backend/internal/models"
)

// DebugLitebansTables lists the tables visible in the plugin schema along
// with the detected prefix. Troubleshooting aid for misconfigured databases.
func DebugLitebansTables(w http.ResponseWriter, r *http.Request) {
	if !recordsService.UseLitebans() {
		writeJSON(w, http.StatusOK, map[string]interface{}{"useLitebans": false, "tables": []string{}})
		return
	}
	tables, err := recordsService.Litebans.TableNames(r.Context())
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to list tables", err)
		return
	}
	if tables == nil {
		tables = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"prefix": recordsService.Litebans.Prefix(),
		"tables": tables,
	})
}

// DebugLitebansProbe runs simple counts against the three punishment tables
// using the current prefix.
func DebugLitebansProbe(w http.ResponseWriter, r *http.Request) {
	if !recordsService.UseLitebans() {
		writeJSON(w, http.StatusOK, map[string]interface{}{"useLitebans": false, "ok": false, "reason": "litebans disabled"})
		return
	}

	out := map[string]interface{}{"prefix": recordsService.Litebans.Prefix()}
	for _, typ := range []string{models.TypeMute, models.TypeBan, models.TypeKick} {
		n, err := recordsService.Litebans.Count(r.Context(), typ)
		if err != nil {
			out["error"] = err.Error()
			writeJSON(w, http.StatusInternalServerError, out)
			return
		}
		out[typ+"s"] = n
	}
	writeJSON(w, http.StatusOK, out)
}
