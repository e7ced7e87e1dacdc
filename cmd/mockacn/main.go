// Command mockacn serves a local stand-in for the ACN sessions API so the
// pipeline can be exercised without a portal account. It generates a
// deterministic set of sessions per site and honors the same query contract
// as the real endpoint: a connectionTime cursor, max_results, and ascending
// sort order.
//
// Usage:
//
//	mockacn -addr :8081 -sessions 1200
//	ACN_API_URL=http://localhost:8081 evsessions -dataset ACN_Caltech
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/voltcurve/evsessions/internal/domain"
)

var sites = map[string]int64{
	"caltech":   1,
	"jpl":       2,
	"office001": 3,
}

const mockTimezone = "America/Los_Angeles"

type session struct {
	ID             string  `json:"_id"`
	ConnectionTime string  `json:"connectionTime"`
	DisconnectTime string  `json:"disconnectTime"`
	KWhDelivered   float64 `json:"kWhDelivered"`
	UserID         string  `json:"userID"`
	Timezone       string  `json:"timezone"`
	SiteID         string  `json:"siteID"`
}

func main() {
	addr := flag.String("addr", ":8081", "listen address")
	count := flag.Int("sessions", 1200, "sessions to generate per site")
	flag.Parse()

	mux := http.NewServeMux()
	for site, seed := range sites {
		sessions := generate(site, seed, *count)
		mux.Handle("/"+site, handler(sessions))
		log.Printf("%s: %d sessions", site, len(sessions))
	}

	log.Printf("mock ACN API listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

// generate produces count sessions for a site, sorted by connection time.
// The same site and count always yield the same data.
func generate(site string, seed int64, count int) []session {
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2018, time.April, 1, 0, 0, 0, 0, time.UTC)

	sessions := make([]session, count)
	cursor := start
	for i := range sessions {
		cursor = cursor.Add(time.Duration(5+rng.Intn(180)) * time.Minute)
		duration := time.Duration(30+rng.Intn(600)) * time.Minute
		user := ""
		if rng.Float64() > 0.1 {
			user = fmt.Sprintf("user_%03d", rng.Intn(80))
		}
		sessions[i] = session{
			ID:             fmt.Sprintf("%s-%06d", site, i),
			ConnectionTime: cursor.Format(domain.SourceTimeLayout),
			DisconnectTime: cursor.Add(duration).Format(domain.SourceTimeLayout),
			KWhDelivered:   float64(rng.Intn(4000)) / 100,
			UserID:         user,
			Timezone:       mockTimezone,
			SiteID:         site,
		}
	}
	return sessions
}

func handler(sessions []session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, err := parseCursor(r.URL.Query().Get("where"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		limit, err := strconv.Atoi(r.URL.Query().Get("max_results"))
		if err != nil || limit < 1 {
			limit = 500
		}

		var items []session
		for _, s := range sessions {
			ts, err := time.Parse(domain.SourceTimeLayout, s.ConnectionTime)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if !ts.After(cursor) {
				continue
			}
			items = append(items, s)
			if len(items) == limit {
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"_items": items}); err != nil {
			log.Printf("encode response: %v", err)
		}
	}
}

func parseCursor(where string) (time.Time, error) {
	quoted, ok := strings.CutPrefix(where, "connectionTime>")
	if !ok {
		return time.Time{}, fmt.Errorf("unsupported where clause %q", where)
	}
	raw, err := strconv.Unquote(quoted)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed cursor %q: %v", quoted, err)
	}
	return time.Parse(domain.SourceTimeLayout, raw)
}
