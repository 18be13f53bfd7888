package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/trafficops/traffic-ops-api/api"
	"github.com/trafficops/traffic-ops-api/api/scheduler"
	"github.com/trafficops/traffic-ops-api/config"
	"github.com/trafficops/traffic-ops-api/databases"
	"github.com/trafficops/traffic-ops-api/models"
	"github.com/trafficops/traffic-ops-api/notify"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Sessions  *api.SessionManager
	Users     config.UserRegistry
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	sm := a.Sessions

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	auth := Auth{Users: a.Users, Sessions: sm}
	mailer := notify.New()
	feed := NewIncidentFeed()
	v := Violation{DB: databases.NewViolationDatabase(a.dbHelper)}
	i := Incident{DB: databases.NewIncidentDatabase(a.dbHelper), Feed: feed, Mailer: mailer}
	p := ParkingZone{DB: databases.NewParkingZoneDatabase(a.dbHelper)}
	d := Dashboard{VDB: v.DB, IDB: i.DB, PDB: p.DB}
	an := Analytics{VDB: v.DB, IDB: i.DB, PDB: p.DB, Now: time.Now}
	pay := Payment{DB: v.DB, BaseURL: a.Config.BaseURL}
	ev := Evidence{DB: v.DB}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	loginLimit := api.LoginRateLimit(5, 10, 3*time.Minute)
	apiCreate.Handle("/auth/login", loginLimit(http.HandlerFunc(auth.LoginHandler))).Methods("POST")
	apiCreate.Handle("/auth/logout", http.HandlerFunc(auth.LogoutHandler)).Methods("POST")
	apiCreate.Handle("/auth/check", http.HandlerFunc(auth.CheckHandler)).Methods("GET")

	apiCreate.Handle("/dashboard/stats", sm.RequireAuth(http.HandlerFunc(d.DashboardStatsHandler))).Methods("GET")
	apiCreate.Handle("/analytics", sm.RequireAuth(http.HandlerFunc(an.AnalyticsHandler))).Methods("GET")

	apiCreate.Handle("/violations", sm.RequireAuth(http.HandlerFunc(v.ViolationHandler))).Methods("GET")
	apiCreate.Handle("/violations", sm.RequireAuth(http.HandlerFunc(v.CreateViolationHandler))).Methods("POST")
	apiCreate.Handle("/violations/{violation_id}", sm.RequireAuth(http.HandlerFunc(v.UpdateViolationHandler))).Methods("PUT")
	apiCreate.Handle("/violations/{violation_id}", sm.RequireAdmin(http.HandlerFunc(v.DeleteViolationHandler))).Methods("DELETE")
	apiCreate.Handle("/violations/{violation_id}/pay", sm.RequireAuth(http.HandlerFunc(pay.CreateCheckoutHandler))).Methods("POST")
	apiCreate.Handle("/violations/{violation_id}/evidence", sm.RequireAuth(http.HandlerFunc(ev.UploadEvidenceHandler))).Methods("POST")
	apiCreate.Handle("/payments/confirm", sm.RequireAuth(http.HandlerFunc(pay.ConfirmPaymentHandler))).Methods("GET")

	apiCreate.Handle("/incidents", sm.RequireAuth(http.HandlerFunc(i.IncidentHandler))).Methods("GET")
	apiCreate.Handle("/incidents", sm.RequireAuth(http.HandlerFunc(i.CreateIncidentHandler))).Methods("POST")
	apiCreate.Handle("/incidents/{incident_id}", sm.RequireAuth(http.HandlerFunc(i.UpdateIncidentHandler))).Methods("PUT")
	apiCreate.Handle("/incidents/{incident_id}", sm.RequireAdmin(http.HandlerFunc(i.DeleteIncidentHandler))).Methods("DELETE")

	apiCreate.Handle("/parking", sm.RequireAuth(http.HandlerFunc(p.ParkingZoneHandler))).Methods("GET")
	apiCreate.Handle("/parking", sm.RequireAuth(http.HandlerFunc(p.CreateParkingZoneHandler))).Methods("POST")
	apiCreate.Handle("/parking/{zone_id}", sm.RequireAuth(http.HandlerFunc(p.UpdateParkingZoneHandler))).Methods("PUT")
	apiCreate.Handle("/parking/{zone_id}", sm.RequireAdmin(http.HandlerFunc(p.DeleteParkingZoneHandler))).Methods("DELETE")

	apiCreate.Handle("/ws/incidents", sm.RequireAuth(http.HandlerFunc(feed.ServeWS))).Methods("GET")

	a.Scheduler = scheduler.New(&an, mailer)

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("traffic-ops-api has connected to the database")

	a.Sessions = api.NewSessionManager(a.Config.SessionSecret)
	a.Users = config.LoadUsers()

	// stripe is optional, fine payment endpoints answer 500 until configured
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		zap.S().Warn("STRIPE_SECRET_KEY is not set, fine payments are disabled")
	}
	stripe.Key = stripeKey

	// initialize api router
	a.initializeRoutes()
	a.Scheduler.Start()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error": "Not found"}`))
}

// parseLimit reads the optional limit query parameter. Absent means no
// truncation; anything non-numeric or negative is a validation error.
func parseLimit(r *http.Request) (int64, bool, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, false, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, false, strconv.ErrSyntax
	}
	return int64(limit), true, nil
}

// nowUTC is the single timestamp format used for record dates
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
