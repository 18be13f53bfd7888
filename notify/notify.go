package notify

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/trafficops/traffic-ops-api/models"
)

// Mailer sends operational email through SendGrid. Both the API key and the
// recipient must be configured or the mailer stays disabled and every send is
// a no-op for callers that check Enabled first.
type Mailer struct {
	apiKey    string
	recipient string
}

// New builds a Mailer from SENDGRID_API_KEY and DIGEST_RECIPIENT
func New() *Mailer {
	return &Mailer{
		apiKey:    os.Getenv("SENDGRID_API_KEY"),
		recipient: os.Getenv("DIGEST_RECIPIENT"),
	}
}

// Enabled reports whether the mailer is configured to send
func (m *Mailer) Enabled() bool {
	return m.apiKey != "" && m.recipient != ""
}

// IncidentAlert emails the operations inbox about a newly reported
// high-severity incident
func (m *Mailer) IncidentAlert(id string, incident map[string]interface{}) error {
	subject := fmt.Sprintf("High severity incident reported: %v", incident["incident_type"])

	var b strings.Builder
	fmt.Fprintf(&b, "A high severity incident has been reported.\n\n")
	fmt.Fprintf(&b, "Incident ID: %s\n", id)
	for _, field := range []string{"incident_type", "location", "reported_by", "description", "status", "date"} {
		if v, ok := incident[field]; ok {
			fmt.Fprintf(&b, "%s: %v\n", strings.ReplaceAll(field, "_", " "), v)
		}
	}

	return m.send(subject, b.String())
}

// DailyDigest emails a summary of the previous day's analytics snapshot
func (m *Mailer) DailyDigest(stats *models.AnalyticsResponse) error {
	subject := "Daily traffic operations digest"

	var b strings.Builder
	fmt.Fprintf(&b, "Daily operations summary.\n\n")
	fmt.Fprintf(&b, "Total violations: %d\n", stats.TotalViolations)
	fmt.Fprintf(&b, "Total fines: %.2f\n", stats.TotalFines)
	fmt.Fprintf(&b, "Average fine: %.2f\n", stats.AvgFine)
	fmt.Fprintf(&b, "Active incidents: %d\n", stats.ActiveIncidents)
	fmt.Fprintf(&b, "Parking zones: %d (capacity %d)\n\n", stats.TotalParkingZones, stats.TotalParkingCapacity)

	fmt.Fprintf(&b, "Violations by type:\n")
	for _, k := range sortedKeys(stats.ViolationsByType) {
		fmt.Fprintf(&b, "  %s: %d\n", k, stats.ViolationsByType[k])
	}
	fmt.Fprintf(&b, "Incidents by severity:\n")
	for _, k := range sortedKeys(stats.IncidentsBySeverity) {
		fmt.Fprintf(&b, "  %s: %d\n", k, stats.IncidentsBySeverity[k])
	}

	return m.send(subject, b.String())
}

func (m *Mailer) send(subject, plainText string) error {
	from := mail.NewEmail("Traffic Operations", "no-reply@traffic-ops.local")
	to := mail.NewEmail("Operations", m.recipient)
	message := mail.NewSingleEmail(from, subject, to, plainText, "")
	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
