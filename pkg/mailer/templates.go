package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var templates = template.Must(template.New("mail").Parse(`
{{define "welcome"}}
<h2>Welcome to ShakyTails, {{.Name}}!</h2>
<p>Your account is ready. Add your pets and attach their tags to keep them safe.</p>
{{end}}

{{define "petLost"}}
<h2>{{.PetName}} has been marked as lost</h2>
<p>Anyone who scans {{.PetName}}'s tag will see your contact details and the
last known location you provided.</p>
{{if .LastKnownLocation}}<p>Last known location: {{.LastKnownLocation}}</p>{{end}}
{{if .QRDataURL}}<p><img src="{{.QRDataURL}}" alt="pet tag" width="300"/></p>{{end}}
{{end}}

{{define "petFound"}}
<h2>Someone reported finding {{.PetName}}!</h2>
<p><strong>Finder:</strong> {{.FinderName}}</p>
<p><strong>Phone:</strong> {{.FinderPhone}}</p>
{{if .FinderEmail}}<p><strong>Email:</strong> {{.FinderEmail}}</p>{{end}}
<p><strong>Location:</strong> {{.Location}}</p>
{{if .Message}}<p><strong>Message:</strong> {{.Message}}</p>{{end}}
<p>Reported at {{.ReportedAt.Format "Jan 2, 2006 3:04 PM MST"}}.</p>
{{end}}

{{define "vaccineReminder"}}
<h2>Vaccine reminder for {{.PetName}}</h2>
<p>{{.VaccineName}} is due on {{.DueDate.Format "Jan 2, 2006"}}.</p>
<p>Book an appointment with your vet and mark the reminder complete afterwards.</p>
{{end}}
`))

// WelcomeParams fills the welcome template.
type WelcomeParams struct {
	Name string
}

// PetLostParams fills the lost-pet notice template.
type PetLostParams struct {
	PetName           string
	LastKnownLocation string
	QRDataURL         template.URL
}

// PetFoundParams fills the found-report notice template.
type PetFoundParams struct {
	PetName     string
	FinderName  string
	FinderPhone string
	FinderEmail string
	Location    string
	Message     string
	ReportedAt  time.Time
}

// VaccineReminderParams fills the vaccine reminder template.
type VaccineReminderParams struct {
	PetName     string
	VaccineName string
	DueDate     time.Time
}

// Welcome renders the account-created email.
func Welcome(to string, params WelcomeParams) (Message, error) {
	return render(to, "Welcome to ShakyTails", "welcome", params)
}

// PetLost renders the owner notice sent when a pet is marked lost.
func PetLost(to string, params PetLostParams) (Message, error) {
	return render(to, fmt.Sprintf("%s marked as lost", params.PetName), "petLost", params)
}

// PetFound renders the owner notice sent when a finder files a report.
func PetFound(to string, params PetFoundParams) (Message, error) {
	return render(to, fmt.Sprintf("Good news: %s may have been found", params.PetName), "petFound", params)
}

// VaccineReminder renders the due-vaccine notice.
func VaccineReminder(to string, params VaccineReminderParams) (Message, error) {
	return render(to, fmt.Sprintf("Vaccine due for %s", params.PetName), "vaccineReminder", params)
}

func render(to, subject, name string, data any) (Message, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return Message{}, fmt.Errorf("rendering %s template: %w", name, err)
	}
	return Message{To: to, Subject: subject, HTML: buf.String()}, nil
}
