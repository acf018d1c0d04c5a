package mail

import "time"

type LeadAssignedData struct {
	LeadName string
	Reason   string
}

type SLAAlertData struct {
	LeadName string
	Breached bool
	Deadline string
}

type EmailSender struct {
	From     string
	dialer   dialer
	location *time.Location
}
