// internal/workers/leads/submit-lead/models.go
package submitlead

import "inverter-savings/internal/models"

// Input is the submitted contact form plus the estimate produced by
// calculate-savings. LeadRecord is only present when a previous attempt of
// this job failed after the record was built.
type Input struct {
	SessionID  string             `json:"sessionId"`
	Contact    models.ContactInfo `json:"contact"`
	Estimate   models.Estimate    `json:"estimate"`
	LeadRecord *models.LeadRecord `json:"leadRecord,omitempty"`
}

type Output struct {
	LeadID         string          `json:"leadId"`
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	Duplicate      bool            `json:"duplicate"`
	LeadScore      int             `json:"leadScore"`
	Priority       models.Priority `json:"priority"`
	SalesAlertSent bool            `json:"salesAlertSent"`
}
