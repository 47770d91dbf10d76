package services

import (
	"strings"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

// TemplateRenderer substitutes {{field}} placeholders in email
// templates with candidate data. Unknown placeholders are left intact
// so broken templates surface in the delivered text rather than
// failing silently.
type TemplateRenderer struct{}

// NewTemplateRenderer creates a template renderer.
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{}
}

// Render fills the template's subject and body for the candidate.
func (r *TemplateRenderer) Render(tmpl *EmailTemplate, candidate *domain.Candidate) (subject, body string) {
	replacer := strings.NewReplacer(r.pairs(candidate)...)
	return replacer.Replace(tmpl.Subject), replacer.Replace(tmpl.Body)
}

func (r *TemplateRenderer) pairs(candidate *domain.Candidate) []string {
	joining := ""
	if d := candidate.JoiningDate(); d != nil {
		joining = d.In(InstitutionZone).Format("2 January 2006")
	}
	offerSent := ""
	if d := candidate.OfferSentAt(); d != nil {
		offerSent = d.In(InstitutionZone).Format("2 January 2006")
	}

	return []string{
		"{{fullName}}", candidate.FullName(),
		"{{firstName}}", firstName(candidate.FullName()),
		"{{email}}", candidate.Email(),
		"{{department}}", candidate.Department().String(),
		"{{joiningDate}}", joining,
		"{{offerSentDate}}", offerSent,
	}
}

func firstName(fullName string) string {
	if i := strings.IndexByte(fullName, ' '); i > 0 {
		return fullName[:i]
	}
	return fullName
}
