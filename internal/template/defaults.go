package template

// Built-in templates, used when the sender has no custom override for the
// kind. Keys match model.TemplateKind* values.

type Default struct {
	Subject string
	Body    string
}

var defaults = map[string]Default{
	"interview": {
		Subject: "Interview invitation - {{jobTitle}} at {{companyName}}",
		Body: `<p>Hi {{candidateName}},</p>
<p>Thank you for applying for the {{jobTitle}} position at {{companyName}}. We were impressed with your application and would like to invite you to an interview.</p>
<p>Please pick a time that works for you: <a href="{{calendarLink}}">{{calendarLink}}</a></p>
<p>Best regards,<br>{{senderName}}<br>{{companyName}}</p>`,
	},
	"offer": {
		Subject: "Your offer from {{companyName}}",
		Body: `<p>Hi {{candidateName}},</p>
<p>We are delighted to offer you the {{jobTitle}} position at {{companyName}}.</p>
<p>Compensation: {{compensation}}<br>Start date: {{startDate}}</p>
<p>You can review and respond to your offer here: <a href="{{offerLink}}">{{offerLink}}</a></p>
<p>Best regards,<br>{{senderName}}<br>{{companyName}}</p>`,
	},
	"rejection": {
		Subject: "Update on your application at {{companyName}}",
		Body: `<p>Hi {{candidateName}},</p>
<p>Thank you for taking the time to apply for the {{jobTitle}} position at {{companyName}}. After careful consideration we have decided not to move forward with your application.</p>
<p>We wish you all the best in your search.</p>
<p>Best regards,<br>{{senderName}}<br>{{companyName}}</p>`,
	},
	"talent_pool": {
		Subject: "Your application at {{companyName}}",
		Body: `<p>Hi {{candidateName}},</p>
<p>Thank you for applying for the {{jobTitle}} position at {{companyName}}. While we are not moving forward right now, we would like to keep your profile in our talent pool and reach out when a matching role opens up.</p>
<p>Best regards,<br>{{senderName}}<br>{{companyName}}</p>`,
	},
	"onboarding": {
		Subject: "Welcome to {{companyName}}!",
		Body: `<p>Hi {{candidateName}},</p>
<p>Congratulations on accepting your offer for the {{jobTitle}} position. We are excited to have you on board!</p>
<p>Our team will reach out shortly with onboarding details.</p>
<p>Best regards,<br>{{senderName}}<br>{{companyName}}</p>`,
	},
	"assessment": {
		Subject: "Next step for your {{jobTitle}} application",
		Body: `<p>Hi {{candidateName}},</p>
<p>Thank you for applying for the {{jobTitle}} position at {{companyName}}. As a next step we would like you to complete a short assessment: <a href="{{assessmentLink}}">{{assessmentLink}}</a></p>
<p>Best regards,<br>{{senderName}}<br>{{companyName}}</p>`,
	},
}

// DefaultFor returns the built-in template for a kind. The bool is false for
// unknown kinds.
func DefaultFor(kind string) (Default, bool) {
	d, ok := defaults[kind]
	return d, ok
}
