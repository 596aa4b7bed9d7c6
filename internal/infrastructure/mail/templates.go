package mail

import "html/template"

const layoutTemplate = `{{define "layout"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
{{template "body" .}}
<hr style="margin: 30px 0; border: none; border-top: 1px solid #eee;">
<p style="color: #666; font-size: 12px;">This is an automated message from TaskNestle. Please do not reply to this email.</p>
</div>{{end}}`

const buttonTemplate = `{{define "button"}}<div style="text-align: center; margin: 30px 0;">
<a href="{{.URL}}" style="background-color: #4CAF50; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">{{.Label}}</a>
</div>{{end}}`

var bodies = map[string]string{
	"invitation": `{{define "body"}}<h2 style="color: #333;">Project Invitation</h2>
<p>Hello!</p>
<p><strong>{{.InviterName}}</strong> has invited you to join the project <strong>"{{.ProjectTitle}}"</strong>.</p>
<p>Click the button below to accept the invitation and create your account:</p>
{{template "button" .Button}}
<p>If the button doesn't work, copy and paste this link into your browser:</p>
<p style="word-break: break-all; color: #666;">{{.Button.URL}}</p>
<p>This invitation will expire in {{.ExpiryDays}} days.</p>{{end}}`,

	"credentials": `{{define "body"}}<h2 style="color: #333;">Welcome to TaskNestle!</h2>
<p>Hello {{.Name}},</p>
<p>Your account has been created and you've been invited to join our team.</p>
{{if .ProjectTitle}}<p><strong>You've been added to the project: "{{.ProjectTitle}}"</strong></p>{{end}}
<div style="background-color: #f5f5f5; padding: 20px; border-radius: 4px; margin: 20px 0;">
<h3 style="margin: 0 0 15px 0; color: #333;">Your Login Credentials:</h3>
<p style="margin: 5px 0;"><strong>Email:</strong> {{.To}}</p>
<p style="margin: 5px 0;"><strong>Password:</strong> {{.Password}}</p>
</div>
{{template "button" .Button}}
<p><strong>Important:</strong> Please change your password after your first login.</p>{{end}}`,

	"welcome": `{{define "body"}}<h2 style="color: #333;">Welcome to TaskNestle!</h2>
<p>Hello {{.Name}},</p>
<p>Your account is ready{{if .ProjectTitle}} and you are now a member of <strong>"{{.ProjectTitle}}"</strong>{{end}}.</p>
{{template "button" .Button}}{{end}}`,

	"task_assigned": `{{define "body"}}<h2 style="color: #333;">Task Assignment</h2>
<p>Hello{{if .Name}} {{.Name}}{{end}}!</p>
<p><strong>{{.InviterName}}</strong> has assigned you a new task:</p>
<div style="background-color: #f5f5f5; padding: 20px; border-radius: 4px; margin: 20px 0;">
<h3 style="margin: 0 0 10px 0; color: #333;">{{.TaskTitle}}</h3>
<p style="margin: 0; color: #666;">Project: {{.ProjectTitle}}</p>
{{if .TaskPriority}}<p style="margin: 0; color: #666;">Priority: {{.TaskPriority}}</p>{{end}}
</div>
{{template "button" .Button}}
<p>Log in to your dashboard to see all your assigned tasks.</p>{{end}}`,

	"project_added": `{{define "body"}}<h2 style="color: #333;">New Project</h2>
<p>Hello{{if .Name}} {{.Name}}{{end}}!</p>
<p>{{if .InviterName}}<strong>{{.InviterName}}</strong> has added you{{else}}You have been added{{end}} to the project <strong>"{{.ProjectTitle}}"</strong>.</p>
{{template "button" .Button}}{{end}}`,
}

// parseTemplates builds one template set per notification kind, each sharing
// the layout and button partials.
func parseTemplates() map[string]*template.Template {
	out := make(map[string]*template.Template, len(bodies))
	for kind, body := range bodies {
		t := template.Must(template.New(kind).Parse(layoutTemplate))
		template.Must(t.Parse(buttonTemplate))
		template.Must(t.Parse(body))
		out[kind] = t
	}
	return out
}
