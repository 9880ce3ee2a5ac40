package cli

const userTemplate = `
=== Current User ===

ID:        {{.ID}}
Name:      {{.Name}}
Email:     {{.Email}}
Role:      {{.Role}}
Status:    {{.Status}}
Verified:  {{if .Verified}}yes{{else}}no{{end}}
{{- if .Mobile }}
Mobile:    {{.Mobile}}
{{- end}}
Created:   {{.CreatedAt.Format "2006-01-02 15:04:05"}}
{{- if .LastLogin }}
Last login: {{.LastLogin.Format "2006-01-02 15:04:05"}}
{{- end}}
`
