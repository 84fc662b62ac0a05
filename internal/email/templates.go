package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const baseTemplate = `{{define "email"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
<h2>{{.Heading}}</h2>
{{template "content" .}}
<p style="color: #7b8794; font-size: 12px;">Store opening preparation</p>
</body>
</html>{{end}}`

var contentTemplates = map[string]string{
	"project_completed": `{{define "content"}}<p>Hello {{.ManagerName}},</p>
<p>Preparation project <strong>{{.ProjectCode}}</strong> is complete and <strong>{{.StoreName}}</strong> opened on {{.OpenDate}}.</p>
<p>The store record has been created and the store plan updated.</p>{{end}}`,
	"project_overdue": `{{define "content"}}<p>Hello {{.ManagerName}},</p>
<p>Preparation project <strong>{{.ProjectCode}}</strong> for <strong>{{.StoreName}}</strong> was expected to open on {{.ExpectedDate}}
and is now {{.DaysOverdue}} day(s) overdue. Its current status is {{.Status}}.</p>
<p>Please update the expected open date or the project status.</p>{{end}}`,
}

type baseEmailData struct {
	Title   string
	Heading string
}

type projectCompletedEmailData struct {
	baseEmailData
	ProjectCompletedData
	OpenDate string
}

type projectOverdueEmailData struct {
	baseEmailData
	ProjectOverdueData
	ExpectedDate string
}

func renderEmailTemplate(name string, data any) (string, error) {
	content, ok := contentTemplates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %s", name)
	}
	tmpl, err := template.New("base").Parse(baseTemplate)
	if err == nil {
		_, err = tmpl.Parse(content)
	}
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderProjectCompleted(data ProjectCompletedData) (string, string, error) {
	body, err := renderEmailTemplate("project_completed", projectCompletedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Store opened",
			Heading: "Store opened",
		},
		ProjectCompletedData: data,
		OpenDate:             data.ActualOpenDate.Format("2006-01-02"),
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectProjectCompletedFmt, data.StoreName, data.ProjectCode), body, nil
}

func renderProjectOverdue(data ProjectOverdueData) (string, string, error) {
	body, err := renderEmailTemplate("project_overdue", projectOverdueEmailData{
		baseEmailData: baseEmailData{
			Title:   "Preparation project overdue",
			Heading: "Preparation project overdue",
		},
		ProjectOverdueData: data,
		ExpectedDate:       data.ExpectedOpenDate.Format("2006-01-02"),
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectProjectOverdueFmt, data.ProjectCode, data.DaysOverdue), body, nil
}
