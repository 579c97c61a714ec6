package notifier

import (
	"bytes"
	"fmt"
	"html/template"
)

// VerificationSubject is the subject line of every verification email.
const VerificationSubject = "Verify your email address"

var verificationTmpl = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Welcome, {{.FirstName}}!</h2>
  <p>Thanks for signing up as a {{.Role}}. Confirm your email address to activate your account.</p>
  <p>
    <a href="{{.Link}}" style="display:inline-block;padding:10px 18px;background:#2563eb;color:#fff;text-decoration:none;border-radius:4px;">Verify email</a>
  </p>
  <p>Or paste this link into your browser:<br>{{.Link}}</p>
  <p style="color:#6b7280;font-size:12px;">This link expires in {{.ExpiresIn}}. If you did not create an account, you can ignore this email.</p>
</body>
</html>`))

// VerificationEmail holds the values rendered into a verification email.
type VerificationEmail struct {
	FirstName string
	Role      string
	Link      string
	ExpiresIn string
}

// RenderVerification renders the verification email body.
func RenderVerification(data VerificationEmail) (string, error) {
	var buf bytes.Buffer
	if err := verificationTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render verification email: %w", err)
	}
	return buf.String(), nil
}
