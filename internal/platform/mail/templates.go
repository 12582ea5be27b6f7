package mail

import (
	"bytes"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"pinnacle_metals/internal/domain/model"
)

var resetTmpl = template.Must(template.New("reset").Parse(`
<h1>Password Reset Request</h1>
<p>You requested a password reset for your Pinnacle Metals account.</p>
<p>Click the link below to set a new password. This link will expire in {{.Expiry}}.</p>
<a href="{{.Link}}" style="display: inline-block; padding: 12px 24px; background-color: #007bff; color: white; text-decoration: none; border-radius: 4px;">Reset Password</a>
<p>If you didn't request this, you can safely ignore this email.</p>
`))

var verifyTmpl = template.Must(template.New("verify").Parse(`
<h1>Verify Your Email</h1>
<p>Thank you for registering with Pinnacle Metals.</p>
<p>Please click the link below to verify your email address and activate your account.</p>
<a href="{{.Link}}" style="display: inline-block; padding: 12px 24px; background-color: #28a745; color: white; text-decoration: none; border-radius: 4px;">Verify Email</a>
<p>If you didn't register, please ignore this email.</p>
`))

// Templates renders the account emails with links back to the web client.
type Templates struct {
	ClientOrigin string
	ResetExpiry  string
}

func (t Templates) link(path, token string) string {
	return t.ClientOrigin + path + "?token=" + url.QueryEscape(token)
}

func (t Templates) PasswordReset(to, token string) (model.MailMessage, error) {
	var buf bytes.Buffer
	data := struct{ Link, Expiry string }{t.link("/reset-password", token), t.ResetExpiry}
	if err := resetTmpl.Execute(&buf, data); err != nil {
		return model.MailMessage{}, err
	}
	return model.MailMessage{To: to, Subject: "Reset your Pinnacle Metals password", HTML: buf.String()}, nil
}

func (t Templates) EmailVerification(to, token string) (model.MailMessage, error) {
	var buf bytes.Buffer
	data := struct{ Link string }{t.link("/verify-email", token)}
	if err := verifyTmpl.Execute(&buf, data); err != nil {
		return model.MailMessage{}, err
	}
	return model.MailMessage{To: to, Subject: "Verify your Pinnacle Metals email", HTML: buf.String()}, nil
}

// Humanize renders a whole-hour or whole-minute duration for email copy, e.g. "1 hour".
func Humanize(d time.Duration) string {
	unit, n := "minute", int(d/time.Minute)
	if d >= time.Hour && d%time.Hour == 0 {
		unit, n = "hour", int(d/time.Hour)
	}
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
