package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	texttemplate "text/template"
)

// CodeMessageData fills the verification and reset templates.
type CodeMessageData struct {
	AppName   string
	Username  string
	Email     string
	Code      string
	ClientURL string
}

// VerifyLink points the user at the frontend verification page.
func (d CodeMessageData) VerifyLink() string {
	return fmt.Sprintf("%s/verify/%s/%s", d.ClientURL, url.PathEscape(d.Code), url.PathEscape(d.Email))
}

const verificationText = `Hello {{.Username}},

Welcome to {{.AppName}}! Please open the link below to verify your account:

{{.VerifyLink}}

You can also copy and paste this verification code: {{.Code}}

Thank you!`

const verificationHTML = `<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h2>Welcome to {{.AppName}}!</h2>
    <p>Hello {{.Username}},</p>
    <p>Please click the button below to verify your account:</p>
    <p>
      <a href="{{.VerifyLink}}" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Verify Account</a>
    </p>
    <p>Or copy and paste this verification code: <strong>{{.Code}}</strong></p>
    <p>Thank you for joining {{.AppName}}!</p>
  </body>
</html>`

const resetText = `Hello {{.Username}},

You requested to reset your password. Please use the code below to reset your password:

{{.Code}}

Kind regards,
{{.AppName}} Team`

const resetHTML = `<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h2>Password Reset Request</h2>
    <p>Hello {{.Username}},</p>
    <p>You requested to reset your password. Please use the code below to reset your password:</p>
    <p style="font-size: 24px; font-weight: bold; color: #4CAF50;">{{.Code}}</p>
    <p>If you didn't request a password reset, please ignore this email or contact support.</p>
    <p>Kind regards,<br>{{.AppName}} Team</p>
  </body>
</html>`

var (
	verificationTextTmpl = texttemplate.Must(texttemplate.New("verification_text").Parse(verificationText))
	verificationHTMLTmpl = htmltemplate.Must(htmltemplate.New("verification_html").Parse(verificationHTML))
	resetTextTmpl        = texttemplate.Must(texttemplate.New("reset_text").Parse(resetText))
	resetHTMLTmpl        = htmltemplate.Must(htmltemplate.New("reset_html").Parse(resetHTML))
)

// VerificationMessage renders the account verification email.
func VerificationMessage(data CodeMessageData) (Message, error) {
	text, html, err := render(verificationTextTmpl, verificationHTMLTmpl, data)
	if err != nil {
		return Message{}, fmt.Errorf("render verification email: %w", err)
	}
	return Message{To: data.Email, Subject: "Account Verification", Text: text, HTML: html}, nil
}

// ResetCodeMessage renders the password reset email.
func ResetCodeMessage(data CodeMessageData) (Message, error) {
	text, html, err := render(resetTextTmpl, resetHTMLTmpl, data)
	if err != nil {
		return Message{}, fmt.Errorf("render reset email: %w", err)
	}
	return Message{To: data.Email, Subject: "Password Reset Code", Text: text, HTML: html}, nil
}

func render(text *texttemplate.Template, html *htmltemplate.Template, data CodeMessageData) (string, string, error) {
	var textBuf, htmlBuf bytes.Buffer
	if err := text.Execute(&textBuf, data); err != nil {
		return "", "", err
	}
	if err := html.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}
	return textBuf.String(), htmlBuf.String(), nil
}
