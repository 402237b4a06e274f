package templates

import (
	"bytes"
	"fmt"
	htmltpl "html/template"
	texttpl "text/template"
)

const (
	VerifyEmail = "verify_email"
	Welcome     = "welcome"
)

var subjects = map[string]string{
	VerifyEmail: "Your verification code",
	Welcome:     "Welcome aboard",
}

var textBodies = map[string]string{
	VerifyEmail: `Hi {{.Name}},

Your verification code is {{.Code}}.

Enter it to verify your email address. If you did not sign up, you can
ignore this message.`,
	Welcome: `Hi {{.Name}},

Your email address has been verified. Your account is ready to use.`,
}

var htmlBodies = map[string]string{
	VerifyEmail: `<html><body>
<p>Hi {{.Name}},</p>
<p>Your verification code is <strong>{{.Code}}</strong>.</p>
<p>Enter it to verify your email address. If you did not sign up, you can
ignore this message.</p>
</body></html>`,
	Welcome: `<html><body>
<p>Hi {{.Name}},</p>
<p>Your email address has been verified. Your account is ready to use.</p>
</body></html>`,
}

// Render returns subject, text and HTML bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	tt, err := texttpl.New(name).Parse(textBodies[name])
	if err != nil {
		return "", "", "", err
	}
	var tb bytes.Buffer
	if err := tt.Execute(&tb, data); err != nil {
		return "", "", "", err
	}

	ht, err := htmltpl.New(name).Parse(htmlBodies[name])
	if err != nil {
		return "", "", "", err
	}
	var hb bytes.Buffer
	if err := ht.Execute(&hb, data); err != nil {
		return "", "", "", err
	}

	return subject, tb.String(), hb.String(), nil
}
