package mailer

import (
	"strings"
	"testing"
)

func TestBuildOTPEmail(t *testing.T) {
	e := BuildOTPEmail(OTPEmailData{Code: "12345678", ExpiresIn: "5 minutes"})

	if e.Subject != "Your One Time Password" {
		t.Errorf("subject = %q", e.Subject)
	}
	if !strings.Contains(e.TextBody, "Your password is 12345678") {
		t.Errorf("body is missing the code: %q", e.TextBody)
	}
	if !strings.Contains(e.TextBody, "5 minutes") {
		t.Errorf("body is missing the expiry: %q", e.TextBody)
	}
}

func TestBuildMagicLinkEmail(t *testing.T) {
	link := "https://scorehub.example.com/auth/confirm-magic?secret=abc"
	e := BuildMagicLinkEmail(MagicLinkEmailData{Link: link, ExpiresIn: "5 minutes"})

	if e.Subject != "Your magic sign in link" {
		t.Errorf("subject = %q", e.Subject)
	}
	if !strings.Contains(e.TextBody, "Click this link to sign in") {
		t.Errorf("body is missing the instruction: %q", e.TextBody)
	}
	if !strings.Contains(e.TextBody, link) {
		t.Errorf("body is missing the link: %q", e.TextBody)
	}
}
