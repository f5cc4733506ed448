// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
)

// OTPEmailData holds data for the one-time-code email.
type OTPEmailData struct {
	Code      string
	ExpiresIn string // e.g., "5 minutes"
}

// BuildOTPEmail creates the one-time-code message. The recipient is set by
// the caller.
func BuildOTPEmail(data OTPEmailData) Email {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Your password is %s\n\n", data.Code)
	fmt.Fprintf(&buf, "This code expires in %s and can be used once.\n\n", data.ExpiresIn)
	buf.WriteString("If you did not request this code, you can safely ignore this email.\n")

	return Email{
		Subject:  "Your One Time Password",
		TextBody: buf.String(),
	}
}

// MagicLinkEmailData holds data for the magic-link email.
type MagicLinkEmailData struct {
	Link      string
	ExpiresIn string
}

// BuildMagicLinkEmail creates the magic-link message.
func BuildMagicLinkEmail(data MagicLinkEmailData) Email {
	var buf bytes.Buffer
	buf.WriteString("Click this link to sign in\n")
	buf.WriteString(data.Link + "\n\n")
	fmt.Fprintf(&buf, "This link expires in %s and can be used once.\n\n", data.ExpiresIn)
	buf.WriteString("If you did not request this link, you can safely ignore this email.\n")

	return Email{
		Subject:  "Your magic sign in link",
		TextBody: buf.String(),
	}
}
