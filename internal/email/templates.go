package email

import (
	"fmt"
	"strings"
	"time"
)

// Template builders for the messages the platform sends. Layout mirrors the
// marketing-site branding (sage header, centered code block).

func OTPMessage(to, firstName, code string) *Message {
	html := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #556B4F; color: white; padding: 20px; text-align: center;">
    <h1>Verification Code</h1>
  </div>
  <div style="padding: 20px;">
    <p>Hi %s,</p>
    <p>Please use this verification code to complete your account setup:</p>
    <div style="text-align: center; margin: 30px 0;">
      <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #556B4F;">%s</div>
    </div>
    <p>This code will expire in 5 minutes.</p>
    <p>If you didn't request this, please ignore this email.</p>
  </div>
</div>`, firstName, code)

	text := fmt.Sprintf(`Hi %s,

Please use this verification code to complete your account setup:

%s

This code will expire in 5 minutes.

If you didn't request this, please ignore this email.`, firstName, code)

	return &Message{
		To:       to,
		Subject:  "Your Eudaura Verification Code",
		HTMLBody: html,
		TextBody: text,
	}
}

func AdminApplicationAlert(to, name, applicantEmail, npi string, states, specialties []string, appID, siteURL string, submittedAt time.Time) *Message {
	html := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #556B4F; color: white; padding: 20px; text-align: center;">
    <h1>New Clinician Application</h1>
  </div>
  <div style="padding: 20px;">
    <p>A new clinician has applied to join the network:</p>
    <div style="background: #f5f5f5; padding: 15px; border-radius: 8px; margin: 20px 0;">
      <p><strong>Name:</strong> %s</p>
      <p><strong>Email:</strong> %s</p>
      <p><strong>NPI:</strong> %s</p>
      <p><strong>Licensed States:</strong> %s</p>
      <p><strong>Specialties:</strong> %s</p>
      <p><strong>Submitted:</strong> %s</p>
    </div>
    <p><a href="%s/admin/approvals">Review Application</a></p>
    <p style="color: #666; font-size: 14px;">Application ID: %s</p>
  </div>
</div>`, name, applicantEmail, npi, strings.Join(states, ", "), strings.Join(specialties, ", "),
		submittedAt.Format(time.RFC1123), siteURL, appID)

	text := fmt.Sprintf(`New Clinician Application - %s

Name: %s
Email: %s
NPI: %s
Licensed States: %s
Specialties: %s
Submitted: %s

Review and approve/deny at: %s/admin/approvals

Application ID: %s`, name, name, applicantEmail, npi, strings.Join(states, ", "),
		strings.Join(specialties, ", "), submittedAt.Format(time.RFC1123), siteURL, appID)

	return &Message{
		To:       to,
		Subject:  fmt.Sprintf("New Clinician Application - %s", name),
		HTMLBody: html,
		TextBody: text,
	}
}

func ApprovalMessage(to, name, siteURL string) *Message {
	html := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #556B4F; color: white; padding: 20px; text-align: center;">
    <h1>Application Approved</h1>
  </div>
  <div style="padding: 20px;">
    <p>Hi %s,</p>
    <p>Your application to join the Eudaura network has been approved.</p>
    <p><a href="%s/onboarding/clinician">Complete your onboarding</a> to start seeing patients.</p>
  </div>
</div>`, name, siteURL)

	text := fmt.Sprintf(`Hi %s,

Your application to join the Eudaura network has been approved.

Complete your onboarding at %s/onboarding/clinician to start seeing patients.`, name, siteURL)

	return &Message{
		To:       to,
		Subject:  "Your Eudaura Application Has Been Approved",
		HTMLBody: html,
		TextBody: text,
	}
}

func DenialMessage(to, name, reason string) *Message {
	html := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #556B4F; color: white; padding: 20px; text-align: center;">
    <h1>Application Update</h1>
  </div>
  <div style="padding: 20px;">
    <p>Hi %s,</p>
    <p>After review, we are unable to approve your application at this time.</p>
    <p><strong>Reason:</strong> %s</p>
    <p>You may reply to this email with questions or corrected documentation.</p>
  </div>
</div>`, name, reason)

	text := fmt.Sprintf(`Hi %s,

After review, we are unable to approve your application at this time.

Reason: %s

You may reply to this email with questions or corrected documentation.`, name, reason)

	return &Message{
		To:       to,
		Subject:  "Your Eudaura Application Status",
		HTMLBody: html,
		TextBody: text,
	}
}

func ContactMessage(to, name, fromEmail, role, body string) *Message {
	html := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #556B4F;">New Contact Form Submission</h2>
  <p><strong>Name:</strong> %s</p>
  <p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
  <p><strong>Role:</strong> %s</p>
  <h3>Message:</h3>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px;">
    <p style="white-space: pre-wrap; margin: 0;">%s</p>
  </div>
</div>`, name, fromEmail, fromEmail, role, body)

	text := fmt.Sprintf(`New Contact Form Submission

Name: %s
Email: %s
Role: %s

Message:
%s`, name, fromEmail, role, body)

	return &Message{
		To:       to,
		Subject:  fmt.Sprintf("[Eudaura Contact] New message from %s (%s)", name, role),
		HTMLBody: html,
		TextBody: text,
	}
}
