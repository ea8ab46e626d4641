package utils

import (
	"fmt"
	"lms/config"
	"net/smtp"
	"strings"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LearnHub <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML Wrapper for the shared mail layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.content h2 { color: #00004D; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #d7b56d; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #d7b56d; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNHUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 LearnHub. All rights reserved.<br>
				Keep learning, keep growing.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to LearnHub"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>LearnHub</strong>! We are thrilled to have you onboard.</p>
		<p>Your account has been successfully created. You can now browse our course catalog and start learning.</p>
		<p>If you have any questions, feel free to reach out to our support team.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Enrollment Confirmation
func SendEnrollmentEmail(email, name, courseTitle string) {
	subject := "Enrollment Confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Head to your dashboard and start with the first module.
		</div>
	`, name, courseTitle)

	go SendEmail([]string{email}, subject, getEmailTemplate("Enrollment Successful", body))
}

// 3. Login Notification
func SendLoginNotificationEmail(email, name, ip, device, timeStr string) {
	subject := "New Login to Your Account"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We noticed a new login to your LearnHub account.</p>
		<div class="info-box">
			<strong>IP Address:</strong> %s<br>
			<strong>Device:</strong> %s<br>
			<strong>Time:</strong> %s
		</div>
		<p>If this was not you, please reset your password immediately.</p>
	`, name, ip, device, timeStr)

	go SendEmail([]string{email}, subject, getEmailTemplate("Login Alert", body))
}

// 4. Course Completion (student-facing)
func SendCourseCompletionEmail(email, name, courseTitle string) {
	subject := "Congratulations! You completed " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<p>Your certificate of completion has been issued and is available in your dashboard.</p>
		<div class="info-box">
			<strong>What's next?</strong> Explore related courses and keep your streak going.
		</div>
	`, name, courseTitle)

	go SendEmail([]string{email}, subject, getEmailTemplate("Course Completed!", body))
}

// 5. Admin notification on course completion
func SendAdminCompletionNotification(studentName, studentEmail, courseTitle string) {
	subject := "Course Completion: " + courseTitle
	body := fmt.Sprintf(`
		<p>A student has completed a course.</p>
		<div class="info-box">
			<strong>Student:</strong> %s (%s)<br>
			<strong>Course:</strong> %s
		</div>
	`, studentName, studentEmail, courseTitle)

	go SendEmail([]string{config.AppConfig.AdminEmail}, subject, getEmailTemplate("Completion Notification", body))
}

// 6. Certificate Issued
func SendCertificateEmail(email, name, courseTitle, certNumber string) {
	subject := "Your Certificate for " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your certificate for <strong>%s</strong> has been issued.</p>
		<div class="info-box">
			<strong>Certificate Number:</strong> %s
		</div>
		<p>You can download it from your dashboard at any time.</p>
	`, name, courseTitle, certNumber)

	go SendEmail([]string{email}, subject, getEmailTemplate("Certificate Issued", body))
}

// 7. Enrollment Reminder (scheduler)
func SendEnrollmentReminderEmail(email, name, courseTitle string) {
	subject := "Continue Learning: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>It has been a while since you last worked on <strong>%s</strong>.</p>
		<p>Pick up where you left off and keep making progress!</p>
	`, name, courseTitle)

	go SendEmail([]string{email}, subject, getEmailTemplate("We Miss You!", body))
}
