package email

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// md renders notice bodies. Raw HTML in the source is escaped.
var md = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderMarkdown converts a markdown body to HTML.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// BookingNotice describes a booking change a member is told about.
type BookingNotice struct {
	MemberName  string
	MemberEmail string
	CourseName  string
	CourseTime  time.Time
	Reason      string // cancellation reason, may be empty
}

// BookingConfirmed builds the confirmation email for a member.
// PRE: n.MemberEmail is non-empty
func BookingConfirmed(n BookingNotice) (SendRequest, error) {
	body := fmt.Sprintf("Hi %s,\n\nYour place in **%s** on %s is confirmed.\n\nSee you there.",
		n.MemberName, n.CourseName, n.CourseTime.Format("Mon 2 Jan 15:04"))
	return build(n.MemberEmail, "Booking confirmed: "+n.CourseName, body)
}

// BookingCancelled builds the cancellation email for a member.
// PRE: n.MemberEmail is non-empty
func BookingCancelled(n BookingNotice) (SendRequest, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYour booking for **%s** on %s has been cancelled.",
		n.MemberName, n.CourseName, n.CourseTime.Format("Mon 2 Jan 15:04"))
	if n.Reason != "" {
		fmt.Fprintf(&b, "\n\n> %s", n.Reason)
	}
	return build(n.MemberEmail, "Booking cancelled: "+n.CourseName, b.String())
}

func build(to, subject, body string) (SendRequest, error) {
	html, err := RenderMarkdown(body)
	if err != nil {
		return SendRequest{}, err
	}
	return SendRequest{To: []string{to}, Subject: subject, HTML: html}, nil
}
