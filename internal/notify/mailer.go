package notify

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/chiiloo/saffron-store-api/internal/model"
	"github.com/chiiloo/saffron-store-api/internal/pricing"
)

// Mailer delivers the order summary to the shop owner. Like Publisher it is
// an optional capability with a null object behind it.
type Mailer interface {
	SendOrderSubmitted(order *model.Order) error
}

type smtpMailer struct {
	addr string
	auth smtp.Auth
	from string
	to   string
}

// NewSMTPMailer builds a Mailer delivering through a plain SMTP relay.
func NewSMTPMailer(host string, port int, username, password, from, to string) Mailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &smtpMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
		to:   to,
	}
}

func (m *smtpMailer) SendOrderSubmitted(order *model.Order) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: =?UTF-8?B?%s?=\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n",
		m.from, m.to, encodeSubject("سفارش جدید "+order.TrackingCode), RenderOrderSummary(order),
	)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{m.to}, []byte(msg)); err != nil {
		return fmt.Errorf("send order mail: %w", err)
	}
	return nil
}

// LogMailer is used when SMTP is unconfigured: it logs the summary so the
// order is still visible to an operator tailing the worker.
type LogMailer struct{ Log *slog.Logger }

func (m LogMailer) SendOrderSubmitted(order *model.Order) error {
	m.Log.Info("order submitted (mail not configured)",
		"tracking_code", order.TrackingCode,
		"summary", RenderOrderSummary(order),
	)
	return nil
}

// RenderOrderSummary builds the Persian plain-text order summary sent to the
// shop owner.
func RenderOrderSummary(order *model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "کد پیگیری: %s\n", order.TrackingCode)
	fmt.Fprintf(&b, "نام و نام خانوادگی: %s %s\n", order.FirstName, order.LastName)
	fmt.Fprintf(&b, "شماره تماس: %s\n", order.Phone)
	fmt.Fprintf(&b, "آدرس: %s\n", order.Address)
	if order.Notes != "" {
		fmt.Fprintf(&b, "توضیحات: %s\n", order.Notes)
	}
	b.WriteString("\nمحصولات سفارش:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%s - %s - %d عدد - %s\n", item.Name, item.Weight, item.Quantity, item.Price)
	}
	fmt.Fprintf(&b, "\nمجموع کل: %s\n", pricing.FormatAmount(order.TotalPrice))
	if order.DiscountAmount > 0 {
		fmt.Fprintf(&b, "تخفیف: %s\n", pricing.FormatAmount(order.DiscountAmount))
	}
	fmt.Fprintf(&b, "مبلغ نهایی: %s\n", pricing.FormatAmount(order.FinalPrice))
	return b.String()
}

func encodeSubject(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
