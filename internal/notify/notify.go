// Package notify delivers request notifications to the shop owner. Email
// goes out through SMTP when configured; otherwise every message is written
// to the log, which is also how verification codes are "sent" (the WhatsApp
// channel is mocked).
package notify

import (
	"fmt"
	"strings"

	"github.com/tiendaapp/tiendastore/internal/app"
	"github.com/tiendaapp/tiendastore/internal/domain"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Bus topics published by the API layer and the inventory sweep.
const (
	TopicPurchaseCreated   = "request.purchase.created"
	TopicOutOfStockCreated = "request.out_of_stock.created"
	TopicCustomCreated     = "request.custom.created"
)

type Service struct {
	appctx app.AppContext
	dialer *gomail.Dialer
}

// Setup wires the dispatcher to the application's event bus.
func Setup(appctx app.AppContext) *Service {
	s := &Service{appctx: appctx}
	cfg := appctx.Config().Notify
	if cfg.SmtpHost != "" && cfg.SmtpUser != "" {
		s.dialer = gomail.NewDialer(cfg.SmtpHost, cfg.SmtpPort, cfg.SmtpUser, cfg.SmtpPasswd)
	}

	bus := appctx.Bus()
	must := func(err error) {
		if err != nil {
			zap.L().Error("notify subscribe failed", zap.Error(err))
		}
	}
	must(bus.SubscribeAsync(TopicPurchaseCreated, s.onPurchaseCreated, false))
	must(bus.SubscribeAsync(TopicOutOfStockCreated, s.onOutOfStockCreated, false))
	must(bus.SubscribeAsync(TopicCustomCreated, s.onCustomCreated, false))
	must(bus.SubscribeAsync(app.TopicLowStock, s.onLowStock, false))
	return s
}

// destinatary prefers the admin-editable config row over the static config.
func (s *Service) destinatary() string {
	var cfg domain.NotifyConfig
	if err := s.appctx.DB().First(&cfg).Error; err == nil && cfg.Email != "" {
		return cfg.Email
	}
	return s.appctx.Config().Notify.Destinatary
}

func (s *Service) sendEmail(subject, body string) {
	dest := s.destinatary()
	if s.dialer == nil || dest == "" {
		zap.S().Infof("MOCK EMAIL: %s", subject)
		for _, line := range strings.Split(body, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				zap.S().Infof("   %s", line)
			}
		}
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.appctx.Config().Notify.SmtpUser)
	m.SetHeader("To", dest)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	if err := s.dialer.DialAndSend(m); err != nil {
		zap.L().Error("email send failed", zap.String("subject", subject), zap.Error(err))
	}
}

// SendVerificationCode delivers a one-time code over the (mocked) WhatsApp
// channel. The code only ever appears in the server logs.
func (s *Service) SendVerificationCode(phone, code string) {
	zap.S().Infof("MOCK WHATSAPP: código de verificación para %s", phone)
	zap.S().Infof("   Código: %s", code)
}

func (s *Service) onPurchaseCreated(req *domain.PurchaseRequest) {
	s.sendEmail(
		fmt.Sprintf("Solicitud de compra #%s", req.ID),
		fmt.Sprintf(`<h1>Nueva solicitud de compra</h1>
<p>Cliente: %s %s</p>
<p>Producto: %s</p>
<p>Cantidad: %d</p>
<p>Total: Lps %.2f</p>
<p>Teléfono: %s</p>`,
			req.UserName, req.UserEmail, req.ProductName, req.Quantity, req.TotalPrice, req.UserPhone))
}

func (s *Service) onOutOfStockCreated(req *domain.OutOfStockRequest) {
	s.sendEmail(
		fmt.Sprintf("Solicitud de artículo sin stock #%s", req.ID),
		fmt.Sprintf(`<h1>Nueva solicitud de artículo sin stock</h1>
<p>Producto: %s</p>
<p>Cantidad: %d</p>
<p>Teléfono: %s</p>`,
			req.ProductName, req.Quantity, req.Phone))
}

func (s *Service) onCustomCreated(req *domain.CustomRequest) {
	s.sendEmail(
		fmt.Sprintf("Solicitud de artículo personalizado #%s", req.ID),
		fmt.Sprintf(`<h1>Nueva solicitud de artículo personalizado</h1>
<p>Descripción: %s</p>
<p>Cantidad: %d</p>
<p>Teléfono: %s</p>`,
			req.Description, req.Quantity, req.Phone))
}

func (s *Service) onLowStock(products []domain.Product) {
	var b strings.Builder
	b.WriteString("<h1>Inventario bajo</h1><ul>")
	for _, p := range products {
		b.WriteString(fmt.Sprintf("<li>%s: %d unidades</li>", p.Name, p.Stock))
	}
	b.WriteString("</ul>")
	s.sendEmail("Resumen de inventario bajo", b.String())
}
