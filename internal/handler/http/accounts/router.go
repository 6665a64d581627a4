package accounts_http

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bankdemo/internal/app/accounts"
)

func RegisterRoutes(r chi.Router, s accounts.AccountService, l *zap.Logger) {
	handler := NewAccountHandler(s, l.With(zap.String("component", "AccountHTTPHandler")))

	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", handler.FindAllHandler)
		r.Post("/", handler.CreateHandler)
		r.Put("/deposit", handler.DepositHandler)
		r.Put("/withdraw", handler.WithdrawHandler)
		r.Put("/transfer", handler.TransferHandler)
		r.Get("/{id}", handler.FindOneHandler)
	})
}
