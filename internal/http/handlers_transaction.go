package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/session"
)

func (s *Server) handleAddTransactionPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "add_transaction.html", pageData{
		Title: "Add transaction",
		Alert: r.URL.Query().Get("alert"),
		Today: s.now().UTC().Format(core.DateLayout),
	})
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := session.UserIDFromContext(ctx)

	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		log.LogError(ctx, "Failed to parse transaction body", err, log.ComponentTransaction, log.OpCreate,
			log.NewFields().WithUser(userID))
		writeText(w, http.StatusInternalServerError, msgSubmissionFailed)
		return
	}

	in := services.TransactionInput{
		Type:     p.Get("type"),
		Amount:   p.Get("amount"),
		Category: p.Get("category"),
		Note:     p.Get("note"),
		Date:     p.Get("date"),
	}
	id, err := s.transactions.Create(ctx, userID, in)
	if err != nil {
		log.LogError(ctx, "Transaction submission failed", err, log.ComponentTransaction, log.OpCreate,
			log.NewFields().WithUser(userID))
		writeText(w, statusFor(err), msgSubmissionFailed)
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "Transaction created",
		log.FieldUserID, userID,
		log.FieldTransactionID, id,
		log.FieldTxnType, in.Type,
		log.FieldCategory, in.Category)
	http.Redirect(w, r, alertTransactionDone, http.StatusFound)
}
