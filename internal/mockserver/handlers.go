package mockserver

import (
	"net/http"
	"strconv"
	"strings"

	"banking-dashboard/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, ok := s.bank.authenticate(req.Username, req.Password)
	if !ok {
		s.log.Info("failed sign-in", "user", req.Username)
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := s.issueToken(p)
	if err != nil {
		s.log.Error("failed to issue token", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Could not issue token")
		return
	}

	s.log.Info("signed in", "user", p.Username)
	writeJSON(w, http.StatusOK, domain.AuthResponse{
		Token:    token,
		Type:     "Bearer",
		ID:       p.ID,
		Username: p.Username,
		Email:    p.Email,
		Roles:    p.Roles,
	})
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || len(req.Password) < 6 {
		writeMessage(w, http.StatusBadRequest, "Username and a password of at least 6 characters are required")
		return
	}

	if err := s.bank.register(req); err != nil {
		writeError(w, err)
		return
	}

	s.log.Info("registered", "user", req.Username)
	writeJSON(w, http.StatusOK, domain.MessageResponse{Message: "User registered successfully!"})
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := s.bank.createAccount(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := s.bank.updateAccount(mux.Vars(r)["accountNumber"], func(a *domain.Account) error {
		if req.Type != "" {
			a.Type = req.Type
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) userAccounts(w http.ResponseWriter, r *http.Request) {
	profileID := mux.Vars(r)["profileId"]
	if !selfOrAdmin(r, profileID) {
		writeMessage(w, http.StatusForbidden, "Access denied")
		return
	}
	writeJSON(w, http.StatusOK, s.bank.accountsFor(profileID))
}

func (s *Server) accountBalance(w http.ResponseWriter, r *http.Request) {
	a, err := s.bank.account(mux.Vars(r)["accountNumber"])
	if err != nil {
		writeError(w, err)
		return
	}
	if !selfOrAdmin(r, string(a.ProfileID)) {
		writeMessage(w, http.StatusForbidden, "Access denied")
		return
	}
	writeJSON(w, http.StatusOK, domain.AccountBalance{
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance,
		Currency:      a.Currency,
	})
}

func (s *Server) setAccountStatus(active bool) http.HandlerFunc {
	status := domain.AccountInactive
	if active {
		status = domain.AccountActive
	}
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := s.bank.updateAccount(mux.Vars(r)["accountNumber"], func(a *domain.Account) error {
			a.Status = status
			return nil
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func (s *Server) adjustBalance(isCredit bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.AmountRequest
		if !decodeBody(w, r, &req) {
			return
		}
		fn := debit(req.Amount)
		if isCredit {
			fn = credit(req.Amount)
		}
		a, err := s.bank.updateAccount(mux.Vars(r)["accountNumber"], fn)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.AccountBalance{
			AccountNumber: a.AccountNumber,
			Balance:       a.Balance,
			Currency:      a.Currency,
		})
	}
}

func (s *Server) accountStatus(w http.ResponseWriter, r *http.Request) {
	a, err := s.bank.account(mux.Vars(r)["accountNumber"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.AccountStatusResponse{AccountNumber: a.AccountNumber, Status: a.Status})
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req domain.DepositRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.book(w, r, "Deposit", movement{
		typ:         domain.TxDeposit,
		destination: req.AccountID,
		amount:      req.Amount,
		currency:    req.Currency,
		description: req.Description,
		userID:      req.UserID,
	})
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	var req domain.WithdrawalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.book(w, r, "Withdrawal", movement{
		typ:         domain.TxWithdrawal,
		source:      req.AccountID,
		amount:      req.Amount,
		currency:    req.Currency,
		description: req.Description,
		userID:      req.UserID,
	})
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req domain.TransferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.book(w, r, "Transfer", movement{
		typ:         domain.TxTransfer,
		source:      req.SourceAccountID,
		destination: req.DestinationAccountID,
		amount:      req.Amount,
		currency:    req.Currency,
		description: req.Description,
		userID:      req.UserID,
	})
}

func (s *Server) book(w http.ResponseWriter, r *http.Request, label string, m movement) {
	p, _ := principalFrom(r.Context())
	if m.userID == "" || !p.IsAdmin() {
		m.userID = p.IDString()
	}

	tx, err := s.bank.apply(m, func(a *domain.Account) bool {
		return p.IsAdmin() || string(a.ProfileID) == p.IDString()
	})
	if err != nil {
		s.log.Info("transaction rejected", "type", m.typ, "err", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, domain.TransactionResult{
		Message:   label + " transaction created successfully",
		Reference: tx.Reference,
		Status:    tx.Status,
	})
}

func (s *Server) userTransactions(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if !selfOrAdmin(r, userID) {
		writeMessage(w, http.StatusForbidden, "Access denied")
		return
	}
	writeJSON(w, http.StatusOK, s.bank.transactionsFor(userID))
}

func (s *Server) transactionByReference(w http.ResponseWriter, r *http.Request) {
	tx, err := s.bank.transaction(mux.Vars(r)["reference"])
	if err != nil {
		writeError(w, err)
		return
	}
	if !selfOrAdmin(r, string(tx.UserID)) {
		writeMessage(w, http.StatusForbidden, "Access denied")
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())
	profile, err := s.bank.profile(p.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	var req domain.ProfileUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	p, _ := principalFrom(r.Context())
	profile, err := s.bank.updateProfile(p.ID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) profileByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	profile, err := s.bank.profile(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) processPayment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil || q.Get("fromAccount") == "" || q.Get("toAccount") == "" {
		writeMessage(w, http.StatusBadRequest, "fromAccount, toAccount and amount are required")
		return
	}
	if !amount.IsPositive() {
		writeMessage(w, http.StatusBadRequest, "Payment amount must be greater than zero")
		return
	}

	writeJSON(w, http.StatusOK, domain.PaymentResult{
		TransactionID: uuid.NewString(),
		Status:        domain.TxCompleted,
		Message:       "Payment processed successfully",
	})
}

func (s *Server) paymentDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["transactionId"]
	if _, err := uuid.Parse(id); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}
	writeJSON(w, http.StatusOK, domain.PaymentDetails{
		TransactionID: id,
		FromAccount:   "account123",
		ToAccount:     "account456",
		Amount:        decimal.RequireFromString("100.00"),
		Status:        domain.TxCompleted,
		Timestamp:     s.now().UnixMilli(),
	})
}

func (s *Server) allNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bank.notificationsWhere(func(domain.Notification) bool { return true }))
}

func (s *Server) userNotifications(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if !selfOrAdmin(r, userID) {
		writeMessage(w, http.StatusForbidden, "Access denied")
		return
	}
	writeJSON(w, http.StatusOK, s.bank.notificationsWhere(func(n domain.Notification) bool {
		return strconv.FormatInt(n.UserID, 10) == userID
	}))
}

func (s *Server) transactionNotifications(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["reference"]
	p, _ := principalFrom(r.Context())
	writeJSON(w, http.StatusOK, s.bank.notificationsWhere(func(n domain.Notification) bool {
		return n.TransactionReference == ref && (p.IsAdmin() || n.UserID == p.ID)
	}))
}
