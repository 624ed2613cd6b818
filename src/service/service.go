package service

import (
	"errors"
	"io/ioutil"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mosaicnetworks/provledger/src/ledger"
	"github.com/sirupsen/logrus"
)

// Service exposes a Ledger over the REST protocol spoken by
// ledger.HTTPClient.
type Service struct {
	bindAddress string
	ledger      ledger.Ledger
	router      chi.Router
	logger      *logrus.Entry
}

// NewService ...
func NewService(bindAddress string, l ledger.Ledger, logger *logrus.Entry) *Service {
	service := Service{
		bindAddress: bindAddress,
		ledger:      l,
		logger:      logger,
	}

	service.registerHandlers()

	return &service
}

func (s *Service) registerHandlers() {
	s.logger.Debug("Registering ledger API handlers")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Post(ledger.TransactionsPath, s.PostTransaction)
	r.Get(ledger.TransactionsPath+"/{id}", s.GetTransaction)
	r.Get(ledger.StatusesPath+"/{id}", s.GetStatus)
	r.Get(ledger.BlocksPath, s.GetBlocks)

	s.router = r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// Handler returns the HTTP handler of the service.
func (s *Service) Handler() http.Handler {
	return s.router
}

// Serve calls ListenAndServe. This is a blocking call.
func (s *Service) Serve() error {
	s.logger.WithField("bind_address", s.bindAddress).Info("Serving ledger API")
	return http.ListenAndServe(s.bindAddress, s.router)
}

// PostTransaction submits a CREATE or TRANSFER transaction and echoes the
// accepted transaction.
func (s *Service) PostTransaction(w http.ResponseWriter, r *http.Request) {
	data, err := ioutil.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	tx := new(ledger.Transaction)
	if err := tx.Unmarshal(data); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var echo *ledger.Transaction
	switch tx.Body.Operation {
	case ledger.Create:
		echo, err = s.ledger.CreateRecord(r.Context(), tx)
	case ledger.Transfer:
		echo, err = s.ledger.TransferRecord(r.Context(), tx)
	default:
		err = &ledger.InvalidTransactionError{ID: tx.ID, Reason: "unknown operation"}
	}
	if err != nil {
		s.logger.WithField("id", tx.ID).WithError(err).Debug("Rejected transaction")
		s.writeLedgerError(w, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"id":        echo.ID,
		"operation": echo.Body.Operation,
	}).Debug("Accepted transaction")

	s.writeJSON(w, http.StatusAccepted, echo)
}

// GetTransaction ...
func (s *Service) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.ledger.FetchRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tx)
}

// GetStatus ...
func (s *Service) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.ledger.RecordStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ledger.StatusResponse{Status: status})
}

// GetBlocks returns the blocks containing the transaction given by the
// transaction_id query parameter.
func (s *Service) GetBlocks(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("transaction_id")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("missing transaction_id"))
		return
	}

	blocks, err := s.ledger.EnclosingBlocks(r.Context(), id)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	if blocks == nil {
		blocks = []ledger.Block{}
	}
	s.writeJSON(w, http.StatusOK, blocks)
}

func (s *Service) writeLedgerError(w http.ResponseWriter, err error) {
	var invalid *ledger.InvalidTransactionError
	switch {
	case ledger.IsNotFound(err):
		s.writeError(w, http.StatusNotFound, err)
	case errors.As(err, &invalid):
		s.writeError(w, http.StatusBadRequest, errors.New(invalid.Reason))
	default:
		s.logger.WithError(err).Error("Ledger error")
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, code int, err error) {
	s.writeJSON(w, code, ledger.ErrorResponse{Message: err.Error()})
}

func (s *Service) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	data, err := ledger.EncodeJSON(v)
	if err != nil {
		s.logger.WithError(err).Error("Encoding response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}
