// Package api exposes the execution engine to host processes over REST and
// websocket. It is the Go rendition of the engine's foreign-callable surface:
// submit/cancel and the read accessors over JSON, the market-data and trade
// streams over websocket channels.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/quantfold/execore/pkg/engine"
)

// Server bridges HTTP/websocket clients to one engine instance owned by the
// caller.
type Server struct {
	eng    *engine.Engine
	router *mux.Router
	hub    *Hub
	log    *zap.SugaredLogger

	// streams tracks which engine subscriptions have been bridged into the
	// hub, keyed by channel name. Bridged streams persist for the server's
	// lifetime; the hub drops events nobody listens to.
	streamMu sync.Mutex
	streams  map[string]bool
}

// NewServer creates a server for eng.
func NewServer(eng *engine.Engine, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		eng:     eng,
		router:  mux.NewRouter(),
		hub:     NewHub(log),
		log:     log,
		streams: make(map[string]bool),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/orders", s.handleSubmitOrder).Methods("POST")
	api.HandleFunc("/orders/cancel", s.handleCancelOrder).Methods("POST")
	api.HandleFunc("/books/{symbol}", s.handleGetBook).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start runs the hub and serves HTTP on addr. Blocks until the listener
// fails.
func (s *Server) Start(addr string) error {
	go s.hub.Run()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	s.log.Infow("api_server_starting", "addr", addr)
	return http.ListenAndServe(addr, c.Handler(s.router))
}

// ensureStream bridges one engine event stream into the hub the first time
// any client subscribes to its channel. Channel names are "marketdata@SYM"
// and "trades@SYM".
func (s *Server) ensureStream(channel string) {
	kind, symbol, ok := strings.Cut(channel, "@")
	if !ok || symbol == "" {
		return
	}

	s.streamMu.Lock()
	defer s.streamMu.Unlock()
	if s.streams[channel] {
		return
	}

	switch kind {
	case "marketdata":
		s.eng.SubscribeMarketData(symbol, func(md engine.MarketData) {
			s.hub.BroadcastToChannel(channel, md)
		})
	case "trades":
		s.eng.SubscribeTrades(symbol, func(t engine.Trade) {
			s.hub.BroadcastToChannel(channel, t)
		})
	default:
		return
	}

	s.streams[channel] = true
	s.log.Infow("stream_bridged", "channel", channel)
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}

	var side engine.Side
	switch req.Side {
	case 0:
		side = engine.Buy
	case 1:
		side = engine.Sell
	default:
		respondError(w, http.StatusBadRequest, "invalid side", "side must be 0 (buy) or 1 (sell)")
		return
	}

	id, err := s.eng.SubmitOrder(engine.Order{
		Symbol: req.Symbol,
		Side:   side,
		Price:  req.Price,
		Qty:    req.Quantity,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, "order rejected", err.Error())
		return
	}

	s.log.Infow("order_accepted", "id", id, "symbol", req.Symbol)
	respondJSON(w, SubmitOrderResponse{OrderID: id})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}

	err := s.eng.CancelOrder(req.OrderID)
	resp := CancelOrderResponse{Cancelled: false}
	if err != nil {
		resp.Reason = err.Error()
	}
	respondJSON(w, resp)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	// Unknown symbols report zeros, same as the engine accessors.
	respondJSON(w, BookSummary{
		Symbol:        symbol,
		BestBid:       s.eng.BestBid(symbol),
		BestAsk:       s.eng.BestAsk(symbol),
		Position:      s.eng.Position(symbol),
		AveragePrice:  s.eng.AveragePrice(symbol),
		RealizedPnL:   s.eng.RealizedPnL(symbol),
		UnrealizedPnL: s.eng.UnrealizedPnL(symbol),
		Timestamp:     time.Now().UnixMilli(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, msg, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Detail: detail})
}
