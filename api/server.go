// Package api exposes the order list and the editing sessions over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/kcmvp/pos/order"
)

// Server drives the order core from HTTP requests. The core is single threaded, so every
// request holds the server lock while it runs.
type Server struct {
	mu      sync.Mutex
	storage order.Storage
	cache   *order.ListCache
	filter  *order.ListFilter
	manager *order.Manager
	status  order.StatusFilter
	loaded  bool
	logger  *log.Logger
}

// NewServer returns a server listing orders with status filter def unless a request asks for
// another one.
func NewServer(storage order.Storage, def order.StatusFilter, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	cache := order.NewListCache(storage)
	return &Server{
		storage: storage,
		cache:   cache,
		filter:  order.NewListFilter(cache),
		manager: order.NewManager(storage, cache, logger),
		status:  def,
		logger:  logger,
	}
}

// Handler builds the gin engine with every route.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(s.logger.Writer()), gin.Recovery())
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/orders", s.locked(s.listOrders))
	r.GET("/orders/:id", s.locked(s.getOrder))
	r.POST("/orders", Bind("customer_name"), s.locked(s.createOrder))
	r.PUT("/orders/:id", Bind(), s.locked(s.updateOrder))
	r.DELETE("/orders/:id", s.locked(s.deleteOrder))
	r.GET("/products", s.locked(s.listProducts))
	return r
}

func (s *Server) locked(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		h(c)
	}
}

func (s *Server) closeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.manager.CloseAll(); n > 0 {
		s.logger.Printf("closed %d open order sessions", n)
	}
}

type listResponse struct {
	Rows  []order.Summary `json:"rows"`
	Count int             `json:"count"`
	Total int             `json:"total"`
	Info  string          `json:"info"`
}

func (s *Server) listOrders(c *gin.Context) {
	ctx := c.Request.Context()
	status := s.status
	if raw, ok := c.GetQuery("status"); ok {
		parsed, err := order.ParseStatusFilter(raw)
		if err != nil {
			abort(c, err)
			return
		}
		status = parsed
	}
	if !s.loaded || !sameFilter(status, s.cache.Filter()) {
		if err := s.cache.RefreshAll(ctx, status); err != nil {
			abort(c, err)
			return
		}
		s.loaded = true
	}
	column := order.ColumnID
	if raw := c.Query("sort"); raw != "" {
		parsed, ok := order.ParseColumn(raw)
		if !ok {
			abort(c, fmt.Errorf("%w: unknown sort column %q", errBadRequest, raw))
			return
		}
		column = parsed
	}
	desc, err := strconv.ParseBool(c.DefaultQuery("desc", "false"))
	if err != nil {
		abort(c, fmt.Errorf("%w: invalid desc %q", errBadRequest, c.Query("desc")))
		return
	}
	s.filter.SetSort(column, desc)
	s.filter.SetQuery(c.Query("q"))
	c.JSON(http.StatusOK, listResponse{
		Rows:  lo.Ternary(s.filter.Count() == 0, []order.Summary{}, s.filter.Rows()),
		Count: s.filter.Count(),
		Total: s.filter.Total(),
		Info:  s.filter.Info(),
	})
}

func sameFilter(a, b order.StatusFilter) bool {
	x, okA := a.Get()
	y, okB := b.Get()
	return okA == okB && x == y
}

type lineView struct {
	order.LineItem
	Subtotal decimal.Decimal `json:"subtotal"`
	Profit   decimal.Decimal `json:"profit"`
}

type orderView struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	order.Header
	StatusLabel string          `json:"status_label"`
	Items       []lineView      `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Profit      decimal.Decimal `json:"profit"`
}

func viewOf(e *order.Editor) orderView {
	return orderView{
		ID:          e.ID(),
		Title:       e.Title(),
		Header:      e.Header(),
		StatusLabel: e.Header().Status.String(),
		Items: lo.Map(e.Lines().Items(), func(item order.LineItem, _ int) lineView {
			return lineView{LineItem: item, Subtotal: item.Subtotal(), Profit: item.Profit()}
		}),
		Total:  e.Total(),
		Profit: order.TotalProfit(e.Lines().Items()),
	}
}

func orderID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid order id %q", errBadRequest, c.Param("id"))
	}
	return id, nil
}

// session opens a fresh editing session for one request. The session is closed when the request
// ends, so edits that fail half way are discarded.
func (s *Server) session(c *gin.Context, id int64) (*order.Editor, func(), error) {
	ctx := c.Request.Context()
	if e, ok := s.manager.Find(id); ok {
		s.manager.Close(e)
	}
	e, err := s.manager.Open(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return e, func() { s.manager.Close(e) }, nil
}

func (s *Server) getOrder(c *gin.Context) {
	id, err := orderID(c)
	if err != nil {
		abort(c, err)
		return
	}
	e, done, err := s.session(c, id)
	if err != nil {
		abort(c, err)
		return
	}
	defer done()
	c.JSON(http.StatusOK, viewOf(e))
}

func (s *Server) createOrder(c *gin.Context) {
	e, done, err := s.session(c, order.NewOrderID)
	if err != nil {
		abort(c, err)
		return
	}
	defer done()
	body := Body(c)
	confirm := body.Get("confirm").Bool()
	if err := applyHeader(e, body); err != nil {
		abort(c, err)
		return
	}
	for _, item := range body.Get("items").Array() {
		if err := addItem(e.Lines(), item, confirm); err != nil {
			abort(c, err)
			return
		}
	}
	if err := e.Save(c.Request.Context()); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewOf(e))
}

func (s *Server) updateOrder(c *gin.Context) {
	id, err := orderID(c)
	if err != nil {
		abort(c, err)
		return
	}
	e, done, err := s.session(c, id)
	if err != nil {
		abort(c, err)
		return
	}
	defer done()
	body := Body(c)
	confirm := body.Get("confirm").Bool()
	if err := applyHeader(e, body); err != nil {
		abort(c, err)
		return
	}
	for _, op := range body.Get("operations").Array() {
		if err := applyOperation(e.Lines(), op, confirm); err != nil {
			abort(c, err)
			return
		}
	}
	if err := e.Save(c.Request.Context()); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(e))
}

func (s *Server) deleteOrder(c *gin.Context) {
	id, err := orderID(c)
	if err != nil {
		abort(c, err)
		return
	}
	e, done, err := s.session(c, id)
	if err != nil {
		abort(c, err)
		return
	}
	defer done()
	if err := e.Remove(c.Request.Context()); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listProducts(c *gin.Context) {
	names, err := s.storage.Products().Names(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": lo.Ternary(names == nil, []string{}, names)})
}

func applyHeader(e *order.Editor, body gjson.Result) error {
	h := e.Header()
	if v := body.Get("customer_name"); v.Exists() {
		h.CustomerName = v.String()
	}
	if v := body.Get("customer_contact"); v.Exists() {
		h.CustomerContact = v.String()
	}
	if v := body.Get("customer_address"); v.Exists() {
		h.CustomerAddress = v.String()
	}
	if v := body.Get("status"); v.Exists() {
		st, err := order.ParseStatus(v.String())
		if err != nil {
			return err
		}
		h.Status = st
	}
	if v := body.Get("open_datetime"); v.Exists() {
		at, err := time.Parse(time.RFC3339, v.String())
		if err != nil {
			return fmt.Errorf("%w: open_datetime %q", errBadRequest, v.String())
		}
		h.OpenDateTime = at
	}
	return e.SetHeader(h)
}

// numericFields are applied in this order so a price is checked against the cost of the same
// request.
var numericFields = []order.Field{order.FieldCost, order.FieldQuantity, order.FieldPrice}

func setField(lines *order.LineStore, row int, field order.Field, value string, confirm bool) error {
	_, err := lines.SetField(row, field, value)
	var pending *order.ConfirmationError
	if confirm && errors.As(err, &pending) {
		_, err = lines.Confirm(pending)
	}
	return err
}

func addItem(lines *order.LineStore, item gjson.Result, confirm bool) error {
	row := lines.ItemCount()
	if err := setField(lines, row, order.FieldName, item.Get("name").String(), confirm); err != nil {
		return err
	}
	for _, field := range numericFields {
		if v := item.Get(field.String()); v.Exists() {
			if err := setField(lines, row, field, v.String(), confirm); err != nil {
				return err
			}
		}
	}
	return nil
}

func rowOf(lines *order.LineStore, id int64) (int, error) {
	for row, item := range lines.Items() {
		if item.ID == id {
			return row, nil
		}
	}
	return -1, fmt.Errorf("%w: line %d", order.ErrUnknownItem, id)
}

// applyOperation applies one line edit of a PUT body:
//
//	{"op": "add", "name": "Soap", "quantity": 2, "price": 5000}
//	{"op": "set", "id": 3, "field": "price", "value": "4500"}
//	{"op": "remove", "id": 3}
func applyOperation(lines *order.LineStore, op gjson.Result, confirm bool) error {
	switch strings.ToLower(op.Get("op").String()) {
	case "add":
		return addItem(lines, op, confirm)
	case "set":
		row, err := rowOf(lines, op.Get("id").Int())
		if err != nil {
			return err
		}
		field, err := order.ParseField(op.Get("field").String())
		if err != nil {
			return err
		}
		return setField(lines, row, field, op.Get("value").String(), confirm)
	case "remove":
		row, err := rowOf(lines, op.Get("id").Int())
		if err != nil {
			return err
		}
		_, err = lines.RemoveItem(row)
		return err
	default:
		return fmt.Errorf("%w: unknown operation %q", errBadRequest, op.Get("op").String())
	}
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdown)
		s.closeSessions()
		return err
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
