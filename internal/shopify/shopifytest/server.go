// Package shopifytest provides an in-memory Shopify Admin REST server for tests.
package shopifytest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// APIVersion is the version segment the fake server is mounted under
const APIVersion = "2024-04"

type Order struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name,omitempty"`
	ShippingAddress *Address       `json:"shipping_address,omitempty"`
	LineItems       []LineItem     `json:"line_items"`
	ShippingLines   []ShippingLine `json:"shipping_lines"`
}

type Address struct {
	Name         string `json:"name"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	ProvinceCode string `json:"province_code"`
	CountryCode  string `json:"country_code"`
	Zip          string `json:"zip"`
}

type LineItem struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
}

type ShippingLine struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

type FulfillmentOrder struct {
	ID      int64  `json:"id"`
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

type Fulfillment struct {
	ID      int64  `json:"id"`
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`
}

type Variant struct {
	ID              int64  `json:"id"`
	SKU             string `json:"sku"`
	InventoryItemID int64  `json:"inventory_item_id"`
}

type InventoryItem struct {
	ID   int64   `json:"id"`
	Cost *string `json:"cost"`
}

type Metafield struct {
	Namespace string      `json:"namespace"`
	Key       string      `json:"key"`
	Value     interface{} `json:"value"`
}

type Risk struct {
	ID             int64  `json:"id"`
	Recommendation string `json:"recommendation"`
	Score          string `json:"score"`
	Message        string `json:"message"`
}

// Call is one request received by the server, path relative to the API root
type Call struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

func (c Call) String() string {
	return c.Method + " " + c.Path
}

// Server is a fake Shopify Admin API. Fields may be set before requests are
// issued; use the methods once requests are in flight.
type Server struct {
	*httptest.Server

	AccessToken string

	OrdersByStatus    map[string][]Order
	OrdersPageSize    int    // >0 splits orders.json into Link-paginated pages
	OrdersContentType string // overrides the orders.json content type with a non-JSON body
	FulfillmentOrders map[int64]*FulfillmentOrder
	Fulfillments      map[int64][]Fulfillment // by order ID
	Products          map[int64]Product
	Metafields        map[int64][]Metafield // by product ID
	InventoryItems    map[int64]InventoryItem
	Risks             map[int64][]Risk // by order ID
	ClosedOrders      map[int64]int    // close count by order ID

	// Fail forces a status for "METHOD path", e.g. "GET products/7/metafields.json"
	Fail map[string]int

	mu              sync.Mutex
	calls           []Call
	nextFulfillment int64
}

// NewServer starts a fake Shopify server; it is closed when the test ends
func NewServer(t interface {
	Helper()
	Cleanup(func())
}) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		AccessToken:       "shpat_test",
		OrdersByStatus:    map[string][]Order{},
		FulfillmentOrders: map[int64]*FulfillmentOrder{},
		Fulfillments:      map[int64][]Fulfillment{},
		Products:          map[int64]Product{},
		Metafields:        map[int64][]Metafield{},
		InventoryItems:    map[int64]InventoryItem{},
		Risks:             map[int64][]Risk{},
		ClosedOrders:      map[int64]int{},
		Fail:              map[string]int{},
		nextFulfillment:   9000,
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to hand to shopify.NewClientWithBaseURL
func (s *Server) BaseURL() string {
	return s.URL + "/admin/api/" + APIVersion
}

// Calls returns a copy of every request received so far
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallPaths returns "METHOD path" for every request received so far
func (s *Server) CallPaths() []string {
	var out []string
	for _, c := range s.Calls() {
		out = append(out, c.String())
	}
	return out
}

// Count returns how many times "METHOD path" was requested
func (s *Server) Count(methodAndPath string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.String() == methodAndPath {
			n++
		}
	}
	return n
}

// CountPrefix returns how many requests start with the given "METHOD path" prefix
func (s *Server) CountPrefix(prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if strings.HasPrefix(c.String(), prefix) {
			n++
		}
	}
	return n
}

// CloseCount returns how many times an order was closed
func (s *Server) CloseCount(orderID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ClosedOrders[orderID]
}

// FulfillmentOrderStatus returns the current status of a fulfillment order
func (s *Server) FulfillmentOrderStatus(id int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fo, ok := s.FulfillmentOrders[id]; ok {
		return fo.Status
	}
	return ""
}

// SetFulfillmentOrderStatus changes a fulfillment order's status
func (s *Server) SetFulfillmentOrderStatus(id int64, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fo, ok := s.FulfillmentOrders[id]; ok {
		fo.Status = status
	}
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	api := r.Group("/admin/api/:version")
	api.Use(s.record)

	api.GET("/orders.json", s.listOrders)
	api.GET("/orders/:id", s.getOrder)
	api.GET("/orders/:id/fulfillment_orders.json", s.listFulfillmentOrders)
	api.GET("/orders/:id/fulfillments.json", s.listFulfillments)
	api.GET("/orders/:id/risks.json", s.listRisks)
	api.POST("/orders/:id/close.json", s.closeOrder)
	api.GET("/fulfillment_orders/:id", s.getFulfillmentOrder)
	api.POST("/fulfillments.json", s.createFulfillment)
	api.POST("/fulfillments/:id/update_tracking.json", s.updateTracking)
	api.GET("/products/:id", s.getProduct)
	api.GET("/products/:id/metafields.json", s.listMetafields)
	api.GET("/inventory_items/:id", s.getInventoryItem)
	return r
}

func (s *Server) record(c *gin.Context) {
	if c.GetHeader("X-Shopify-Access-Token") != s.AccessToken {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "[API] Invalid API key or access token"})
		return
	}

	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(strings.NewReader(string(body)))
	path := strings.TrimPrefix(c.Request.URL.Path, "/admin/api/"+c.Param("version")+"/")
	call := Call{Method: c.Request.Method, Path: path, Query: c.Request.URL.RawQuery, Body: body}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	status, fail := s.Fail[call.String()]
	s.mu.Unlock()

	if fail {
		c.AbortWithStatusJSON(status, gin.H{"errors": fmt.Sprintf("forced failure %d", status)})
		return
	}
	c.Next()
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSuffix(c.Param("id"), ".json"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"errors": "Not Found"})
		return 0, false
	}
	return id, true
}

func (s *Server) listOrders(c *gin.Context) {
	s.mu.Lock()
	orders := append([]Order(nil), s.OrdersByStatus[c.Query("status")]...)
	pageSize := s.OrdersPageSize
	contentType := s.OrdersContentType
	s.mu.Unlock()

	if contentType != "" {
		c.Data(http.StatusOK, contentType, []byte("<html>maintenance</html>"))
		return
	}

	if pageSize > 0 {
		offset, _ := strconv.Atoi(c.Query("page_info"))
		end := offset + pageSize
		if end < len(orders) {
			next := fmt.Sprintf("http://%s%s?limit=%d&page_info=%d&status=%s", c.Request.Host, c.Request.URL.Path, pageSize, end, c.Query("status"))
			c.Header("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
		} else {
			end = len(orders)
		}
		if offset > len(orders) {
			offset = len(orders)
		}
		orders = orders[offset:end]
	}

	if orders == nil {
		orders = []Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, orders := range s.OrdersByStatus {
		for _, o := range orders {
			if o.ID == id {
				c.JSON(http.StatusOK, gin.H{"order": o})
				return
			}
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"errors": "Not Found"})
}

func (s *Server) listFulfillmentOrders(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []FulfillmentOrder{}
	for _, fo := range s.FulfillmentOrders {
		if fo.OrderID == id {
			out = append(out, *fo)
		}
	}
	sortFulfillmentOrders(out)
	c.JSON(http.StatusOK, gin.H{"fulfillment_orders": out})
}

func (s *Server) getFulfillmentOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fo, found := s.FulfillmentOrders[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"errors": "Not Found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fulfillment_order": fo})
}

// createFulfillment closes the fulfillment order and records a successful
// fulfillment on its order, as Shopify does.
func (s *Server) createFulfillment(c *gin.Context) {
	var req struct {
		Fulfillment struct {
			Message                     string `json:"message"`
			NotifyCustomer              bool   `json:"notify_customer"`
			LineItemsByFulfillmentOrder []struct {
				FulfillmentOrderID int64 `json:"fulfillment_order_id"`
			} `json:"line_items_by_fulfillment_order"`
		} `json:"fulfillment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Fulfillment.LineItemsByFulfillmentOrder) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid fulfillment"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	foID := req.Fulfillment.LineItemsByFulfillmentOrder[0].FulfillmentOrderID
	fo, found := s.FulfillmentOrders[foID]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"errors": "Not Found"})
		return
	}
	if fo.Status == "closed" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": "fulfillment order is closed"})
		return
	}
	fo.Status = "closed"
	s.nextFulfillment++
	f := Fulfillment{ID: s.nextFulfillment, OrderID: fo.OrderID, Status: "success"}
	s.Fulfillments[fo.OrderID] = append(s.Fulfillments[fo.OrderID], f)
	c.JSON(http.StatusCreated, gin.H{"fulfillment": f})
}

func (s *Server) listFulfillments(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Fulfillment{}, s.Fulfillments[id]...)
	c.JSON(http.StatusOK, gin.H{"fulfillments": out})
}

func (s *Server) updateTracking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Fulfillment struct {
			NotifyCustomer bool `json:"notify_customer"`
			TrackingInfo   struct {
				Number string `json:"number"`
			} `json:"tracking_info"`
		} `json:"fulfillment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Fulfillment.TrackingInfo.Number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "tracking number required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fulfillment": gin.H{
		"id":              id,
		"status":          "success",
		"tracking_number": req.Fulfillment.TrackingInfo.Number,
	}})
}

func (s *Server) closeOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.mu.Lock()
	s.ClosedOrders[id]++
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"order": gin.H{"id": id, "closed_at": "2024-05-01T10:00:00-04:00"}})
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.Products[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"errors": "Not Found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (s *Server) listMetafields(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Metafield{}, s.Metafields[id]...)
	c.JSON(http.StatusOK, gin.H{"metafields": out})
}

func (s *Server) getInventoryItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, found := s.InventoryItems[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"errors": "Not Found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory_item": item})
}

func (s *Server) listRisks(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Risk{}, s.Risks[id]...)
	c.JSON(http.StatusOK, gin.H{"risks": out})
}

func sortFulfillmentOrders(fos []FulfillmentOrder) {
	sort.Slice(fos, func(i, j int) bool { return fos[i].ID < fos[j].ID })
}

// MustJSON decodes a recorded request body, for assertions
func MustJSON(body []byte) map[string]interface{} {
	var out map[string]interface{}
	if err := json.Unmarshal(body, &out); err != nil {
		panic(err)
	}
	return out
}
