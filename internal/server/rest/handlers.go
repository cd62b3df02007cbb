package rest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	cartIDHeader  = "X-Cart-ID"
	defaultCartID = "default"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type cartLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func cartID(c *gin.Context) string {
	if id := c.GetHeader(cartIDHeader); id != "" {
		return id
	}
	return defaultCartID
}

func (s *RESTServer) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errBadRequestBody)
		return
	}

	res, err := s.users.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "token": res.Token, "user": res.User})
}

func (s *RESTServer) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errBadRequestBody)
		return
	}

	res, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": res.Token, "user": res.User})
}

func (s *RESTServer) profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "User Profile", "user": identityFrom(c)})
}

func (s *RESTServer) listProducts(c *gin.Context) {
	list, err := s.products.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *RESTServer) createProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errBadRequestBody)
		return
	}

	p, err := s.products.Create(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully", "product": p})
}

func (s *RESTServer) deleteProduct(c *gin.Context) {
	if err := s.products.Delete(c.Request.Context(), identityFrom(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (s *RESTServer) getCart(c *gin.Context) {
	lines, err := s.carts.Read(c.Request.Context(), cartID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (s *RESTServer) addToCart(c *gin.Context) {
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errBadRequestBody)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	lines, err := s.carts.Upsert(c.Request.Context(), cartID(c), req.ProductID, req.Quantity)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to cart successfully", "cart": lines})
}

func (s *RESTServer) updateCartLine(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.writeError(c, common.ErrCartLineNotFound)
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errBadRequestBody)
		return
	}

	lines, err := s.carts.SetQuantity(c.Request.Context(), cartID(c), index, req.Quantity)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated successfully", "cart": lines})
}

func (s *RESTServer) removeCartLine(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.writeError(c, common.ErrCartLineNotFound)
		return
	}

	lines, err := s.carts.Remove(c.Request.Context(), cartID(c), index)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart", "cart": lines})
}

func (s *RESTServer) updateCartProduct(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errBadRequestBody)
		return
	}

	lines, err := s.carts.SetProductQuantity(c.Request.Context(), cartID(c), c.Param("productId"), req.Quantity)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated successfully", "cart": lines})
}

func (s *RESTServer) removeCartProduct(c *gin.Context) {
	lines, err := s.carts.RemoveProduct(c.Request.Context(), cartID(c), c.Param("productId"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart", "cart": lines})
}

func (s *RESTServer) placeOrder(c *gin.Context) {
	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errBadRequestBody)
		return
	}

	order, err := s.orders.PlaceOrder(c.Request.Context(), identityFrom(c), cartID(c), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

func (s *RESTServer) listOrders(c *gin.Context) {
	list, err := s.orders.ListOrders(c.Request.Context(), identityFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *RESTServer) listAllOrders(c *gin.Context) {
	list, err := s.orders.ListAllOrders(c.Request.Context(), identityFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
