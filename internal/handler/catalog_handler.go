package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/service"
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	svc service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// ProductRequest represents the writable fields of a product.
type ProductRequest struct {
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	DeliveryTime string          `json:"deliveryTime"`
	Image        string          `json:"image"`
	Stock        int             `json:"stock" validate:"gte=0"`
	Rating       float64         `json:"rating" validate:"gte=0,lte=5"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Category:     r.Category,
		DeliveryTime: r.DeliveryTime,
		Image:        r.Image,
		Stock:        r.Stock,
		Rating:       r.Rating,
	}
}

// ListProducts godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} model.Product
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.svc.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// ListExpressProducts godoc
// @Summary List products deliverable in seven minutes
// @Tags products
// @Produce json
// @Success 200 {array} model.Product
// @Router /products/7m [get]
func (h *ProductHandler) ListExpressProducts(c echo.Context) error {
	products, err := h.svc.ListExpressProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param request body ProductRequest true "Product"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	product, err := h.svc.CreateProduct(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary Update a product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body ProductRequest true "Product"
// @Success 200 {object} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	product, err := h.svc.UpdateProduct(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := h.svc.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "product deleted"})
}

// BlogHandler handles blog endpoints.
type BlogHandler struct {
	svc service.BlogService
}

// NewBlogHandler creates a new blog handler.
func NewBlogHandler(svc service.BlogService) *BlogHandler {
	return &BlogHandler{svc: svc}
}

// PostRequest represents the writable fields of a blog post.
type PostRequest struct {
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content"`
	Author   string   `json:"author"`
	Category string   `json:"category"`
	Image    string   `json:"image"`
	Tags     []string `json:"tags"`
}

func (r PostRequest) toInput() service.PostInput {
	return service.PostInput{
		Title:    r.Title,
		Content:  r.Content,
		Author:   r.Author,
		Category: r.Category,
		Image:    r.Image,
		Tags:     r.Tags,
	}
}

// ListPosts godoc
// @Summary List blog posts, newest first
// @Tags blog
// @Produce json
// @Success 200 {array} model.BlogPost
// @Router /blog [get]
func (h *BlogHandler) ListPosts(c echo.Context) error {
	posts, err := h.svc.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get a blog post
// @Tags blog
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} model.BlogPost
// @Failure 404 {object} errors.ErrorResponse
// @Router /blog/{id} [get]
func (h *BlogHandler) GetPost(c echo.Context) error {
	post, err := h.svc.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// ListPostsByCategory godoc
// @Summary List blog posts of a category
// @Tags blog
// @Produce json
// @Param category path string true "Category"
// @Success 200 {array} model.BlogPost
// @Router /blog/category/{category} [get]
func (h *BlogHandler) ListPostsByCategory(c echo.Context) error {
	posts, err := h.svc.ListPostsByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost godoc
// @Summary Create a blog post
// @Tags blog
// @Accept json
// @Produce json
// @Param request body PostRequest true "Post"
// @Success 201 {object} model.BlogPost
// @Failure 400 {object} errors.ErrorResponse
// @Router /blog [post]
func (h *BlogHandler) CreatePost(c echo.Context) error {
	var req PostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.svc.CreatePost(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// UpdatePost godoc
// @Summary Update a blog post
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body PostRequest true "Post"
// @Success 200 {object} model.BlogPost
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/blog/{id} [put]
func (h *BlogHandler) UpdatePost(c echo.Context) error {
	var req PostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.svc.UpdatePost(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete a blog post
// @Tags blog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /blog/{id} [delete]
func (h *BlogHandler) DeletePost(c echo.Context) error {
	if err := h.svc.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "blog post deleted"})
}
