package httpserver

import (
	"errors"
	"net/http"

	"herbstore/internal/domain"
	"herbstore/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

type categoryView struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// The storefront's categories are fixed; products reference them by
// value.
var storeCategories = []categoryView{
	{Value: "all", Label: "All Products"},
	{Value: "skin-care", Label: "Skin Care"},
	{Value: "hair-care", Label: "Hair Care"},
	{Value: "oral-care", Label: "Oral Care"},
}

func listCategoriesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": storeCategories})
}

func listProductsHandler(products CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.List(c.Request.Context(), catalog.ListQuery{
			Category: c.Query("category"),
			Search:   c.Query("q"),
			Sort:     c.Query("sort"),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
			return
		}
		if list == nil {
			list = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": list, "total": len(list)})
	}
}

func getProductHandler(products CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func relatedProductsHandler(products CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.Related(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
			return
		}
		if list == nil {
			list = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": list})
	}
}
