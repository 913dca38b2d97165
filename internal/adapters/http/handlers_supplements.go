package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"gymhub/internal/application/orchestrators"
	"gymhub/internal/application/projections"
	domainSupplement "gymhub/internal/domain/supplement"
)

// maxImageBytes caps a product image upload.
const maxImageBytes = 8 << 20

func supplementDeps() orchestrators.SupplementDeps {
	return orchestrators.SupplementDeps{
		Products:   stores.SupplementStore,
		Reviews:    stores.SupplementStore,
		Wishlist:   stores.SupplementStore,
		Blobs:      services.Blobs,
		Thumbnail:  options.Thumbnail,
		GenerateID: generateID,
		Now:        timeNow,
		Events:     services.Events,
	}
}

// productInput is the editable part of a product.
type productInput struct {
	Name          string `json:"Name"`
	Description   string `json:"Description"`
	Price         int64  `json:"Price"`
	StockQuantity int    `json:"StockQuantity"`
	SKU           string `json:"SKU"`
	Category      string `json:"Category"`
	ExpiryDate    string `json:"ExpiryDate"`
	Discount      int    `json:"Discount"`
}

func (in productInput) product() domainSupplement.Product {
	return domainSupplement.Product{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		SKU:           in.SKU,
		Category:      in.Category,
		ExpiryDate:    in.ExpiryDate,
		Discount:      in.Discount,
	}
}

// handleProducts handles GET /api/products?category=
func handleProducts(w http.ResponseWriter, r *http.Request) {
	views, err := projections.QueryProducts(r.Context(), r.URL.Query().Get("category"), stores.SupplementStore)
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, views)
}

// handleAddProduct handles POST /api/products (admin)
// The body is the product as JSON, or a multipart form with the JSON in a
// "product" field and an optional "image" file.
func handleAddProduct(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input productInput
	var image []byte
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}
		dec := json.NewDecoder(strings.NewReader(r.FormValue("product")))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&input); err != nil {
			http.Error(w, "invalid product JSON", http.StatusBadRequest)
			return
		}
		if file, _, err := r.FormFile("image"); err == nil {
			defer file.Close()
			image, err = io.ReadAll(io.LimitReader(file, maxImageBytes))
			if err != nil {
				http.Error(w, "failed to read image", http.StatusBadRequest)
				return
			}
		}
	} else if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	p, err := orchestrators.ExecuteAddProduct(r.Context(), orchestrators.AddProductInput{
		Product: input.product(),
		Image:   image,
		ActorID: sess.AccountID,
	}, supplementDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleUpdateStock handles POST /api/products/{id}/stock (admin)
func handleUpdateStock(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Quantity int `json:"Quantity"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	p, err := orchestrators.ExecuteUpdateStock(r.Context(), r.PathValue("id"), input.Quantity, supplementDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleApplyDiscount handles POST /api/products/{id}/discount (admin)
func handleApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Percent int `json:"Percent"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	p, err := orchestrators.ExecuteApplyDiscount(r.Context(), r.PathValue("id"), input.Percent, supplementDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleLowStock handles GET /api/products/low-stock (admin)
func handleLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := projections.QueryLowStock(r.Context(), stores.SupplementStore)
	if err != nil {
		internalError(w, err)
		return
	}
	writeList(w, products)
}

// handleProductReviews handles GET /api/products/{id}/reviews
func handleProductReviews(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryProductReviews(r.Context(), r.PathValue("id"), stores.SupplementStore)
	if err != nil {
		writeError(w, err)
		return
	}
	res.Reviews = nonNil(res.Reviews)
	writeJSON(w, http.StatusOK, res)
}

// handleAddReview handles POST /api/products/{id}/reviews
func handleAddReview(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		MemberID string `json:"MemberID"`
		Rating   int    `json:"Rating"`
		Comment  string `json:"Comment"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	memberID, ok := memberScope(w, r, sess, input.MemberID)
	if !ok {
		return
	}
	review, err := orchestrators.ExecuteAddReview(r.Context(), domainSupplement.Review{
		ProductID: r.PathValue("id"),
		MemberID:  memberID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}, supplementDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// handleToggleWishlist handles POST /api/wishlist/{product}
func handleToggleWishlist(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	added, err := orchestrators.ExecuteToggleWishlist(r.Context(), memberID, r.PathValue("product"), supplementDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"Added": added})
}

// handleWishlist handles GET /api/wishlist?member_id=
func handleWishlist(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	memberID, ok := memberScope(w, r, sess, r.URL.Query().Get("member_id"))
	if !ok {
		return
	}
	items, err := projections.QueryWishlist(r.Context(), memberID, stores.SupplementStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, items)
}
